package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/melonlang/melon/lang/token"
)

func TestTokenString(t *testing.T) {
	assert.Equal(t, "+", token.PLUS.String())
	assert.Equal(t, "..", token.RANGE.String())
	assert.Equal(t, "while", token.WHILE.String())
}

func TestIsOverloadable(t *testing.T) {
	assert.True(t, token.PLUS.IsOverloadable())
	assert.True(t, token.EQL.IsOverloadable())
	assert.False(t, token.BANG.IsOverloadable())
	assert.False(t, token.EQ.IsOverloadable())
}

func TestCoreMethodName(t *testing.T) {
	assert.Equal(t, "$add", token.PLUS.CoreMethodName())
	assert.Equal(t, "$eq", token.EQL.CoreMethodName())
	assert.Equal(t, "", token.BANG.CoreMethodName())
}

func TestPositionString(t *testing.T) {
	p := token.Position{Line: 3, Col: 5}
	assert.Equal(t, "3:5", p.String())
	p.Filename = "main.melon"
	assert.Equal(t, "main.melon:3:5", p.String())
}
