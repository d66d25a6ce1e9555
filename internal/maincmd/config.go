package maincmd

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config holds the machine's tunable limits (lang/machine.Thread.MaxSteps,
// MaxCallStackDepth), loaded from an optional melon.yaml file and then
// overridden by MELON_-prefixed environment variables, which always win —
// a file commits a project's defaults to source control, while the
// environment is for per-invocation overrides (CI step budgets, a stricter
// sandbox limit).
type Config struct {
	MaxSteps          int `yaml:"maxSteps" env:"MAX_STEPS"`
	MaxCallStackDepth int `yaml:"maxCallStackDepth" env:"MAX_CALL_STACK_DEPTH"`
}

// LoadConfig seeds hardcoded defaults into a Config, overwrites them with
// path (if non-empty and it exists) parsed as YAML, then overwrites the
// result with MELON_MAX_STEPS / MELON_MAX_CALL_STACK_DEPTH, each applied
// only if actually set. Neither env field carries an envDefault: with one,
// env.ParseWithOptions would reapply it whenever the variable is unset,
// silently discarding whatever the yaml file just loaded. A missing file at
// path is not an error: defaults plus environment still apply, only a
// genuinely malformed file or environment value fails.
func LoadConfig(path string) (Config, error) {
	cfg := Config{MaxCallStackDepth: 256}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// no project config, defaults plus environment still apply
		default:
			return cfg, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "MELON_"}); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

// defaultConfigPath is tried when --config isn't given; a melon.yaml in the
// current directory is picked up automatically, matching a typical project
// config convention without requiring a flag on every invocation.
const defaultConfigPath = "melon.yaml"
