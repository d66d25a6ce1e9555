package types

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Class is a Melon class value: a name, an instance-variable slot count, a
// name -> value member table (fields bound as Int(slot), methods bound as
// *Closure), and, if the class declares any static members, a metaclass
// carrying those static members' own name -> value table plus the backing
// storage for their values (StaticVars plays the role the data model
// describes as "static variables live as instance members of its metaclass
// instance": rather than allocating a real *Instance of Metaclass, the Class
// itself is the receiver the metaclass's $init runs against, and StaticVars
// is that receiver's var storage).
type Class struct {
	Name        string
	NumInstVars int
	Members     *swiss.Map[string, Value]
	Metaclass   *Class
	MetaInited  bool
	StaticVars  []Value
}

var _ Value = (*Class)(nil)

// NewClass allocates a class with an empty member table.
func NewClass(name string, numInstVars int) *Class {
	return &Class{Name: name, NumInstVars: numInstVars, Members: swiss.NewMap[string, Value](8)}
}

// NewMetaclass allocates metaclass, the static-member home for class, with
// numStaticVars backing slots.
func NewMetaclass(class *Class, numStaticVars int) {
	class.Metaclass = &Class{Name: "meta " + class.Name, NumInstVars: numStaticVars, Members: swiss.NewMap[string, Value](4)}
	class.StaticVars = make([]Value, numStaticVars)
}

func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.Name) }
func (c *Class) Type() string   { return "class" }
func (c *Class) Truth() bool    { return true }

// Lookup finds a bound member (an Int field slot or a *Closure method) by
// name, the generic $loadField protocol's backing for a string key.
func (c *Class) Lookup(name string) (Value, bool) {
	return c.Members.Get(name)
}

// Bind registers name in the member table, overwriting any prior binding.
func (c *Class) Bind(name string, v Value) {
	c.Members.Put(name, v)
}

// Instance is a Melon object: a reference to its Class plus one Value per
// instance variable slot (Vars always has length Class.NumInstVars).
type Instance struct {
	Class *Class
	Vars  []Value
}

var _ Value = (*Instance)(nil)

// NewInstance allocates a zeroed (all-Null) instance of class.
func NewInstance(class *Class) *Instance {
	vars := make([]Value, class.NumInstVars)
	for i := range vars {
		vars[i] = NullValue
	}
	return &Instance{Class: class, Vars: vars}
}

func (in *Instance) String() string { return fmt.Sprintf("<instance of %s>", in.Class.Name) }
func (in *Instance) Type() string   { return in.Class.Name }
func (in *Instance) Truth() bool    { return true }
