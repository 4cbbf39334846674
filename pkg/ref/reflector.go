package ref

import (
	"reflect"

	"github.com/nieomylnieja/goref/internal/godoc"
)

// Reflector exposes the reflective view of objects which the inspector relies on.
// The default implementation, returned by [NewRuntimeReflector], is built on
// top of the reflect package; tests and alternative object models can inject
// their own through [WithReflector].
type Reflector interface {
	// ClassOf returns the runtime class of obj, a struct or a pointer to a struct.
	ClassOf(obj reflect.Value) Class
	// ReadProperty returns the current value of prop,
	// elevating access to the property for the duration of the read if needed.
	ReadProperty(obj reflect.Value, prop Property) (any, error)
}

// Class is the reflective handle of an object's class.
type Class interface {
	Name() string
	ShortName() string
	// Parent returns nil when the class has no parent.
	Parent() Class
	Flags() ClassFlags
	// Doc returns the raw documentation comment of the class.
	Doc() string
	// Provenance describes built-in classes, it is empty for user defined ones.
	Provenance() string
	Interfaces() []TypeRef
	Traits() []TypeRef
	Constants() []Constant
	Properties() []Property
	Methods() []Method
}

// DocSource provides source level information about named types.
type DocSource interface {
	Lookup(pkgPath, name string) (godoc.TypeDoc, bool)
}

// NewDocIndex loads the packages matching patterns from the current module
// and returns a [DocSource] backed by their source code.
// Patterns default to "./...".
func NewDocIndex(patterns ...string) (DocSource, error) {
	index, err := godoc.NewIndex(patterns...)
	if err != nil {
		return nil, err
	}
	return index, nil
}

// Visibility of a member.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

// ClassFlags are the class level modifiers.
type ClassFlags struct {
	Abstract  bool
	Final     bool
	Cloneable bool
	Iterable  bool
}

// TypeRef names an interface or trait.
type TypeRef struct {
	Name       string
	Doc        string
	Provenance string
}

type Constant struct {
	Name  string
	Value any
	Doc   string
}

type Property struct {
	Name       string
	Visibility Visibility
	Static     bool
	Doc        string
	// Index locates the property for the Reflector which produced it.
	Index []int
}

type Method struct {
	Name       string
	Visibility Visibility
	Static     bool
	Abstract   bool
	Final      bool
	// DeclaringClass is the name of the class which declares the method.
	DeclaringClass string
	Params         []Parameter
	Results        []string
	Doc            string
	Provenance     string
}

type Parameter struct {
	Name        string
	Type        string
	Optional    bool
	ByReference bool
	HasDefault  bool
	Default     any
}
