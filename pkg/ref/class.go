package ref

import (
	"reflect"

	"github.com/go-logr/logr"

	"github.com/nieomylnieja/goref/pkg/docblock"
)

// ObjectReport is everything the inspector shows about an object.
type ObjectReport struct {
	// Chain lists the object's classes, oldest ancestor first.
	Chain      []ClassDescriptor
	Interfaces []TypeRef
	Traits     []TypeRef
	Constants  []Constant
	Properties []PropertyValue
	Methods    []Method
}

// PropertyValue is a property along with its value read at inspection time.
type PropertyValue struct {
	Property
	Value any
}

// IsEmpty reports whether the report has nothing to list besides its class chain and traits.
func (r ObjectReport) IsEmpty() bool {
	return len(r.Interfaces) == 0 &&
		len(r.Constants) == 0 &&
		len(r.Properties) == 0 &&
		len(r.Methods) == 0
}

type classBuilder struct {
	reflector Reflector
	log       logr.Logger
}

func (b classBuilder) describe(obj reflect.Value) ObjectReport {
	class := b.reflector.ClassOf(obj)
	report := ObjectReport{
		Chain:      b.chain(class),
		Interfaces: class.Interfaces(),
		Traits:     class.Traits(),
		Constants:  class.Constants(),
	}
	for _, prop := range class.Properties() {
		if prop.Visibility == Private {
			continue
		}
		value, err := b.reflector.ReadProperty(obj, prop)
		if err != nil {
			b.log.V(1).Info("skipping inaccessible property",
				"class", class.Name(), "property", prop.Name, "error", err.Error())
			continue
		}
		report.Properties = append(report.Properties, PropertyValue{Property: prop, Value: value})
	}
	for _, method := range class.Methods() {
		if method.Visibility == Private {
			continue
		}
		report.Methods = append(report.Methods, method)
	}
	return report
}

// chain walks the parent relation and returns the ancestors, oldest first.
func (b classBuilder) chain(class Class) []ClassDescriptor {
	var classes []Class
	seen := make(map[string]bool)
	// A struct may embed a pointer to its own type.
	for c := class; c != nil && !seen[c.Name()]; c = c.Parent() {
		seen[c.Name()] = true
		classes = append(classes, c)
	}
	chain := make([]ClassDescriptor, len(classes))
	for i, c := range classes {
		flags := c.Flags()
		chain[len(classes)-1-i] = ClassDescriptor{
			Name: c.Name(),
			Modifiers: Modifiers(nil).
				with(ModifierAbstract, flags.Abstract).
				with(ModifierFinal, flags.Final).
				with(ModifierCloneable, flags.Cloneable).
				with(ModifierIterable, flags.Iterable),
			Tooltip: tooltip(c.Doc(), c.Provenance()),
		}
	}
	for i := 1; i < len(chain); i++ {
		chain[i].Parent = &chain[i-1]
	}
	return chain
}

// tooltip prefers provenance of built-in declarations over their documentation.
func tooltip(doc, provenance string) string {
	if provenance != "" {
		return provenance
	}
	return docblock.Parse(doc).Summary()
}

// deprecated reports whether the documentation marks the declaration as deprecated.
func deprecated(doc string) bool {
	_, ok := docblock.Parse(doc).Deprecated()
	return ok
}
