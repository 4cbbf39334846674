// Package ref inspects arbitrary Go values and describes them as a tree of [Node].
//
// It is a debugging aid, given any value it produces a navigable description
// of its shape and content without the caller writing per-type logic.
// The resulting tree is meant to be displayed, see the render package,
// it is not a serialization format and cannot be turned back into the value.
//
// # Basic Usage
//
//	node := ref.Inspect(map[string]any{"answer": 42})
//	if err := render.Text(os.Stdout, node); err != nil {
//	    log.Fatal(err)
//	}
//
// Every call to [Inspect] returns a single root [Node] with [Node.Expanded] set.
// [InspectAll] inspects multiple values independently of each other.
//
// # Classification
//
// Values are classified in the following order:
//   - nil values, including nil pointers, maps, slices, channels and functions
//   - booleans
//   - resources: channels, functions and unsafe pointers
//   - integers and floating point numbers, complex numbers included
//   - strings, labeled with their byte length, e.g. "string (5)"
//   - composites: slices, arrays and maps, maps are listed in sorted key order
//   - objects: structs, pointers to structs included
//
// Other pointers are followed transparently.
//
// # Objects
//
// Go has no classes, objects are described through the following mapping:
//   - the struct type is the class
//   - the first embedded struct is the parent class, other embedded structs are traits
//   - a struct embedding an interface is abstract, unexported types are final
//   - exported fields and methods are public, unexported ones are protected
//   - methods promoted from embedded types are inherited
//
// Documentation, parameter names and constants are not available at runtime,
// they are read from the source code with a [DocSource]:
//
//	index, err := ref.NewDocIndex("./...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	inspector, err := ref.New(ref.WithDocSource(index))
//
// Member documentation follows the docblock package conventions, in particular
// the "@param" tags are matched with method parameters by name.
//
// # Cycles
//
// Pointers, maps and slices are tracked by identity along the current descent path.
// Reaching the same identity again yields a [KindRecursion] node.
// Values referenced twice from unrelated branches are described twice.
package ref
