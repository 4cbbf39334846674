package ref

import (
	"slices"
	"strings"
)

// Kind classifies a [Node].
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindResource
	KindComposite
	KindObject
	KindRecursion
)

var kindNames = [...]string{
	KindNull:      "null",
	KindBool:      "bool",
	KindInt:       "int",
	KindFloat:     "float",
	KindString:    "string",
	KindResource:  "resource",
	KindComposite: "composite",
	KindObject:    "object",
	KindRecursion: "recursion",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// EdgeKind classifies an [Edge].
type EdgeKind int

const (
	EdgeArrayElement EdgeKind = iota
	EdgeProperty
	EdgeMethod
	EdgeConstant
	EdgeInterface
	EdgeTrait
)

var edgeKindNames = [...]string{
	EdgeArrayElement: "element",
	EdgeProperty:     "property",
	EdgeMethod:       "method",
	EdgeConstant:     "constant",
	EdgeInterface:    "interface",
	EdgeTrait:        "trait",
}

func (k EdgeKind) String() string {
	if k < 0 || int(k) >= len(edgeKindNames) {
		return "unknown"
	}
	return edgeKindNames[k]
}

func (k EdgeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Modifier is a badge attached to classes and members.
type Modifier int

const (
	ModifierAbstract Modifier = iota
	ModifierFinal
	ModifierStatic
	ModifierProtected
	ModifierCloneable
	ModifierIterable
	ModifierInherited
	ModifierDeprecated
)

var modifierNames = [...]string{
	ModifierAbstract:   "abstract",
	ModifierFinal:      "final",
	ModifierStatic:     "static",
	ModifierProtected:  "protected",
	ModifierCloneable:  "cloneable",
	ModifierIterable:   "iterable",
	ModifierInherited:  "inherited",
	ModifierDeprecated: "deprecated",
}

var modifierTooltips = [...]string{
	ModifierAbstract:   "This is abstract and has no implementation of its own",
	ModifierFinal:      "This cannot be embedded or referenced outside of its package",
	ModifierStatic:     "This belongs to the type rather than to an instance",
	ModifierProtected:  "This is not exported",
	ModifierCloneable:  "Instances of this class can be cloned",
	ModifierIterable:   "Instances of this class are iterable",
	ModifierInherited:  "This is promoted from an embedded type",
	ModifierDeprecated: "This is deprecated",
}

func (m Modifier) String() string {
	if m < 0 || int(m) >= len(modifierNames) {
		return "unknown"
	}
	return modifierNames[m]
}

func (m Modifier) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Tooltip is the fixed human readable explanation of the modifier.
func (m Modifier) Tooltip() string {
	if m < 0 || int(m) >= len(modifierTooltips) {
		return ""
	}
	return modifierTooltips[m]
}

// Modifiers is an ordered set of [Modifier].
type Modifiers []Modifier

// Has reports whether the set contains m.
func (m Modifiers) Has(mod Modifier) bool {
	return slices.Contains(m, mod)
}

func (m Modifiers) with(mod Modifier, when bool) Modifiers {
	if !when || m.Has(mod) {
		return m
	}
	return append(m, mod)
}

// Node is a single inspected value.
type Node struct {
	Kind Kind `json:"kind"`
	// DisplayType is the label shown to the user, e.g. "string (5)" or "[]int (3)".
	DisplayType string `json:"type"`
	// Value is the textual form of the value, escaped for the output medium.
	Value   string `json:"value,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	// Classes holds the class chain of objects, oldest ancestor first.
	Classes  []ClassDescriptor `json:"classes,omitempty"`
	Children []Edge            `json:"children,omitempty"`
	// Expanded is only set on the root node of an inspection.
	Expanded bool `json:"expanded,omitempty"`
}

// Edge links a composite or object [Node] with one of its members.
type Edge struct {
	Kind EdgeKind `json:"kind"`
	// Label is the rendered key or member signature.
	Label     string    `json:"label"`
	Modifiers Modifiers `json:"modifiers,omitempty"`
	Tooltip   string    `json:"tooltip,omitempty"`
	// Key describes the key of container elements.
	Key *Node `json:"key,omitempty"`
	// Params lists method parameters.
	Params []Param `json:"params,omitempty"`
	// InheritedFrom names the declaring class of inherited methods.
	InheritedFrom string `json:"inheritedFrom,omitempty"`
	Child         *Node  `json:"child,omitempty"`
}

// InheritedTooltip explains where an inherited member comes from.
func (e Edge) InheritedTooltip() string {
	if e.InheritedFrom == "" {
		return ""
	}
	return "Inherited from ::" + e.InheritedFrom
}

// Param is a method parameter.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
	ByReference bool   `json:"byReference,omitempty"`
	Tooltip     string `json:"tooltip,omitempty"`
	// Default is only set when the parameter declares a default value.
	Default *Node `json:"default,omitempty"`
}

// ClassDescriptor is one class of an object's class chain.
type ClassDescriptor struct {
	Name      string           `json:"name"`
	Modifiers Modifiers        `json:"modifiers,omitempty"`
	Tooltip   string           `json:"tooltip,omitempty"`
	Parent    *ClassDescriptor `json:"-"`
}

// chainName joins class names the way objects are labeled: "Base :: Derived".
func chainName(chain []ClassDescriptor) string {
	names := make([]string, 0, len(chain))
	for _, c := range chain {
		names = append(names, c.Name)
	}
	return strings.Join(names, " :: ")
}

// Walk calls fn for n and every node reachable from it, depth first.
// Returning false from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, edge := range n.Children {
		edge.Key.Walk(fn)
		for _, p := range edge.Params {
			p.Default.Walk(fn)
		}
		edge.Child.Walk(fn)
	}
}
