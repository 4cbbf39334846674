package ref

import (
	"cmp"
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nieomylnieja/goref/pkg/docblock"
)

// Inspector builds [Node] trees out of arbitrary values.
// It is immutable and safe for concurrent use.
type Inspector struct {
	options options
}

// New creates an [Inspector].
// It fails if the provided options do not pass validation.
func New(opts ...Option) (*Inspector, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Inspector{options: o}, nil
}

var defaultInspector = func() *Inspector {
	inspector, err := New()
	if err != nil {
		panic(err)
	}
	return inspector
}()

// Inspect builds the [Node] tree of v using the default [Inspector].
func Inspect(v any) *Node {
	return defaultInspector.Inspect(v)
}

// InspectAll calls [Inspect] for each of vs.
func InspectAll(vs ...any) []*Node {
	return defaultInspector.InspectAll(vs...)
}

// Inspect builds the [Node] tree of v.
// Only the returned root node is expanded.
// It never panics, if the inspection fails a degraded node describing the failure is returned.
func (in *Inspector) Inspect(v any) (node *Node) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("%v", r)
			in.options.log.Error(err, "inspection failed", "type", fmt.Sprintf("%T", v))
			node = &Node{
				Kind:        KindResource,
				DisplayType: fmt.Sprintf("%T", v),
				Value:       in.options.escaper("inspection failed"),
				Tooltip:     err.Error(),
				Expanded:    true,
			}
		}
	}()
	s := &inspection{
		escape: in.options.escaper,
		classes: classBuilder{
			reflector: in.options.reflector,
			log:       in.options.log,
		},
		path: make(map[identity]struct{}),
	}
	node = s.inspect(reflect.ValueOf(v))
	node.Expanded = true
	return node
}

// InspectAll inspects each of vs independently.
func (in *Inspector) InspectAll(vs ...any) []*Node {
	nodes := make([]*Node, 0, len(vs))
	for _, v := range vs {
		nodes = append(nodes, in.Inspect(v))
	}
	return nodes
}

// identity distinguishes values by where they live rather than what they contain.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// inspection holds the state of a single top-level [Inspector.Inspect] call.
type inspection struct {
	escape  Escaper
	classes classBuilder
	// path contains identities of the values currently being descended into.
	path map[identity]struct{}
}

// enter pushes id onto the path, it returns false if id is already there.
func (s *inspection) enter(id identity) bool {
	if _, ok := s.path[id]; ok {
		return false
	}
	s.path[id] = struct{}{}
	return true
}

func (s *inspection) leave(id identity) {
	delete(s.path, id)
}

func (s *inspection) inspect(v reflect.Value) *Node {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return s.null("nil")
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return s.null("nil")
	}
	typ := v.Type()
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return s.null(typ.String())
		}
	}

	switch v.Kind() {
	case reflect.Bool:
		return s.scalar(KindBool, typ.String(), strconv.FormatBool(v.Bool()))
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return s.resource(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return s.scalar(KindInt, typ.String(), strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return s.scalar(KindInt, typ.String(), strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		return s.scalar(KindFloat, typ.String(), strconv.FormatFloat(v.Float(), 'g', -1, typ.Bits()))
	case reflect.Complex64, reflect.Complex128:
		return s.scalar(KindFloat, typ.String(), strconv.FormatComplex(v.Complex(), 'g', -1, typ.Bits()))
	case reflect.String:
		return s.scalar(KindString, fmt.Sprintf("%s (%d)", typ, v.Len()), v.String())
	case reflect.Slice, reflect.Array, reflect.Map:
		return s.composite(v)
	case reflect.Struct:
		return s.object(v, identity{}, false)
	case reflect.Pointer:
		return s.pointer(v)
	default:
		panic(fmt.Sprintf("unsupported kind %s of %s", v.Kind(), typ))
	}
}

func (s *inspection) null(displayType string) *Node {
	return &Node{Kind: KindNull, DisplayType: displayType, Value: "nil"}
}

func (s *inspection) scalar(kind Kind, displayType, value string) *Node {
	return &Node{Kind: kind, DisplayType: displayType, Value: s.escape(value)}
}

func (s *inspection) recursion(displayType string) *Node {
	return &Node{Kind: KindRecursion, DisplayType: displayType, Value: "Recursion"}
}

func (s *inspection) resource(v reflect.Value) *Node {
	var category, value string
	switch v.Kind() {
	case reflect.Chan:
		category = "chan"
		value = fmt.Sprintf("%s len=%d cap=%d", v.Type(), v.Len(), v.Cap())
	case reflect.Func:
		category = "func"
		value = v.Type().String()
		if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
			value = fn.Name()
		}
	default:
		category = v.Type().String()
		value = fmt.Sprintf("%#x", v.Pointer())
	}
	return &Node{
		Kind:        KindResource,
		DisplayType: fmt.Sprintf("resource (%s)", category),
		Value:       s.escape(value),
	}
}

// pointer follows pointers transparently, pointers to structs become objects.
func (s *inspection) pointer(v reflect.Value) *Node {
	id := identity{typ: v.Type(), ptr: v.Pointer()}
	if v.Elem().Kind() == reflect.Struct {
		return s.object(v, id, true)
	}
	if !s.enter(id) {
		return s.recursion(v.Type().String())
	}
	defer s.leave(id)
	return s.inspect(v.Elem())
}

func (s *inspection) composite(v reflect.Value) *Node {
	typ := v.Type()
	node := &Node{
		Kind:        KindComposite,
		DisplayType: fmt.Sprintf("%s (%d)", typ, v.Len()),
	}
	if v.Len() == 0 {
		return node
	}
	var id identity
	switch v.Kind() {
	case reflect.Slice:
		id = identity{typ: typ, ptr: v.Pointer(), len: v.Len()}
	case reflect.Map:
		id = identity{typ: typ, ptr: v.Pointer()}
	}
	// Arrays are values, only a pointer to them can make a cycle.
	if id.typ != nil {
		if !s.enter(id) {
			return s.recursion(typ.String())
		}
		defer s.leave(id)
	}

	if v.Kind() == reflect.Map {
		// Entries are collected in pairs, a NaN key cannot be looked up again.
		entries := make([][2]reflect.Value, 0, v.Len())
		for iter := v.MapRange(); iter.Next(); {
			entries = append(entries, [2]reflect.Value{iter.Key(), iter.Value()})
		}
		slices.SortFunc(entries, func(a, b [2]reflect.Value) int {
			return compareKeys(a[0], b[0])
		})
		for _, entry := range entries {
			node.Children = append(node.Children, s.element(entry[0], entry[1]))
		}
		return node
	}
	for i := range v.Len() {
		node.Children = append(node.Children, s.element(reflect.ValueOf(i), v.Index(i)))
	}
	return node
}

func (s *inspection) element(key, value reflect.Value) Edge {
	keyNode := s.inspect(key)
	keyNode.Tooltip = keyNode.DisplayType
	if keyNode.Kind == KindString {
		keyNode.Tooltip = "Key: " + keyNode.DisplayType
	}
	return Edge{
		Kind:  EdgeArrayElement,
		Label: s.escape(fmt.Sprint(key)),
		Key:   keyNode,
		Child: s.inspect(value),
	}
}

// compareKeys orders map keys naturally when they share a kind
// and by their printed form otherwise.
func compareKeys(a, b reflect.Value) int {
	a, b = unwrapInterface(a), unwrapInterface(b)
	if a.IsValid() && b.IsValid() && a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.String:
			return strings.Compare(a.String(), b.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cmp.Compare(a.Int(), b.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return cmp.Compare(a.Uint(), b.Uint())
		case reflect.Float32, reflect.Float64:
			return cmp.Compare(a.Float(), b.Float())
		case reflect.Bool:
			return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func unwrapInterface(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *inspection) object(v reflect.Value, id identity, hasIdentity bool) *Node {
	if hasIdentity {
		if !s.enter(id) {
			chain := s.classes.chain(s.classes.reflector.ClassOf(v))
			node := s.recursion(chainName(chain))
			node.Classes = chain
			return node
		}
		defer s.leave(id)
	}

	report := s.classes.describe(v)
	node := &Node{
		Kind:        KindObject,
		DisplayType: chainName(report.Chain),
		Classes:     report.Chain,
	}
	if n := len(report.Chain); n > 0 {
		node.Tooltip = report.Chain[n-1].Tooltip
	}
	if report.IsEmpty() {
		return node
	}
	className := ""
	if n := len(report.Chain); n > 0 {
		className = report.Chain[n-1].Name
	}

	for _, iface := range report.Interfaces {
		node.Children = append(node.Children, Edge{
			Kind:    EdgeInterface,
			Label:   s.escape(iface.Name),
			Tooltip: tooltip(iface.Doc, iface.Provenance),
		})
	}
	for _, c := range report.Constants {
		node.Children = append(node.Children, Edge{
			Kind:      EdgeConstant,
			Label:     s.escape(c.Name),
			Modifiers: Modifiers(nil).with(ModifierDeprecated, deprecated(c.Doc)),
			Tooltip:   docblock.Parse(c.Doc).Summary(),
			Child:     s.inspect(reflect.ValueOf(c.Value)),
		})
	}
	for _, trait := range report.Traits {
		node.Children = append(node.Children, Edge{
			Kind:    EdgeTrait,
			Label:   s.escape(trait.Name),
			Tooltip: tooltip(trait.Doc, trait.Provenance),
		})
	}
	for _, prop := range report.Properties {
		node.Children = append(node.Children, Edge{
			Kind:  EdgeProperty,
			Label: s.escape(prop.Name),
			Modifiers: Modifiers(nil).
				with(ModifierStatic, prop.Static).
				with(ModifierProtected, prop.Visibility == Protected).
				with(ModifierDeprecated, deprecated(prop.Doc)),
			Tooltip: docblock.Parse(prop.Doc).Summary(),
			Child:   s.inspect(reflect.ValueOf(prop.Value)),
		})
	}
	for _, method := range report.Methods {
		node.Children = append(node.Children, s.method(className, method))
	}
	return node
}

func (s *inspection) method(className string, m Method) Edge {
	doc := docblock.Parse(m.Doc)
	_, isDeprecated := doc.Deprecated()
	inherited := m.DeclaringClass != "" && m.DeclaringClass != className
	edge := Edge{
		Kind:  EdgeMethod,
		Label: s.escape(signature(m)),
		Modifiers: Modifiers(nil).
			with(ModifierAbstract, m.Abstract).
			with(ModifierFinal, m.Final).
			with(ModifierStatic, m.Static).
			with(ModifierProtected, m.Visibility == Protected).
			with(ModifierInherited, inherited).
			with(ModifierDeprecated, isDeprecated),
		Tooltip: m.Provenance,
	}
	if edge.Tooltip == "" {
		edge.Tooltip = doc.Summary()
	}
	if inherited {
		edge.InheritedFrom = shortName(m.DeclaringClass)
	}
	for _, p := range m.Params {
		param := Param{
			Name:        p.Name,
			Type:        p.Type,
			Optional:    p.Optional,
			ByReference: p.ByReference,
		}
		if tag, ok := doc.Param(p.Name); ok {
			param.Tooltip = tag.Description
		}
		if p.HasDefault {
			param.Default = s.inspect(reflect.ValueOf(p.Default))
		}
		edge.Params = append(edge.Params, param)
	}
	return edge
}

// signature renders a method the way it is declared, e.g. "Scale(factor float64) float64".
func signature(m Method) string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Type != "" {
			b.WriteByte(' ')
			b.WriteString(p.Type)
		}
	}
	b.WriteByte(')')
	switch len(m.Results) {
	case 0:
	case 1:
		b.WriteByte(' ')
		b.WriteString(m.Results[0])
	default:
		b.WriteString(" (")
		b.WriteString(strings.Join(m.Results, ", "))
		b.WriteByte(')')
	}
	return b.String()
}
