package ref

import (
	"encoding"
	"encoding/json"
	"fmt"
	"go/token"
	"io"
	"reflect"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/nieomylnieja/goref/internal/godoc"
	"github.com/nieomylnieja/goref/internal/typeinfo"
)

// DefaultInterfaces are the interfaces reported for objects unless [WithInterfaces] is used.
var DefaultInterfaces = []reflect.Type{
	reflect.TypeFor[error](),
	reflect.TypeFor[fmt.Stringer](),
	reflect.TypeFor[fmt.GoStringer](),
	reflect.TypeFor[encoding.TextMarshaler](),
	reflect.TypeFor[encoding.TextUnmarshaler](),
	reflect.TypeFor[json.Marshaler](),
	reflect.TypeFor[json.Unmarshaler](),
	reflect.TypeFor[io.Reader](),
	reflect.TypeFor[io.Writer](),
	reflect.TypeFor[io.Closer](),
	reflect.TypeFor[sort.Interface](),
}

// NewRuntimeReflector returns a [Reflector] which maps Go types onto classes:
//   - a struct type is a class, its first embedded struct is the parent class
//     and the remaining embedded structs are its traits,
//   - exported fields and methods are public, unexported ones declared in the
//     class's package are protected, other unexported ones are private,
//   - constants are the typed constants of the class's field types declared in
//     the class's own package.
//
// Documentation, parameter names, unexported methods and constants are only
// available when docs is not nil.
func NewRuntimeReflector(docs DocSource, interfaces ...reflect.Type) Reflector {
	return &runtimeReflector{docs: docs, interfaces: interfaces}
}

type runtimeReflector struct {
	docs       DocSource
	interfaces []reflect.Type
}

func (r *runtimeReflector) ClassOf(obj reflect.Value) Class {
	typ := obj.Type()
	if typ.Kind() != reflect.Pointer {
		c := r.class(typ)
		// A struct value can only call its value receiver methods.
		c.methodSet = typ
		return c
	}
	return r.class(typ.Elem())
}

func (r *runtimeReflector) ReadProperty(obj reflect.Value, prop Property) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			value, err = nil, errors.Errorf("failed to read property %s: %v", prop.Name, rec)
		}
	}()
	obj = addressable(obj)
	if obj.Kind() != reflect.Struct {
		return nil, errors.Errorf("cannot read property %s of %s", prop.Name, obj.Type())
	}
	field, err := obj.FieldByIndexErr(prop.Index)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reach property %s", prop.Name)
	}
	value, err = readField(field)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read property %s", prop.Name)
	}
	return value, nil
}

// addressable dereferences pointers and copies non-addressable structs,
// so that unexported fields can be read with elevated access.
func addressable(obj reflect.Value) reflect.Value {
	if obj.Kind() == reflect.Pointer {
		return obj.Elem()
	}
	if obj.CanAddr() {
		return obj
	}
	cp := reflect.New(obj.Type()).Elem()
	cp.Set(obj)
	return cp
}

func (r *runtimeReflector) class(typ reflect.Type) *runtimeClass {
	ptr := reflect.PointerTo(typ)
	c := &runtimeClass{reflector: r, typ: typ, ptr: ptr, methodSet: ptr}
	c.src, c.hasSrc = r.lookup(typ)
	return c
}

func (r *runtimeReflector) lookup(typ reflect.Type) (godoc.TypeDoc, bool) {
	if r.docs == nil || typ.Name() == "" {
		return godoc.TypeDoc{}, false
	}
	return r.docs.Lookup(typ.PkgPath(), typ.Name())
}

// declares reports whether the struct type declares the method itself,
// as opposed to having it promoted from an embedded field.
func (r *runtimeReflector) declares(typ reflect.Type, name string) bool {
	if src, ok := r.lookup(typ); ok {
		_, declared := src.Methods[name]
		return declared
	}
	// Promoted methods are implemented by compiler generated wrappers.
	for _, t := range []reflect.Type{typ, reflect.PointerTo(typ)} {
		m, ok := t.MethodByName(name)
		if !ok {
			continue
		}
		fn := runtime.FuncForPC(m.Func.Pointer())
		if fn == nil {
			continue
		}
		if file, _ := fn.FileLine(fn.Entry()); file != "<autogenerated>" {
			return true
		}
	}
	return false
}

// promotedFrom finds the shallowest embedded type which declares the method.
func (r *runtimeReflector) promotedFrom(typ reflect.Type, name string) (declaring reflect.Type, isInterface bool) {
	seen := map[reflect.Type]bool{typ: true}
	level := []reflect.Type{typ}
	for len(level) > 0 {
		var next []reflect.Type
		for _, st := range level {
			for _, f := range embeddedFields(st) {
				ft := derefType(f.Type)
				switch ft.Kind() {
				case reflect.Interface:
					if _, ok := ft.MethodByName(name); ok {
						return ft, true
					}
				case reflect.Struct:
					if seen[ft] {
						continue
					}
					seen[ft] = true
					if r.declares(ft, name) {
						return ft, false
					}
					next = append(next, ft)
				}
			}
		}
		level = next
	}
	return nil, false
}

func (r *runtimeReflector) typeRef(typ reflect.Type) TypeRef {
	ref := TypeRef{Name: typ.String(), Provenance: provenance(typ.PkgPath())}
	if src, ok := r.lookup(typ); ok {
		ref.Doc = src.Doc
	}
	return ref
}

type runtimeClass struct {
	reflector *runtimeReflector
	typ       reflect.Type
	ptr       reflect.Type
	methodSet reflect.Type
	src       godoc.TypeDoc
	hasSrc    bool
}

func (c *runtimeClass) Name() string      { return c.typ.String() }
func (c *runtimeClass) ShortName() string { return typeinfo.Get(c.typ).Name }
func (c *runtimeClass) Doc() string       { return c.src.Doc }

func (c *runtimeClass) Provenance() string { return provenance(c.typ.PkgPath()) }

func (c *runtimeClass) Parent() Class {
	embedded := embeddedStructs(c.typ)
	if len(embedded) == 0 {
		return nil
	}
	return c.reflector.class(derefType(embedded[0].Type))
}

func (c *runtimeClass) Flags() ClassFlags {
	flags := ClassFlags{
		Final: c.typ.Name() != "" && !token.IsExported(c.typ.Name()),
	}
	for _, f := range embeddedFields(c.typ) {
		if f.Type.Kind() == reflect.Interface {
			flags.Abstract = true
		}
	}
	for _, name := range []string{"Clone", "DeepCopy"} {
		if _, ok := c.ptr.MethodByName(name); ok {
			flags.Cloneable = true
		}
	}
	for i := range c.ptr.NumMethod() {
		m := c.ptr.Method(i).Type
		if m.NumIn() == 1 && m.NumOut() == 1 && isIterator(m.Out(0)) {
			flags.Iterable = true
		}
	}
	return flags
}

func (c *runtimeClass) Interfaces() []TypeRef {
	var refs []TypeRef
	for _, iface := range c.reflector.interfaces {
		if c.methodSet.Implements(iface) {
			refs = append(refs, c.reflector.typeRef(iface))
		}
	}
	return refs
}

func (c *runtimeClass) Traits() []TypeRef {
	embedded := embeddedStructs(c.typ)
	if len(embedded) < 2 {
		return nil
	}
	refs := make([]TypeRef, 0, len(embedded)-1)
	for _, f := range embedded[1:] {
		refs = append(refs, c.reflector.typeRef(derefType(f.Type)))
	}
	return refs
}

func (c *runtimeClass) Constants() []Constant {
	var consts []Constant
	seen := make(map[reflect.Type]bool)
	for i := range c.typ.NumField() {
		ft := c.typ.Field(i).Type
		if seen[ft] || ft.PkgPath() != c.typ.PkgPath() || ft.Kind() == reflect.Struct {
			continue
		}
		seen[ft] = true
		src, ok := c.reflector.lookup(ft)
		if !ok {
			continue
		}
		for _, cd := range src.Constants {
			v := reflect.ValueOf(cd.Value)
			if !v.CanConvert(ft) {
				continue
			}
			consts = append(consts, Constant{
				Name:  cd.Name,
				Value: v.Convert(ft).Interface(),
				Doc:   cd.Doc,
			})
		}
	}
	return consts
}

func (c *runtimeClass) Properties() []Property {
	var props []Property
	fields := reflect.VisibleFields(c.typ)
	for _, f := range fields {
		if f.Anonymous && derefType(f.Type).Kind() == reflect.Struct && !shadowed(f, fields) {
			// Represented by the parent class or a trait, its fields are promoted.
			continue
		}
		prop := Property{
			Name:       f.Name,
			Visibility: c.visibility(f),
			Index:      f.Index,
		}
		declaring := declaringStruct(c.typ, f.Index)
		if src, ok := c.reflector.lookup(declaring); ok {
			prop.Doc = src.Fields[f.Name]
		}
		props = append(props, prop)
	}
	return props
}

// shadowed reports whether the embedded struct has fields
// but none of them is promoted, so it can only be reached directly.
func shadowed(embedded reflect.StructField, visible []reflect.StructField) bool {
	if derefType(embedded.Type).NumField() == 0 {
		return false
	}
	for _, f := range visible {
		if len(f.Index) > len(embedded.Index) && slices.Equal(f.Index[:len(embedded.Index)], embedded.Index) {
			return false
		}
	}
	return true
}

func (c *runtimeClass) visibility(f reflect.StructField) Visibility {
	switch {
	case f.IsExported():
		return Public
	case f.PkgPath == c.typ.PkgPath():
		return Protected
	default:
		return Private
	}
}

func (c *runtimeClass) Methods() []Method {
	methods := make([]Method, 0, c.methodSet.NumMethod())
	for i := range c.methodSet.NumMethod() {
		methods = append(methods, c.method(c.methodSet.Method(i)))
	}
	if !c.hasSrc {
		return methods
	}
	var unexported []string
	byValue := c.methodSet == c.typ
	for name, md := range c.src.Methods {
		if byValue && md.PointerReceiver {
			continue
		}
		if !token.IsExported(name) {
			unexported = append(unexported, name)
		}
	}
	slices.Sort(unexported)
	for _, name := range unexported {
		md := c.src.Methods[name]
		m := Method{
			Name:           name,
			Visibility:     Protected,
			DeclaringClass: c.Name(),
			Doc:            md.Doc,
		}
		for i, paramName := range md.Params {
			m.Params = append(m.Params, Parameter{
				Name:     paramNameOrDefault(paramName, i),
				Optional: md.Variadic && i == len(md.Params)-1,
			})
		}
		methods = append(methods, m)
	}
	return methods
}

func (c *runtimeClass) method(m reflect.Method) Method {
	declaring, isInterface := c.typ, false
	if !c.reflector.declares(c.typ, m.Name) {
		if t, iface := c.reflector.promotedFrom(c.typ, m.Name); t != nil {
			declaring, isInterface = t, iface
		}
	}
	method := Method{
		Name:           m.Name,
		Visibility:     Public,
		Abstract:       isInterface,
		DeclaringClass: declaring.String(),
		Provenance:     provenance(declaring.PkgPath()),
	}
	var paramNames []string
	if src, ok := c.reflector.lookup(declaring); ok {
		md := src.Methods[m.Name]
		method.Doc = md.Doc
		paramNames = md.Params
	}

	fn := m.Type
	// The receiver is the first input.
	for i := 1; i < fn.NumIn(); i++ {
		in := fn.In(i)
		param := Parameter{
			Type:        typeName(in),
			ByReference: in.Kind() == reflect.Pointer,
		}
		if fn.IsVariadic() && i == fn.NumIn()-1 {
			param.Optional = true
			param.Type = "..." + typeName(in.Elem())
		}
		name := ""
		if i-1 < len(paramNames) {
			name = paramNames[i-1]
		}
		param.Name = paramNameOrDefault(name, i-1)
		method.Params = append(method.Params, param)
	}
	for i := range fn.NumOut() {
		method.Results = append(method.Results, typeName(fn.Out(i)))
	}
	return method
}

func paramNameOrDefault(name string, i int) string {
	if name == "" || name == "_" {
		return fmt.Sprintf("arg%d", i)
	}
	return name
}

func typeName(typ reflect.Type) string {
	if typ.Name() == "" {
		return typ.String()
	}
	return typeinfo.Get(typ).Qualified
}

func provenance(pkgPath string) string {
	if !typeinfo.IsStandardLibrary(pkgPath) {
		return ""
	}
	return fmt.Sprintf("Internal - part of %s (%s)", pkgPath, runtime.Version())
}

// isIterator reports whether typ has the shape of iter.Seq or iter.Seq2.
func isIterator(typ reflect.Type) bool {
	if typ.Kind() != reflect.Func || typ.NumIn() != 1 || typ.NumOut() != 0 {
		return false
	}
	yield := typ.In(0)
	return yield.Kind() == reflect.Func &&
		yield.NumOut() == 1 &&
		yield.Out(0).Kind() == reflect.Bool &&
		yield.NumIn() >= 1 && yield.NumIn() <= 2
}

func derefType(typ reflect.Type) reflect.Type {
	if typ.Kind() == reflect.Pointer {
		return typ.Elem()
	}
	return typ
}

func embeddedFields(typ reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for i := range typ.NumField() {
		if f := typ.Field(i); f.Anonymous {
			fields = append(fields, f)
		}
	}
	return fields
}

func embeddedStructs(typ reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for _, f := range embeddedFields(typ) {
		if derefType(f.Type).Kind() == reflect.Struct {
			fields = append(fields, f)
		}
	}
	return fields
}

// declaringStruct returns the struct type which declares the field at index.
func declaringStruct(typ reflect.Type, index []int) reflect.Type {
	for _, i := range index[:len(index)-1] {
		typ = derefType(typ.Field(i).Type)
	}
	return typ
}

// shortName strips the package qualifier from a qualified type name.
func shortName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
