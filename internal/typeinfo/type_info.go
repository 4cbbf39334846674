package typeinfo

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeInfo stores the Go type information used to label inspected values.
type TypeInfo struct {
	// Name is the type name without package qualifier, e.g. "Circle" or "[]Circle".
	Name string
	// Qualified is the name as written in Go source outside the package, e.g. "shapes.Circle".
	Qualified string
	Kind      string
	Package   string
}

// Get returns the information for the [reflect.Type].
// Strips pointer indicators from type names.
// Package field is empty for built-in types.
//
// Slices of named types keep the slice notation in Name while the package
// of the element type is reported, for instance:
//
//	TypeInfo{Name: "[]Bar", Qualified: "[]mypkg.Bar", Package: ".../mypkg"}
func Get(typ reflect.Type) TypeInfo {
	if typ == nil {
		return TypeInfo{}
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	result := TypeInfo{
		Kind:      getKindString(typ),
		Qualified: typ.String(),
	}

	if typ.PkgPath() == "" && typ.Kind() == reflect.Slice {
		result.Name = "[]"
		typ = typ.Elem()
	}
	switch {
	case typ.PkgPath() == "":
		result.Name += typ.String()
	default:
		result.Name += typ.Name()
		result.Package = typ.PkgPath()
	}
	return result
}

// IsStandardLibrary reports whether the import path belongs to the Go distribution.
// The first path element of third-party modules always contains a dot.
func IsStandardLibrary(pkgPath string) bool {
	if pkgPath == "" {
		return false
	}
	first, _, _ := strings.Cut(pkgPath, "/")
	return !strings.Contains(first, ".")
}

func getKindString(typ reflect.Type) string {
	switch typ.Kind() {
	case reflect.Map:
		return fmt.Sprintf("map[%s]%s", getKindString(typ.Key()), getKindString(typ.Elem()))
	case reflect.Slice:
		return fmt.Sprintf("[]%s", getKindString(typ.Elem()))
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", typ.Len(), getKindString(typ.Elem()))
	default:
		return typ.Kind().String()
	}
}
