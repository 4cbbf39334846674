package typeinfo

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

const packageName = "github.com/nieomylnieja/goref/internal/typeinfo"

type customString string

type customStruct struct{}

type customMap map[string]int

type customSlice []customMap

type customNestedMap map[customString]customSlice

type testCase struct {
	name     string
	value    any
	expected TypeInfo
}

func TestGet(t *testing.T) {
	tests := []testCase{
		{
			name:     "int",
			value:    0,
			expected: TypeInfo{Name: "int", Qualified: "int", Kind: "int"},
		},
		{
			name:     "pointer to int",
			value:    new(int),
			expected: TypeInfo{Name: "int", Qualified: "int", Kind: "int"},
		},
		{
			name:     "slice of int",
			value:    []int{},
			expected: TypeInfo{Name: "[]int", Qualified: "[]int", Kind: "[]int"},
		},
		{
			name:     "array of int",
			value:    [2]int{},
			expected: TypeInfo{Name: "[2]int", Qualified: "[2]int", Kind: "[2]int"},
		},
		{
			name:  "slice of customString",
			value: []customString{},
			expected: TypeInfo{
				Name:      "[]customString",
				Qualified: "[]typeinfo.customString",
				Package:   packageName,
				Kind:      "[]string",
			},
		},
		{
			name:     "map of string to any",
			value:    map[string]any{},
			expected: TypeInfo{Name: "map[string]interface {}", Qualified: "map[string]interface {}", Kind: "map[string]interface"},
		},
		{
			name:  "custom struct",
			value: customStruct{},
			expected: TypeInfo{
				Name:      "customStruct",
				Qualified: "typeinfo.customStruct",
				Package:   packageName,
				Kind:      "struct",
			},
		},
		{
			name:  "pointer to custom struct",
			value: &customStruct{},
			expected: TypeInfo{
				Name:      "customStruct",
				Qualified: "typeinfo.customStruct",
				Package:   packageName,
				Kind:      "struct",
			},
		},
		{
			name:  "custom nested map",
			value: customNestedMap{},
			expected: TypeInfo{
				Name:      "customNestedMap",
				Qualified: "typeinfo.customNestedMap",
				Package:   packageName,
				Kind:      "map[string][]map[string]int",
			},
		},
		{
			name:  "custom slice",
			value: customSlice{},
			expected: TypeInfo{
				Name:      "customSlice",
				Qualified: "typeinfo.customSlice",
				Package:   packageName,
				Kind:      "[]map[string]int",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := Get(reflect.TypeOf(tc.value))
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestGet_Nil(t *testing.T) {
	assert.Equal(t, TypeInfo{}, Get(nil))
}

func TestIsStandardLibrary(t *testing.T) {
	for pkg, expected := range map[string]bool{
		"":                          false,
		"fmt":                       true,
		"encoding/json":             true,
		"github.com/pkg/errors":     false,
		"golang.org/x/tools/go/ssa": false,
		packageName:                 false,
	} {
		t.Run(pkg, func(t *testing.T) {
			assert.Equal(t, expected, IsStandardLibrary(pkg))
		})
	}
}
