package ref

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nieomylnieja/goref/internal/testmodels"
)

func TestRuntimeReflector_ClassOf(t *testing.T) {
	reflector := NewRuntimeReflector(nil, DefaultInterfaces...)
	class := reflector.ClassOf(reflect.ValueOf(&testmodels.Circle{}))

	assert.Equal(t, "testmodels.Circle", class.Name())
	assert.Equal(t, "Circle", class.ShortName())
	assert.Empty(t, class.Provenance())
	assert.Empty(t, class.Doc())

	parent := class.Parent()
	require.NotNil(t, parent)
	assert.Equal(t, "testmodels.Base", parent.Name())
	assert.Nil(t, parent.Parent())

	assert.Equal(t, ClassFlags{Cloneable: true}, class.Flags())
	assert.Empty(t, class.Constants())
}

func TestRuntimeReflector_ReadProperty(t *testing.T) {
	reflector := NewRuntimeReflector(nil)
	circle := &testmodels.Circle{Radius: 4}
	circle.MoveTo(&testmodels.Point{X: 7})
	class := reflector.ClassOf(reflect.ValueOf(circle))

	props := make(map[string]Property)
	for _, prop := range class.Properties() {
		props[prop.Name] = prop
	}

	t.Run("exported", func(t *testing.T) {
		v, err := reflector.ReadProperty(reflect.ValueOf(circle), props["Radius"])
		require.NoError(t, err)
		assert.Equal(t, 4.0, v)
	})
	t.Run("unexported", func(t *testing.T) {
		v, err := reflector.ReadProperty(reflect.ValueOf(circle), props["center"])
		require.NoError(t, err)
		assert.Equal(t, &testmodels.Point{X: 7}, v)
	})
	t.Run("unexported of struct value", func(t *testing.T) {
		v, err := reflector.ReadProperty(reflect.ValueOf(*circle), props["center"])
		require.NoError(t, err)
		assert.Equal(t, &testmodels.Point{X: 7}, v)
	})
	t.Run("not a struct", func(t *testing.T) {
		_, err := reflector.ReadProperty(reflect.ValueOf(42), props["Radius"])
		assert.Error(t, err)
	})
	t.Run("bad index", func(t *testing.T) {
		_, err := reflector.ReadProperty(reflect.ValueOf(circle), Property{Name: "bogus", Index: []int{42}})
		assert.Error(t, err)
	})
}

type embedsPointer struct {
	*testmodels.Point
	Label string
}

func TestRuntimeReflector_NilEmbeddedPointer(t *testing.T) {
	reflector := NewRuntimeReflector(nil)
	obj := reflect.ValueOf(&embedsPointer{Label: "x"})
	class := reflector.ClassOf(obj)

	var names []string
	for _, prop := range class.Properties() {
		names = append(names, prop.Name)
		_, err := reflector.ReadProperty(obj, prop)
		if prop.Name == "Label" {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err, prop.Name)
		}
	}
	assert.Equal(t, []string{"X", "Y", "Label"}, names)
}

func TestRuntimeReflector_WithDocs(t *testing.T) {
	docs, err := NewDocIndex()
	require.NoError(t, err)
	inspector := newTestInspector(t, WithDocSource(docs))

	circle := &testmodels.Circle{Color: testmodels.Green}
	node := inspector.Inspect(circle)
	require.Equal(t, KindObject, node.Kind)
	assert.Equal(t, "Circle is a round figure.", node.Tooltip)
	assert.Equal(t, "Base holds data common to all figures.\n\nIt is embedded first, which makes it the parent of the figure.",
		node.Classes[0].Tooltip)

	edges := make(map[string]Edge)
	var constants []string
	for _, edge := range node.Children {
		edges[edge.Label] = edge
		if edge.Kind == EdgeConstant {
			constants = append(constants, edge.Label)
		}
	}

	t.Run("constants", func(t *testing.T) {
		assert.Equal(t, []string{"Red", "Blue", "Green"}, constants)
		assert.Equal(t, "Red is a warm color.", edges["Red"].Tooltip)
		assert.Equal(t, "Green is natural.", edges["Green"].Tooltip)
		assert.Equal(t, "10", edges["Green"].Child.Value)
		assert.Equal(t, "testmodels.Color", edges["Green"].Child.DisplayType)
	})
	t.Run("property documentation", func(t *testing.T) {
		assert.Equal(t, "Radius of the circle.", edges["Radius"].Tooltip)
		assert.Equal(t, "ID identifies the figure.", edges["ID"].Tooltip)
		assert.Equal(t, Modifiers{ModifierDeprecated}, edges["Legacy"].Modifiers)
	})
	t.Run("parameter names and tooltips", func(t *testing.T) {
		describe, ok := edges["Describe(prefix string) string"]
		require.True(t, ok)
		assert.Equal(t, "Describe returns a human readable label.", describe.Tooltip)
		require.Len(t, describe.Params, 1)
		assert.Equal(t, "Text put in front of the label", describe.Params[0].Tooltip)
		assert.Equal(t, "Base", describe.InheritedFrom)

		scale, ok := edges["Scale(factor float64)"]
		require.True(t, ok)
		assert.Equal(t, "Multiplier applied to the radius", scale.Params[0].Tooltip)

		tag, ok := edges["Tag(tags ...string)"]
		require.True(t, ok)
		assert.Equal(t, "Tags to add", tag.Params[0].Tooltip)
		assert.True(t, tag.Params[0].Optional)
	})
	t.Run("unexported methods", func(t *testing.T) {
		normalize, ok := edges["normalize()"]
		require.True(t, ok)
		assert.Equal(t, Modifiers{ModifierProtected}, normalize.Modifiers)
		assert.Equal(t, "normalize keeps the radius positive.", normalize.Tooltip)
	})
	t.Run("built-in interface", func(t *testing.T) {
		stringer := edges["fmt.Stringer"]
		assert.True(t, strings.HasPrefix(stringer.Tooltip, "Internal - part of fmt"))
	})
}

func TestRuntimeReflector_MethodSets(t *testing.T) {
	reflector := NewRuntimeReflector(nil, DefaultInterfaces...)
	methodNames := func(class Class) []string {
		var names []string
		for _, m := range class.Methods() {
			names = append(names, m.Name)
		}
		return names
	}

	t.Run("pointer", func(t *testing.T) {
		class := reflector.ClassOf(reflect.ValueOf(&testmodels.Circle{}))
		assert.Equal(t, []string{"Area", "Clone", "Describe", "MoveTo", "Scale", "String", "Tag"}, methodNames(class))
		require.Len(t, class.Interfaces(), 1)
		assert.Equal(t, "fmt.Stringer", class.Interfaces()[0].Name)
	})
	t.Run("struct value", func(t *testing.T) {
		class := reflector.ClassOf(reflect.ValueOf(testmodels.Circle{}))
		assert.Empty(t, methodNames(class))
		assert.Empty(t, class.Interfaces())
		assert.Equal(t, ClassFlags{Cloneable: true}, class.Flags())
	})
	t.Run("value receivers", func(t *testing.T) {
		class := reflector.ClassOf(reflect.ValueOf(testmodels.NewPath()))
		assert.Equal(t, []string{"All"}, methodNames(class))
	})
}

type linkedList struct {
	*linkedList
	V int
}

func TestRuntimeReflector_ShadowedEmbeddedStruct(t *testing.T) {
	reflector := NewRuntimeReflector(nil)
	list := &linkedList{V: 1, linkedList: &linkedList{V: 2}}
	obj := reflect.ValueOf(list)
	class := reflector.ClassOf(obj)

	props := class.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, "linkedList", props[0].Name)
	assert.Equal(t, Protected, props[0].Visibility)
	assert.Equal(t, "V", props[1].Name)

	next, err := reflector.ReadProperty(obj, props[0])
	require.NoError(t, err)
	assert.Same(t, list.linkedList, next)

	t.Run("promoted fields stay hidden", func(t *testing.T) {
		class := reflector.ClassOf(reflect.ValueOf(&testmodels.Circle{}))
		for _, prop := range class.Properties() {
			assert.NotContains(t, []string{"Base", "Tagged"}, prop.Name)
		}
	})
}
