package testmodels

import (
	"fmt"
	"iter"
	"math"
)

// Shape is implemented by every figure.
type Shape interface {
	// Area returns the surface of the figure.
	Area() float64
}

// Color of a figure.
type Color int

// Known colors.
const (
	// Red is a warm color.
	Red Color = iota + 1
	// Blue is a cold color.
	Blue
	Green Color = 10 // Green is natural.
)

// Untyped constants are never attributed to a type.
const maxVertices = 64

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Green:
		return "green"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// Base holds data common to all figures.
//
// It is embedded first, which makes it the parent of the figure.
type Base struct {
	// ID identifies the figure.
	ID string
	// Legacy is the old identifier.
	//
	// Deprecated: Use ID instead.
	Legacy   string
	revision int
}

// Describe returns a human readable label.
//
// @param string $prefix Text put in front of the label
// @return string The label
func (b *Base) Describe(prefix string) string {
	return prefix + b.ID
}

// Tagged can be mixed into any figure.
type Tagged struct {
	Tags []string
}

// Tag appends tags.
//
// @param string[] $tags Tags to add
func (t *Tagged) Tag(tags ...string) {
	t.Tags = append(t.Tags, tags...)
}

// Circle is a round figure.
type Circle struct {
	Base
	Tagged
	// Radius of the circle.
	Radius float64
	Color  Color
	center *Point
}

// Area returns the area of the circle.
func (c *Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

// Scale multiplies the radius.
//
// @param float64 $factor Multiplier applied to the radius
func (c *Circle) Scale(factor float64) {
	c.Radius *= factor
	c.normalize()
}

// Clone returns a copy of the circle.
func (c *Circle) Clone() *Circle {
	cp := *c
	return &cp
}

// String implements [fmt.Stringer].
func (c *Circle) String() string {
	return fmt.Sprintf("circle(%s, r=%g)", c.ID, c.Radius)
}

// MoveTo moves the center of the circle.
func (c *Circle) MoveTo(p *Point) {
	c.center = p
}

// normalize keeps the radius positive.
func (c *Circle) normalize() {
	c.Radius = math.Abs(c.Radius)
}

// Point is a location on a plane.
type Point struct {
	X, Y int
}

// Polygon leaves the area computation to the embedded [Shape].
type Polygon struct {
	Shape
	Vertices []Point
}

// Path is an ordered list of points.
type Path struct {
	points []Point
}

// NewPath creates a path going through the points.
func NewPath(points ...Point) Path {
	return Path{points: points}
}

// All iterates over the points of the path.
func (p Path) All() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, pt := range p.points {
			if !yield(pt) {
				return
			}
		}
	}
}

// Node forms linked structures, possibly cyclic ones.
type Node struct {
	Name     string
	Next     *Node
	Children []*Node
}

// Empty has nothing to show.
type Empty struct{}

type hidden struct {
	value int
}

// NewHidden returns a value of an unexported type.
func NewHidden(v int) any {
	return hidden{value: v}
}
