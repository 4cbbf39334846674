package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nieomylnieja/goref/pkg/ref"
)

const textIndent = "  "

// Text writes an indented plain text tree of each node.
// Nodes are expected to be inspected with [ref.EscapeNone].
func Text(w io.Writer, nodes ...*ref.Node) error {
	p := &textPrinter{w: w}
	for _, node := range nodes {
		p.node(node, 0)
		p.printf("\n")
	}
	return errors.Wrap(p.err, "failed to render text")
}

// textPrinter remembers the first write error and skips all subsequent writes.
type textPrinter struct {
	w   io.Writer
	err error
}

func (p *textPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *textPrinter) line(depth int, format string, args ...any) {
	p.printf("\n"+strings.Repeat(textIndent, depth)+format, args...)
}

// node writes n starting at the current position, nested lines are indented by depth.
func (p *textPrinter) node(n *ref.Node, depth int) {
	if n == nil {
		p.printf("?")
		return
	}
	switch n.Kind {
	case ref.KindNull:
		p.printf("%s", n.Value)
		if n.DisplayType != "nil" {
			p.printf(" (%s)", n.DisplayType)
		}
	case ref.KindBool, ref.KindInt, ref.KindFloat, ref.KindResource:
		p.printf("%s %s", n.DisplayType, n.Value)
	case ref.KindString:
		p.printf("%s %s", n.DisplayType, strconv.Quote(n.Value))
	case ref.KindRecursion:
		p.printf("%s *RECURSION*", n.DisplayType)
	case ref.KindComposite:
		p.nested(n, depth, "[", "]")
	case ref.KindObject:
		p.nested(n, depth, "{", "}")
	default:
		p.err = errors.Errorf("unsupported node kind: %s", n.Kind)
	}
}

func (p *textPrinter) nested(n *ref.Node, depth int, open, closing string) {
	p.printf("%s %s", n.DisplayType, open)
	if len(n.Children) == 0 {
		p.printf("%s", closing)
		return
	}
	for _, edge := range n.Children {
		p.edge(edge, depth+1)
	}
	p.line(depth, "%s", closing)
}

func (p *textPrinter) edge(e ref.Edge, depth int) {
	switch e.Kind {
	case ref.EdgeArrayElement:
		p.line(depth, "%s => ", e.Label)
		p.node(e.Child, depth)
	case ref.EdgeInterface:
		p.line(depth, "implements %s", e.Label)
	case ref.EdgeTrait:
		p.line(depth, "uses %s", e.Label)
	case ref.EdgeConstant:
		p.line(depth, "%sconst %s = ", textModifiers(e.Modifiers), e.Label)
		p.node(e.Child, depth)
	case ref.EdgeProperty:
		p.line(depth, "%s%s %s = ", textModifiers(e.Modifiers), accessor(e.Modifiers), e.Label)
		p.node(e.Child, depth)
	case ref.EdgeMethod:
		p.line(depth, "%s%s %s", textModifiers(e.Modifiers), accessor(e.Modifiers), e.Label)
		if e.InheritedFrom != "" {
			p.printf("  // %s", e.InheritedTooltip())
		}
	default:
		p.err = errors.Errorf("unsupported edge kind: %s", e.Kind)
	}
}

// accessor mimics member access syntax, static members are accessed through the type.
func accessor(mods ref.Modifiers) string {
	if mods.Has(ref.ModifierStatic) {
		return "::"
	}
	return "->"
}

func textModifiers(mods ref.Modifiers) string {
	if len(mods) == 0 {
		return ""
	}
	names := make([]string, 0, len(mods))
	for _, mod := range mods {
		names = append(names, mod.String())
	}
	return "[" + strings.Join(names, " ") + "] "
}
