package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/nieomylnieja/goref/pkg/ref"
)

// HTML renders the nodes with [DefaultAssets].
// Nodes are expected to be inspected with [ref.EscapeHTML], which is the default.
func HTML(w io.Writer, nodes ...*ref.Node) error {
	return NewHTMLRenderer(DefaultAssets).Render(w, nodes...)
}

// HTMLRenderer writes nodes as HTML fragments.
// Styles and scripts are written along with the first fragment only, see [Assets].
type HTMLRenderer struct {
	assets *Assets
}

func NewHTMLRenderer(assets *Assets) HTMLRenderer {
	return HTMLRenderer{assets: assets}
}

func (r HTMLRenderer) Render(w io.Writer, nodes ...*ref.Node) error {
	p := &htmlPrinter{}
	if r.assets.claim() {
		p.printf("<style scoped>%s</style>", MustAsset("assets/ref.css"))
		p.printf("<script>%s</script>", MustAsset("assets/ref.js"))
	}
	for _, node := range nodes {
		p.printf(`<div class="ref">`)
		p.node(node)
		p.printf("</div>")
	}
	if p.err != nil {
		return errors.Wrap(p.err, "failed to render HTML")
	}
	_, err := io.WriteString(w, p.b.String())
	return errors.Wrap(err, "failed to write HTML")
}

type htmlPrinter struct {
	b   strings.Builder
	err error
}

func (p *htmlPrinter) printf(format string, args ...any) {
	fmt.Fprintf(&p.b, format, args...)
}

// entity writes a span of the given class, text must already be escaped.
func (p *htmlPrinter) entity(class, text, tooltip string) {
	if tooltip == "" {
		p.printf(`<span class="r%s">%s</span>`, class, text)
		return
	}
	p.printf(`<span class="r%s rHasTip">%s<code>%s</code></span>`, class, text, html.EscapeString(tooltip))
}

func (p *htmlPrinter) node(n *ref.Node) {
	if n == nil {
		return
	}
	displayType := html.EscapeString(n.DisplayType)
	switch n.Kind {
	case ref.KindNull:
		p.entity("Null", n.Value, n.DisplayType)
	case ref.KindBool:
		p.entity("Bool", n.Value, n.DisplayType)
	case ref.KindInt:
		p.entity("Int", n.Value, n.DisplayType)
	case ref.KindFloat:
		p.entity("Float", n.Value, n.DisplayType)
	case ref.KindString:
		p.entity("String", n.Value, n.DisplayType)
	case ref.KindResource:
		p.entity("Resource", n.Value, n.DisplayType)
	case ref.KindRecursion:
		p.classes(n.Classes)
		p.entity("Recursion", displayType+" (Recursion)", n.Tooltip)
	case ref.KindComposite:
		p.entity("Composite", displayType, n.Tooltip)
		p.children(n)
	case ref.KindObject:
		p.classes(n.Classes)
		p.children(n)
	default:
		p.err = errors.Errorf("unsupported node kind: %s", n.Kind)
	}
}

func (p *htmlPrinter) classes(chain []ref.ClassDescriptor) {
	for i, class := range chain {
		if i > 0 {
			p.entity("Div", " :: ", "")
		}
		p.modifiers(class.Modifiers)
		p.entity("Class", html.EscapeString(class.Name), class.Tooltip)
	}
}

func (p *htmlPrinter) modifiers(mods ref.Modifiers) {
	for _, mod := range mods {
		p.entity("Modifier", strings.ToUpper(mod.String()[:1]), mod.Tooltip())
	}
}

func (p *htmlPrinter) children(n *ref.Node) {
	if len(n.Children) == 0 {
		return
	}
	state := ""
	if n.Expanded {
		state = " rExp"
	}
	p.printf(`<a class="rToggle%s"></a><div>`, state)
	section := -1
	for _, edge := range n.Children {
		if kind := int(edge.Kind); kind != section && n.Kind == ref.KindObject {
			section = kind
			p.printf("<h4>%s</h4>", sectionTitle(edge.Kind))
		}
		p.printf("<dl>")
		p.edge(edge)
		p.printf("</dl>")
	}
	p.printf("</div>")
}

func sectionTitle(kind ref.EdgeKind) string {
	switch kind {
	case ref.EdgeInterface:
		return "Implements:"
	case ref.EdgeConstant:
		return "Constants:"
	case ref.EdgeTrait:
		return "Uses:"
	case ref.EdgeProperty:
		return "Properties:"
	case ref.EdgeMethod:
		return "Methods:"
	default:
		return ""
	}
}

func (p *htmlPrinter) edge(e ref.Edge) {
	switch e.Kind {
	case ref.EdgeArrayElement:
		keyTip := ""
		if e.Key != nil {
			keyTip = e.Key.Tooltip
		}
		p.printf("<dt>")
		p.entity("Key", e.Label, keyTip)
		p.printf("</dt><dt>")
		p.entity("Div", "=&gt;", "")
		p.printf("</dt><dd>")
		p.node(e.Child)
		p.printf("</dd>")
	case ref.EdgeInterface:
		p.printf("<dt>")
		p.entity("Interface", e.Label, e.Tooltip)
		p.printf("</dt>")
	case ref.EdgeTrait:
		p.printf("<dt>")
		p.entity("Trait", e.Label, e.Tooltip)
		p.printf("</dt>")
	case ref.EdgeConstant:
		p.printf("<dt>")
		p.entity("Div", "::", "")
		p.printf("</dt><dt>")
		p.modifiers(e.Modifiers)
		p.entity("Constant", e.Label, e.Tooltip)
		p.printf("</dt><dt>")
		p.entity("Div", "=", "")
		p.printf("</dt><dd>")
		p.node(e.Child)
		p.printf("</dd>")
	case ref.EdgeProperty:
		p.printf("<dt>")
		p.entity("Div", html.EscapeString(accessor(e.Modifiers)), "")
		p.printf("</dt><dt>")
		p.modifiers(e.Modifiers)
		p.entity("Property", e.Label, e.Tooltip)
		p.printf("</dt><dt>")
		p.entity("Div", "=", "")
		p.printf("</dt><dd>")
		p.node(e.Child)
		p.printf("</dd>")
	case ref.EdgeMethod:
		class := "Method"
		if e.InheritedFrom != "" {
			class = "Method rInherited"
		}
		p.printf("<dt>")
		p.entity("Div", html.EscapeString(accessor(e.Modifiers)), e.InheritedTooltip())
		p.printf("</dt><dt>")
		p.modifiers(e.Modifiers)
		p.printf("</dt><dd>")
		p.entity(class, e.Label, e.Tooltip)
		p.params(e.Params)
		p.printf("</dd>")
	default:
		p.err = errors.Errorf("unsupported edge kind: %s", e.Kind)
	}
}

// params lists the parameters which carry documentation or a default value,
// the rest is already part of the method signature.
func (p *htmlPrinter) params(params []ref.Param) {
	for _, param := range params {
		if param.Tooltip == "" && param.Default == nil {
			continue
		}
		class := "Param"
		if param.Optional {
			class = "Param rParamOptional"
		}
		name := html.EscapeString(param.Name)
		if param.ByReference {
			name = "&amp;" + name
		}
		p.printf(" ")
		p.entity(class, name, param.Tooltip)
		if param.Default != nil {
			p.entity("Div", " = ", "")
			p.node(param.Default)
		}
	}
}
