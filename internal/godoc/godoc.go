// Package godoc indexes Go source declarations so that runtime types can be
// decorated with the documentation, parameter names and constants which
// reflection alone cannot provide.
package godoc

import (
	"go/ast"
	"go/constant"
	"go/types"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"

	"github.com/nieomylnieja/goref/internal/pathutils"
)

// TypeDoc describes the source declaration of a named type.
// Doc strings hold the raw comment text, comment markers included.
type TypeDoc struct {
	Name    string
	Package string
	Doc     string
	// Fields maps struct field names to their documentation.
	Fields map[string]string
	// Methods declared directly on the type, with value or pointer receivers.
	Methods   map[string]MethodDoc
	Constants []ConstDoc
}

func (d TypeDoc) Key() string {
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

// MethodDoc describes a method declaration.
type MethodDoc struct {
	Name            string
	Doc             string
	Params          []string
	Variadic        bool
	PointerReceiver bool
}

// ConstDoc describes a typed package level constant.
// Value is one of bool, string, int64, uint64 or float64.
type ConstDoc struct {
	Name  string
	Value any
	Doc   string
}

// NewIndex loads the packages matching patterns, along with all their
// dependencies. Without patterns, every package of the module containing the
// current working directory is loaded.
func NewIndex(patterns ...string) (*Index, error) {
	root, err := pathutils.FindModuleRoot("")
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	// Load complete type information for the specified packages,
	// along with type-annotated syntax.
	conf := &packages.Config{
		Dir: root,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedDeps |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(conf, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}
	if err = checkForPackageErrors(pkgs); err != nil {
		return nil, err
	}

	index := &Index{
		pkgs:  make(map[string]*packages.Package, len(pkgs)),
		cache: make(map[string]*TypeDoc),
	}
	index.collectAllPackages(pkgs)
	return index, nil
}

// Index answers documentation queries about loaded packages.
// It is safe for concurrent use.
type Index struct {
	pkgs map[string]*packages.Package

	mu    sync.Mutex
	cache map[string]*TypeDoc
}

// Lookup returns the declaration of the named type from the package with the given import path.
func (i *Index) Lookup(pkgPath, name string) (TypeDoc, bool) {
	if pkgPath == "" || name == "" {
		return TypeDoc{}, false
	}
	key := pkgPath + "." + name

	i.mu.Lock()
	defer i.mu.Unlock()
	if doc, cached := i.cache[key]; cached {
		if doc == nil {
			return TypeDoc{}, false
		}
		return *doc, true
	}
	doc, err := i.lookup(pkgPath, name)
	if err != nil {
		i.cache[key] = nil
		return TypeDoc{}, false
	}
	i.cache[key] = doc
	return *doc, true
}

func (i *Index) lookup(pkgPath, name string) (*TypeDoc, error) {
	pkg, found := i.pkgs[pkgPath]
	if !found {
		return nil, errors.Errorf("could not find %s package for type %s", pkgPath, name)
	}
	obj := pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, errors.Errorf("%s.%s not found", pkgPath, name)
	}
	if _, isType := obj.(*types.TypeName); !isType {
		return nil, errors.Errorf("%s.%s is not a type", pkgPath, name)
	}

	decl, spec, err := findTypeDeclaration(pkg, obj)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find %s declaration in %s pkg", name, pkgPath)
	}
	doc := &TypeDoc{
		Name:      name,
		Package:   pkgPath,
		Doc:       firstComment(spec.Doc, decl.Doc),
		Fields:    make(map[string]string),
		Methods:   make(map[string]MethodDoc),
		Constants: collectConstants(pkg, obj),
	}
	switch typ := spec.Type.(type) {
	case *ast.StructType:
		for _, field := range typ.Fields.List {
			fieldDoc := firstComment(field.Doc, field.Comment)
			for _, fieldName := range fieldNames(field) {
				doc.Fields[fieldName] = fieldDoc
			}
		}
	case *ast.InterfaceType:
		for _, field := range typ.Methods.List {
			fn, isMethod := field.Type.(*ast.FuncType)
			if !isMethod || len(field.Names) == 0 {
				continue // embedded interface or type constraint
			}
			method := MethodDoc{
				Name: field.Names[0].Name,
				Doc:  firstComment(field.Doc, field.Comment),
			}
			method.Params, method.Variadic = paramNames(fn.Params)
			doc.Methods[method.Name] = method
		}
	}
	for _, file := range pkg.Syntax {
		for _, d := range file.Decls {
			fn, ok := d.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
				continue
			}
			recvName, pointer := receiverTypeName(fn.Recv.List[0].Type)
			if recvName != name {
				continue
			}
			method := MethodDoc{
				Name:            fn.Name.Name,
				Doc:             rawComment(fn.Doc),
				PointerReceiver: pointer,
			}
			method.Params, method.Variadic = paramNames(fn.Type.Params)
			doc.Methods[method.Name] = method
		}
	}
	return doc, nil
}

// findTypeDeclaration finds the ast.GenDecl and ast.TypeSpec for the given type object.
func findTypeDeclaration(pkg *packages.Package, obj types.Object) (*ast.GenDecl, *ast.TypeSpec, error) {
	pos := obj.Pos()
	for _, file := range pkg.Syntax {
		if file.FileStart > pos || pos >= file.FileEnd {
			continue // not in this file
		}
		path, _ := astutil.PathEnclosingInterval(file, pos, pos)
		var spec *ast.TypeSpec
		for _, n := range path {
			switch n := n.(type) {
			case *ast.TypeSpec:
				spec = n
			case *ast.GenDecl:
				if spec != nil {
					return n, spec, nil
				}
			}
		}
	}
	return nil, nil, errors.Errorf("could not find %s.%s declaration", pkg.Name, obj.Name())
}

// collectConstants returns constants of exactly the named type in declaration order.
func collectConstants(pkg *packages.Package, typeName types.Object) []ConstDoc {
	scope := pkg.Types.Scope()
	var consts []*types.Const
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !types.Identical(c.Type(), typeName.Type()) {
			continue
		}
		consts = append(consts, c)
	}
	slices.SortFunc(consts, func(a, b *types.Const) int { return int(a.Pos() - b.Pos()) })

	result := make([]ConstDoc, 0, len(consts))
	for _, c := range consts {
		value, ok := constantValue(c.Val())
		if !ok {
			continue
		}
		result = append(result, ConstDoc{
			Name:  c.Name(),
			Value: value,
			Doc:   constDoc(pkg, c),
		})
	}
	return result
}

func constDoc(pkg *packages.Package, c *types.Const) string {
	pos := c.Pos()
	for _, file := range pkg.Syntax {
		if file.FileStart > pos || pos >= file.FileEnd {
			continue
		}
		path, _ := astutil.PathEnclosingInterval(file, pos, pos)
		for _, n := range path {
			if spec, ok := n.(*ast.ValueSpec); ok {
				return firstComment(spec.Doc, spec.Comment)
			}
		}
	}
	return ""
}

func constantValue(v constant.Value) (any, bool) {
	switch v.Kind() {
	case constant.Bool:
		return constant.BoolVal(v), true
	case constant.String:
		return constant.StringVal(v), true
	case constant.Int:
		if i, exact := constant.Int64Val(v); exact {
			return i, true
		}
		if u, exact := constant.Uint64Val(v); exact {
			return u, true
		}
		return nil, false
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return f, true
	default:
		return nil, false
	}
}

// receiverTypeName returns the base type name of a method receiver expression.
func receiverTypeName(expr ast.Expr) (name string, pointer bool) {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr, pointer = star.X, true
	}
	switch e := expr.(type) {
	case *ast.IndexExpr:
		expr = e.X
	case *ast.IndexListExpr:
		expr = e.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name, pointer
	}
	return "", pointer
}

// paramNames lists parameter names, using an empty string for unnamed ones.
func paramNames(params *ast.FieldList) (names []string, variadic bool) {
	if params == nil {
		return nil, false
	}
	for _, field := range params.List {
		if len(field.Names) == 0 {
			names = append(names, "")
		}
		for _, n := range field.Names {
			names = append(names, n.Name)
		}
		_, variadic = field.Type.(*ast.Ellipsis)
	}
	return names, variadic
}

// fieldNames returns the declared names of a struct field,
// for embedded fields this is the type name.
func fieldNames(field *ast.Field) []string {
	if len(field.Names) > 0 {
		names := make([]string, 0, len(field.Names))
		for _, n := range field.Names {
			names = append(names, n.Name)
		}
		return names
	}
	expr := field.Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.Ident:
		return []string{e.Name}
	case *ast.SelectorExpr:
		return []string{e.Sel.Name}
	default:
		return nil
	}
}

func firstComment(groups ...*ast.CommentGroup) string {
	for _, g := range groups {
		if text := rawComment(g); text != "" {
			return text
		}
	}
	return ""
}

// rawComment joins the comment lines verbatim, markers included.
func rawComment(g *ast.CommentGroup) string {
	if g == nil || len(g.List) == 0 {
		return ""
	}
	lines := make([]string, 0, len(g.List))
	for _, c := range g.List {
		lines = append(lines, c.Text)
	}
	return strings.Join(lines, "\n")
}

// collectAllPackages recursively adds all packages and their imports to the index.
func (i *Index) collectAllPackages(pkgs []*packages.Package) {
	for _, pkg := range pkgs {
		if _, exists := i.pkgs[pkg.PkgPath]; exists {
			continue
		}
		i.pkgs[pkg.PkgPath] = pkg
		if len(pkg.Imports) > 0 {
			i.collectAllPackages(slices.Collect(maps.Values(pkg.Imports)))
		}
	}
}

func checkForPackageErrors(pkgs []*packages.Package) (err error) {
	packages.Visit(pkgs, func(pkg *packages.Package) bool {
		for _, err = range pkg.Errors {
			err = errors.Wrapf(err, "package %s has reported an error", pkg.PkgPath)
			return false
		}
		mod := pkg.Module
		if mod != nil && mod.Error != nil {
			err = errors.New(mod.Error.Err)
			return false
		}
		return true
	}, nil)
	return err
}
