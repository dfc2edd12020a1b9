// Package resolver parses Go source trees and resolves declaration nodes to
// symbols carrying doc-comment fragments, structured tags, and
// declaration-kind flags. It is the read-only lookup layer the annotation
// readers are built on: after parsing, a Program never mutates and is safe
// for concurrent reads.
package resolver

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TypeDecl pairs a declared type name with its syntax-tree node.
type TypeDecl struct {
	Name string
	Spec *ast.TypeSpec
}

// Program indexes the declarations of one or more parsed source directories.
type Program struct {
	fset    *token.FileSet
	symbols map[ast.Node]*Symbol
	types   map[string]*ast.TypeSpec
	consts  []*ast.ValueSpec
}

// NewProgram allocates an empty program.
func NewProgram() *Program {
	return &Program{
		fset:    token.NewFileSet(),
		symbols: make(map[ast.Node]*Symbol),
		types:   make(map[string]*ast.TypeSpec),
	}
}

// ParseDirectory walks dir recursively and parses every Go file it finds,
// skipping vendor, testdata, and underscore-prefixed directories. Files that
// fail to parse are skipped, not fatal.
func (p *Program) ParseDirectory(dir string) error {
	err := filepath.WalkDir(dir, func(path string, de os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			name := de.Name()
			if path != dir && (name == "vendor" || name == "testdata" || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(de.Name(), ".go") {
			return nil
		}
		if err := p.parseFile(path); err != nil {
			// Unparseable files carry no usable declarations.
			return nil
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}
	p.attachEnumMembers()
	return nil
}

func (p *Program) parseFile(path string) error {
	file, err := parser.ParseFile(p.fset, path, nil, parser.ParseComments)
	if err != nil {
		return err
	}

	ast.Inspect(file, func(n ast.Node) bool {
		decl, ok := n.(*ast.GenDecl)
		if !ok {
			return true
		}
		switch decl.Tok {
		case token.TYPE:
			for _, spec := range decl.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					p.indexTypeSpec(ts, decl)
				}
			}
		case token.CONST:
			for _, spec := range decl.Specs {
				if vs, ok := spec.(*ast.ValueSpec); ok {
					p.consts = append(p.consts, vs)
				}
			}
		}
		return true
	})
	return nil
}

func (p *Program) indexTypeSpec(ts *ast.TypeSpec, decl *ast.GenDecl) {
	doc := ""
	switch {
	case decl.Doc != nil:
		doc = decl.Doc.Text()
	case ts.Doc != nil:
		doc = ts.Doc.Text()
	case ts.Comment != nil:
		doc = ts.Comment.Text()
	}

	sym := &Symbol{name: ts.Name.Name}
	sym.comment, sym.tags = parseDoc(doc)
	p.symbols[ts] = sym
	p.types[ts.Name.Name] = ts

	if st, ok := ts.Type.(*ast.StructType); ok {
		p.indexStructFields(st)
	}
}

func (p *Program) indexStructFields(st *ast.StructType) {
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			// Embedded fields stay unresolved.
			continue
		}
		doc := ""
		switch {
		case field.Doc != nil:
			doc = field.Doc.Text()
		case field.Comment != nil:
			doc = field.Comment.Text()
		}
		sym := &Symbol{name: field.Names[0].Name}
		sym.comment, sym.tags = parseDoc(doc)
		p.symbols[field] = sym

		if inner, ok := field.Type.(*ast.StructType); ok {
			p.indexStructFields(inner)
		}
	}
}

// attachEnumMembers links typed constant declarations to their type symbols
// and sets the const-enum flag when every member value is a numeric literal.
// Re-run after each parsed directory so cross-file enums resolve.
func (p *Program) attachEnumMembers() {
	for _, ts := range p.types {
		if sym := p.symbols[ts]; sym != nil {
			sym.members = nil
			sym.flags &^= FlagConstEnum
		}
	}

	numeric := make(map[string]bool)
	for _, vs := range p.consts {
		ident, ok := vs.Type.(*ast.Ident)
		if !ok {
			continue
		}
		ts, ok := p.types[ident.Name]
		if !ok {
			continue
		}
		typeSym := p.symbols[ts]
		if typeSym == nil {
			continue
		}
		if _, seen := numeric[ident.Name]; !seen {
			numeric[ident.Name] = true
		}

		doc := ""
		switch {
		case vs.Doc != nil:
			doc = vs.Doc.Text()
		case vs.Comment != nil:
			doc = vs.Comment.Text()
		}
		source := p.printNode(vs)

		for i, name := range vs.Names {
			member := &Symbol{name: name.Name, source: source}
			member.comment, member.tags = parseDoc(doc)
			p.symbols[name] = member
			typeSym.members = append(typeSym.members, name)

			if i >= len(vs.Values) || !isNumericLiteral(vs.Values[i]) {
				numeric[ident.Name] = false
			}
		}
	}

	for name, allNumeric := range numeric {
		ts := p.types[name]
		sym := p.symbols[ts]
		if sym != nil && allNumeric && len(sym.members) > 0 {
			sym.flags |= FlagConstEnum
		}
	}
}

func isNumericLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	return ok && (lit.Kind == token.INT || lit.Kind == token.FLOAT)
}

func (p *Program) printNode(node any) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, p.fset, node); err != nil {
		return ""
	}
	return buf.String()
}

// Resolve returns the symbol a declaration node denotes, or nil when none
// resolves. A nil result is a normal outcome, not an error.
func (p *Program) Resolve(node ast.Node) *Symbol {
	if node == nil {
		return nil
	}
	return p.symbols[node]
}

// TypeNode returns the declaration node of a named type, or nil if the name
// is unknown.
func (p *Program) TypeNode(name string) *ast.TypeSpec {
	return p.types[name]
}

// TypeDecls returns every indexed type declaration, sorted by name for
// deterministic output.
func (p *Program) TypeDecls() []TypeDecl {
	decls := make([]TypeDecl, 0, len(p.types))
	for name, ts := range p.types {
		decls = append(decls, TypeDecl{Name: name, Spec: ts})
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
	return decls
}
