package resolver

import (
	"go/ast"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func parseFixture(t *testing.T, src string) *Program {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fixture.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	p := NewProgram()
	if err := p.ParseDirectory(dir); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return p
}

func TestResolveTypeSymbol(t *testing.T) {
	p := parseFixture(t, `package fixtures

// User represents an account holder.
// It spans two lines.
// @asType object
// @example {"name": "x"}
// @example {"name": "y"}
type User struct {
	// Name is the display name.
	Name string `+"`json:\"name\"`"+`
	Age  int    `+"`json:\"age\"`"+` // Age in years.
}
`)

	node := p.TypeNode("User")
	if node == nil {
		t.Fatal("User not indexed")
	}
	sym := p.Resolve(node)
	if sym == nil {
		t.Fatal("User did not resolve")
	}
	if got := len(sym.Comment()); got != 1 {
		t.Fatalf("expected 1 comment fragment, got %d", got)
	}
	if want := "User represents an account holder.\nIt spans two lines."; sym.Comment()[0].Text != want {
		t.Errorf("comment fragment = %q, want %q", sym.Comment()[0].Text, want)
	}

	tags := sym.Tags()
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}
	if tags[0].Name != "asType" || tags[0].Body[0].Text != "object" {
		t.Errorf("unexpected first tag: %+v", tags[0])
	}
	if tags[1].Name != "example" || tags[2].Name != "example" {
		t.Errorf("repeated example tags not preserved: %+v", tags[1:])
	}
	if tags[1].Body[0].Text != `{"name": "x"}` {
		t.Errorf("tag body = %q", tags[1].Body[0].Text)
	}
}

func TestResolveFieldSymbols(t *testing.T) {
	p := parseFixture(t, `package fixtures

type Base struct{}

type Config struct {
	Base
	// Host is the listen address.
	Host string `+"`json:\"host\"`"+`
	Port int    `+"`json:\"port\"`"+` // Port to bind.
	bare string
}
`)

	st := p.TypeNode("Config").Type.(*ast.StructType)

	// Embedded field stays unresolved
	if sym := p.Resolve(st.Fields.List[0]); sym != nil {
		t.Errorf("embedded field resolved to %v, want nil", sym)
	}

	host := p.Resolve(st.Fields.List[1])
	if host == nil || host.Comment()[0].Text != "Host is the listen address." {
		t.Errorf("host doc comment not resolved: %+v", host)
	}

	// Trailing line comments count as docs too
	port := p.Resolve(st.Fields.List[2])
	if port == nil || port.Comment()[0].Text != "Port to bind." {
		t.Errorf("port line comment not resolved: %+v", port)
	}

	bare := p.Resolve(st.Fields.List[3])
	if bare == nil {
		t.Fatal("undocumented field should still resolve")
	}
	if len(bare.Comment()) != 0 || len(bare.Tags()) != 0 {
		t.Errorf("undocumented field carries fragments: %+v", bare)
	}
}

func TestResolveAbsent(t *testing.T) {
	p := parseFixture(t, `package fixtures

type T struct{}
`)
	if sym := p.Resolve(nil); sym != nil {
		t.Errorf("Resolve(nil) = %v, want nil", sym)
	}
	if sym := p.Resolve(ast.NewIdent("unknown")); sym != nil {
		t.Errorf("Resolve(foreign node) = %v, want nil", sym)
	}
	if node := p.TypeNode("Missing"); node != nil {
		t.Errorf("TypeNode(Missing) = %v, want nil", node)
	}
}

func TestConstEnumMembers(t *testing.T) {
	p := parseFixture(t, `package fixtures

// Status encodes lifecycle state.
type Status int

const (
	// Active means running.
	StatusActive Status = 1
	// Stopped means halted.
	StatusStopped Status = 2
)
`)

	sym := p.Resolve(p.TypeNode("Status"))
	if sym == nil {
		t.Fatal("Status did not resolve")
	}
	if !sym.Flags().Has(FlagConstEnum) {
		t.Fatal("Status should carry FlagConstEnum")
	}

	members := sym.Members()
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	first := p.Resolve(members[0])
	if first == nil {
		t.Fatal("first member did not resolve")
	}
	if first.Comment()[0].Text != "Active means running." {
		t.Errorf("member doc = %q", first.Comment()[0].Text)
	}
	if !strings.Contains(first.SourceText(), "= 1") {
		t.Errorf("member source = %q, want it to contain %q", first.SourceText(), "= 1")
	}
}

func TestIotaEnumNotFlagged(t *testing.T) {
	p := parseFixture(t, `package fixtures

type Level int

const (
	LevelLow Level = iota
	LevelHigh
)
`)

	sym := p.Resolve(p.TypeNode("Level"))
	if sym == nil {
		t.Fatal("Level did not resolve")
	}
	if sym.Flags().Has(FlagConstEnum) {
		t.Error("iota-based values are not fixed numeric constants")
	}
}

func TestStringEnumNotFlagged(t *testing.T) {
	p := parseFixture(t, `package fixtures

type Color string

const (
	ColorRed Color = "red"
)
`)

	sym := p.Resolve(p.TypeNode("Color"))
	if sym.Flags().Has(FlagConstEnum) {
		t.Error("string constants must not set FlagConstEnum")
	}
}

func TestTypeDeclsSorted(t *testing.T) {
	p := parseFixture(t, `package fixtures

type Zebra struct{}
type Apple struct{}
type Mango struct{}
`)

	decls := p.TypeDecls()
	if len(decls) != 3 {
		t.Fatalf("expected 3 decls, got %d", len(decls))
	}
	for i, want := range []string{"Apple", "Mango", "Zebra"} {
		if decls[i].Name != want {
			t.Errorf("decls[%d] = %q, want %q", i, decls[i].Name, want)
		}
	}
}

func TestParseDirectorySkipsVendor(t *testing.T) {
	dir := t.TempDir()
	vendored := filepath.Join(dir, "vendor")
	if err := os.MkdirAll(vendored, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vendored, "v.go"), []byte("package v\n\ntype Hidden struct{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n\ntype Visible struct{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewProgram()
	if err := p.ParseDirectory(dir); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.TypeNode("Hidden") != nil {
		t.Error("vendored type should not be indexed")
	}
	if p.TypeNode("Visible") == nil {
		t.Error("top-level type missing")
	}
}

func TestParseDirectoryError(t *testing.T) {
	p := NewProgram()
	if err := p.ParseDirectory("/nonexistent/directory"); err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestUnparseableFileSkipped(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.go"), []byte("package {{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ok.go"), []byte("package ok\n\ntype OK struct{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewProgram()
	if err := p.ParseDirectory(dir); err != nil {
		t.Fatalf("parse should tolerate broken files: %v", err)
	}
	if p.TypeNode("OK") == nil {
		t.Error("valid file skipped alongside broken one")
	}
}
