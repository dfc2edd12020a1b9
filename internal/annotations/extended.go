package annotations

import (
	"go/ast"
	"math"
	"strconv"
	"strings"

	"github.com/titanous/json5"

	"github.com/example/schemadoc/internal/resolver"
)

// ExtendedReader layers description, type-override, and example extraction
// on top of the base tag Reader. All methods are pure functions of the node
// and the program's resolved state.
type ExtendedReader struct {
	prog     *resolver.Program
	base     *Reader
	markdown bool
}

// NewExtendedReader builds the extended reader. When markdown is true,
// records carry a markdownDescription field alongside description.
func NewExtendedReader(prog *resolver.Program, base *Reader, markdown bool) *ExtendedReader {
	return &ExtendedReader{prog: prog, base: base, markdown: markdown}
}

// GetAnnotations merges the description, type-override, example, and base
// tag groups for node, in that order, with later groups overwriting earlier
// ones on key collision. It returns nil when every group is empty.
func (r *ExtendedReader) GetAnnotations(node ast.Node) Record {
	rec := Record{}
	merge(rec, r.descriptionAnnotations(node))
	merge(rec, r.typeAnnotations(node))
	merge(rec, r.exampleAnnotations(node))
	merge(rec, r.base.GetAnnotations(node))
	if len(rec) == 0 {
		return nil
	}
	return rec
}

// IsNullable reports whether node carries a tag named exactly "nullable".
// Unresolvable nodes and untagged symbols are not nullable.
func (r *ExtendedReader) IsNullable(node ast.Node) bool {
	sym := r.prog.Resolve(node)
	if sym == nil {
		return false
	}
	for _, tag := range sym.Tags() {
		if tag.Name == "nullable" {
			return true
		}
	}
	return false
}

func (r *ExtendedReader) descriptionAnnotations(node ast.Node) Record {
	sym := r.prog.Resolve(node)
	if sym == nil || len(sym.Comment()) == 0 {
		return nil
	}

	markdown := strings.TrimSpace(stripCarriageReturns(joinFragments(sym.Comment(), " ")))
	rec := Record{"description": collapseSoftBreaks(markdown)}
	if r.markdown {
		rec["markdownDescription"] = markdown
	}

	if sym.Flags().Has(resolver.FlagConstEnum) {
		if members := r.enumMembers(sym); len(members) > 0 {
			rec["anyOf"] = members
			rec["title"] = rec["description"]
		}
	}
	return rec
}

func (r *ExtendedReader) enumMembers(sym *resolver.Symbol) []EnumMember {
	var members []EnumMember
	for _, node := range sym.Members() {
		member := r.prog.Resolve(node)
		if member == nil {
			continue
		}
		members = append(members, EnumMember{
			Const:       memberConst(member.SourceText()),
			Description: strings.TrimSpace(stripCarriageReturns(joinFragments(member.Comment(), " "))),
		})
	}
	return members
}

// memberConst pulls the numeric constant out of a member declaration of the
// textual form `Name = <literal>`. Any other shape parses as NaN; that is
// deliberate best-effort behavior, not an error.
func memberConst(source string) float64 {
	parts := strings.Split(source, "= ")
	v, err := strconv.ParseFloat(strings.TrimSpace(parts[len(parts)-1]), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (r *ExtendedReader) typeAnnotations(node ast.Node) Record {
	sym := r.prog.Resolve(node)
	if sym == nil {
		return nil
	}
	// Const enums are always numeric; an explicit @asType cannot override.
	if sym.Flags().Has(resolver.FlagConstEnum) {
		return Record{"type": "number"}
	}
	for _, tag := range sym.Tags() {
		if tag.Name == "asType" {
			return Record{"type": joinFragments(tag.Body, "")}
		}
	}
	return nil
}

func (r *ExtendedReader) exampleAnnotations(node ast.Node) Record {
	sym := r.prog.Resolve(node)
	if sym == nil {
		return nil
	}
	var examples []any
	for _, tag := range sym.Tags() {
		if tag.Name != "example" {
			continue
		}
		if v, ok := parseExample(joinFragments(tag.Body, "")); ok {
			examples = append(examples, v)
		}
	}
	if len(examples) == 0 {
		return nil
	}
	return Record{"examples": examples}
}

// parseExample parses text as a relaxed JSON literal (unquoted keys, single
// quotes, trailing commas). Malformed examples are dropped, never reported.
func parseExample(text string) (any, bool) {
	var v any
	if err := json5.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return v, true
}

func stripCarriageReturns(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}

// collapseSoftBreaks unwraps soft-wrapped prose: a lone newline becomes a
// space unless it borders a blank line or the next line opens a markdown
// block (list item, heading, quote, table, or indented text).
func collapseSoftBreaks(s string) string {
	lines := strings.Split(s, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			if line == "" || lines[i-1] == "" || startsMarkdownBlock(line) {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(line)
	}
	return b.String()
}

func startsMarkdownBlock(line string) bool {
	switch line[0] {
	case '-', '*', '+', '#', '>', '|', ' ', '\t':
		return true
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')')
}
