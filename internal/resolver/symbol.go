package resolver

import (
	"go/ast"
	"strings"
)

// Fragment is one piece of doc-comment or tag-body text.
type Fragment struct {
	Text string
}

// Tag is a structured doc tag: an @name marker plus its body fragments.
// A tag may have an empty body (e.g. @nullable).
type Tag struct {
	Name string
	Body []Fragment
}

// Flags classify the declaration kind of a symbol.
type Flags uint8

const (
	// FlagConstEnum marks a type whose members are all fixed numeric constants.
	FlagConstEnum Flags = 1 << iota
)

// Has reports whether all bits of flag are set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// Symbol is the semantic entity a declaration node denotes. Symbols are
// built once during Program parsing and are read-only afterwards.
type Symbol struct {
	name    string
	comment []Fragment
	tags    []Tag
	flags   Flags
	members []ast.Node
	source  string
}

// Name returns the declared identifier.
func (s *Symbol) Name() string { return s.name }

// Comment returns the doc-comment fragments attached to the symbol: the
// free text preceding the first structured tag.
func (s *Symbol) Comment() []Fragment { return s.comment }

// Tags returns the structured tags in source order, repeated names included.
func (s *Symbol) Tags() []Tag { return s.tags }

// Flags returns the declaration-kind flag set.
func (s *Symbol) Flags() Flags { return s.flags }

// Members returns the member declaration nodes of a const-valued
// enumeration, in source order. Empty for non-enum symbols.
func (s *Symbol) Members() []ast.Node { return s.members }

// SourceText returns the printed declaration text. Only constant members
// carry source text; it feeds the best-effort numeric extraction.
func (s *Symbol) SourceText() string { return s.source }

// parseDoc splits raw doc-comment text into leading comment fragments and
// structured tags. Lines starting with '@' open a tag; subsequent lines up
// to the next tag extend its body.
func parseDoc(text string) (comment []Fragment, tags []Tag) {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	var plain []string
	i := 0
	for ; i < len(lines); i++ {
		if isTagLine(lines[i]) {
			break
		}
		plain = append(plain, lines[i])
	}
	if joined := strings.Join(plain, "\n"); strings.TrimSpace(joined) != "" {
		comment = []Fragment{{Text: joined}}
	}

	for i < len(lines) {
		name, rest := splitTagLine(lines[i])
		i++
		var body []string
		if rest != "" {
			body = append(body, rest)
		}
		for i < len(lines) && !isTagLine(lines[i]) {
			body = append(body, lines[i])
			i++
		}
		tag := Tag{Name: name}
		if joined := strings.TrimSpace(strings.Join(body, "\n")); joined != "" {
			tag.Body = []Fragment{{Text: joined}}
		}
		tags = append(tags, tag)
	}
	return comment, tags
}

func isTagLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) > 1 && trimmed[0] == '@' && trimmed[1] != ' ' && trimmed[1] != '\t'
}

// splitTagLine separates "@name body" into the tag name and the rest of the
// line.
func splitTagLine(line string) (name, rest string) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(line), "@")
	if idx := strings.IndexAny(trimmed, " \t"); idx >= 0 {
		return trimmed[:idx], strings.TrimSpace(trimmed[idx+1:])
	}
	return trimmed, ""
}
