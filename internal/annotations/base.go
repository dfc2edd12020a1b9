package annotations

import (
	"encoding/json"
	"go/ast"
	"strings"

	"github.com/example/schemadoc/internal/resolver"
)

// textTags contribute their body verbatim as a string field.
var textTags = map[string]string{
	"title":   "title",
	"format":  "format",
	"pattern": "pattern",
	"ref":     "$ref",
	"id":      "$id",
}

// jsonTags contribute their body parsed as a JSON literal, falling back to
// the raw string when the body is not valid JSON.
var jsonTags = map[string]string{
	"default":          "default",
	"minimum":          "minimum",
	"maximum":          "maximum",
	"exclusiveMinimum": "exclusiveMinimum",
	"exclusiveMaximum": "exclusiveMaximum",
	"multipleOf":       "multipleOf",
	"minLength":        "minLength",
	"maxLength":        "maxLength",
	"minItems":         "minItems",
	"maxItems":         "maxItems",
	"uniqueItems":      "uniqueItems",
	"minProperties":    "minProperties",
	"maxProperties":    "maxProperties",
}

// reservedTags carry meanings owned by the ExtendedReader and are never
// interpreted here, even when configured as extra tags.
var reservedTags = map[string]bool{
	"asType":   true,
	"example":  true,
	"nullable": true,
}

// Reader extracts the base tag-driven annotation set from a symbol's
// structured tags. Extra tag names given at construction are additive and
// parsed like JSON tags.
type Reader struct {
	prog  *resolver.Program
	extra map[string]bool
}

// NewReader builds a base reader over prog. extraTags widens the recognized
// set; names colliding with built-in or reserved tags are ignored.
func NewReader(prog *resolver.Program, extraTags ...string) *Reader {
	extra := make(map[string]bool, len(extraTags))
	for _, name := range extraTags {
		if name == "" || reservedTags[name] {
			continue
		}
		if _, ok := textTags[name]; ok {
			continue
		}
		if _, ok := jsonTags[name]; ok {
			continue
		}
		extra[name] = true
	}
	return &Reader{prog: prog, extra: extra}
}

// GetAnnotations returns the tag-driven annotation record for node, or nil
// when the node resolves to nothing or carries no recognized tags.
func (r *Reader) GetAnnotations(node ast.Node) Record {
	sym := r.prog.Resolve(node)
	if sym == nil {
		return nil
	}

	rec := Record{}
	for _, tag := range sym.Tags() {
		if reservedTags[tag.Name] {
			continue
		}
		body := joinFragments(tag.Body, "")
		switch {
		case tag.Name == "deprecated":
			rec["deprecated"] = true
		case textTags[tag.Name] != "":
			rec[textTags[tag.Name]] = strings.TrimSpace(body)
		case jsonTags[tag.Name] != "":
			rec[jsonTags[tag.Name]] = parseLiteral(body)
		case r.extra[tag.Name]:
			rec[tag.Name] = parseLiteral(body)
		}
	}
	if len(rec) == 0 {
		return nil
	}
	return rec
}

// parseLiteral parses text as a JSON value, falling back to the trimmed
// string when it is not valid JSON.
func parseLiteral(text string) any {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return strings.TrimSpace(text)
	}
	return v
}
