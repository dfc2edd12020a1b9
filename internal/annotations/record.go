// Package annotations turns resolved declaration symbols into schema
// annotation records. The base Reader handles the tag-driven field set; the
// ExtendedReader layers description, type-override, and example extraction
// on top of it.
package annotations

import (
	"encoding/json"
	"math"

	"github.com/example/schemadoc/internal/resolver"
)

// Record maps annotation-field names to values for one declaration. A nil
// Record means no annotations at all; field presence is significant, so an
// absent field differs from an empty one. Records are built fresh per call.
type Record map[string]any

// merge copies src into dst, overwriting on key collision.
func merge(dst, src Record) {
	for k, v := range src {
		dst[k] = v
	}
}

// EnumMember describes one constant of a const-valued enumeration.
type EnumMember struct {
	Const       float64 `json:"const" yaml:"const"`
	Description string  `json:"description" yaml:"description"`
}

// MarshalJSON emits null for a non-finite const so that a malformed member
// declaration cannot poison an otherwise valid document.
func (m EnumMember) MarshalJSON() ([]byte, error) {
	c := any(m.Const)
	if math.IsNaN(m.Const) || math.IsInf(m.Const, 0) {
		c = nil
	}
	return json.Marshal(map[string]any{
		"const":       c,
		"description": m.Description,
	})
}

// joinFragments concatenates fragment texts with the given separator.
func joinFragments(frags []resolver.Fragment, sep string) string {
	switch len(frags) {
	case 0:
		return ""
	case 1:
		return frags[0].Text
	}
	out := frags[0].Text
	for _, f := range frags[1:] {
		out += sep + f.Text
	}
	return out
}
