package schema

import (
	"strconv"
	"strings"
)

// applyValidateTag maps go-playground/validator constraints from a struct
// tag onto a schema. Unknown constraint names are ignored.
func applyValidateTag(s *Schema, tag string) {
	if tag == "" {
		return
	}
	for _, part := range strings.Split(tag, ",") {
		name, value := splitConstraint(strings.TrimSpace(part))
		switch name {
		case "required", "omitempty", "dive":
			// required is surfaced through the parent's required list
		case "email":
			s.Format = "email"
		case "url", "uri":
			s.Format = "uri"
		case "uuid", "uuid3", "uuid4", "uuid5":
			s.Format = "uuid"
		case "datetime":
			s.Format = "date-time"
		case "hostname":
			s.Format = "hostname"
		case "ipv4", "ip":
			s.Format = "ipv4"
		case "ipv6":
			s.Format = "ipv6"
		case "alpha":
			s.Pattern = `^[a-zA-Z]+$`
		case "alphanum":
			s.Pattern = `^[a-zA-Z0-9]+$`
		case "numeric":
			s.Pattern = `^[0-9]+$`
		case "min", "gte":
			applyBound(s, value, false)
		case "max", "lte":
			applyBound(s, value, true)
		case "gt":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				s.Minimum = &f
				s.ExclusiveMinimum = true
			}
		case "lt":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				s.Maximum = &f
				s.ExclusiveMaximum = true
			}
		case "len":
			if n, err := strconv.Atoi(value); err == nil {
				switch s.Type {
				case "string":
					s.MinLength, s.MaxLength = &n, intCopy(n)
				case "array":
					s.MinItems, s.MaxItems = &n, intCopy(n)
				}
			}
		case "oneof":
			if value != "" {
				fields := strings.Fields(value)
				s.Enum = make([]any, len(fields))
				for i, f := range fields {
					s.Enum[i] = f
				}
			}
		case "unique":
			s.UniqueItems = true
		}
	}
}

// applyBound places a numeric bound on the constraint slot matching the
// schema's type: length for strings, item count for arrays, value otherwise.
func applyBound(s *Schema, value string, upper bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return
	}
	n := int(f)
	switch s.Type {
	case "string":
		if upper {
			s.MaxLength = &n
		} else {
			s.MinLength = &n
		}
	case "array":
		if upper {
			s.MaxItems = &n
		} else {
			s.MinItems = &n
		}
	default:
		if upper {
			s.Maximum = &f
		} else {
			s.Minimum = &f
		}
	}
}

// isRequired reports whether a validate tag marks a field required without
// also allowing omission.
func isRequired(tag string) bool {
	if tag == "" {
		return false
	}
	hasRequired, hasOmitempty := false, false
	for _, part := range strings.Split(tag, ",") {
		switch strings.TrimSpace(part) {
		case "required":
			hasRequired = true
		case "omitempty":
			hasOmitempty = true
		}
	}
	return hasRequired && !hasOmitempty
}

func splitConstraint(part string) (name, value string) {
	if idx := strings.Index(part, "="); idx >= 0 {
		return part[:idx], part[idx+1:]
	}
	return part, ""
}

func intCopy(n int) *int {
	c := n
	return &c
}
