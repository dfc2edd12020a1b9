package schema

import (
	"go/ast"
	"math"
	"reflect"
	"strings"

	"github.com/example/schemadoc/internal/annotations"
	"github.com/example/schemadoc/internal/resolver"
)

// DraftURI identifies the schema dialect of emitted documents.
const DraftURI = "http://json-schema.org/draft-07/schema#"

// Builder turns a resolved program into named schema definitions enriched
// with doc-comment annotation records.
type Builder struct {
	prog   *resolver.Program
	reader *annotations.ExtendedReader
}

// NewBuilder wires a builder over an already-parsed program.
func NewBuilder(prog *resolver.Program, reader *annotations.ExtendedReader) *Builder {
	return &Builder{prog: prog, reader: reader}
}

// Build produces one definition per indexed type declaration.
func (b *Builder) Build() *Document {
	doc := &Document{
		Schema:      DraftURI,
		Definitions: make(map[string]*Schema),
	}
	for _, td := range b.prog.TypeDecls() {
		doc.Definitions[td.Name] = b.typeSchema(td)
	}
	return doc
}

func (b *Builder) typeSchema(td resolver.TypeDecl) *Schema {
	var s *Schema
	if st, ok := td.Spec.Type.(*ast.StructType); ok {
		s = b.structSchema(st)
	} else {
		s = b.exprSchema(td.Spec.Type)
	}

	b.applyRecord(s, b.reader.GetAnnotations(td.Spec))
	if b.reader.IsNullable(td.Spec) {
		s.Nullable = true
	}
	return s
}

func (b *Builder) structSchema(st *ast.StructType) *Schema {
	s := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema),
	}
	var required []string

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			continue
		}
		name, validate, skip := fieldTags(field)
		if skip || name == "" {
			continue
		}
		s.Properties[name] = b.fieldSchema(field, validate)
		if isRequired(validate) {
			required = append(required, name)
		}
	}

	s.Required = required
	return s
}

func (b *Builder) fieldSchema(field *ast.Field, validate string) *Schema {
	s := b.exprSchema(field.Type)
	if _, ok := field.Type.(*ast.StarExpr); ok {
		s.Nullable = true
	}
	applyValidateTag(s, validate)

	b.applyRecord(s, b.reader.GetAnnotations(field))
	if b.reader.IsNullable(field) {
		s.Nullable = true
	}
	return s
}

// fieldTags reads the json and validate struct tags. skip is true for
// `json:"-"` fields.
func fieldTags(field *ast.Field) (name, validate string, skip bool) {
	if field.Tag == nil {
		return "", "", false
	}
	tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
	jsonTag := tag.Get("json")
	if idx := strings.Index(jsonTag, ","); idx >= 0 {
		jsonTag = jsonTag[:idx]
	}
	if jsonTag == "-" {
		return "", "", true
	}
	return jsonTag, tag.Get("validate"), false
}

func (b *Builder) exprSchema(expr ast.Expr) *Schema {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return b.exprSchema(t.X)
	case *ast.Ident:
		return b.identSchema(t)
	case *ast.ArrayType:
		if ident, ok := t.Elt.(*ast.Ident); ok && ident.Name == "byte" {
			return &Schema{Type: "string", Format: "byte"}
		}
		return &Schema{Type: "array", Items: b.exprSchema(t.Elt)}
	case *ast.MapType:
		return &Schema{Type: "object", AdditionalProperties: true}
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok && pkg.Name == "time" && t.Sel.Name == "Time" {
			return &Schema{Type: "string", Format: "date-time"}
		}
		return &Schema{Type: "object"}
	case *ast.InterfaceType:
		return &Schema{}
	case *ast.StructType:
		return b.structSchema(t)
	default:
		return &Schema{Type: "object"}
	}
}

func (b *Builder) identSchema(ident *ast.Ident) *Schema {
	switch ident.Name {
	case "string":
		return &Schema{Type: "string"}
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64":
		return &Schema{Type: "integer"}
	case "float32", "float64":
		return &Schema{Type: "number"}
	case "bool":
		return &Schema{Type: "boolean"}
	}
	if b.prog.TypeNode(ident.Name) != nil {
		return &Schema{Ref: "#/definitions/" + ident.Name}
	}
	return &Schema{Type: "object"}
}

// applyRecord writes an annotation record's fields onto a schema. Record
// values win over structurally derived ones.
func (b *Builder) applyRecord(s *Schema, rec annotations.Record) {
	for key, value := range rec {
		switch key {
		case "description":
			s.Description, _ = value.(string)
		case "markdownDescription":
			s.MarkdownDescription, _ = value.(string)
		case "title":
			s.Title, _ = value.(string)
		case "type":
			if t, ok := value.(string); ok {
				s.Type = t
				s.Ref = ""
			}
		case "examples":
			s.Examples, _ = value.([]any)
		case "anyOf":
			if members, ok := value.([]annotations.EnumMember); ok {
				s.AnyOf = memberSchemas(members)
			}
		case "format":
			s.Format, _ = value.(string)
		case "pattern":
			s.Pattern, _ = value.(string)
		case "$ref":
			s.Ref, _ = value.(string)
		case "default":
			s.Default = value
		case "deprecated":
			s.Deprecated = value == true
		case "minimum":
			s.Minimum = floatPtr(value)
		case "maximum":
			s.Maximum = floatPtr(value)
		case "multipleOf":
			s.MultipleOf = floatPtr(value)
		case "exclusiveMinimum":
			s.ExclusiveMinimum = value == true
		case "exclusiveMaximum":
			s.ExclusiveMaximum = value == true
		case "minLength":
			s.MinLength = intPtr(value)
		case "maxLength":
			s.MaxLength = intPtr(value)
		case "minItems":
			s.MinItems = intPtr(value)
		case "maxItems":
			s.MaxItems = intPtr(value)
		case "minProperties":
			s.MinProperties = intPtr(value)
		case "maxProperties":
			s.MaxProperties = intPtr(value)
		case "uniqueItems":
			s.UniqueItems = value == true
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]any)
			}
			s.Extra[key] = value
		}
	}
}

func memberSchemas(members []annotations.EnumMember) []*Schema {
	out := make([]*Schema, len(members))
	for i, m := range members {
		var c any = m.Const
		if math.IsNaN(m.Const) || math.IsInf(m.Const, 0) {
			c = nil
		}
		out[i] = &Schema{Const: c, Description: m.Description}
	}
	return out
}

func floatPtr(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func intPtr(v any) *int {
	if f, ok := v.(float64); ok {
		i := int(f)
		return &i
	}
	return nil
}
