package openapi

import (
	"strconv"

	"github.com/reoring/oasmd/tree"
)

// Kind identifies the shape of a schema node. Rendering dispatches on it.
type Kind int

const (
	// KindAny is a node with no recognizable shape, e.g. {} or true.
	KindAny Kind = iota
	KindReference
	KindObject
	KindArray
	KindComposition
	KindEnum
	KindPrimitive
	// KindNever is the boolean schema false.
	KindNever
)

func (k Kind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindComposition:
		return "composition"
	case KindEnum:
		return "enum"
	case KindPrimitive:
		return "primitive"
	case KindNever:
		return "never"
	}
	return "any"
}

// Composition keywords in rendering order.
const (
	AllOf = "allOf"
	AnyOf = "anyOf"
	OneOf = "oneOf"
)

// constraintKeywords lists passthrough keywords in rendering order.
var constraintKeywords = []string{
	"format",
	"pattern",
	"minimum",
	"exclusiveMinimum",
	"maximum",
	"exclusiveMaximum",
	"multipleOf",
	"minLength",
	"maxLength",
	"minItems",
	"maxItems",
	"uniqueItems",
	"minProperties",
	"maxProperties",
	"nullable",
	"readOnly",
	"writeOnly",
	"deprecated",
	"const",
	"default",
	"example",
}

// Schema is a JSON Schema fragment. A node with Ref set is a bare reference;
// its other fields are ignored by rendering.
type Schema struct {
	// Pointer is the location of the node in the source document.
	Pointer string
	Ref     string
	// Bool is set for the boolean schemas true and false.
	Bool *bool

	Types       []string
	Title       string
	Description string
	// Enum is non-nil when the keyword is present, even if empty.
	Enum       []any
	Properties []*Property
	Required   []string
	Items      *Schema
	// AdditionalProperties holds a schema-valued additionalProperties;
	// AdditionalAllowed holds a boolean one.
	AdditionalProperties *Schema
	AdditionalAllowed    *bool
	AllOf                []*Schema
	AnyOf                []*Schema
	OneOf                []*Schema
	Constraints          []Constraint
}

// Property is a named member of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Constraint is a passthrough keyword and its literal value.
type Constraint struct {
	Keyword string
	Value   any
}

// Composition is one composition keyword and its branches.
type Composition struct {
	Keyword  string
	Branches []*Schema
}

// Kind classifies the node. References win over everything, then objects,
// arrays, pure compositions, enums and primitives.
func (s *Schema) Kind() Kind {
	switch {
	case s == nil:
		return KindAny
	case s.Ref != "":
		return KindReference
	case s.Bool != nil:
		if *s.Bool {
			return KindAny
		}
		return KindNever
	case len(s.Properties) > 0 || s.AdditionalProperties != nil || s.AdditionalAllowed != nil ||
		len(s.Required) > 0 || s.HasType("object"):
		return KindObject
	case s.Items != nil || s.HasType("array"):
		return KindArray
	case len(s.AllOf) > 0 || len(s.AnyOf) > 0 || len(s.OneOf) > 0:
		return KindComposition
	case s.Enum != nil:
		return KindEnum
	case len(s.Types) > 0 || len(s.Constraints) > 0:
		return KindPrimitive
	}
	return KindAny
}

// HasType reports whether t is one of the declared types.
func (s *Schema) HasType(t string) bool {
	for _, v := range s.Types {
		if v == t {
			return true
		}
	}
	return false
}

// IsRequired reports whether name is listed in required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Compositions returns the present composition keywords in allOf, anyOf,
// oneOf order.
func (s *Schema) Compositions() []Composition {
	var out []Composition
	for _, c := range []Composition{{AllOf, s.AllOf}, {AnyOf, s.AnyOf}, {OneOf, s.OneOf}} {
		if len(c.Branches) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// ParseSchema builds a Schema from a tree value located at pointer. Values
// that are neither objects nor booleans yield an empty (any) schema; unknown
// keywords are ignored.
func ParseSchema(v any, pointer string) *Schema {
	s := &Schema{Pointer: pointer}
	switch t := v.(type) {
	case bool:
		b := t
		s.Bool = &b
		return s
	case *tree.Object:
		parseSchemaObject(s, t, pointer)
	}
	return s
}

func parseSchemaObject(s *Schema, o *tree.Object, pointer string) {
	if ref, ok := o.String("$ref"); ok {
		s.Ref = ref
		return
	}
	switch t, _ := o.Get("type"); tv := t.(type) {
	case string:
		s.Types = []string{tv}
	case []any:
		for _, e := range tv {
			if str, ok := e.(string); ok {
				s.Types = append(s.Types, str)
			}
		}
	}
	s.Title, _ = o.String("title")
	s.Description, _ = o.String("description")
	if enum, ok := o.Array("enum"); ok {
		s.Enum = append([]any{}, enum...)
	}
	if props, ok := o.Object("properties"); ok {
		for _, name := range props.Keys() {
			pv, _ := props.Get(name)
			s.Properties = append(s.Properties, &Property{
				Name:   name,
				Schema: ParseSchema(pv, Pointer(pointer, "properties", name)),
			})
		}
	}
	s.Required = o.Strings("required")
	if items, ok := o.Get("items"); ok {
		if _, isArr := items.([]any); !isArr {
			s.Items = ParseSchema(items, Pointer(pointer, "items"))
		}
	}
	if ap, ok := o.Get("additionalProperties"); ok {
		switch t := ap.(type) {
		case bool:
			b := t
			s.AdditionalAllowed = &b
		case *tree.Object:
			s.AdditionalProperties = ParseSchema(t, Pointer(pointer, "additionalProperties"))
		}
	}
	s.AllOf = parseBranches(o, AllOf, pointer)
	s.AnyOf = parseBranches(o, AnyOf, pointer)
	s.OneOf = parseBranches(o, OneOf, pointer)
	for _, kw := range constraintKeywords {
		if v, ok := o.Get(kw); ok {
			s.Constraints = append(s.Constraints, Constraint{Keyword: kw, Value: v})
		}
	}
}

func parseBranches(o *tree.Object, keyword, pointer string) []*Schema {
	arr, ok := o.Array(keyword)
	if !ok {
		return nil
	}
	out := make([]*Schema, 0, len(arr))
	for i, v := range arr {
		out = append(out, ParseSchema(v, Pointer(pointer, keyword, strconv.Itoa(i))))
	}
	return out
}
