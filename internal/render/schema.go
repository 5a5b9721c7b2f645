// Package render turns schemas and operations into markdown blocks.
package render

import (
	"strconv"
	"strings"

	"github.com/reoring/oasmd/internal/diag"
	"github.com/reoring/oasmd/internal/resolve"
	"github.com/reoring/oasmd/internal/view"
	md "github.com/reoring/oasmd/markdown"
	"github.com/reoring/oasmd/openapi"
	"github.com/reoring/oasmd/tree"
)

// Marker texts shown in place of a schema body.
const (
	AnyTypeText      = "any type, no constraints"
	NeverText        = "no value is valid"
	CircularText     = "circular reference to "
	UnresolvedText   = "⚠ unresolved: "
	NonLocalText     = "(non-local reference)"
	TruncatedText    = "maximum nesting depth reached"
	ResolvedDefLabel = "Resolved Definition"
)

// Config is the rendering configuration.
type Config struct {
	InlineRefs bool
	// MaxDepth is the nesting safety net; 0 selects view.DefaultMaxDepth.
	MaxDepth int
}

// Renderer renders schemas and operations of one document.
type Renderer struct {
	doc   *openapi.Document
	cfg   Config
	views *view.Builder
}

// New returns a Renderer for doc. Soft failures are reported to rep.
func New(doc *openapi.Document, cfg Config, rep diag.Reporter) *Renderer {
	return &Renderer{
		doc:   doc,
		cfg:   cfg,
		views: view.NewBuilder(resolve.New(doc), cfg.InlineRefs, cfg.MaxDepth, rep),
	}
}

// Schema renders s as nested list items using a fresh visitation stack.
func (r *Renderer) Schema(s *openapi.Schema) []*md.Item {
	return r.SchemaWith(s, &resolve.Stack{})
}

// SchemaWith renders s continuing the descent recorded in stack.
func (r *Renderer) SchemaWith(s *openapi.Schema, stack *resolve.Stack) []*md.Item {
	return schemaItems(r.views.Build(s, stack))
}

var constraintLabels = map[string]string{
	"format":           "Format",
	"pattern":          "Pattern",
	"minimum":          "Minimum",
	"exclusiveMinimum": "Exclusive Minimum",
	"maximum":          "Maximum",
	"exclusiveMaximum": "Exclusive Maximum",
	"multipleOf":       "Multiple Of",
	"minLength":        "Min Length",
	"maxLength":        "Max Length",
	"minItems":         "Min Items",
	"maxItems":         "Max Items",
	"uniqueItems":      "Unique Items",
	"minProperties":    "Min Properties",
	"maxProperties":    "Max Properties",
	"nullable":         "Nullable",
	"readOnly":         "Read Only",
	"writeOnly":        "Write Only",
	"deprecated":       "Deprecated",
	"const":            "Const",
	"default":          "Default",
	"example":          "Example",
}

var compositionNotes = map[string]string{
	openapi.AllOf: "(all of the following apply)",
	openapi.AnyOf: "(one or more of the following)",
	openapi.OneOf: "(exactly one of the following)",
}

func schemaItems(n *view.Node) []*md.Item {
	if n.Truncated {
		return []*md.Item{md.NewItem(md.Emph(md.Text(TruncatedText)))}
	}
	if n.Kind == openapi.KindReference {
		return refItems(n)
	}
	s := n.Schema
	items := header(s)
	switch n.Kind {
	case openapi.KindObject:
		items = append(items, values(s)...)
		items = append(items, objectItems(n)...)
	case openapi.KindArray:
		items = append(items, values(s)...)
		if n.Items != nil {
			items = append(items, labeled("Items", schemaItems(n.Items)))
		}
	case openapi.KindComposition, openapi.KindEnum, openapi.KindPrimitive:
		items = append(items, values(s)...)
	case openapi.KindNever:
		items = append(items, md.NewItem(md.Emph(md.Text(NeverText))))
	case openapi.KindAny:
		items = append(items, values(s)...)
		items = append(items, md.NewItem(md.Emph(md.Text(AnyTypeText))))
	}
	for _, c := range n.Compositions {
		items = append(items, compositionItem(c))
	}
	return items
}

func refItems(n *view.Node) []*md.Item {
	items := []*md.Item{md.NewItem(md.Strong(md.Text("$ref")), md.Text(": "), md.Code(n.Ref))}
	switch n.RefState {
	case view.RefInline:
		label := md.NewItem(md.Strong(md.Text(ResolvedDefLabel)), md.Text(" ("), md.Code(resolve.Name(n.Ref)), md.Text("):"))
		items = append(items, label.Add(schemaItems(n.Target)...))
	case view.RefCircular:
		items = append(items, md.NewItem(md.Emph(md.Text(CircularText), md.Code(n.Ref))))
	case view.RefUnresolved:
		items = append(items, UnresolvedItem(n.Ref))
	case view.RefUnsupported:
		it := UnresolvedItem(n.Ref)
		it.Content = append(it.Content, md.Text(" "), md.Emph(md.Text(NonLocalText)))
		items = append(items, it)
	}
	return items
}

// UnresolvedItem is the visible marker for a reference that does not resolve.
func UnresolvedItem(ref string) *md.Item {
	return md.NewItem(UnresolvedSpans(ref)...)
}

// UnresolvedSpans is the inline form of UnresolvedItem.
func UnresolvedSpans(ref string) []md.Inline {
	return md.Spans(md.Text(UnresolvedText), md.Code(ref))
}

func header(s *openapi.Schema) []*md.Item {
	var items []*md.Item
	if len(s.Types) > 0 {
		items = append(items, field("Type", md.Code(strings.Join(s.Types, " | "))))
	}
	if s.Title != "" {
		items = append(items, field("Title", md.Text(s.Title)))
	}
	if s.Description != "" {
		items = append(items, field("Description", md.Text(s.Description)))
	}
	return items
}

// values renders enum members and passthrough constraints; absent keywords
// produce nothing.
func values(s *openapi.Schema) []*md.Item {
	var items []*md.Item
	if s.Enum != nil {
		if len(s.Enum) == 0 {
			items = append(items, field("Enum", md.Emph(md.Text("(empty)"))))
		} else {
			items = append(items, field("Enum", codeList(s.Enum)...))
		}
	}
	for _, c := range s.Constraints {
		items = append(items, field(constraintLabels[c.Keyword], md.Code(Literal(c.Value))))
	}
	return items
}

func objectItems(n *view.Node) []*md.Item {
	var items []*md.Item
	if len(n.Properties) > 0 {
		props := md.NewItem(md.Strong(md.Text("Properties")), md.Text(":"))
		for _, p := range n.Properties {
			name := md.NewItem(md.Strong(md.Code(p.Name)))
			if p.Required {
				name.Content = append(name.Content, md.Text(" "), md.Emph(md.Text("(required)")))
			}
			name.Content = append(name.Content, md.Text(":"))
			props.Add(name.Add(schemaItems(p.Node)...))
		}
		items = append(items, props)
	}
	if len(n.UndeclaredRequired) > 0 {
		names := make([]any, 0, len(n.UndeclaredRequired))
		for _, r := range n.UndeclaredRequired {
			names = append(names, r)
		}
		items = append(items, field("Required", codeList(names)...))
	}
	switch {
	case n.Additional != nil:
		items = append(items, labeled("Additional Properties", schemaItems(n.Additional)))
	case n.Schema.AdditionalAllowed != nil && *n.Schema.AdditionalAllowed:
		items = append(items, field("Additional Properties", md.Emph(md.Text("allowed"))))
	case n.Schema.AdditionalAllowed != nil:
		items = append(items, field("Additional Properties", md.Emph(md.Text("no additional properties"))))
	}
	return items
}

func compositionItem(c view.Composition) *md.Item {
	it := md.NewItem(md.Strong(md.Text(c.Keyword)), md.Text(" "), md.Emph(md.Text(compositionNotes[c.Keyword])), md.Text(":"))
	for i, br := range c.Branches {
		opt := md.NewItem(md.Strong(md.Text("Option "+strconv.Itoa(i+1))), md.Text(":"))
		it.Add(opt.Add(schemaItems(br)...))
	}
	return it
}

func field(label string, value ...md.Inline) *md.Item {
	content := append(md.Spans(md.Strong(md.Text(label)), md.Text(": ")), value...)
	return md.NewItem(content...)
}

func labeled(label string, children []*md.Item) *md.Item {
	return md.NewItem(md.Strong(md.Text(label)), md.Text(":")).Add(children...)
}

func codeList(vals []any) []md.Inline {
	out := make([]md.Inline, 0, 2*len(vals))
	for i, v := range vals {
		if i > 0 {
			out = append(out, md.Text(", "))
		}
		out = append(out, md.Code(Literal(v)))
	}
	return out
}

// Literal is the display text of a value inside a code span. The empty
// string is shown quoted so that it stays visible.
func Literal(v any) string {
	if s, ok := v.(string); ok && s == "" {
		return `""`
	}
	return tree.Literal(v)
}
