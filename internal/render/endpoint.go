package render

import (
	"sort"
	"strconv"
	"strings"

	md "github.com/reoring/oasmd/markdown"
	"github.com/reoring/oasmd/openapi"
)

// NoResponsesText is shown when an operation declares an empty responses map.
const NoResponsesText = "No responses defined"

// OperationTitle is the heading text of op, e.g. "GET /pets/{id}".
func OperationTitle(op *openapi.Operation) string {
	return strings.ToUpper(op.Method) + " " + op.Path
}

// Operation renders op with its heading at level; sub-blocks sit one level
// deeper and response codes two levels deeper. The section ends with a rule.
func (r *Renderer) Operation(op *openapi.Operation, level int) md.Section {
	var sec md.Section
	sec.Append(md.Heading{Level: level, Content: md.Spans(md.Code(OperationTitle(op)))})
	sec.Append(r.meta(op)...)
	if len(op.Parameters) > 0 {
		sec.Append(md.Heading{Level: level + 1, Content: md.Spans(md.Text("Parameters"))})
		list := md.List{}
		for _, p := range op.Parameters {
			list.Items = append(list.Items, r.parameter(p))
		}
		sec.Append(list)
	}
	if op.RequestBody != nil {
		sec.Append(md.Heading{Level: level + 1, Content: md.Spans(md.Text("Request Body"))})
		sec.Append(r.requestBody(op.RequestBody)...)
	}
	if op.Responses != nil {
		sec.Append(md.Heading{Level: level + 1, Content: md.Spans(md.Text("Responses"))})
		if len(op.Responses) == 0 {
			sec.Append(md.Paragraph{Content: md.Spans(md.Emph(md.Text(NoResponsesText)))})
		}
		for _, resp := range SortResponses(op.Responses) {
			sec.Append(md.Heading{Level: level + 2, Content: md.Spans(md.Code(resp.Code))})
			sec.Append(r.response(resp)...)
		}
	}
	if op.Security != nil {
		sec.Append(md.Heading{Level: level + 1, Content: md.Spans(md.Text("Security"))})
		sec.Append(security(op.Security))
	}
	sec.Append(md.Rule{})
	return sec
}

func (r *Renderer) meta(op *openapi.Operation) []md.Block {
	var out []md.Block
	para := func(label string, v ...md.Inline) {
		out = append(out, md.Paragraph{Content: append(md.Spans(md.Strong(md.Text(label)), md.Text(": ")), v...)})
	}
	if op.Summary != "" {
		para("Summary", md.Text(op.Summary))
	}
	if op.Description != "" {
		para("Description", md.Text(op.Description))
	}
	if op.OperationID != "" {
		para("Operation ID", md.Code(op.OperationID))
	}
	if len(op.Tags) > 0 {
		tags := make([]any, 0, len(op.Tags))
		for _, t := range op.Tags {
			tags = append(tags, t)
		}
		para("Tags", codeList(tags)...)
	}
	if op.Deprecated {
		out = append(out, md.Paragraph{Content: md.Spans(md.Strong(md.Text("Deprecated")))})
	}
	return out
}

func (r *Renderer) parameter(p *openapi.Parameter) *md.Item {
	if p.Unresolved {
		return UnresolvedItem(p.Ref)
	}
	it := md.NewItem(md.Strong(md.Code(p.Name)), md.Text(" ("+p.In+") - "))
	if p.Required {
		it.Content = append(it.Content, md.Strong(md.Text("Required")))
	} else {
		it.Content = append(it.Content, md.Text("Optional"))
	}
	if p.Ref != "" {
		it.Add(field("$ref", md.Code(p.Ref)))
	}
	if p.Description != "" {
		it.Add(field("Description", md.Text(p.Description)))
	}
	if p.Deprecated {
		it.Add(md.NewItem(md.Strong(md.Text("Deprecated"))))
	}
	if p.Schema != nil {
		it.Add(labeled("Schema", r.Schema(p.Schema)))
	}
	if len(p.Content) > 0 {
		it.Add(labeled("Content", r.mediaTypes(p.Content)))
	}
	return it
}

func (r *Renderer) requestBody(b *openapi.RequestBody) []md.Block {
	if b.Unresolved {
		return []md.Block{md.Paragraph{Content: UnresolvedSpans(b.Ref)}}
	}
	var out []md.Block
	if b.Ref != "" {
		out = append(out, md.Paragraph{Content: md.Spans(md.Strong(md.Text("$ref")), md.Text(": "), md.Code(b.Ref))})
	}
	out = append(out, md.Paragraph{Content: md.Spans(md.Strong(md.Text("Required")), md.Text(": "), md.Code(strconv.FormatBool(b.Required)))})
	if b.Description != "" {
		out = append(out, md.Paragraph{Content: md.Spans(md.Strong(md.Text("Description")), md.Text(": "), md.Text(b.Description))})
	}
	if len(b.Content) > 0 {
		out = append(out,
			md.Paragraph{Content: md.Spans(md.Strong(md.Text("Content")), md.Text(":"))},
			md.List{Items: r.mediaTypes(b.Content)})
	}
	return out
}

func (r *Renderer) response(resp *openapi.Response) []md.Block {
	if resp.Unresolved {
		return []md.Block{md.Paragraph{Content: UnresolvedSpans(resp.Ref)}}
	}
	var out []md.Block
	if resp.Ref != "" {
		out = append(out, md.Paragraph{Content: md.Spans(md.Strong(md.Text("$ref")), md.Text(": "), md.Code(resp.Ref))})
	}
	if resp.Description != "" {
		out = append(out, md.Paragraph{Content: md.Spans(md.Text(resp.Description))})
	}
	if len(resp.Headers) > 0 {
		list := md.List{}
		for _, h := range resp.Headers {
			list.Items = append(list.Items, r.header(h))
		}
		out = append(out, md.Paragraph{Content: md.Spans(md.Strong(md.Text("Headers")), md.Text(":"))}, list)
	}
	if len(resp.Content) > 0 {
		out = append(out,
			md.Paragraph{Content: md.Spans(md.Strong(md.Text("Content")), md.Text(":"))},
			md.List{Items: r.mediaTypes(resp.Content)})
	}
	return out
}

func (r *Renderer) header(h *openapi.Header) *md.Item {
	if h.Unresolved {
		it := md.NewItem(md.Strong(md.Code(h.Name)), md.Text(": "))
		it.Content = append(it.Content, UnresolvedSpans(h.Ref)...)
		return it
	}
	it := md.NewItem(md.Strong(md.Code(h.Name)))
	if h.Required {
		it.Content = append(it.Content, md.Text(" "), md.Emph(md.Text("(required)")))
	}
	if h.Description != "" {
		it.Add(field("Description", md.Text(h.Description)))
	}
	if h.Schema != nil {
		it.Add(labeled("Schema", r.Schema(h.Schema)))
	}
	return it
}

func (r *Renderer) mediaTypes(content []*openapi.MediaType) []*md.Item {
	items := make([]*md.Item, 0, len(content))
	for _, mt := range content {
		it := md.NewItem(md.Code(mt.ContentType))
		if mt.Schema != nil {
			it.Add(r.Schema(mt.Schema)...)
		}
		items = append(items, it)
	}
	return items
}

func security(reqs []openapi.SecurityRequirement) md.Block {
	if len(reqs) == 0 {
		return md.Paragraph{Content: md.Spans(md.Emph(md.Text("No security requirements")))}
	}
	list := md.List{}
	for _, req := range reqs {
		if len(req.Schemes) == 0 {
			list.Items = append(list.Items, md.NewItem(md.Emph(md.Text("anonymous access"))))
			continue
		}
		it := md.NewItem()
		for i, s := range req.Schemes {
			if i > 0 {
				it.Content = append(it.Content, md.Text(" and "))
			}
			it.Content = append(it.Content, md.Strong(md.Text(s.Name)), md.Text(": "))
			if len(s.Scopes) == 0 {
				it.Content = append(it.Content, md.Text("No scopes required"))
				continue
			}
			scopes := make([]any, 0, len(s.Scopes))
			for _, sc := range s.Scopes {
				scopes = append(scopes, sc)
			}
			it.Content = append(it.Content, codeList(scopes)...)
		}
		list.Items = append(list.Items, it)
	}
	return list
}

// SortResponses orders responses by ascending numeric status code. Codes
// that are not plain integers ("default", "2XX") follow, in lexical order.
func SortResponses(in []*openapi.Response) []*openapi.Response {
	out := append([]*openapi.Response(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		a, aerr := strconv.Atoi(out[i].Code)
		b, berr := strconv.Atoi(out[j].Code)
		switch {
		case aerr == nil && berr == nil:
			return a < b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		}
		return out[i].Code < out[j].Code
	})
	return out
}
