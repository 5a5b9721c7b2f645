package openapi

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/reoring/oasmd/internal/diag"
	"github.com/reoring/oasmd/tree"
)

// ErrInputStructure reports a document that cannot be rendered at all: the
// root is not an object or it has no paths object.
var ErrInputStructure = errors.New("input structure error")

// maxRefHops bounds $ref chains between component parameters, bodies and
// responses.
const maxRefHops = 32

// Build converts a parsed document tree into the model. Problems inside
// individual operations are reported to rep and skipped; only a structurally
// invalid root fails.
func Build(root any, rep diag.Reporter) (*Document, error) {
	obj, ok := root.(*tree.Object)
	if !ok || obj == nil {
		return nil, errors.Wrap(ErrInputStructure, "document root is not an object")
	}
	pv, ok := obj.Get("paths")
	if !ok {
		return nil, errors.Wrap(ErrInputStructure, "document has no paths")
	}
	paths, ok := pv.(*tree.Object)
	if !ok || paths == nil {
		return nil, errors.Wrap(ErrInputStructure, "paths is not an object")
	}

	b := &builder{raw: obj, rep: rep}
	doc := &Document{Raw: obj}
	doc.OpenAPI, _ = obj.String("openapi")
	doc.Info = b.info(obj)
	doc.Servers = b.servers(obj)
	doc.Tags = b.tags(obj)
	if _, ok := obj.Get("security"); ok {
		doc.Security = b.security(obj)
	}
	doc.Components = b.components(obj)

	for _, path := range paths.Keys() {
		v, _ := paths.Get(path)
		pointer := Pointer("#/paths", path)
		item, ok := v.(*tree.Object)
		if !ok || item == nil {
			diag.Reportf(rep, diag.CodeMalformedOperation, pointer, "", "path item is not an object")
			continue
		}
		doc.Paths = append(doc.Paths, b.pathItem(path, item, pointer, doc.Security))
	}
	return doc, nil
}

type builder struct {
	raw *tree.Object
	rep diag.Reporter
}

func (b *builder) info(root *tree.Object) Info {
	var info Info
	if o, ok := root.Object("info"); ok {
		info.Title, _ = o.String("title")
		info.Version = stringish(o, "version")
		info.Description, _ = o.String("description")
	}
	return info
}

func (b *builder) servers(root *tree.Object) []Server {
	arr, _ := root.Array("servers")
	var out []Server
	for _, v := range arr {
		o, ok := v.(*tree.Object)
		if !ok {
			continue
		}
		var s Server
		s.URL, _ = o.String("url")
		s.Description, _ = o.String("description")
		out = append(out, s)
	}
	return out
}

func (b *builder) tags(root *tree.Object) []Tag {
	arr, _ := root.Array("tags")
	var out []Tag
	for _, v := range arr {
		o, ok := v.(*tree.Object)
		if !ok {
			continue
		}
		var t Tag
		t.Name, _ = o.String("name")
		t.Description, _ = o.String("description")
		if t.Name != "" {
			out = append(out, t)
		}
	}
	return out
}

func (b *builder) components(root *tree.Object) Components {
	c := Components{Schemas: &Schemas{}}
	comps, ok := root.Object("components")
	if !ok {
		return c
	}
	schemas, ok := comps.Object("schemas")
	if !ok {
		return c
	}
	for _, name := range schemas.Keys() {
		v, _ := schemas.Get(name)
		c.Schemas.add(name, ParseSchema(v, Pointer("#/components/schemas", name)))
	}
	return c
}

func (b *builder) security(o *tree.Object) []SecurityRequirement {
	arr, _ := o.Array("security")
	out := make([]SecurityRequirement, 0, len(arr))
	for _, v := range arr {
		req, ok := v.(*tree.Object)
		if !ok {
			continue
		}
		var sr SecurityRequirement
		for _, name := range req.Keys() {
			sr.Schemes = append(sr.Schemes, SecurityScheme{Name: name, Scopes: req.Strings(name)})
		}
		out = append(out, sr)
	}
	return out
}

func (b *builder) pathItem(path string, item *tree.Object, pointer string, docSecurity []SecurityRequirement) *PathItem {
	pi := &PathItem{Path: path}
	shared := b.parameters(item, pointer)
	for _, method := range item.Keys() {
		if !isMethod(method) {
			continue
		}
		v, _ := item.Get(method)
		opPointer := Pointer(pointer, method)
		o, ok := v.(*tree.Object)
		if !ok || o == nil {
			diag.Reportf(b.rep, diag.CodeMalformedOperation, opPointer, "", "operation is not an object")
			continue
		}
		pi.Operations = append(pi.Operations, b.operation(path, strings.ToLower(method), o, opPointer, shared, docSecurity))
	}
	return pi
}

func (b *builder) operation(path, method string, o *tree.Object, pointer string, shared []*Parameter, docSecurity []SecurityRequirement) *Operation {
	op := &Operation{
		Method:  method,
		Path:    path,
		Pointer: pointer,
		Tags:    o.Strings("tags"),
	}
	op.Summary, _ = o.String("summary")
	op.Description, _ = o.String("description")
	op.OperationID, _ = o.String("operationId")
	op.Deprecated, _ = o.Bool("deprecated")
	op.Parameters = mergeParameters(shared, b.parameters(o, pointer))

	if v, ok := o.Get("requestBody"); ok {
		op.RequestBody = b.requestBody(v, Pointer(pointer, "requestBody"))
	}

	rv, ok := o.Get("responses")
	responses, isObj := rv.(*tree.Object)
	switch {
	case !ok:
		diag.Reportf(b.rep, diag.CodeMalformedOperation, pointer, "", "operation has no responses")
	case !isObj || responses == nil:
		diag.Reportf(b.rep, diag.CodeMalformedOperation, Pointer(pointer, "responses"), "", "responses is not an object")
	default:
		op.Responses = []*Response{}
		for _, code := range responses.Keys() {
			v, _ := responses.Get(code)
			if r := b.response(code, v, Pointer(pointer, "responses", code)); r != nil {
				op.Responses = append(op.Responses, r)
			}
		}
	}

	if _, ok := o.Get("security"); ok {
		op.Security = b.security(o)
	} else {
		op.Security = docSecurity
	}
	return op
}

func (b *builder) parameters(o *tree.Object, pointer string) []*Parameter {
	arr, ok := o.Array("parameters")
	if !ok {
		return nil
	}
	out := make([]*Parameter, 0, len(arr))
	for i, v := range arr {
		p := b.parameter(v, Pointer(pointer, "parameters", strconv.Itoa(i)))
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (b *builder) parameter(v any, pointer string) *Parameter {
	o, ref, target, ok := b.deref(v, pointer)
	if !ok {
		if ref == "" {
			diag.Reportf(b.rep, diag.CodeMalformedOperation, pointer, "", "parameter is not an object")
			return nil
		}
		return &Parameter{Ref: ref, Unresolved: true}
	}
	p := &Parameter{Ref: ref}
	p.Name, _ = o.String("name")
	p.In, _ = o.String("in")
	p.Description, _ = o.String("description")
	p.Required, _ = o.Bool("required")
	p.Deprecated, _ = o.Bool("deprecated")
	if sv, ok := o.Get("schema"); ok {
		p.Schema = ParseSchema(sv, Pointer(target, "schema"))
	}
	p.Content = b.content(o, target)
	return p
}

func (b *builder) requestBody(v any, pointer string) *RequestBody {
	o, ref, target, ok := b.deref(v, pointer)
	if !ok {
		if ref == "" {
			diag.Reportf(b.rep, diag.CodeMalformedOperation, pointer, "", "requestBody is not an object")
			return nil
		}
		return &RequestBody{Ref: ref, Unresolved: true}
	}
	rb := &RequestBody{Ref: ref}
	rb.Description, _ = o.String("description")
	rb.Required, _ = o.Bool("required")
	rb.Content = b.content(o, target)
	return rb
}

func (b *builder) response(code string, v any, pointer string) *Response {
	o, ref, target, ok := b.deref(v, pointer)
	if !ok {
		if ref == "" {
			diag.Reportf(b.rep, diag.CodeMalformedOperation, pointer, "", "response is not an object")
			return nil
		}
		return &Response{Code: code, Ref: ref, Unresolved: true}
	}
	r := &Response{Code: code, Ref: ref}
	r.Description, _ = o.String("description")
	r.Content = b.content(o, target)
	if headers, ok := o.Object("headers"); ok {
		for _, name := range headers.Keys() {
			hv, _ := headers.Get(name)
			if h := b.header(name, hv, Pointer(target, "headers", name)); h != nil {
				r.Headers = append(r.Headers, h)
			}
		}
	}
	return r
}

func (b *builder) header(name string, v any, pointer string) *Header {
	o, ref, target, ok := b.deref(v, pointer)
	if !ok {
		if ref == "" {
			return nil
		}
		return &Header{Name: name, Ref: ref, Unresolved: true}
	}
	h := &Header{Name: name, Ref: ref}
	h.Description, _ = o.String("description")
	h.Required, _ = o.Bool("required")
	if sv, ok := o.Get("schema"); ok {
		h.Schema = ParseSchema(sv, Pointer(target, "schema"))
	}
	return h
}

func (b *builder) content(o *tree.Object, pointer string) []*MediaType {
	c, ok := o.Object("content")
	if !ok {
		return nil
	}
	out := make([]*MediaType, 0, c.Len())
	for _, ct := range c.Keys() {
		mt := &MediaType{ContentType: ct}
		if mo, ok := c.Object(ct); ok {
			if sv, ok := mo.Get("schema"); ok {
				mt.Schema = ParseSchema(sv, Pointer(pointer, "content", ct, "schema"))
			}
		}
		out = append(out, mt)
	}
	return out
}

// deref follows $ref chains for non-schema objects. It returns the target
// object, the first $ref seen (empty for inline objects), the target's
// pointer, and ok=false when the value is not an object or cannot be resolved.
func (b *builder) deref(v any, pointer string) (*tree.Object, string, string, bool) {
	o, isObj := v.(*tree.Object)
	if !isObj || o == nil {
		return nil, "", pointer, false
	}
	first, _ := o.String("$ref")
	target := pointer
	seen := map[string]bool{}
	for hops := 0; ; hops++ {
		ref, isRef := o.String("$ref")
		if !isRef {
			return o, first, target, true
		}
		if !IsLocalRef(ref) {
			diag.Reportf(b.rep, diag.CodeUnsupportedRef, pointer, ref, "")
			return nil, first, pointer, false
		}
		if seen[ref] || hops >= maxRefHops {
			diag.Reportf(b.rep, diag.CodeUnresolvedRef, pointer, ref, "")
			return nil, first, pointer, false
		}
		seen[ref] = true
		tokens, err := ParseLocalRef(ref)
		if err != nil {
			diag.Reportf(b.rep, diag.CodeUnresolvedRef, pointer, ref, "")
			return nil, first, pointer, false
		}
		next, found := Lookup(b.raw, tokens)
		nextObj, isObj := next.(*tree.Object)
		if !found || !isObj || nextObj == nil {
			diag.Reportf(b.rep, diag.CodeUnresolvedRef, pointer, ref, "")
			return nil, first, pointer, false
		}
		o = nextObj
		target = Pointer("#", tokens...)
	}
}

// mergeParameters returns path-level parameters not overridden by an
// operation-level one with the same name and location, followed by the
// operation-level parameters.
func mergeParameters(shared, own []*Parameter) []*Parameter {
	if len(shared) == 0 {
		return own
	}
	key := func(p *Parameter) string { return p.In + "\x00" + p.Name }
	overridden := make(map[string]bool, len(own))
	for _, p := range own {
		if !p.Unresolved {
			overridden[key(p)] = true
		}
	}
	out := make([]*Parameter, 0, len(shared)+len(own))
	for _, p := range shared {
		if p.Unresolved || !overridden[key(p)] {
			out = append(out, p)
		}
	}
	return append(out, own...)
}

func isMethod(key string) bool {
	k := strings.ToLower(key)
	for _, m := range Methods {
		if k == m {
			return true
		}
	}
	return false
}

// stringish returns a string value, or the literal of a number (version: 1.0).
func stringish(o *tree.Object, key string) string {
	v, ok := o.Get(key)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case tree.Number:
		return string(t)
	}
	return ""
}
