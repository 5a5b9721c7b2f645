// Package resolve looks up $ref targets in a Document and tracks the chain of
// references expanded by one recursive descent.
package resolve

import (
	"github.com/reoring/oasmd/openapi"
	"github.com/reoring/oasmd/tree"
)

// Status describes the outcome of a lookup.
type Status int

const (
	Resolved Status = iota
	// Unresolved: the pointer is local but leads nowhere usable.
	Unresolved
	// Unsupported: the pointer targets another document.
	Unsupported
)

// Resolver resolves schema references against one document. It never fails
// hard: a missing target is reported through the Status.
type Resolver struct {
	doc *openapi.Document
	// deep caches schemas parsed from pointers that do not name a component
	// schema directly. It lives as long as the Resolver (one invocation).
	deep map[string]*openapi.Schema
}

// New returns a Resolver for doc.
func New(doc *openapi.Document) *Resolver {
	return &Resolver{doc: doc, deep: make(map[string]*openapi.Schema)}
}

// Resolve returns the schema ref points to.
func (r *Resolver) Resolve(ref string) (*openapi.Schema, Status) {
	if !openapi.IsLocalRef(ref) {
		return nil, Unsupported
	}
	if name, ok := openapi.SchemaName(ref); ok {
		if s, ok := r.doc.Components.Schemas.Get(name); ok {
			return s, Resolved
		}
		return nil, Unresolved
	}
	if s, ok := r.deep[ref]; ok {
		return s, Resolved
	}
	tokens, err := openapi.ParseLocalRef(ref)
	if err != nil || len(tokens) == 0 {
		return nil, Unresolved
	}
	v, ok := openapi.Lookup(r.doc.Raw, tokens)
	if !ok {
		return nil, Unresolved
	}
	switch t := v.(type) {
	case bool:
	case *tree.Object:
		if t == nil {
			return nil, Unresolved
		}
	default:
		return nil, Unresolved
	}
	s := openapi.ParseSchema(v, openapi.Pointer("#", tokens...))
	r.deep[ref] = s
	return s, Resolved
}

// Name returns a short display name for ref: the component schema name when
// it names one, otherwise the pointer itself.
func Name(ref string) string {
	if name, ok := openapi.SchemaName(ref); ok {
		return name
	}
	return ref
}
