// Package view builds the resolved view of a schema: a throwaway tree in
// which references are expanded to their targets (or terminated by a
// circular / unresolved leaf). The source Schema is never modified.
package view

import (
	"github.com/reoring/oasmd/internal/diag"
	"github.com/reoring/oasmd/internal/resolve"
	"github.com/reoring/oasmd/openapi"
)

// RefState is the outcome of a reference node.
type RefState int

const (
	// RefPointer: inlining is disabled; only the pointer is shown.
	RefPointer RefState = iota
	// RefInline: Target holds the expanded definition.
	RefInline
	// RefCircular: the reference is already being expanded on this path.
	RefCircular
	RefUnresolved
	RefUnsupported
)

// Node is one resolved schema node.
type Node struct {
	Kind   openapi.Kind
	Schema *openapi.Schema

	// Reference nodes.
	Ref      string
	RefState RefState
	Target   *Node

	// Object nodes.
	Properties         []Property
	UndeclaredRequired []string
	Additional         *Node

	// Array nodes.
	Items *Node

	// Any node except references may carry compositions.
	Compositions []Composition

	// Truncated marks a node cut off by the depth limit.
	Truncated bool
}

// Property is a resolved object member.
type Property struct {
	Name     string
	Required bool
	Node     *Node
}

// Composition is a resolved composition keyword.
type Composition struct {
	Keyword  string
	Branches []*Node
}

// DefaultMaxDepth is the default nesting limit. It is a safety net only;
// cycles are terminated by the reference stack.
const DefaultMaxDepth = 64

// Builder builds views for one document.
type Builder struct {
	res      *resolve.Resolver
	inline   bool
	maxDepth int
	rep      diag.Reporter
}

// NewBuilder returns a Builder. inline controls whether references are
// expanded; maxDepth <= 0 selects DefaultMaxDepth.
func NewBuilder(res *resolve.Resolver, inline bool, maxDepth int, rep diag.Reporter) *Builder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Builder{res: res, inline: inline, maxDepth: maxDepth, rep: rep}
}

// Build resolves s. stack carries the references being expanded by the
// caller; pass a fresh Stack for each top-level schema.
func (b *Builder) Build(s *openapi.Schema, stack *resolve.Stack) *Node {
	if stack == nil {
		stack = &resolve.Stack{}
	}
	return b.node(s, stack, 0)
}

func (b *Builder) node(s *openapi.Schema, stack *resolve.Stack, depth int) *Node {
	if s == nil {
		s = &openapi.Schema{}
	}
	n := &Node{Kind: s.Kind(), Schema: s}
	if depth > b.maxDepth {
		diag.Reportf(b.rep, diag.CodeMaxDepth, s.Pointer, "", "")
		n.Truncated = true
		return n
	}
	switch n.Kind {
	case openapi.KindReference:
		b.reference(n, stack, depth)
		return n
	case openapi.KindObject:
		b.object(n, stack, depth)
	case openapi.KindArray:
		if s.Items != nil {
			n.Items = b.node(s.Items, stack, depth+1)
		}
	case openapi.KindComposition, openapi.KindEnum, openapi.KindPrimitive, openapi.KindAny, openapi.KindNever:
	}
	for _, c := range s.Compositions() {
		rc := Composition{Keyword: c.Keyword}
		for _, br := range c.Branches {
			rc.Branches = append(rc.Branches, b.node(br, stack, depth+1))
		}
		n.Compositions = append(n.Compositions, rc)
	}
	return n
}

func (b *Builder) reference(n *Node, stack *resolve.Stack, depth int) {
	ref := n.Schema.Ref
	n.Ref = ref
	target, status := b.res.Resolve(ref)
	switch status {
	case resolve.Unsupported:
		diag.Reportf(b.rep, diag.CodeUnsupportedRef, n.Schema.Pointer, ref, "")
		n.RefState = RefUnsupported
		return
	case resolve.Unresolved:
		diag.Reportf(b.rep, diag.CodeUnresolvedRef, n.Schema.Pointer, ref, "")
		n.RefState = RefUnresolved
		return
	}
	if !b.inline {
		n.RefState = RefPointer
		return
	}
	if stack.Contains(ref) {
		n.RefState = RefCircular
		return
	}
	leave := stack.Enter(ref)
	defer leave()
	n.RefState = RefInline
	n.Target = b.node(target, stack, depth+1)
}

func (b *Builder) object(n *Node, stack *resolve.Stack, depth int) {
	s := n.Schema
	declared := make(map[string]bool, len(s.Properties))
	for _, p := range s.Properties {
		declared[p.Name] = true
		n.Properties = append(n.Properties, Property{
			Name:     p.Name,
			Required: s.IsRequired(p.Name),
			Node:     b.node(p.Schema, stack, depth+1),
		})
	}
	for _, r := range s.Required {
		if !declared[r] {
			n.UndeclaredRequired = append(n.UndeclaredRequired, r)
		}
	}
	if s.AdditionalProperties != nil {
		n.Additional = b.node(s.AdditionalProperties, stack, depth+1)
	}
}
