package oasmd

import (
	"github.com/reoring/oasmd/internal/view"
	"github.com/reoring/oasmd/source"
)

// Format selects the input syntax for GenerateFrom.
type Format = source.Format

const (
	FormatAuto = source.FormatAuto
	FormatJSON = source.FormatJSON
	FormatYAML = source.FormatYAML
)

// DefaultMaxDepth is the default nesting safety net. Cycles are cut by the
// reference stack long before it is reached.
const DefaultMaxDepth = view.DefaultMaxDepth

// DefaultLinkSuffix is appended to category keys in index links.
const DefaultLinkSuffix = ".md"

// Options is the configuration record passed through the pipeline.
// Start from DefaultOptions; the zero value disables inlining and chunking.
type Options struct {
	// InlineRefs expands each $ref under a "Resolved Definition" block.
	InlineRefs bool
	// ChunkByCategory emits an index unit plus one unit per category instead
	// of a single document.
	ChunkByCategory bool
	// Title overrides info.title.
	Title string
	// MaxDepth bounds schema nesting; <= 0 selects DefaultMaxDepth.
	MaxDepth int
	// WrapWidth wraps paragraphs and list items; 0 disables wrapping.
	WrapWidth int
	// LinkSuffix is appended to category keys in index links; "" selects
	// DefaultLinkSuffix.
	LinkSuffix string
	// Format is the input syntax used by GenerateFrom.
	Format Format
}

// DefaultOptions returns the defaults: inlining and per-category output on.
func DefaultOptions() Options {
	return Options{
		InlineRefs:      true,
		ChunkByCategory: true,
		MaxDepth:        DefaultMaxDepth,
		LinkSuffix:      DefaultLinkSuffix,
		Format:          FormatAuto,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.LinkSuffix == "" {
		o.LinkSuffix = DefaultLinkSuffix
	}
	if o.Format == "" {
		o.Format = FormatAuto
	}
	if o.WrapWidth < 0 {
		o.WrapWidth = 0
	}
	return o
}
