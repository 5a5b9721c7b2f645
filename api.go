package oasmd

import (
	"github.com/pkg/errors"

	"github.com/reoring/oasmd/internal/assemble"
	"github.com/reoring/oasmd/internal/diag"
	"github.com/reoring/oasmd/internal/render"
	"github.com/reoring/oasmd/markdown"
	"github.com/reoring/oasmd/openapi"
	"github.com/reoring/oasmd/source"
)

// Output keys that do not come from a category name.
const (
	IndexKey      = assemble.IndexKey
	SingleFileKey = assemble.SingleFileKey
	UntaggedName  = assemble.UntaggedName
)

// Unit is one rendered output document, e.g. a file named Key + ".md".
type Unit struct {
	Key  string
	Text string
}

// Category summarizes one category of the generated documentation.
type Category struct {
	Name       string
	Key        string
	Operations int
}

// Result is the fully computed output of one run. Nothing is written until
// the caller persists it, so a failed run leaves no partial files.
type Result struct {
	Units      []Unit
	Categories []Category
	// Operations counts distinct operations; one listed under two tags
	// counts once.
	Operations int
	// Issues lists recovered problems in the order they were found.
	Issues Issues
}

// Map returns the units keyed by output key.
func (r *Result) Map() map[string]string {
	m := make(map[string]string, len(r.Units))
	for _, u := range r.Units {
		m[u.Key] = u.Text
	}
	return m
}

// Unit returns the text of the unit with the given key.
func (r *Result) Unit(key string) (string, bool) {
	for _, u := range r.Units {
		if u.Key == key {
			return u.Text, true
		}
	}
	return "", false
}

// GenerateFrom parses data (JSON or YAML, see Options.Format) and renders
// it. name is only used to detect the format from its extension.
func GenerateFrom(name string, data []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	parsed, err := source.Load(name, data, source.Options{Format: opts.Format})
	if err != nil {
		return nil, errors.Wrap(err, "parse input")
	}
	col := &diag.Collector{}
	for _, si := range parsed.Issues {
		col.Report(Issue{Code: si.Code, Path: si.Path, Message: si.Message})
	}
	return generate(parsed.Root, opts, col)
}

// Generate renders an already parsed document tree as produced by the source
// package (*tree.Object at the root).
func Generate(root any, opts Options) (*Result, error) {
	return generate(root, opts.withDefaults(), &diag.Collector{})
}

// GenerateDocument renders a document model built with openapi.Build.
func GenerateDocument(doc *openapi.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.Wrap(ErrInputStructure, "nil document")
	}
	col := &diag.Collector{}
	return renderDocument(doc, opts.withDefaults(), col), nil
}

func generate(root any, opts Options, col *diag.Collector) (*Result, error) {
	doc, err := openapi.Build(root, col)
	if err != nil {
		return nil, err
	}
	return renderDocument(doc, opts, col), nil
}

func renderDocument(doc *openapi.Document, opts Options, col *diag.Collector) *Result {
	mode := assemble.PerCategory
	if !opts.ChunkByCategory {
		mode = assemble.SingleFile
	}
	a := assemble.New(doc, assemble.Config{
		Mode:       mode,
		Title:      opts.Title,
		LinkSuffix: opts.LinkSuffix,
		Render:     render.Config{InlineRefs: opts.InlineRefs, MaxDepth: opts.MaxDepth},
	}, col)

	w := markdown.Writer{WrapWidth: opts.WrapWidth}
	res := &Result{}
	for _, u := range a.Units() {
		res.Units = append(res.Units, Unit{Key: u.Key, Text: w.Serialize(u.Section)})
	}
	cats := a.Categories()
	for _, c := range cats {
		res.Categories = append(res.Categories, Category{Name: c.Name, Key: c.Key, Operations: len(c.Operations)})
	}
	res.Operations = assemble.OperationCount(cats)
	res.Issues = col.Issues()
	return res
}
