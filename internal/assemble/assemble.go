// Package assemble partitions a rendered document into output units: one
// file per category plus an index, or everything in a single file.
package assemble

import (
	"sort"
	"strconv"

	"github.com/reoring/oasmd/internal/diag"
	"github.com/reoring/oasmd/internal/render"
	md "github.com/reoring/oasmd/markdown"
	"github.com/reoring/oasmd/openapi"
)

// DefaultTitle is used when neither the configuration nor info.title names
// the document.
const DefaultTitle = "API Documentation"

// Mode selects the file partitioning.
type Mode int

const (
	PerCategory Mode = iota
	SingleFile
)

// Config controls assembly.
type Config struct {
	Mode Mode
	// Title overrides info.title.
	Title string
	// LinkSuffix is appended to category keys in index links.
	LinkSuffix string
	Render     render.Config
}

// Unit is one output document before serialization.
type Unit struct {
	Key     string
	Section md.Section
}

// Assembler builds units for one document.
type Assembler struct {
	doc  *openapi.Document
	cfg  Config
	r    *render.Renderer
	cats []*Category
}

// New prepares an Assembler. Soft failures found while rendering go to rep.
func New(doc *openapi.Document, cfg Config, rep diag.Reporter) *Assembler {
	return &Assembler{
		doc:  doc,
		cfg:  cfg,
		r:    render.New(doc, cfg.Render, rep),
		cats: Categories(doc),
	}
}

// Categories returns the category index.
func (a *Assembler) Categories() []*Category { return a.cats }

// Units renders every output unit. In PerCategory mode the index comes first,
// followed by the categories in order. Category units are byte-for-byte the
// sections the single-file unit concatenates.
func (a *Assembler) Units() []Unit {
	if a.cfg.Mode == SingleFile {
		return []Unit{{Key: SingleFileKey, Section: a.SingleFile()}}
	}
	units := make([]Unit, 0, len(a.cats)+1)
	units = append(units, Unit{Key: IndexKey, Section: a.Index()})
	for _, c := range a.cats {
		units = append(units, Unit{Key: c.Key, Section: a.Category(c)})
	}
	return units
}

// Title returns the document title.
func (a *Assembler) Title() string {
	switch {
	case a.cfg.Title != "":
		return a.cfg.Title
	case a.doc.Info.Title != "":
		return a.doc.Info.Title
	}
	return DefaultTitle
}

// Index is the perCategory entry point: preamble, category links with
// endpoint counts, then the components appendix.
func (a *Assembler) Index() md.Section {
	sec := a.preamble()
	sec.Append(md.Heading{Level: 2, Content: md.Spans(md.Text("Categories"))})
	sec.Append(a.categoryList(func(c *Category) string { return c.Key + a.cfg.LinkSuffix }))
	sec.Append(a.Components()...)
	return sec
}

// SingleFile is the whole document in one section. Category links point at
// the anchors the category headings actually receive, so a tag sharing its
// name with another heading still links to its own section.
func (a *Assembler) SingleFile() md.Section {
	sec := a.preamble()
	sec.Append(md.Heading{Level: 2, Content: md.Spans(md.Text("Categories"))})
	listAt := len(sec)
	sec.Append(md.Rule{})
	starts := make(map[*Category]int, len(a.cats))
	for _, c := range a.cats {
		starts[c] = len(sec)
		sec.Append(a.Category(c)...)
	}
	sec.Append(a.Components()...)

	anchors := md.HeadingAnchors(sec)
	sec[listAt] = a.categoryList(func(c *Category) string { return "#" + anchors[starts[c]] })
	return sec
}

// Category renders one category: heading, tag description, a table of
// contents and every operation.
func (a *Assembler) Category(c *Category) md.Section {
	var sec md.Section
	sec.Append(md.Heading{Level: 2, Content: md.Spans(md.Text(c.Name))})
	if c.Description != "" {
		sec.Append(md.Paragraph{Content: md.Spans(md.Text(c.Description))})
	}
	toc := md.List{Ordered: true}
	for _, op := range c.Operations {
		title := render.OperationTitle(op)
		label := op.Summary
		if label == "" {
			label = op.Path
		}
		toc.Items = append(toc.Items, md.NewItem(md.Link("#"+md.Anchor(title), md.Code(title)), md.Text(" - "+label)))
	}
	if len(toc.Items) > 0 {
		sec.Append(toc)
	}
	for _, op := range c.Operations {
		sec.Append(a.r.Operation(op, 3)...)
	}
	return sec
}

// Components renders one entry per named schema, sorted by name, each with a
// fresh visitation stack. It is empty when the document has no schemas.
func (a *Assembler) Components() md.Section {
	schemas := a.doc.Components.Schemas
	if schemas.Len() == 0 {
		return nil
	}
	names := append([]string(nil), schemas.Names()...)
	sort.Strings(names)
	sec := md.Section{md.Heading{Level: 2, Content: md.Spans(md.Text("Components"))}}
	for _, name := range names {
		s, _ := schemas.Get(name)
		sec.Append(md.Heading{Level: 3, Content: md.Spans(md.Code(name))})
		sec.Append(md.Paragraph{Content: md.Spans(md.Strong(md.Text("Pointer")), md.Text(": "), md.Code(openapi.SchemaRefPrefix+openapi.EscapeToken(name)))})
		sec.Append(md.List{Items: a.r.Schema(s)})
	}
	return sec
}

func (a *Assembler) preamble() md.Section {
	sec := md.Section{md.Heading{Level: 1, Content: md.Spans(md.Text(a.Title()))}}
	info := a.doc.Info
	if info.Version != "" {
		sec.Append(md.Paragraph{Content: md.Spans(md.Strong(md.Text("Version")), md.Text(": "), md.Code(info.Version))})
	}
	if a.doc.OpenAPI != "" {
		sec.Append(md.Paragraph{Content: md.Spans(md.Strong(md.Text("OpenAPI")), md.Text(": "), md.Code(a.doc.OpenAPI))})
	}
	if info.Description != "" {
		sec.Append(md.Paragraph{Content: md.Spans(md.Text(info.Description))})
	}
	if len(a.doc.Servers) > 0 {
		list := md.List{}
		for _, s := range a.doc.Servers {
			it := md.NewItem(md.Code(s.URL))
			if s.Description != "" {
				it.Content = append(it.Content, md.Text(" - "+s.Description))
			}
			list.Items = append(list.Items, it)
		}
		sec.Append(md.Paragraph{Content: md.Spans(md.Strong(md.Text("Base URLs")), md.Text(":"))}, list)
	}
	return sec
}

func (a *Assembler) categoryList(target func(*Category) string) md.Block {
	if len(a.cats) == 0 {
		return md.Paragraph{Content: md.Spans(md.Emph(md.Text("No endpoints")))}
	}
	list := md.List{}
	for _, c := range a.cats {
		list.Items = append(list.Items, md.NewItem(md.Link(target(c), md.Text(c.Name)), md.Text(" - "+endpoints(len(c.Operations)))))
	}
	return list
}

func endpoints(n int) string {
	if n == 1 {
		return "1 endpoint"
	}
	return strconv.Itoa(n) + " endpoints"
}
