// Package markdown is the block model exchanged between renderers and the
// writer, plus the writer that turns it into Markdown text.
//
// Renderers decide what to say; the writer only decides how it is spelled:
// heading markers, list indentation, code span fences and wrapping.
package markdown

// Section is an ordered sequence of blocks with no notion of file boundaries.
type Section []Block

// Append adds blocks to the section.
func (s *Section) Append(b ...Block) { *s = append(*s, b...) }

// Block is a top-level Markdown element.
type Block interface{ isBlock() }

// Heading is an ATX heading. Level is clamped by the writer.
type Heading struct {
	Level   int
	Content []Inline
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Content []Inline
}

// List is a bullet or ordered list.
type List struct {
	Ordered bool
	Items   []*Item
}

// Item is a list item with optional nested bullet items.
type Item struct {
	Content  []Inline
	Children []*Item
}

// Rule is a thematic break.
type Rule struct{}

// CodeBlock is a fenced code block.
type CodeBlock struct {
	Lang string
	Text string
}

func (Heading) isBlock()   {}
func (Paragraph) isBlock() {}
func (List) isBlock()      {}
func (Rule) isBlock()      {}
func (CodeBlock) isBlock() {}

// InlineKind identifies an inline span.
type InlineKind int

const (
	KindText InlineKind = iota
	KindCode
	KindStrong
	KindEmph
	KindLink
)

// Inline is a span of inline content. Strong, Emph and Link wrap Children.
type Inline struct {
	Kind     InlineKind
	Text     string
	URL      string
	Children []Inline
}

// Text is literal text.
func Text(s string) Inline { return Inline{Kind: KindText, Text: s} }

// Code is an inline code span.
func Code(s string) Inline { return Inline{Kind: KindCode, Text: s} }

// Strong emphasizes its children strongly.
func Strong(c ...Inline) Inline { return Inline{Kind: KindStrong, Children: c} }

// Emph emphasizes its children.
func Emph(c ...Inline) Inline { return Inline{Kind: KindEmph, Children: c} }

// Link links its children to url.
func Link(url string, c ...Inline) Inline { return Inline{Kind: KindLink, URL: url, Children: c} }

// Spans is a convenience for building []Inline.
func Spans(in ...Inline) []Inline { return in }

// NewItem builds an item from inline content.
func NewItem(content ...Inline) *Item { return &Item{Content: content} }

// Add appends children and returns the item.
func (it *Item) Add(children ...*Item) *Item {
	it.Children = append(it.Children, children...)
	return it
}
