package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mitchellh/go-wordwrap"
)

// MaxHeadingLevel is the deepest ATX heading level.
const MaxHeadingLevel = 6

// minWrapWidth keeps deeply indented list items readable when wrapping.
const minWrapWidth = 20

// Writer serializes sections. The zero value writes unwrapped text with
// headings clamped to MaxHeadingLevel.
type Writer struct {
	// MaxHeadingLevel caps heading depth; 0 means MaxHeadingLevel.
	MaxHeadingLevel int
	// WrapWidth wraps paragraphs and list items at this column; 0 disables.
	WrapWidth int
}

// Serialize renders s. Every block ends with a blank line, so serializing a
// concatenation of sections equals concatenating their serializations.
func (w Writer) Serialize(s Section) string {
	var b strings.Builder
	for _, blk := range s {
		w.block(&b, blk)
	}
	return b.String()
}

func (w Writer) block(b *strings.Builder, blk Block) {
	switch t := blk.(type) {
	case Heading:
		b.WriteString(strings.Repeat("#", w.level(t.Level)))
		b.WriteByte(' ')
		b.WriteString(strings.ReplaceAll(RenderInline(t.Content), "\n", " "))
		b.WriteString("\n\n")
	case *Heading:
		w.block(b, *t)
	case Paragraph:
		b.WriteString(w.wrap(RenderInline(t.Content), 0))
		b.WriteString("\n\n")
	case *Paragraph:
		w.block(b, *t)
	case List:
		for i, it := range t.Items {
			marker := "- "
			if t.Ordered {
				marker = strconv.Itoa(i+1) + ". "
			}
			w.item(b, it, "", marker)
		}
		b.WriteByte('\n')
	case *List:
		w.block(b, *t)
	case Rule, *Rule:
		b.WriteString("---\n\n")
	case CodeBlock:
		fence := "```"
		for strings.Contains(t.Text, fence) {
			fence += "`"
		}
		b.WriteString(fence)
		b.WriteString(t.Lang)
		b.WriteByte('\n')
		b.WriteString(strings.TrimRight(t.Text, "\n"))
		b.WriteByte('\n')
		b.WriteString(fence)
		b.WriteString("\n\n")
	case *CodeBlock:
		w.block(b, *t)
	}
}

func (w Writer) level(l int) int {
	limit := w.MaxHeadingLevel
	if limit <= 0 || limit > MaxHeadingLevel {
		limit = MaxHeadingLevel
	}
	if l < 1 {
		return 1
	}
	if l > limit {
		return limit
	}
	return l
}

// item writes one list item; continuation lines and children are indented to
// the item's content column.
func (w Writer) item(b *strings.Builder, it *Item, indent, marker string) {
	pad := indent + strings.Repeat(" ", len(marker))
	text := w.wrap(RenderInline(it.Content), len(pad))
	for i, line := range strings.Split(text, "\n") {
		switch {
		case i == 0:
			b.WriteString(indent)
			b.WriteString(marker)
		case line == "":
			b.WriteByte('\n')
			continue
		default:
			b.WriteString(pad)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, c := range it.Children {
		w.item(b, c, pad, "- ")
	}
}

func (w Writer) wrap(s string, indent int) string {
	if w.WrapWidth <= 0 {
		return s
	}
	width := w.WrapWidth - indent
	if width < minWrapWidth {
		width = minWrapWidth
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = joinBlockStarts(wordwrap.WrapString(line, uint(width)))
	}
	return strings.Join(lines, "\n")
}

// blockStart matches line prefixes that would open a new block (ATX heading,
// bullet or ordered list item, block quote, setext underline) instead of
// continuing the paragraph.
var blockStart = regexp.MustCompile(`^(#{1,6}(\s|$)|[-+*>](\s|$)|\d{1,9}[.)](\s|$)|[-=]+\s*$)`)

// joinBlockStarts glues every line break inserted by wrapping that would
// start a block back onto the line before it.
func joinBlockStarts(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:1]
	for _, line := range lines[1:] {
		if blockStart.MatchString(line) {
			out[len(out)-1] += " " + line
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// RenderInline spells inline content as Markdown.
func RenderInline(in []Inline) string {
	var b strings.Builder
	for _, s := range in {
		renderInline(&b, s)
	}
	return b.String()
}

func renderInline(b *strings.Builder, s Inline) {
	switch s.Kind {
	case KindText:
		b.WriteString(s.Text)
	case KindCode:
		b.WriteString(codeSpan(s.Text))
	case KindStrong:
		b.WriteString("**")
		b.WriteString(RenderInline(s.Children))
		b.WriteString("**")
	case KindEmph:
		b.WriteString("*")
		b.WriteString(RenderInline(s.Children))
		b.WriteString("*")
	case KindLink:
		b.WriteByte('[')
		b.WriteString(RenderInline(s.Children))
		b.WriteString("](")
		if strings.ContainsAny(s.URL, " ()") {
			b.WriteString("<" + s.URL + ">")
		} else {
			b.WriteString(s.URL)
		}
		b.WriteByte(')')
	}
}

// codeSpan fences text with one more backtick than its longest backtick run.
func codeSpan(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if text == "" {
		return "` `"
	}
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(text, "`") || strings.HasSuffix(text, "`") {
		return fence + " " + text + " " + fence
	}
	return fence + text + fence
}

// PlainText returns the visible text of inline content.
func PlainText(in []Inline) string {
	var b strings.Builder
	for _, s := range in {
		if s.Kind == KindText || s.Kind == KindCode {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(PlainText(s.Children))
	}
	return b.String()
}

// Anchor returns the GitHub-style fragment for a heading with the given
// plain text: lower case, punctuation dropped, spaces turned into hyphens.
func Anchor(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// HeadingAnchors returns, per block of s, the fragment a GitHub-style renderer
// assigns to it: repeated anchors get -1, -2, ... suffixes in document order.
// Blocks that are not headings get "".
func HeadingAnchors(s Section) []string {
	out := make([]string, len(s))
	seen := make(map[string]int)
	for i, blk := range s {
		var h Heading
		switch t := blk.(type) {
		case Heading:
			h = t
		case *Heading:
			h = *t
		default:
			continue
		}
		a := Anchor(PlainText(h.Content))
		if n := seen[a]; n > 0 {
			out[i] = a + "-" + strconv.Itoa(n)
		} else {
			out[i] = a
		}
		seen[a]++
	}
	return out
}
