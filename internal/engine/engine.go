package engine

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/reoring/oasmd/tree"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// DecodeOptions controls ordered decoding.
type DecodeOptions struct {
	// MaxDepth limits container nesting; 0 means unlimited.
	MaxDepth int
	// IssueSink receives duplicate-key reports. Duplicates keep the last value.
	IssueSink func(SimpleIssue)
}

// DecodeOrdered builds an ordered tree value from the streaming token source.
// Objects become *tree.Object and numbers keep their literal text.
func DecodeOrdered(src TokenSource, opts DecodeOptions) (any, error) {
	d := &decoder{src: src, opts: opts}
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return d.value(tok, "", 0)
}

type decoder struct {
	src  TokenSource
	opts DecodeOptions
}

func (d *decoder) value(tok Token, path string, depth int) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		if err := d.checkDepth(path, depth+1); err != nil {
			return nil, err
		}
		return d.object(path, depth+1)
	case KindBeginArray:
		if err := d.checkDepth(path, depth+1); err != nil {
			return nil, err
		}
		return d.array(path, depth+1)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return tree.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func (d *decoder) checkDepth(path string, depth int) error {
	if d.opts.MaxDepth > 0 && depth > d.opts.MaxDepth {
		return errors.Errorf("max depth %d exceeded at %s", d.opts.MaxDepth, displayPath(path))
	}
	return nil
}

func (d *decoder) object(path string, depth int) (*tree.Object, error) {
	m := tree.NewObject()
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := d.src.NextToken()
		if err != nil {
			return nil, err
		}
		child := path + "/" + escapePointer(tok.String)
		v, err := d.value(vt, child, depth)
		if err != nil {
			return nil, err
		}
		if m.Set(tok.String, v) && d.opts.IssueSink != nil {
			d.opts.IssueSink(SimpleIssue{Code: "duplicate_key", Path: displayPath(path), Message: "key '" + tok.String + "' duplicated"})
		}
	}
}

func (d *decoder) array(path string, depth int) ([]any, error) {
	arr := []any{}
	for i := 0; ; i++ {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := d.value(tok, path+"/"+strconv.Itoa(i), depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// escape '~' -> '~0', '/' -> '~1' per RFC6901
func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func displayPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
