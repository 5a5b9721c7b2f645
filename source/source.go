// Package source parses OpenAPI documents into ordered value trees.
//
// JSON is tokenized with goccy/go-json and YAML is decoded through
// yaml.v3's Node API; both keep mapping keys in document order.
package source

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	eng "github.com/reoring/oasmd/internal/engine"
	"github.com/reoring/oasmd/source/gojson"
)

// Format selects the input syntax.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrInvalidJSON is returned for input that is not well-formed JSON.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrInvalidYAML is returned for input that is not well-formed YAML.
	ErrInvalidYAML = errors.New("invalid YAML")
)

// DefaultMaxDepth bounds container nesting of accepted input.
const DefaultMaxDepth = 512

// Issue is a non-fatal observation made while parsing.
type Issue struct {
	Code    string
	Path    string
	Message string
}

// Options controls parsing.
type Options struct {
	Format   Format
	MaxDepth int
}

// Parsed is the result of a successful parse.
type Parsed struct {
	Root   any
	Format Format
	Issues []Issue
}

// JSON parses a JSON document.
func JSON(data []byte) (*Parsed, error) {
	return Load("", data, Options{Format: FormatJSON})
}

// YAML parses the first document of a YAML stream.
func YAML(data []byte) (*Parsed, error) {
	return Load("", data, Options{Format: FormatYAML})
}

// Load parses data, choosing the syntax from opts.Format. With FormatAuto the
// file name extension decides, then the first non-space byte.
func Load(name string, data []byte, opts Options) (*Parsed, error) {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	format := opts.Format
	if format == "" || format == FormatAuto {
		format = Detect(name, data)
	}
	p := &Parsed{Format: format}
	sink := func(si eng.SimpleIssue) {
		p.Issues = append(p.Issues, Issue{Code: si.Code, Path: si.Path, Message: si.Message})
	}
	var err error
	switch format {
	case FormatJSON:
		p.Root, err = decodeJSON(data, opts.MaxDepth, sink)
	case FormatYAML:
		p.Root, err = decodeYAML(data, opts.MaxDepth, sink)
	default:
		return nil, errors.Errorf("unknown input format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Detect guesses the syntax of data.
func Detect(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

func decodeJSON(data []byte, maxDepth int, sink func(eng.SimpleIssue)) (any, error) {
	src := gojson.NewBytes(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	v, err := eng.DecodeOrdered(src, eng.DecodeOptions{MaxDepth: maxDepth, IssueSink: sink})
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrInvalidJSON, "empty input")
		}
		return nil, errors.Wrapf(ErrInvalidJSON, "%s: %v", gojson.Name(), err)
	}
	if _, err := src.NextToken(); err != io.EOF {
		return nil, errors.Wrap(ErrInvalidJSON, "trailing data after top-level value")
	}
	return v, nil
}
