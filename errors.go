package oasmd

import (
	"github.com/reoring/oasmd/internal/diag"
	"github.com/reoring/oasmd/openapi"
	"github.com/reoring/oasmd/source"
)

// Issue codes.
const (
	CodeUnresolvedRef      = diag.CodeUnresolvedRef
	CodeUnsupportedRef     = diag.CodeUnsupportedRef
	CodeMalformedOperation = diag.CodeMalformedOperation
	CodeDuplicateKey       = diag.CodeDuplicateKey
	CodeMaxDepth           = diag.CodeMaxDepth
)

// Issue is one recovered problem: a JSON Pointer, a code and a message.
// Circular references are not issues; they are a normal terminal case.
type Issue = diag.Issue

// Issues is a collection of recovered problems that implements error.
type Issues = diag.Issues

var (
	// ErrInputStructure is fatal: the root is not an object or has no paths.
	ErrInputStructure = openapi.ErrInputStructure
	// ErrInvalidJSON and ErrInvalidYAML report input rejected by the parser.
	ErrInvalidJSON = source.ErrInvalidJSON
	ErrInvalidYAML = source.ErrInvalidYAML
)

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) { return diag.AsIssues(err) }
