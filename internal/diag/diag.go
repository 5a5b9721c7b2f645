// Package diag carries the non-fatal issues collected while building and
// rendering a document. The root package re-exports these types.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/oasmd/i18n"
)

// Issue codes.
const (
	CodeUnresolvedRef      = "unresolved_ref"
	CodeUnsupportedRef     = "unsupported_ref"
	CodeMalformedOperation = "malformed_operation"
	CodeDuplicateKey       = "duplicate_key"
	CodeMaxDepth           = "max_depth"
)

// Issue represents a single recovered problem.
type Issue struct {
	Path    string // JSON Pointer of the node that triggered the issue.
	Code    string // One of the codes listed above.
	Message string
	Ref     string // Optional: the $ref pointer involved.
}

// Issues is a collection of recovered problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unresolved_ref at /components/schemas/Pet/properties/owner
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Reporter receives issues. A nil Reporter is valid and drops everything.
type Reporter interface {
	Report(Issue)
}

// Collector is a Reporter that keeps issues in report order, dropping exact
// duplicates so that a schema rendered from several call sites is reported once.
type Collector struct {
	issues Issues
	seen   map[Issue]struct{}
}

func (c *Collector) Report(it Issue) {
	if it.Message == "" {
		data := map[string]string{"ref": it.Ref, "path": it.Path}
		it.Message = i18n.T(it.Code, data)
	}
	if c.seen == nil {
		c.seen = make(map[Issue]struct{})
	}
	if _, ok := c.seen[it]; ok {
		return
	}
	c.seen[it] = struct{}{}
	c.issues = append(c.issues, it)
}

// Issues returns a copy of the collected issues.
func (c *Collector) Issues() Issues {
	if len(c.issues) == 0 {
		return nil
	}
	return append(Issues(nil), c.issues...)
}

// Reportf reports through r when r is non-nil.
func Reportf(r Reporter, code, path, ref, format string, a ...any) {
	if r == nil {
		return
	}
	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, a...)
	}
	r.Report(Issue{Code: code, Path: path, Ref: ref, Message: msg})
}
