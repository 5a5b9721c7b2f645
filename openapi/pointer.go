package openapi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/reoring/oasmd/tree"
)

// SchemaRefPrefix is the pointer prefix of named component schemas.
const SchemaRefPrefix = "#/components/schemas/"

// EscapeToken escapes '~' -> '~0', '/' -> '~1' per RFC6901.
func EscapeToken(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

// Pointer joins escaped tokens onto base.
func Pointer(base string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(EscapeToken(t))
	}
	return b.String()
}

// IsLocalRef reports whether ref points into the same document.
func IsLocalRef(ref string) bool {
	return strings.HasPrefix(ref, "#")
}

// ParseLocalRef splits a local reference ("#/a/b~1c") into unescaped tokens.
func ParseLocalRef(ref string) ([]string, error) {
	if !IsLocalRef(ref) {
		return nil, errors.Errorf("non-local reference %q", ref)
	}
	frag, err := url.PathUnescape(ref[1:])
	if err != nil {
		return nil, errors.Wrapf(err, "reference %q", ref)
	}
	if frag == "" {
		return nil, nil
	}
	if frag[0] != '/' {
		return nil, errors.Errorf("reference %q is not a JSON pointer", ref)
	}
	parts := strings.Split(frag[1:], "/")
	for i, p := range parts {
		parts[i] = UnescapeToken(p)
	}
	return parts, nil
}

// SchemaName returns Name for "#/components/schemas/Name".
func SchemaName(ref string) (string, bool) {
	if !strings.HasPrefix(ref, SchemaRefPrefix) {
		return "", false
	}
	tokens, err := ParseLocalRef(ref)
	if err != nil || len(tokens) != 3 {
		return "", false
	}
	return tokens[2], true
}

// Lookup walks tokens from root through objects and arrays.
func Lookup(root any, tokens []string) (any, bool) {
	cur := root
	for _, tok := range tokens {
		switch t := cur.(type) {
		case *tree.Object:
			v, ok := t.Get(tok)
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			cur = t[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
