package assemble

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/reoring/oasmd/openapi"
)

// UntaggedName is the category of operations that carry no tags.
const UntaggedName = "untagged"

// IndexKey and SingleFileKey are the fixed output keys.
const (
	IndexKey      = "index"
	SingleFileKey = "api_documentation"
)

// Category is one group of operations sharing a tag.
type Category struct {
	Name        string
	Key         string
	Description string
	Operations  []*openapi.Operation
}

// Categories groups the document's operations by tag. Operations with several
// tags appear in each of them; an operation repeating a tag counts once.
// Categories are sorted by name with the untagged group last, and operations
// keep document order within a category. Keys are unique slugs that never
// collide with IndexKey.
func Categories(doc *openapi.Document) []*Category {
	byName := make(map[string]*Category)
	var tagged []*Category
	untagged := &Category{Name: UntaggedName}
	for _, item := range doc.Paths {
		for _, op := range item.Operations {
			if len(op.Tags) == 0 {
				untagged.Operations = append(untagged.Operations, op)
				continue
			}
			seen := make(map[string]bool, len(op.Tags))
			for _, t := range op.Tags {
				if seen[t] {
					continue
				}
				seen[t] = true
				c, ok := byName[t]
				if !ok {
					c = &Category{Name: t}
					byName[t] = c
					tagged = append(tagged, c)
				}
				c.Operations = append(c.Operations, op)
			}
		}
	}
	sort.SliceStable(tagged, func(i, j int) bool { return tagged[i].Name < tagged[j].Name })

	descs := make(map[string]string, len(doc.Tags))
	for _, t := range doc.Tags {
		if _, ok := descs[t.Name]; !ok {
			descs[t.Name] = t.Description
		}
	}
	out := tagged
	for _, c := range out {
		c.Description = descs[c.Name]
	}
	if len(untagged.Operations) > 0 {
		out = append(out, untagged)
	}

	used := map[string]bool{IndexKey: true, SingleFileKey: true}
	if len(untagged.Operations) > 0 {
		untagged.Key = uniqueKey(UntaggedName, used)
	}
	for _, c := range tagged {
		c.Key = uniqueKey(Slug(c.Name), used)
	}
	return out
}

// Slug turns a category name into a file-safe key: lower case, whitespace
// and characters other than letters, digits, '_', '-' and '.' become '_'.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if strings.Trim(s, ".") == "" {
		return "category"
	}
	return s
}

func uniqueKey(base string, used map[string]bool) string {
	key := base
	for n := 2; used[key]; n++ {
		key = base + "_" + strconv.Itoa(n)
	}
	used[key] = true
	return key
}

// OperationCount returns the number of distinct operations in cats.
func OperationCount(cats []*Category) int {
	seen := make(map[*openapi.Operation]bool)
	for _, c := range cats {
		for _, op := range c.Operations {
			seen[op] = true
		}
	}
	return len(seen)
}
