package assemble_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/oasmd/internal/assemble"
	"github.com/reoring/oasmd/internal/diag"
	"github.com/reoring/oasmd/internal/render"
	md "github.com/reoring/oasmd/markdown"
	"github.com/reoring/oasmd/openapi"
	"github.com/reoring/oasmd/source"
)

const bank = `{
  "openapi": "3.0.3",
  "info": {"title": "Bank", "version": "1.2", "description": "Money moves."},
  "servers": [{"url": "https://api.example.com", "description": "production"}],
  "tags": [{"name": "order", "description": "Orders placed by customers."}],
  "paths": {
    "/accounts": {
      "get": {"tags": ["banking"], "summary": "List accounts", "responses": {"200": {"description": "ok"}}}
    },
    "/orders": {
      "post": {"tags": ["banking", "order", "banking"], "responses": {"201": {"description": "created"}}}
    },
    "/health": {
      "get": {"responses": {"200": {"description": "ok"}}}
    }
  },
  "components": {"schemas": {
    "Zeta": {"type": "string"},
    "Account": {"type": "object", "properties": {"self": {"$ref": "#/components/schemas/Account"}}}
  }}
}`

func newAssembler(t *testing.T, js string, mode assemble.Mode) *assemble.Assembler {
	t.Helper()
	p, err := source.JSON([]byte(js))
	require.NoError(t, err)
	col := &diag.Collector{}
	doc, err := openapi.Build(p.Root, col)
	require.NoError(t, err)
	return assemble.New(doc, assemble.Config{
		Mode:       mode,
		LinkSuffix: ".md",
		Render:     render.Config{InlineRefs: true},
	}, col)
}

func texts(units []assemble.Unit) (keys []string, byKey map[string]string) {
	byKey = map[string]string{}
	for _, u := range units {
		keys = append(keys, u.Key)
		byKey[u.Key] = md.Writer{}.Serialize(u.Section)
	}
	return keys, byKey
}

func TestUnits_PerCategory(t *testing.T) {
	keys, out := texts(newAssembler(t, bank, assemble.PerCategory).Units())
	assert.Equal(t, []string{"index", "banking", "order", "untagged"}, keys)

	assert.Contains(t, out["banking"], "### `GET /accounts`")
	assert.Contains(t, out["banking"], "### `POST /orders`")
	assert.Equal(t, 1, strings.Count(out["banking"], "### `POST /orders`"), "repeated tag counts once")

	assert.Contains(t, out["order"], "### `POST /orders`")
	assert.NotContains(t, out["order"], "/accounts")
	assert.Contains(t, out["order"], "## order\n\nOrders placed by customers.\n\n")

	assert.Contains(t, out["untagged"], "### `GET /health`")
	for _, k := range []string{"banking", "order"} {
		assert.NotContains(t, out[k], "/health")
	}
}

func TestIndex(t *testing.T) {
	_, out := texts(newAssembler(t, bank, assemble.PerCategory).Units())
	index := out["index"]
	want := "# Bank\n\n" +
		"**Version**: `1.2`\n\n" +
		"**OpenAPI**: `3.0.3`\n\n" +
		"Money moves.\n\n" +
		"**Base URLs**:\n\n" +
		"- `https://api.example.com` - production\n\n" +
		"## Categories\n\n" +
		"- [banking](banking.md) - 2 endpoints\n" +
		"- [order](order.md) - 1 endpoint\n" +
		"- [untagged](untagged.md) - 1 endpoint\n\n" +
		"## Components\n\n"
	assert.True(t, strings.HasPrefix(index, want), index)

	// alphabetical, independent of declaration order
	assert.Less(t, strings.Index(index, "### `Account`"), strings.Index(index, "### `Zeta`"))
	assert.Equal(t, 1, strings.Count(index, "circular reference to `#/components/schemas/Account`"))
}

func TestCategoryTableOfContents(t *testing.T) {
	_, out := texts(newAssembler(t, bank, assemble.PerCategory).Units())
	assert.Contains(t, out["banking"], "## banking\n\n"+
		"1. [`GET /accounts`](#get-accounts) - List accounts\n"+
		"2. [`POST /orders`](#post-orders) - /orders\n\n")
}

func TestSingleFile_RoundTrip(t *testing.T) {
	a := newAssembler(t, bank, assemble.PerCategory)
	_, per := texts(a.Units())

	single := newAssembler(t, bank, assemble.SingleFile)
	keys, one := texts(single.Units())
	require.Equal(t, []string{assemble.SingleFileKey}, keys)
	text := one[assemble.SingleFileKey]

	var joined strings.Builder
	for _, c := range a.Categories() {
		joined.WriteString(per[c.Key])
	}
	assert.Contains(t, text, joined.String())

	start := strings.Index(text, per["banking"])
	require.GreaterOrEqual(t, start, 0)
	assert.Equal(t, joined.String(), text[start:start+joined.Len()])

	assert.Contains(t, text, "- [banking](#banking) - 2 endpoints\n")
	assert.Less(t, strings.Index(text, "## untagged"), strings.Index(text, "## Components"))
}

func TestCategories_SlugKeys(t *testing.T) {
	doc := &openapi.Document{Paths: []*openapi.PathItem{{Path: "/a", Operations: []*openapi.Operation{
		{Method: "get", Path: "/a", Tags: []string{"Pet Store", "pet store", "index", "Ünïcode/v2", "..", "api_documentation"}},
	}}}}
	cats := assemble.Categories(doc)
	got := map[string]string{}
	for _, c := range cats {
		got[c.Name] = c.Key
	}
	assert.Equal(t, "pet_store", got["Pet Store"])
	assert.Equal(t, "pet_store_2", got["pet store"])
	assert.Equal(t, "index_2", got["index"])
	assert.Equal(t, "ünïcode_v2", got["Ünïcode/v2"])
	assert.Equal(t, "category", got[".."])
	assert.Equal(t, "api_documentation_2", got["api_documentation"])
}

func TestCategories_UntaggedLast(t *testing.T) {
	doc := &openapi.Document{Paths: []*openapi.PathItem{{Path: "/a", Operations: []*openapi.Operation{
		{Method: "get", Path: "/a"},
		{Method: "put", Path: "/a", Tags: []string{"zoo"}},
		{Method: "post", Path: "/a", Tags: []string{"alpha"}},
	}}}}
	cats := assemble.Categories(doc)
	require.Len(t, cats, 3)
	assert.Equal(t, "alpha", cats[0].Name)
	assert.Equal(t, "zoo", cats[1].Name)
	assert.Equal(t, assemble.UntaggedName, cats[2].Name)
	assert.Equal(t, 3, assemble.OperationCount(cats))
}

func TestCategories_UntaggedKeyBelongsToUntaggedOperations(t *testing.T) {
	a := newAssembler(t, `{"paths": {
  "/a": {"get": {"tags": ["untagged"], "responses": {"200": {"description": "ok"}}}},
  "/b": {"get": {"responses": {"200": {"description": "ok"}}}}
}}`, assemble.PerCategory)
	cats := a.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "untagged_2", cats[0].Key)
	assert.Equal(t, "/a", cats[0].Operations[0].Path)
	assert.Equal(t, assemble.UntaggedName, cats[1].Key)
	assert.Equal(t, "/b", cats[1].Operations[0].Path)

	_, out := texts(a.Units())
	assert.Contains(t, out["untagged"], "`GET /b`")
	assert.NotContains(t, out["untagged"], "`GET /a`")
	assert.Contains(t, out["untagged_2"], "`GET /a`")
}

func TestSingleFile_CategoryLinksFollowHeadingAnchors(t *testing.T) {
	a := newAssembler(t, `{"info": {"title": "Shop"}, "paths": {
  "/a": {"get": {"tags": ["Categories"], "responses": {"200": {"description": "ok"}}}},
  "/b": {"get": {"tags": ["Components"], "responses": {"200": {"description": "ok"}}}},
  "/c": {"get": {"tags": ["Shop"], "responses": {"200": {"description": "ok"}}}}
}, "components": {"schemas": {"S": {"type": "string"}}}}`, assemble.SingleFile)
	_, out := texts(a.Units())
	text := out[assemble.SingleFileKey]
	assert.Contains(t, text, "- [Categories](#categories-1) - 1 endpoint\n")
	assert.Contains(t, text, "- [Components](#components) - 1 endpoint\n")
	assert.Contains(t, text, "- [Shop](#shop-1) - 1 endpoint\n")
}

func TestTitleFallback(t *testing.T) {
	a := newAssembler(t, `{"paths": {}}`, assemble.PerCategory)
	assert.Equal(t, assemble.DefaultTitle, a.Title())
	_, out := texts(a.Units())
	assert.Equal(t, "# API Documentation\n\n## Categories\n\n*No endpoints*\n\n", out["index"])
}
