package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/oasmd/internal/diag"
	"github.com/reoring/oasmd/internal/render"
	md "github.com/reoring/oasmd/markdown"
	"github.com/reoring/oasmd/openapi"
	"github.com/reoring/oasmd/source"
)

type fixture struct {
	doc *openapi.Document
	r   *render.Renderer
	col *diag.Collector
}

func newFixture(t *testing.T, js string, inline bool) *fixture {
	t.Helper()
	p, err := source.JSON([]byte(js))
	require.NoError(t, err)
	col := &diag.Collector{}
	d, err := openapi.Build(p.Root, col)
	require.NoError(t, err)
	return &fixture{doc: d, r: render.New(d, render.Config{InlineRefs: inline}, col), col: col}
}

func (f *fixture) schemaText(t *testing.T, name string) string {
	t.Helper()
	s, ok := f.doc.Components.Schemas.Get(name)
	require.True(t, ok, name)
	return md.Writer{}.Serialize(md.Section{md.List{Items: f.r.Schema(s)}})
}

func schemasDoc(schemas string) string {
	return `{"paths":{},"components":{"schemas":` + schemas + `}}`
}
