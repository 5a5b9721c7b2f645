package source_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/oasmd/source"
	"github.com/reoring/oasmd/tree"
)

func TestJSON_PreservesOrder(t *testing.T) {
	p, err := source.JSON([]byte(`{"paths":{"/b":{},"/a":{}},"openapi":"3.0.0"}`))
	require.NoError(t, err)
	assert.Equal(t, source.FormatJSON, p.Format)

	root := p.Root.(*tree.Object)
	assert.Equal(t, []string{"paths", "openapi"}, root.Keys())
	paths, _ := root.Object("paths")
	assert.Equal(t, []string{"/b", "/a"}, paths.Keys())
}

func TestJSON_DuplicateKeyIsIssue(t *testing.T) {
	p, err := source.JSON([]byte(`{"a":1,"a":2}`))
	require.NoError(t, err)
	require.Len(t, p.Issues, 1)
	assert.Equal(t, "duplicate_key", p.Issues[0].Code)
	assert.Equal(t, "/", p.Issues[0].Path)
}

func TestJSON_Invalid(t *testing.T) {
	for name, in := range map[string]string{
		"empty":    ``,
		"trailing": `{"a":1} {"b":2}`,
		"broken":   `{"a":`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := source.JSON([]byte(in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, source.ErrInvalidJSON), "got %v", err)
		})
	}
}

func TestJSON_ByteOrderMark(t *testing.T) {
	p, err := source.JSON([]byte("\xef\xbb\xbf{\"a\":true}"))
	require.NoError(t, err)
	v, _ := p.Root.(*tree.Object).Get("a")
	assert.Equal(t, true, v)
}

func TestYAML_PreservesOrderAndScalars(t *testing.T) {
	in := `
openapi: 3.0.3
info:
  title: Pets
  version: "1.0"
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
  /owners: {}
flags: [true, null, 1.5, 0x1F]
`
	p, err := source.YAML([]byte(in))
	require.NoError(t, err)
	root := p.Root.(*tree.Object)
	assert.Equal(t, []string{"openapi", "info", "paths", "flags"}, root.Keys())

	paths, _ := root.Object("paths")
	assert.Equal(t, []string{"/pets", "/owners"}, paths.Keys())

	info, _ := root.Object("info")
	version, _ := info.Get("version")
	assert.Equal(t, "1.0", version)

	flags, _ := root.Array("flags")
	require.Len(t, flags, 4)
	assert.Equal(t, true, flags[0])
	assert.Nil(t, flags[1])
	assert.Equal(t, tree.Number("1.5"), flags[2])
	assert.Equal(t, tree.Number("31"), flags[3])
}

func TestYAML_AnchorsAndMergeKeys(t *testing.T) {
	in := `
base: &base
  type: string
  minLength: 1
derived:
  <<: *base
  maxLength: 5
`
	p, err := source.YAML([]byte(in))
	require.NoError(t, err)
	derived, _ := p.Root.(*tree.Object).Object("derived")
	assert.Equal(t, []string{"maxLength", "type", "minLength"}, derived.Keys())
}

func TestYAML_ExcessiveAliasingIsRejected(t *testing.T) {
	var b strings.Builder
	b.WriteString("a: &a [\"lol\"]\n")
	prev := "a"
	for _, name := range []string{"b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		b.WriteString(name + ": &" + name + " [")
		for i := 0; i < 10; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("*" + prev)
		}
		b.WriteString("]\n")
		prev = name
	}
	_, err := source.YAML([]byte(b.String()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrInvalidYAML), "got %v", err)
	assert.Contains(t, err.Error(), "excessive aliasing")
}

func TestYAML_SharedSchemasViaAliases(t *testing.T) {
	in := `
components:
  schemas:
    Name: &name {type: string, minLength: 1}
    Person:
      type: object
      properties:
        first: *name
        last: *name
`
	p, err := source.YAML([]byte(in))
	require.NoError(t, err)
	comps, _ := p.Root.(*tree.Object).Object("components")
	schemas, _ := comps.Object("schemas")
	person, _ := schemas.Object("Person")
	props, _ := person.Object("properties")
	last, ok := props.Object("last")
	require.True(t, ok)
	assert.Equal(t, []string{"type", "minLength"}, last.Keys())
}

func TestYAML_Invalid(t *testing.T) {
	_, err := source.YAML([]byte("a: [1, 2"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrInvalidYAML))
}

func TestDetect(t *testing.T) {
	assert.Equal(t, source.FormatJSON, source.Detect("api.JSON", []byte("a: 1")))
	assert.Equal(t, source.FormatYAML, source.Detect("api.yml", []byte("{}")))
	assert.Equal(t, source.FormatJSON, source.Detect("", []byte("  \n{\"a\":1}")))
	assert.Equal(t, source.FormatYAML, source.Detect("openapi", []byte("openapi: 3.1.0")))
}

func TestLoad_UnknownFormat(t *testing.T) {
	_, err := source.Load("x", []byte("{}"), source.Options{Format: "toml"})
	require.Error(t, err)
}
