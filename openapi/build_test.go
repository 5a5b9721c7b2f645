package openapi_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/oasmd/internal/diag"
	"github.com/reoring/oasmd/openapi"
	"github.com/reoring/oasmd/source"
)

func build(t *testing.T, js string) (*openapi.Document, diag.Issues) {
	t.Helper()
	p, err := source.JSON([]byte(js))
	require.NoError(t, err)
	col := &diag.Collector{}
	doc, err := openapi.Build(p.Root, col)
	require.NoError(t, err)
	return doc, col.Issues()
}

func TestBuild_InputStructure(t *testing.T) {
	for name, js := range map[string]string{
		"array root":  `[]`,
		"no paths":    `{"openapi":"3.0.0"}`,
		"paths array": `{"paths":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			p, err := source.JSON([]byte(js))
			require.NoError(t, err)
			_, err = openapi.Build(p.Root, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, openapi.ErrInputStructure))
		})
	}
}

func TestBuild_OperationsInDeclarationOrder(t *testing.T) {
	doc, issues := build(t, `{
	  "openapi": "3.0.3",
	  "info": {"title": "Pets", "version": 2},
	  "paths": {
	    "/pets": {
	      "summary": "not an operation",
	      "post": {"tags": ["pets"], "responses": {"201": {"description": "created"}}},
	      "get": {"operationId": "listPets", "responses": {"200": {"description": "ok"}}},
	      "x-internal": true
	    },
	    "/owners": {"get": {"responses": {}}}
	  }
	}`)
	assert.Empty(t, issues)
	assert.Equal(t, "Pets", doc.Info.Title)
	assert.Equal(t, "2", doc.Info.Version)

	require.Len(t, doc.Paths, 2)
	ops := doc.Paths[0].Operations
	require.Len(t, ops, 2)
	assert.Equal(t, "post", ops[0].Method)
	assert.Equal(t, "get", ops[1].Method)
	assert.Equal(t, "listPets", ops[1].OperationID)
	assert.Equal(t, "#/paths/~1pets/get", ops[1].Pointer)

	empty := doc.Paths[1].Operations[0]
	assert.NotNil(t, empty.Responses)
	assert.Empty(t, empty.Responses)
}

func TestBuild_MalformedOperationIsReported(t *testing.T) {
	doc, issues := build(t, `{
	  "paths": {
	    "/a": {"get": {"summary": "no responses"}, "put": "nope"},
	    "/b": 3
	  }
	}`)
	require.Len(t, doc.Paths, 1)
	ops := doc.Paths[0].Operations
	require.Len(t, ops, 1)
	assert.Nil(t, ops[0].Responses)

	codes := map[string]string{}
	for _, is := range issues {
		codes[is.Path] = is.Code
	}
	assert.Equal(t, diag.CodeMalformedOperation, codes["#/paths/~1a/get"])
	assert.Equal(t, diag.CodeMalformedOperation, codes["#/paths/~1a/put"])
	assert.Equal(t, diag.CodeMalformedOperation, codes["#/paths/~1b"])
}

func TestBuild_PathParametersMerged(t *testing.T) {
	doc, _ := build(t, `{
	  "paths": {
	    "/pets/{id}": {
	      "parameters": [
	        {"name": "id", "in": "path", "required": true, "description": "shared"},
	        {"name": "trace", "in": "header"}
	      ],
	      "get": {
	        "parameters": [
	          {"name": "id", "in": "path", "required": true, "description": "own"},
	          {"name": "limit", "in": "query"}
	        ],
	        "responses": {"200": {"description": "ok"}}
	      }
	    }
	  }
	}`)
	params := doc.Paths[0].Operations[0].Parameters
	require.Len(t, params, 3)
	assert.Equal(t, "trace", params[0].Name)
	assert.Equal(t, "id", params[1].Name)
	assert.Equal(t, "own", params[1].Description)
	assert.Equal(t, "limit", params[2].Name)
}

func TestBuild_ComponentReferences(t *testing.T) {
	doc, issues := build(t, `{
	  "paths": {
	    "/pets": {
	      "get": {
	        "parameters": [{"$ref": "#/components/parameters/Limit"}, {"$ref": "#/components/parameters/Missing"}],
	        "requestBody": {"$ref": "#/components/requestBodies/Pet"},
	        "responses": {
	          "200": {"$ref": "#/components/responses/Ok"},
	          "500": {"$ref": "other.yaml#/Error"}
	        }
	      }
	    }
	  },
	  "components": {
	    "parameters": {"Limit": {"name": "limit", "in": "query", "schema": {"type": "integer"}}},
	    "requestBodies": {"Pet": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Pet"}}}}},
	    "responses": {"Ok": {"$ref": "#/components/responses/Ok2"}, "Ok2": {"description": "fine"}},
	    "schemas": {"Pet": {"type": "object"}}
	  }
	}`)
	op := doc.Paths[0].Operations[0]
	require.Len(t, op.Parameters, 2)
	assert.Equal(t, "limit", op.Parameters[0].Name)
	assert.Equal(t, "#/components/parameters/Limit", op.Parameters[0].Ref)
	assert.Equal(t, "#/components/parameters/Limit/schema", op.Parameters[0].Schema.Pointer)
	assert.True(t, op.Parameters[1].Unresolved)

	require.NotNil(t, op.RequestBody)
	assert.True(t, op.RequestBody.Required)
	require.Len(t, op.RequestBody.Content, 1)
	assert.Equal(t, "#/components/schemas/Pet", op.RequestBody.Content[0].Schema.Ref)

	require.Len(t, op.Responses, 2)
	assert.Equal(t, "fine", op.Responses[0].Description)
	assert.True(t, op.Responses[1].Unresolved)

	var codes []string
	for _, is := range issues {
		codes = append(codes, is.Code)
	}
	assert.ElementsMatch(t, []string{diag.CodeUnresolvedRef, diag.CodeUnsupportedRef}, codes)
}

func TestBuild_SecurityInheritance(t *testing.T) {
	doc, _ := build(t, `{
	  "security": [{"apiKey": []}],
	  "paths": {
	    "/a": {"get": {"responses": {}}},
	    "/b": {"get": {"security": [], "responses": {}}},
	    "/c": {"get": {"security": [{"oauth": ["read", "write"]}], "responses": {}}}
	  }
	}`)
	a := doc.Paths[0].Operations[0].Security
	require.Len(t, a, 1)
	assert.Equal(t, "apiKey", a[0].Schemes[0].Name)

	b := doc.Paths[1].Operations[0].Security
	assert.NotNil(t, b)
	assert.Empty(t, b)

	c := doc.Paths[2].Operations[0].Security
	require.Len(t, c, 1)
	assert.Equal(t, []string{"read", "write"}, c[0].Schemes[0].Scopes)
}
