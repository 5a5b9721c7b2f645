package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/oasmd/internal/diag"
)

func TestSchema_RequiredAnnotation(t *testing.T) {
	f := newFixture(t, schemasDoc(`{"Book": {
	  "type": "object",
	  "required": ["title"],
	  "properties": {"title": {"type": "string"}, "description": {"type": "string"}}
	}}`), true)

	want := "- **Type**: `object`\n" +
		"- **Properties**:\n" +
		"  - **`title`** *(required)*:\n" +
		"    - **Type**: `string`\n" +
		"  - **`description`**:\n" +
		"    - **Type**: `string`\n\n"
	assert.Equal(t, want, f.schemaText(t, "Book"))
}

func TestSchema_SelfReference(t *testing.T) {
	f := newFixture(t, schemasDoc(`{"Node": {
	  "type": "object",
	  "properties": {"next": {"$ref": "#/components/schemas/Node"}}
	}}`), true)

	want := "- **Type**: `object`\n" +
		"- **Properties**:\n" +
		"  - **`next`**:\n" +
		"    - **$ref**: `#/components/schemas/Node`\n" +
		"    - **Resolved Definition** (`Node`):\n" +
		"      - **Type**: `object`\n" +
		"      - **Properties**:\n" +
		"        - **`next`**:\n" +
		"          - **$ref**: `#/components/schemas/Node`\n" +
		"          - *circular reference to `#/components/schemas/Node`*\n\n"
	got := f.schemaText(t, "Node")
	assert.Equal(t, want, got)
	assert.Equal(t, 1, strings.Count(got, "circular reference"))
	assert.Empty(t, f.col.Issues(), "cycles are not issues")
}

func TestSchema_MutualRecursionHasOneMarker(t *testing.T) {
	f := newFixture(t, schemasDoc(`{
	  "A": {"properties": {"b": {"$ref": "#/components/schemas/B"}}},
	  "B": {"properties": {"c": {"$ref": "#/components/schemas/C"}}},
	  "C": {"items": {"$ref": "#/components/schemas/A"}}
	}`), true)
	for _, name := range []string{"A", "B", "C"} {
		got := f.schemaText(t, name)
		assert.Equal(t, 1, strings.Count(got, "circular reference"), name)
	}
}

func TestSchema_RenderingIsDeterministic(t *testing.T) {
	f := newFixture(t, schemasDoc(`{
	  "Pair": {"properties": {
	    "left": {"$ref": "#/components/schemas/Leaf"},
	    "right": {"$ref": "#/components/schemas/Leaf"}
	  }},
	  "Leaf": {"type": "string", "enum": ["x", "y"]}
	}`), true)
	got := f.schemaText(t, "Pair")
	assert.Equal(t, got, f.schemaText(t, "Pair"))

	parts := strings.Split(got, "  - **`right`**:\n")
	require.Len(t, parts, 2)
	left := strings.TrimPrefix(parts[0], "- **Properties**:\n  - **`left`**:\n")
	assert.Equal(t, left+"\n", parts[1], "both call sites render the same expansion")
	assert.NotContains(t, got, "circular")
}

func TestSchema_InlineDisabledShowsPointerOnly(t *testing.T) {
	f := newFixture(t, schemasDoc(`{
	  "Owner": {"properties": {"pet": {"$ref": "#/components/schemas/Pet"}}},
	  "Pet": {"type": "string"}
	}`), false)
	want := "- **Properties**:\n" +
		"  - **`pet`**:\n" +
		"    - **$ref**: `#/components/schemas/Pet`\n\n"
	assert.Equal(t, want, f.schemaText(t, "Owner"))
}

func TestSchema_Unresolved(t *testing.T) {
	for _, inline := range []bool{true, false} {
		f := newFixture(t, schemasDoc(`{
		  "Owner": {"properties": {"pet": {"$ref": "#/components/schemas/Ghost"}, "name": {"type": "string"}}}
		}`), inline)
		got := f.schemaText(t, "Owner")
		assert.Contains(t, got, "    - **$ref**: `#/components/schemas/Ghost`\n    - ⚠ unresolved: `#/components/schemas/Ghost`\n")
		assert.Contains(t, got, "**`name`**", "the rest still renders")

		issues := f.col.Issues()
		require.Len(t, issues, 1)
		assert.Equal(t, diag.CodeUnresolvedRef, issues[0].Code)
	}
}

func TestSchema_NonLocalReference(t *testing.T) {
	f := newFixture(t, schemasDoc(`{"X": {"items": {"$ref": "common.yaml#/Pet"}}}`), true)
	assert.Contains(t, f.schemaText(t, "X"), "⚠ unresolved: `common.yaml#/Pet` *(non-local reference)*")
	assert.Equal(t, diag.CodeUnsupportedRef, f.col.Issues()[0].Code)
}

func TestSchema_EnumAndConstraints(t *testing.T) {
	f := newFixture(t, schemasDoc(`{"Status": {
	  "type": "string",
	  "description": "Lifecycle state",
	  "enum": ["active", "", 3, null],
	  "default": "active",
	  "maxLength": 10,
	  "pattern": "^[a-z]*$"
	}}`), true)
	want := "- **Type**: `string`\n" +
		"- **Description**: Lifecycle state\n" +
		"- **Enum**: `active`, `\"\"`, `3`, `null`\n" +
		"- **Pattern**: `^[a-z]*$`\n" +
		"- **Max Length**: `10`\n" +
		"- **Default**: `active`\n\n"
	assert.Equal(t, want, f.schemaText(t, "Status"))
}

func TestSchema_ObjectLiteralsKeepOrder(t *testing.T) {
	f := newFixture(t, schemasDoc(`{"Cfg": {"type": "object", "example": {"z": 1, "a": [true]}}}`), true)
	assert.Contains(t, f.schemaText(t, "Cfg"), "- **Example**: `{\"z\":1,\"a\":[true]}`\n")
}

func TestSchema_AnyAndNever(t *testing.T) {
	f := newFixture(t, schemasDoc(`{"Free": {}, "Doc": {"description": "anything"}, "None": false}`), true)
	assert.Equal(t, "- *any type, no constraints*\n\n", f.schemaText(t, "Free"))
	assert.Equal(t, "- **Description**: anything\n- *any type, no constraints*\n\n", f.schemaText(t, "Doc"))
	assert.Equal(t, "- *no value is valid*\n\n", f.schemaText(t, "None"))
}

func TestSchema_ArrayItems(t *testing.T) {
	f := newFixture(t, schemasDoc(`{"Tags": {"type": "array", "minItems": 1, "items": {"type": ["string", "null"]}}}`), true)
	want := "- **Type**: `array`\n" +
		"- **Min Items**: `1`\n" +
		"- **Items**:\n" +
		"  - **Type**: `string | null`\n\n"
	assert.Equal(t, want, f.schemaText(t, "Tags"))
}

func TestSchema_Compositions(t *testing.T) {
	f := newFixture(t, schemasDoc(`{
	  "Pet": {"oneOf": [{"$ref": "#/components/schemas/Cat"}, {"type": "string"}]},
	  "Cat": {"type": "object"}
	}`), true)
	want := "- **oneOf** *(exactly one of the following)*:\n" +
		"  - **Option 1**:\n" +
		"    - **$ref**: `#/components/schemas/Cat`\n" +
		"    - **Resolved Definition** (`Cat`):\n" +
		"      - **Type**: `object`\n" +
		"  - **Option 2**:\n" +
		"    - **Type**: `string`\n\n"
	assert.Equal(t, want, f.schemaText(t, "Pet"))
}

func TestSchema_AllOfWithSiblingProperties(t *testing.T) {
	f := newFixture(t, schemasDoc(`{"Dog": {
	  "properties": {"bark": {"type": "boolean"}},
	  "allOf": [{"required": ["name"]}]
	}}`), false)
	want := "- **Properties**:\n" +
		"  - **`bark`**:\n" +
		"    - **Type**: `boolean`\n" +
		"- **allOf** *(all of the following apply)*:\n" +
		"  - **Option 1**:\n" +
		"    - **Required**: `name`\n\n"
	assert.Equal(t, want, f.schemaText(t, "Dog"))
}

func TestSchema_AdditionalProperties(t *testing.T) {
	f := newFixture(t, schemasDoc(`{
	  "Map": {"type": "object", "additionalProperties": {"type": "integer"}},
	  "Closed": {"type": "object", "additionalProperties": false}
	}`), true)
	assert.Equal(t, "- **Type**: `object`\n- **Additional Properties**:\n  - **Type**: `integer`\n\n", f.schemaText(t, "Map"))
	assert.Equal(t, "- **Type**: `object`\n- **Additional Properties**: *no additional properties*\n\n", f.schemaText(t, "Closed"))
}
