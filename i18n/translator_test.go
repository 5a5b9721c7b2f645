package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	assert.Equal(t, "unresolved reference #/components/schemas/Pet",
		T("unresolved_ref", map[string]string{"ref": "#/components/schemas/Pet"}))

	SetLanguage("ja")
	msg := T("unresolved_ref", map[string]string{"ref": "#/x"})
	assert.NotEqual(t, "unresolved reference #/x", msg)
	assert.Contains(t, msg, "#/x")

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBackToCode(t *testing.T) {
	assert.Equal(t, "something_else", T("something_else", nil))
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_Custom(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	assert.Equal(t, "X:max_depth", T("max_depth", nil))
}
