package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for issue codes.
// data provides optional metadata to embed in the message (for example,
// "ref" or "path").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "unresolved_ref":
			msg = "参照を解決できません: {ref}"
		case "unsupported_ref":
			msg = "外部参照には対応していません: {ref}"
		case "malformed_operation":
			msg = "オペレーションの構造が不正です"
		case "duplicate_key":
			msg = "キーが重複しています"
		case "max_depth":
			msg = "最大ネスト深度に達しました"
		}
	default: // "en"
		switch code {
		case "unresolved_ref":
			msg = "unresolved reference {ref}"
		case "unsupported_ref":
			msg = "non-local reference {ref} is not supported"
		case "malformed_operation":
			msg = "malformed operation"
		case "duplicate_key":
			msg = "duplicate key"
		case "max_depth":
			msg = "maximum nesting depth reached"
		}
	}
	if msg == "" {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
