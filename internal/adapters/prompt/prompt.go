package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// SystemMessage is sent as the system role to chat style models
const SystemMessage = "You are a professional translator. Respond only with the translated text."

const translationFormat = `Translate the following text from %s to %s.
Keep line breaks, names, email addresses, numbers and dates unchanged.
Do not add explanations, notes or quotation marks.

Text:
%s`

// Translation builds the prompt for translating text between two ISO 639-1 languages
func Translation(text, sourceLang, targetLang string) string {
	return fmt.Sprintf(translationFormat, LanguageName(sourceLang), LanguageName(targetLang), text)
}

// LanguageName returns the English name of a language code, or the code itself
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// CleanResponse strips whitespace and a surrounding markdown code fence from model output
func CleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}

	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	// Drop an optional language tag on the opening fence
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], " \t") {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
