package core

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minClassifiableLength = 10
	minEmailBodyLength    = 100
)

var (
	emailHeaderPattern  = regexp.MustCompile(`(?i)(From|To|Subject|Date):`)
	emailContentPattern = regexp.MustCompile(`(?i)@|Dear\s+|Best regards|Sincerely`)

	structuredKeywords = []string{"component", "identifier", "style", "layout", "metadata"}
)

// Classify labels a document as email, structured metadata or other.
// Rules are checked in order and the first match wins.
func Classify(text string) Classification {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minClassifiableLength {
		return Classification{Category: CategoryOther, Label: "empty"}
	}

	if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) &&
		strings.ContainsAny(text, `"'`) && strings.ContainsAny(text, ":,") {
		return Classification{Category: CategoryStructured, Label: "metadata-or-json"}
	}

	hasHeaders := emailHeaderPattern.MatchString(text)
	hasContent := emailContentPattern.MatchString(text)
	if hasHeaders || (hasContent && utf8.RuneCountInString(text) > minEmailBodyLength) {
		return Classification{Category: CategoryEmail, Label: "email"}
	}

	lower := strings.ToLower(text)
	for _, keyword := range structuredKeywords {
		if strings.Contains(lower, keyword) && strings.ContainsAny(text, "{[") {
			return Classification{Category: CategoryStructured, Label: "metadata"}
		}
	}

	if strings.HasPrefix(trimmed, "<") && strings.Contains(text, ">") {
		return Classification{Category: CategoryStructured, Label: "configuration-or-markup"}
	}

	return Classification{Category: CategoryOther, Label: "other-document"}
}
