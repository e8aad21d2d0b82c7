package core

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// headerWindow is how many leading characters are searched for headers
	headerWindow = 2000

	maxFieldLength = 100
)

var (
	datePatterns = compileAll(
		`Date:\s*(.+?)(?:\n|$)`,
		`Sent:\s*(.+?)(?:\n|$)`,
		`Date\s*:\s*(.+?)(?:\n|$)`,
		`On\s+(.+?)\s+wrote:`,
	)
	fromPatterns = compileAll(
		`From:\s*(.+?)(?:\n|$)`,
		`Sender:\s*(.+?)(?:\n|$)`,
		`From\s*:\s*(.+?)(?:\n|$)`,
	)
	toPatterns = compileAll(
		`To:\s*(.+?)(?:\n|$)`,
		`Recipient:\s*(.+?)(?:\n|$)`,
		`To\s*:\s*(.+?)(?:\n|$)`,
	)
	subjectPatterns = compileAll(
		`Subject:\s*(.+?)(?:\n|$)`,
		`Subject\s*:\s*(.+?)(?:\n|$)`,
		`Re:\s*(.+?)(?:\n|$)`,
	)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?im)` + p)
	}
	return compiled
}

// ExtractMetadata pulls date, sender, recipient and subject out of the head
// of a document. Fields that no pattern matches are left as Unknown.
func ExtractMetadata(text string) Metadata {
	head := leadingRunes(text, headerWindow)
	return Metadata{
		Date:    firstMatch(head, datePatterns),
		From:    firstMatch(head, fromPatterns),
		To:      firstMatch(head, toPatterns),
		Subject: firstMatch(head, subjectPatterns),
	}
}

// firstMatch tries the patterns in order and returns the cleaned capture
// group of the first one that matches
func firstMatch(head string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(head)
		if m == nil {
			continue
		}
		return cleanField(m[1])
	}
	return Unknown
}

func cleanField(value string) string {
	value = strings.TrimSpace(whitespaceRun.ReplaceAllString(value, " "))
	if utf8.RuneCountInString(value) > maxFieldLength {
		value = leadingRunes(value, maxFieldLength-3) + "..."
	}
	return value
}

// leadingRunes returns at most n leading characters of s
func leadingRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
