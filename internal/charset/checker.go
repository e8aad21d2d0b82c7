package charset

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Accented letters of the languages the viewer knows about
const (
	PolishLetters = "ąćęłńóśźżĄĆĘŁŃÓŚŹŻ"
	GermanLetters = "äöüßÄÖÜ"
	CzechLetters  = "áčďéěíňóřšťúůýžÁČĎÉĚÍŇÓŘŠŤÚŮÝŽ"
)

var languageLetters = map[string]string{
	"pl": PolishLetters,
	"de": GermanLetters,
	"cs": CzechLetters,
}

// Checker provides functionality to check text for a fixed set of letters
type Checker struct {
	letters map[rune]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new checker for the given letters
func NewChecker(letters string, logger *zap.Logger) *Checker {
	set := make(map[rune]struct{})
	for _, r := range norm.NFC.String(letters) {
		set[r] = struct{}{}
	}

	if len(set) > 0 && logger != nil {
		logger.Debug("Initialized charset checker", zap.String("letters", letters))
	}

	return &Checker{
		letters: set,
		logger:  logger,
	}
}

// ForLanguage returns a checker for the accented letters of an ISO 639-1
// language; unknown languages get an empty checker
func ForLanguage(lang string, logger *zap.Logger) *Checker {
	return NewChecker(languageLetters[strings.ToLower(lang)], logger)
}

// Contains reports whether r is one of the checker's letters
func (c *Checker) Contains(r rune) bool {
	_, ok := c.letters[r]
	return ok
}

// ContainsAny reports whether s holds at least one of the checker's letters.
// Input is NFC normalized first so decomposed diacritics are found too.
func (c *Checker) ContainsAny(s string) bool {
	if len(c.letters) == 0 {
		return false
	}

	for _, r := range norm.NFC.String(s) {
		if c.Contains(r) {
			if c.logger != nil {
				c.logger.Debug("Found accented letter", zap.String("letter", string(r)))
			}
			return true
		}
	}

	return false
}

// Len returns the number of distinct letters
func (c *Checker) Len() int {
	return len(c.letters)
}
