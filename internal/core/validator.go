package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mikey/llm-mail-search/internal/charset"
)

// ValidationMode selects which translation checks are active
type ValidationMode string

const (
	// ValidationRelaxed checks emptiness, identity and minimum length
	ValidationRelaxed ValidationMode = "relaxed"
	// ValidationStrict adds maximum length and character class checks
	ValidationStrict ValidationMode = "strict"
)

const (
	minLengthRatio   = 0.3
	maxLengthRatio   = 3.0
	minValidCharRate = 0.8
	controlWindow    = 50
)

// ParseValidationMode maps a config value to a mode
func ParseValidationMode(s string) (ValidationMode, error) {
	switch ValidationMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ValidationRelaxed:
		return ValidationRelaxed, nil
	case ValidationStrict:
		return ValidationStrict, nil
	default:
		return "", fmt.Errorf("unknown validation mode: %s", s)
	}
}

// Validator decides whether a candidate translation is usable
type Validator struct {
	mode    ValidationMode
	letters *charset.Checker
}

// NewValidator creates a validator. letters holds the target language's
// accented letters and is only consulted in strict mode.
func NewValidator(mode ValidationMode, letters *charset.Checker) *Validator {
	if mode == "" {
		mode = ValidationRelaxed
	}
	return &Validator{
		mode:    mode,
		letters: letters,
	}
}

// Mode returns the active validation mode
func (v *Validator) Mode() ValidationMode {
	return v.mode
}

// Validate checks translated against original. It returns false and the
// first failing rule as the error when the translation is rejected.
func (v *Validator) Validate(original, translated string) (bool, error) {
	candidate := strings.TrimSpace(translated)
	source := strings.TrimSpace(original)

	if candidate == "" {
		return false, ErrEmptyTranslation
	}
	if strings.EqualFold(candidate, source) {
		return false, ErrIdenticalToSource
	}
	if v.mode == ValidationStrict && onlyControlCharacters(translated) {
		return false, ErrControlCharacters
	}

	candidateLen := float64(utf8.RuneCountInString(candidate))
	sourceLen := float64(utf8.RuneCountInString(source))
	if candidateLen < sourceLen*minLengthRatio {
		return false, ErrTooShort
	}

	if v.mode != ValidationStrict {
		return true, nil
	}

	if candidateLen > sourceLen*maxLengthRatio {
		return false, ErrTooLong
	}
	if v.validCharRate(translated) < minValidCharRate {
		return false, ErrInvalidCharacters
	}

	return true, nil
}

// onlyControlCharacters reports whether the head of s consists solely of C1 control characters
func onlyControlCharacters(s string) bool {
	count := 0
	for _, r := range s {
		if count == controlWindow {
			break
		}
		if r <= 127 || r >= 160 {
			return false
		}
		count++
	}
	return count > 0
}

func (v *Validator) validCharRate(s string) float64 {
	total, valid := 0, 0
	for _, r := range s {
		total++
		if v.allowed(r) {
			valid++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(valid) / float64(total)
}

func (v *Validator) allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case strings.ContainsRune(".,!?;:-'\"()", r):
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
		return true
	}
	return v.letters != nil && v.letters.Contains(r)
}
