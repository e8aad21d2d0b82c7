package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChecker_ContainsAny(t *testing.T) {
	c := ForLanguage("pl", zap.NewNop())

	assert.True(t, c.ContainsAny("spotkanie w środę"))
	assert.True(t, c.ContainsAny("ŻÓŁW"))
	assert.False(t, c.ContainsAny("meeting on wednesday"))
	assert.False(t, c.ContainsAny(""))
}

func TestChecker_DecomposedInput(t *testing.T) {
	c := ForLanguage("pl", zap.NewNop())

	assert.True(t, c.ContainsAny("s\u0301roda"))
}

func TestChecker_Contains(t *testing.T) {
	c := NewChecker(PolishLetters, nil)

	assert.True(t, c.Contains('ł'))
	assert.False(t, c.Contains('l'))
	assert.Equal(t, 18, c.Len())
}

func TestForLanguage_Unknown(t *testing.T) {
	c := ForLanguage("xx", zap.NewNop())

	assert.Equal(t, 0, c.Len())
	assert.False(t, c.ContainsAny("ąćę"))
}

func TestForLanguage_CaseInsensitive(t *testing.T) {
	assert.Equal(t, ForLanguage("pl", nil).Len(), ForLanguage("PL", nil).Len())
}
