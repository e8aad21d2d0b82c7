package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", CacheKey(""))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", CacheKey("hello"))
}

func TestCacheKey_StableAndDistinct(t *testing.T) {
	a := CacheKey("Zażółć gęślą jaźń")
	b := CacheKey("Zażółć gęślą jaźń")
	c := CacheKey("Zazolc gesla jazn")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
	assert.Regexp(t, `^[0-9a-f]{32}$`, a)
}
