package core

import (
	"crypto/md5"
	"encoding/hex"
)

// CacheKey returns the hex MD5 fingerprint of text. The digest only dedupes
// translation work; the empty string maps to the digest of no bytes.
func CacheKey(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
