package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint deterministically maps a (text, source, target) triple to a
// fixed-length cache key: the hex SHA-256 of "source:target:text". Collision
// resistance here is correctness-critical, not security-critical; a collision
// would cross-contaminate translations.
func Fingerprint(text, sourceLang, targetLang string) string {
	h := sha256.Sum256([]byte(sourceLang + ":" + targetLang + ":" + text))
	return hex.EncodeToString(h[:])
}
