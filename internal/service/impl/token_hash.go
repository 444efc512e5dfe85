package impl

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// One-time reset and verification tokens are stored as SHA-256 digests.
// The tokens are signed and high-entropy already, and their length exceeds
// bcrypt's 72-byte input limit.
func hashOneTimeToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func oneTimeTokenMatches(storedHash, token string) bool {
	digest := hashOneTimeToken(token)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(digest)) == 1
}
