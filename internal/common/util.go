package common

import "crypto/rand"

// GenerateRandByteArray returns size random bytes.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray overwrites b with zeros. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ShortToken returns the first and last four characters of a token joined by
// an ellipsis, for display. Tokens of eight characters or fewer are masked.
func ShortToken(token string) string {
	if len(token) <= 8 {
		return "..."
	}
	return token[:4] + "..." + token[len(token)-4:]
}
