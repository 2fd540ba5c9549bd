package security

import "time"

const testSecret = "unit-test-secret-do-not-use"

// NewTestTokenProvider returns a TokenProvider with a fixed secret and issuer
// "test-issuer". For unit tests only.
func NewTestTokenProvider() *TokenProvider {
	p, _ := NewTokenProvider([]byte(testSecret), "test-issuer", 15*time.Minute)
	return p
}
