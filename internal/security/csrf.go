package security

import (
	"crypto/hmac"
	"errors"
)

var ErrInvalidToken = errors.New("invalid csrf token")

// VerifyCSRF compares a submitted form token against the token stored
// server-side in the session. The comparison is constant time; an empty
// value on either side never verifies.
func VerifyCSRF(expected, submitted string) error {
	if expected == "" || submitted == "" {
		return ErrInvalidToken
	}
	if !hmac.Equal([]byte(expected), []byte(submitted)) {
		return ErrInvalidToken
	}
	return nil
}
