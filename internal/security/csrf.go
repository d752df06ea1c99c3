// Package security holds CSRF, escaping and access-control helpers.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"klaxon/internal/session"
)

// CSRFField is the form field carrying the token.
const CSRFField = "csrf_token"

const csrfTokenBytes = 32

// GenerateCSRFToken returns the session's token, creating one if the slot is empty.
func GenerateCSRFToken(s *session.Session) (string, error) {
	if tok := s.CSRFToken(); tok != "" {
		return tok, nil
	}
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	tok := hex.EncodeToString(buf)
	s.SetCSRFToken(tok)
	return tok, nil
}

// VerifyCSRFToken reports whether submitted matches the stored token. A match
// consumes the token; a mismatch leaves the session untouched.
func VerifyCSRFToken(s *session.Session, submitted string) bool {
	stored := s.CSRFToken()
	if stored == "" || submitted == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) != 1 {
		return false
	}
	s.ClearCSRFToken()
	return true
}
