package partnership

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// SessionTokenSize is the session token entropy in bytes.
const SessionTokenSize = 32

// SessionToken is an opaque URL-safe bearer value issued at partner login.
type SessionToken string

func newSessionToken() (SessionToken, error) {
	buf := make([]byte, SessionTokenSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf(`failed to generate session token: "%w"`, err)
	}
	return SessionToken(base64.RawURLEncoding.EncodeToString(buf)), nil
}

// Session is a result of successful partner login.
type Session struct {
	Partner Principal
	Token   SessionToken
}
