// Package security issues and verifies the access tokens the API hands out
// on login.
package security

import (
	"time"

	"github.com/google/uuid"
)

// TokenScopeAccess is the only scope GlobeGuide issues. The auth middleware
// rejects tokens carrying any other scope.
const TokenScopeAccess = "access"

// Maker creates and verifies access tokens.
type Maker interface {
	// CreateToken issues a token for userID that expires after duration.
	// version is the account's UpdatedAt in nanoseconds when it was issued.
	CreateToken(userID uuid.UUID, duration time.Duration, version int64, scope string) (string, *Payload, error)

	// VerifyToken decrypts token and checks its expiry.
	VerifyToken(token string) (*Payload, error)
}
