package ports

import (
	"time"

	"github.com/userbase/accounts-api/internal/core/domain"
)

// PasswordHasher turns plaintext passwords into salted digests and checks them.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify returns false on mismatch and on a malformed digest alike.
	Verify(plaintext, digest string) bool
}

// Claims are the verified assertions carried by a token.
type Claims struct {
	SubjectID int64
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs new tokens.
type TokenIssuer interface {
	Issue(subjectID int64, role domain.Role, ttl time.Duration) (token string, expiresAt time.Time, err error)
}

// TokenVerifier checks signature and expiry and returns the claims only when both pass.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}
