package port

import (
	"time"

	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// SessionClaims identify the signed-in user
type SessionClaims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// SessionIssuer creates signed session tokens
type SessionIssuer interface {
	Issue(user *entity.User) (string, time.Time, error)
}

// SessionVerifier validates session tokens
type SessionVerifier interface {
	Verify(token string) (*SessionClaims, error)
}
