package ports

import (
	"context"
	"time"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// SignupInput carries the fields accepted from a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Me resolves the user behind verified claims.
	Me(ctx context.Context, claims domain.TrustedClaims) (*domain.User, error)
}

// TokenService issues and verifies session tokens.
type TokenService interface {
	Issue(userID, email, role string) (string, time.Time, error)
	Verify(token string) (domain.TrustedClaims, error)
}
