package ports

import (
	"context"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// UserRepository defines credential store persistence.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create stores a user whose PasswordHash is already computed.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
