package ports

import (
	"context"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// FeedbackFilter carries the query parameters for listing feedback.
type FeedbackFilter struct {
	UserID string              // empty = every user (admin listing)
	Search string              // optional: case-insensitive match on title, content or author name
	Rating int                 // optional: 0 = any rating
	Sort   domain.FeedbackSort // defaults to newest first
}

// FeedbackRepository defines persistence operations for feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error)
	List(ctx context.Context, filter FeedbackFilter) ([]*domain.Feedback, error)
	// UpdateResponse sets the response text and updatedAt, returning the
	// updated record. Concurrent writers race; the last write wins.
	UpdateResponse(ctx context.Context, id, response string) (*domain.Feedback, error)
}
