package ports

import (
	"context"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// ImageUpload is an attached image as received from the client.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// CreateFeedbackInput carries a new submission. Rating is the raw form value
// so range and parse failures are reported by the service.
type CreateFeedbackInput struct {
	Title   string
	Content string
	Rating  string
	Image   *ImageUpload // optional
}

// ListAllInput carries the admin listing parameters.
type ListAllInput struct {
	Search string
	Rating string
	Sort   string
}

type FeedbackService interface {
	Create(ctx context.Context, actor domain.TrustedClaims, in CreateFeedbackInput) (*domain.Feedback, error)
	ListOwn(ctx context.Context, actor domain.TrustedClaims) ([]*domain.Feedback, error)
	ListAll(ctx context.Context, actor domain.TrustedClaims, in ListAllInput) ([]*domain.Feedback, error)
	Respond(ctx context.Context, actor domain.TrustedClaims, id, response string) (*domain.Feedback, error)
}

// SuggestionPrefetcher accepts work that warms the suggestion cache.
type SuggestionPrefetcher interface {
	Enqueue(job SuggestionJob) bool
}

// SuggestionJob asks for a suggestion to be generated ahead of time.
type SuggestionJob struct {
	FeedbackID string
	Content    string
}
