package ports

import (
	"context"
	"time"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// TextGenerator is the third-party text-generation contract.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// SuggestionCache stores generated suggestions by key.
type SuggestionCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type SuggestionService interface {
	Suggest(ctx context.Context, actor domain.TrustedClaims, content string) (string, error)
	// Prefetch warms the cache without an interactive caller.
	Prefetch(ctx context.Context, content string) error
}
