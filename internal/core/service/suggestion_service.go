package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/infrastructure/metrics"
)

const (
	suggestionSystemPrompt = "You are a customer service representative. Your goal is to provide helpful, " +
		"empathetic, and professional responses to customer feedback. Keep responses concise (2-3 sentences)."
	suggestionPromptFormat = "Generate a professional and empathetic response to the following customer feedback: %q"

	defaultSuggestionTTL = time.Hour
)

// SuggestionService proxies response suggestions to a text generator, with a
// cache in front keyed by the feedback content.
type SuggestionService struct {
	generator ports.TextGenerator
	cache     ports.SuggestionCache // nil disables caching
	ttl       time.Duration
	log       zerolog.Logger
}

func NewSuggestionService(generator ports.TextGenerator, cache ports.SuggestionCache, ttl time.Duration, log zerolog.Logger) *SuggestionService {
	if ttl <= 0 {
		ttl = defaultSuggestionTTL
	}
	return &SuggestionService{generator: generator, cache: cache, ttl: ttl, log: log}
}

// Suggest returns a response suggestion for content. Only administrators may ask.
func (s *SuggestionService) Suggest(ctx context.Context, actor domain.TrustedClaims, content string) (string, error) {
	if !actor.IsAdmin() {
		return "", domain.ErrUnauthorized
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domain.NewValidationError("feedbackContent", "is required")
	}
	return s.suggest(ctx, content)
}

// Prefetch generates and caches a suggestion ahead of an admin asking for it.
func (s *SuggestionService) Prefetch(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	_, err := s.suggest(ctx, content)
	return err
}

func (s *SuggestionService) suggest(ctx context.Context, content string) (string, error) {
	key := SuggestionKey(content)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Msg("suggestion cache read failed, generating anyway")
		} else if ok {
			metrics.SuggestionsTotal.WithLabelValues("cache_hit").Inc()
			return cached, nil
		}
	}

	text, err := s.generator.Generate(ctx, suggestionSystemPrompt, fmt.Sprintf(suggestionPromptFormat, content))
	if err != nil {
		if errors.Is(err, domain.ErrSuggestionsDisabled) {
			metrics.SuggestionsTotal.WithLabelValues("disabled").Inc()
			return "", err
		}
		metrics.SuggestionsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("text generation failed")
		return "", fmt.Errorf("%w: %v", domain.ErrSuggestionFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.SuggestionsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: empty completion", domain.ErrSuggestionFailed)
	}
	metrics.SuggestionsTotal.WithLabelValues("generated").Inc()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache suggestion")
		}
	}
	return text, nil
}

// SuggestionKey derives the cache key for content.
func SuggestionKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "suggestion:" + hex.EncodeToString(sum[:])
}
