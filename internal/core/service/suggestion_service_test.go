package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbackhub/portal/internal/core/domain"
)

var adminClaims = domain.TrustedClaims{UserID: "a1", Role: domain.RoleAdmin}

func TestSuggestionService_GeneratesThenCaches(t *testing.T) {
	gen := &stubGenerator{text: "  We're sorry to hear that.  "}
	cache := newStubCache()
	svc := NewSuggestionService(gen, cache, 0, discardLogger)
	ctx := context.Background()

	got, err := svc.Suggest(ctx, adminClaims, "The app keeps crashing")
	require.NoError(t, err)
	assert.Equal(t, "We're sorry to hear that.", got)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, suggestionSystemPrompt, gen.lastSys)
	assert.True(t, strings.Contains(gen.lastMsg, `"The app keeps crashing"`), "prompt should quote the feedback: %s", gen.lastMsg)
	assert.Equal(t, got, cache.data[SuggestionKey("The app keeps crashing")])

	again, err := svc.Suggest(ctx, adminClaims, "The app keeps crashing")
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 1, gen.calls, "second call must be served from cache")
}

func TestSuggestionService_CacheErrorFallsThrough(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	cache := newStubCache()
	cache.getErr = errors.New("redis down")
	svc := NewSuggestionService(gen, cache, 0, discardLogger)

	got, err := svc.Suggest(context.Background(), adminClaims, "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, gen.calls)
}

func TestSuggestionService_WorksWithoutCache(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	svc := NewSuggestionService(gen, nil, 0, discardLogger)

	_, err := svc.Suggest(context.Background(), adminClaims, "hi")
	require.NoError(t, err)
	_, err = svc.Suggest(context.Background(), adminClaims, "hi")
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
}

func TestSuggestionService_RejectsNonAdminAndEmpty(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	svc := NewSuggestionService(gen, newStubCache(), 0, discardLogger)
	ctx := context.Background()

	_, err := svc.Suggest(ctx, domain.TrustedClaims{UserID: "u1", Role: domain.RoleUser}, "hi")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Suggest(ctx, adminClaims, "   ")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "feedbackContent", ve.Field)

	assert.Zero(t, gen.calls)
}

func TestSuggestionService_GeneratorErrors(t *testing.T) {
	ctx := context.Background()

	disabled := NewSuggestionService(&stubGenerator{err: domain.ErrSuggestionsDisabled}, nil, 0, discardLogger)
	_, err := disabled.Suggest(ctx, adminClaims, "hi")
	assert.ErrorIs(t, err, domain.ErrSuggestionsDisabled)
	assert.NotErrorIs(t, err, domain.ErrSuggestionFailed)

	failing := NewSuggestionService(&stubGenerator{err: errors.New("upstream 502")}, nil, 0, discardLogger)
	_, err = failing.Suggest(ctx, adminClaims, "hi")
	assert.ErrorIs(t, err, domain.ErrSuggestionFailed)

	empty := NewSuggestionService(&stubGenerator{text: "   "}, newStubCache(), 0, discardLogger)
	_, err = empty.Suggest(ctx, adminClaims, "hi")
	assert.ErrorIs(t, err, domain.ErrSuggestionFailed)
}

func TestSuggestionService_Prefetch(t *testing.T) {
	gen := &stubGenerator{text: "warm"}
	cache := newStubCache()
	svc := NewSuggestionService(gen, cache, 0, discardLogger)

	require.NoError(t, svc.Prefetch(context.Background(), ""))
	assert.Zero(t, gen.calls)

	require.NoError(t, svc.Prefetch(context.Background(), "Nice product"))
	assert.Equal(t, "warm", cache.data[SuggestionKey("Nice product")])
}

func TestSuggestionKey_StableAndDistinct(t *testing.T) {
	assert.Equal(t, SuggestionKey("a"), SuggestionKey("a"))
	assert.NotEqual(t, SuggestionKey("a"), SuggestionKey("b"))
	assert.True(t, strings.HasPrefix(SuggestionKey("a"), "suggestion:"))
}
