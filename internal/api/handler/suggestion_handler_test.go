package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/feedbackhub/portal/internal/core/domain"
)

type stubSuggestionService struct {
	suggestFn func(ctx context.Context, actor domain.TrustedClaims, content string) (string, error)
}

func (s *stubSuggestionService) Suggest(ctx context.Context, actor domain.TrustedClaims, content string) (string, error) {
	return s.suggestFn(ctx, actor, content)
}

func (s *stubSuggestionService) Prefetch(ctx context.Context, content string) error {
	return nil
}

func TestSuggestionHandler_Success(t *testing.T) {
	e := newEcho()
	h := NewSuggestionHandler(&stubSuggestionService{
		suggestFn: func(ctx context.Context, actor domain.TrustedClaims, content string) (string, error) {
			if content != "App crashes" || actor != adminClaims {
				t.Fatalf("unexpected args: %+v %q", actor, content)
			}
			return "We're on it.", nil
		},
	})

	rec := httptest.NewRecorder()
	req := withClaims(jsonRequest(http.MethodPost, "/api/ai/suggestion", `{"feedbackContent":"App crashes"}`), adminClaims)
	if err := h.Suggest(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp suggestionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Suggestion != "We're on it." {
		t.Fatalf("unexpected suggestion %q", resp.Suggestion)
	}
}

func TestSuggestionHandler_MissingContent(t *testing.T) {
	e := newEcho()
	h := NewSuggestionHandler(&stubSuggestionService{
		suggestFn: func(ctx context.Context, actor domain.TrustedClaims, content string) (string, error) {
			t.Fatalf("service must not be called")
			return "", nil
		},
	})

	req := withClaims(jsonRequest(http.MethodPost, "/api/ai/suggestion", `{}`), adminClaims)
	err := h.Suggest(e.NewContext(req, httptest.NewRecorder()))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "feedbackContent" {
		t.Fatalf("expected feedbackContent ValidationError, got %v", err)
	}
}

func TestSuggestionHandler_PropagatesServiceErrors(t *testing.T) {
	e := newEcho()
	for _, want := range []error{domain.ErrUnauthorized, domain.ErrSuggestionsDisabled, domain.ErrSuggestionFailed} {
		h := NewSuggestionHandler(&stubSuggestionService{
			suggestFn: func(ctx context.Context, actor domain.TrustedClaims, content string) (string, error) {
				return "", want
			},
		})
		req := withClaims(jsonRequest(http.MethodPost, "/api/ai/suggestion", `{"feedbackContent":"x"}`), adminClaims)
		if err := h.Suggest(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}
