package handler

import (
	"github.com/feedbackhub/portal/internal/core/domain"
)

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func toFeedbackResponse(f *domain.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:        f.ID,
		Title:     f.Title,
		Content:   f.Content,
		Rating:    f.Rating,
		ImageURL:  optional(f.ImageURL),
		Response:  optional(f.Response),
		User:      feedbackAuthor{ID: f.UserID, Name: f.UserName, Email: f.UserEmail},
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func toFeedbackList(items []*domain.Feedback) []feedbackResponse {
	out := make([]feedbackResponse, 0, len(items))
	for _, f := range items {
		out = append(out, toFeedbackResponse(f))
	}
	return out
}

// optional maps the empty string to JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
