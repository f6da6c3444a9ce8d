package service

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/infrastructure/metrics"
)

// MaxImageBytes caps a single uploaded image.
const MaxImageBytes = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type FeedbackService struct {
	feedback ports.FeedbackRepository
	users    ports.UserRepository
	images   ports.ImageStore
	prefetch ports.SuggestionPrefetcher // nil disables prefetching
	log      zerolog.Logger
}

func NewFeedbackService(
	feedback ports.FeedbackRepository,
	users ports.UserRepository,
	images ports.ImageStore,
	prefetch ports.SuggestionPrefetcher,
	log zerolog.Logger,
) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		users:    users,
		images:   images,
		prefetch: prefetch,
		log:      log,
	}
}

// Create validates and stores a new submission on behalf of actor. Any
// attached image is written before the record so the record never points at
// a missing file.
func (s *FeedbackService) Create(ctx context.Context, actor domain.TrustedClaims, in ports.CreateFeedbackInput) (*domain.Feedback, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	if content == "" {
		return nil, domain.NewValidationError("content", "is required")
	}
	rating, err := parseRating(in.Rating)
	if err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	var imageURL string
	if in.Image != nil && len(in.Image.Data) > 0 {
		imageURL, err = s.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
	}

	created, err := s.feedback.Create(ctx, &domain.Feedback{
		Title:     title,
		Content:   content,
		Rating:    rating,
		ImageURL:  imageURL,
		UserID:    author.ID,
		UserName:  author.Name,
		UserEmail: author.Email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", actor.UserID).Msg("failed to create feedback")
		return nil, err
	}

	metrics.FeedbackCreatedTotal.WithLabelValues(strconv.Itoa(rating)).Inc()
	s.log.Info().Str("feedback_id", created.ID).Str("user_id", author.ID).Int("rating", rating).Msg("feedback created")

	if s.prefetch != nil {
		s.prefetch.Enqueue(ports.SuggestionJob{FeedbackID: created.ID, Content: created.Content})
	}
	return created, nil
}

// ListOwn returns the actor's submissions, newest first.
func (s *FeedbackService) ListOwn(ctx context.Context, actor domain.TrustedClaims) ([]*domain.Feedback, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.feedback.List(ctx, ports.FeedbackFilter{UserID: actor.UserID, Sort: domain.SortNewest})
}

// ListAll returns every submission matching the admin filters.
func (s *FeedbackService) ListAll(ctx context.Context, actor domain.TrustedClaims, in ports.ListAllInput) ([]*domain.Feedback, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	filter := ports.FeedbackFilter{
		Search: strings.TrimSpace(in.Search),
		Sort:   domain.SortNewest,
	}

	switch strings.ToLower(strings.TrimSpace(in.Sort)) {
	case "", string(domain.SortNewest):
	case string(domain.SortOldest):
		filter.Sort = domain.SortOldest
	default:
		return nil, domain.NewValidationError("sort", "must be one of: newest oldest")
	}

	if r := strings.TrimSpace(in.Rating); r != "" && r != "all" {
		rating, err := parseRating(r)
		if err != nil {
			return nil, err
		}
		filter.Rating = rating
	}

	return s.feedback.List(ctx, filter)
}

// Respond attaches or replaces the administrator response on a submission.
func (s *FeedbackService) Respond(ctx context.Context, actor domain.TrustedClaims, id, response string) (*domain.Feedback, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, domain.NewValidationError("response", "is required")
	}
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrFeedbackNotFound
	}

	updated, err := s.feedback.UpdateResponse(ctx, id, response)
	if err != nil {
		return nil, err
	}

	metrics.FeedbackResponsesTotal.Inc()
	s.log.Info().Str("feedback_id", id).Str("admin_id", actor.UserID).Msg("feedback responded")
	return updated, nil
}

func (s *FeedbackService) storeImage(ctx context.Context, img *ports.ImageUpload) (string, error) {
	if len(img.Data) > MaxImageBytes {
		return "", domain.NewValidationError("image", "must be at most 5 MiB")
	}

	mt := mimetype.Detect(img.Data)
	ext, ok := allowedImageTypes[mt.String()]
	if !ok {
		return "", domain.NewValidationError("image", "must be a jpeg, png, gif or webp image")
	}

	key := uuid.NewString() + ext
	url, err := s.images.Save(ctx, key, mt.String(), bytes.NewReader(img.Data))
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to store image")
		return "", err
	}
	return url, nil
}

func parseRating(raw string) (int, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !domain.ValidRating(rating) {
		return 0, domain.NewValidationError("rating", "must be an integer between 1 and 5")
	}
	return rating, nil
}
