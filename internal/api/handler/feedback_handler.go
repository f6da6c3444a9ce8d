package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/service"
)

// FeedbackHandler handles HTTP requests for feedback submissions.
type FeedbackHandler struct {
	service ports.FeedbackService
}

func NewFeedbackHandler(service ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Create handles POST /api/feedback.
//
// @Summary      Submit feedback
// @Tags         feedback
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title    formData  string  true   "Title"
// @Param        content  formData  string  true   "Content"
// @Param        rating   formData  int     true   "Rating 1-5"
// @Param        image    formData  file    false  "Optional jpeg, png, gif or webp image (max 5 MiB)"
// @Success      201      {object}  feedbackResponse
// @Failure      400      {object}  messageResponse
// @Failure      401      {object}  messageResponse
// @Failure      404      {object}  messageResponse
// @Router       /api/feedback [post]
func (h *FeedbackHandler) Create(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	image, err := readImage(c)
	if err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), claims, ports.CreateFeedbackInput{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
		Rating:  c.FormValue("rating"),
		Image:   image,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toFeedbackResponse(created))
}

// ListOwn handles GET /api/feedback.
//
// @Summary      List my feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   feedbackResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/feedback [get]
func (h *FeedbackHandler) ListOwn(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListOwn(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFeedbackList(items))
}

// ListAll handles GET /api/feedback/all.
//
// @Summary      List all feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        q       query     string  false  "Search title, content and author name"
// @Param        rating  query     string  false  "1-5 or all"
// @Param        sort    query     string  false  "newest (default) or oldest"
// @Success      200     {array}   feedbackResponse
// @Failure      400     {object}  messageResponse
// @Failure      401     {object}  messageResponse
// @Failure      403     {object}  messageResponse
// @Router       /api/feedback/all [get]
func (h *FeedbackHandler) ListAll(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListAll(c.Request().Context(), claims, ports.ListAllInput{
		Search: c.QueryParam("q"),
		Rating: c.QueryParam("rating"),
		Sort:   c.QueryParam("sort"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFeedbackList(items))
}

// Respond handles POST /api/feedback/:id/respond.
//
// @Summary      Respond to feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Feedback id"
// @Param        body  body      respondRequest  true  "Response text"
// @Success      200   {object}  feedbackResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/feedback/{id}/respond [post]
func (h *FeedbackHandler) Respond(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req respondRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.service.Respond(c.Request().Context(), claims, c.Param("id"), req.Response)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFeedbackResponse(updated))
}

// readImage returns the optional image part, reading at most one byte past
// the size cap so oversized uploads are rejected without buffering them.
func readImage(c echo.Context) (*ports.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	if fh.Size > service.MaxImageBytes {
		return nil, domain.NewValidationError("image", "must be at most 5 MiB")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > service.MaxImageBytes {
		return nil, domain.NewValidationError("image", "must be at most 5 MiB")
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &ports.ImageUpload{Filename: fh.Filename, Data: data}, nil
}
