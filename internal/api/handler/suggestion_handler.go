package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/ports"
)

type SuggestionHandler struct {
	service ports.SuggestionService
}

func NewSuggestionHandler(service ports.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// Suggest handles POST /api/ai/suggestion.
//
// @Summary      Suggest a response
// @Tags         suggestions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      suggestionRequest  true  "Feedback text"
// @Success      200   {object}  suggestionResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /api/ai/suggestion [post]
func (h *SuggestionHandler) Suggest(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req suggestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	text, err := h.service.Suggest(c.Request().Context(), claims, req.FeedbackContent)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, suggestionResponse{Suggestion: text})
}
