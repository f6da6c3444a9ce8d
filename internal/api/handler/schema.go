package handler

import "time"

// messageResponse is the body of acknowledgements and of every error.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type signupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// --- Feedback ---

type feedbackAuthor struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type feedbackResponse struct {
	ID        string         `json:"_id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Rating    int            `json:"rating"`
	ImageURL  *string        `json:"imageUrl"`
	Response  *string        `json:"response"`
	User      feedbackAuthor `json:"user"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt *time.Time     `json:"updatedAt"`
}

type respondRequest struct {
	Response string `json:"response" validate:"required"`
}

// --- Suggestions ---

type suggestionRequest struct {
	FeedbackContent string `json:"feedbackContent" validate:"required"`
}

type suggestionResponse struct {
	Suggestion string `json:"suggestion"`
}
