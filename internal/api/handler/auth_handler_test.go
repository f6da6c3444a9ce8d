package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/api/session"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	loginFn  func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	meFn     func(ctx context.Context, claims domain.TrustedClaims) (*domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, claims domain.TrustedClaims) (*domain.User, error) {
	return s.meFn(ctx, claims)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func withClaims(req *http.Request, claims domain.TrustedClaims) *http.Request {
	return req.WithContext(session.WithClaims(req.Context(), claims))
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
			if in.Name != "Alice" || in.Email != "alice@example.com" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Name: in.Name, Email: in.Email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub, session.NewCookies(false))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`), rec)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["userId"] != "u1" || resp["message"] == "" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Signup_ValidationFails(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, session.NewCookies(false))

	for _, body := range []string{
		`{"email":"alice@example.com","password":"secret1"}`,
		`{"name":"A","email":"nope","password":"secret1"}`,
		`{"name":"A","email":"alice@example.com","password":"123"}`,
	} {
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", body), httptest.NewRecorder())
		err := h.Signup(c)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("body %s: expected ValidationError, got %v", body, err)
		}
	}
}

func TestAuthHandler_Signup_UserExists(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, session.NewCookies(false))

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", `{"name":"A","email":"a@example.com","password":"secret1"}`), httptest.NewRecorder())
	if err := h.Signup(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookies(t *testing.T) {
	e := newEcho()
	exp := time.Now().Add(24 * time.Hour)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				Token:     "tok",
				ExpiresAt: exp,
				User:      &domain.User{ID: "a1", Name: "Admin", Email: email, Role: domain.RoleAdmin, PasswordHash: "hash"},
			}, nil
		},
	}
	h := NewAuthHandler(stub, session.NewCookies(false))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"pw"}`), rec)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "tok" || resp.User.Role != domain.RoleAdmin || resp.User.ID != "a1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	got := map[string]string{}
	for _, ck := range rec.Result().Cookies() {
		got[ck.Name] = ck.Value
	}
	if got[session.TokenCookie] != "tok" || got[session.RoleCookie] != domain.RoleAdmin {
		t.Fatalf("unexpected cookies: %v", got)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, session.NewCookies(false))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"x@example.com","password":"bad"}`), rec)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookies may be set on failed login")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, session.NewCookies(false))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), rec)
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 2 {
		t.Fatalf("expected both cookies cleared, got %v", rec.Result().Cookies())
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		meFn: func(ctx context.Context, claims domain.TrustedClaims) (*domain.User, error) {
			return &domain.User{ID: claims.UserID, Name: "Alice", Email: claims.Email, Role: claims.Role}, nil
		},
	}
	h := NewAuthHandler(stub, session.NewCookies(false))

	rec := httptest.NewRecorder()
	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), domain.TrustedClaims{UserID: "u1", Email: "alice@example.com", Role: domain.RoleUser})
	if err := h.Me(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u1" || resp.Name != "Alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	// Without RequireSession in front the handler fails closed.
	err := h.Me(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), httptest.NewRecorder()))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
