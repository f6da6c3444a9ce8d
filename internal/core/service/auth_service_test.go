package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

func newAuthService(repo *stubUserRepo) (*AuthService, *TokenService) {
	tokens := NewTokenService("secret", time.Hour)
	return NewAuthService(repo, tokens, discardLogger), tokens
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	user, err := svc.Signup(context.Background(), ports.SignupInput{Name: "Alice", Email: " Alice@Example.com ", Password: "pass123"})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("signup must always create role %q, got %q", domain.RoleUser, user.Role)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	cases := []struct {
		name  string
		in    ports.SignupInput
		field string
	}{
		{"missing name", ports.SignupInput{Email: "a@example.com", Password: "pass123"}, "name"},
		{"missing email", ports.SignupInput{Name: "A", Password: "pass123"}, "email"},
		{"bad email", ports.SignupInput{Name: "A", Email: "nope", Password: "pass123"}, "email"},
		{"short password", ports.SignupInput{Name: "A", Email: "a@example.com", Password: "123"}, "password"},
	}
	for _, tc := range cases {
		_, err := svc.Signup(context.Background(), tc.in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if ve.Field != tc.field {
			t.Fatalf("%s: expected field %q, got %q", tc.name, tc.field, ve.Field)
		}
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user should be stored on validation failure")
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	_, _ = svc.Signup(context.Background(), ports.SignupInput{Name: "Bob", Email: "bob@example.com", Password: "pass123"})
	if _, err := svc.Signup(context.Background(), ports.SignupInput{Name: "Bob", Email: "BOB@example.com", Password: "pass456"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newAuthService(repo)

	hash, _ := HashPassword("s3cret")
	repo.users["admin-1"] = &domain.User{ID: "admin-1", Name: "Carol", Email: "admin@example.com", PasswordHash: hash, Role: domain.RoleAdmin}

	res, err := svc.Login(context.Background(), "admin@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.Role != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %q", res.User.Role)
	}

	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != "admin-1" || claims.Role != domain.RoleAdmin || claims.Email != "admin@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	_, _ = svc.Signup(context.Background(), ports.SignupInput{Name: "Dave", Email: "dave@example.com", Password: "goodpass"})
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailStillComparesHash(t *testing.T) {
	var compared [][]byte
	orig := comparePassword
	comparePassword = func(hash, password []byte) error {
		compared = append(compared, hash)
		return orig(hash, password)
	}
	t.Cleanup(func() { comparePassword = orig })

	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)
	_, _ = svc.Signup(context.Background(), ports.SignupInput{Name: "Dave", Email: "dave@example.com", Password: "goodpass"})

	if _, err := svc.Login(context.Background(), "ghost@example.com", "goodpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if len(compared) != 2 {
		t.Fatalf("expected one bcrypt comparison per failed login, got %d", len(compared))
	}
	if cost, err := bcrypt.Cost(compared[0]); err != nil || cost != bcrypt.DefaultCost {
		t.Fatalf("unknown email must be compared against a real hash of default cost, got cost=%d err=%v", cost, err)
	}
}

func TestAuthService_Me(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)
	repo.seed("u1", "Erin", "erin@example.com", domain.RoleUser)

	user, err := svc.Me(context.Background(), domain.TrustedClaims{UserID: "u1", Role: domain.RoleUser})
	if err != nil || user.Name != "Erin" {
		t.Fatalf("unexpected result: %+v, %v", user, err)
	}

	if _, err := svc.Me(context.Background(), domain.TrustedClaims{UserID: "gone", Role: domain.RoleUser}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Me(context.Background(), domain.TrustedClaims{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
