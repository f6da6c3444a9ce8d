package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/feedbackhub/portal/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// sessionClaims is the signed payload of a session token.
type sessionClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token asserting userID, email and role, valid for the
// configured TTL from now.
func (s *TokenService) Issue(userID, email, role string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("token secret not configured")
	}

	now := s.now()
	exp := now.Add(s.ttl)
	claims := sessionClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks the signature, algorithm and expiry of token. Every failure,
// including a panic inside the parser, is reported as domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (claims domain.TrustedClaims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims, err = domain.TrustedClaims{}, domain.ErrInvalidToken
		}
	}()

	if token == "" || len(s.secret) == 0 {
		return domain.TrustedClaims{}, domain.ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var sc sessionClaims
	parsed, err := parser.ParseWithClaims(token, &sc, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.TrustedClaims{}, domain.ErrInvalidToken
	}
	if sc.UserID == "" || !domain.ValidRole(sc.Role) {
		return domain.TrustedClaims{}, domain.ErrInvalidToken
	}

	return domain.TrustedClaims{
		UserID:    sc.UserID,
		Email:     sc.Email,
		Role:      sc.Role,
		ExpiresAt: sc.ExpiresAt.Time,
	}, nil
}
