package auth_services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pipecode66/kanban-api/internal/model/auth_model"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrInvalidCredentials covers both unknown-user and wrong-password so
	// a caller cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *auth_model.User) error
	GetByUsername(ctx context.Context, username string) (*auth_model.User, error)
	GetByID(ctx context.Context, id int) (*auth_model.User, error)
}

// TokenSettings holds the signing material and validation policy for
// access tokens.
type TokenSettings struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type AuthService struct {
	Users  UserStore
	Tokens TokenSettings
}

func NewAuthService(users UserStore, tokens TokenSettings) *AuthService {
	if tokens.TTL == 0 {
		tokens.TTL = 60 * time.Minute
	}
	return &AuthService{Users: users, Tokens: tokens}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *AuthService) Register(ctx context.Context, username, password string) (string, *auth_model.User, error) {
	username = normalizeUsername(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return "", nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &auth_model.User{Username: username, PasswordHash: string(hash)}
	if err := s.Users.Create(ctx, u); err != nil {
		return "", nil, err
	}

	token, err := s.GenerateToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *auth_model.User, error) {
	username = normalizeUsername(username)

	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) GenerateToken(u *auth_model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"iss":     s.Tokens.Issuer,
		"aud":     s.Tokens.Audience,
		"iat":     now.Unix(),
		"exp":     now.Add(s.Tokens.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.Tokens.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates signature, algorithm, issuer, audience and
// expiry, and returns the user id claim.
func (s *AuthService) ParseAccessToken(tokenStr string) (int, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (any, error) {
			return []byte(s.Tokens.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.Tokens.Issuer),
		jwt.WithAudience(s.Tokens.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredentials
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, ErrInvalidCredentials
	}
	return int(userID), nil
}
