package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ekrukov/shortly/internal/models"
)

var (
	// ErrInvalidCredentials is returned when the username or password
	// doesn't match a registered user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when a bearer token is malformed,
	// has a bad signature or has expired.
	ErrInvalidToken = errors.New("invalid token")
)

// UserRepository defines the interface for working with users at the business logic layer.
type UserRepository interface {
	// Create inserts a new user. A taken username is reported as
	// database.ErrUserExists.
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type tokenClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService registers users, verifies credentials and issues the bearer
// tokens consumed by the owner-scoped API routes.
type AuthService struct {
	repo     UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService signing tokens with the given
// secret for the given lifetime.
func NewAuthService(repo UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates a new user with a bcrypt-hashed password and returns a
// signed token for it. A taken username propagates database.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	const op = "service.AuthService.Register"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		return "", fmt.Errorf("%s: failed to register user: %w", op, err)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("%s: failed to sign token: %w", op, err)
	}

	return token, nil
}

// Login verifies the credentials and returns a signed token. A missing user
// and a wrong password are both reported as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	const op = "service.AuthService.Login"

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("%s: failed to sign token: %w", op, err)
	}

	return token, nil
}

// VerifyToken validates a bearer token and returns the user ID it carries.
func (s *AuthService) VerifyToken(tokenString string) (int64, error) {
	const op = "service.AuthService.VerifyToken"

	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims.UserID, nil
}

func (s *AuthService) signToken(userID int64) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
