package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Ruben10-R/pro-league/models"
	"github.com/Ruben10-R/pro-league/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, input LoginInput) (*models.User, string, error)
	Logout(ctx context.Context, rawToken string) error
	// ResolveToken maps a presented bearer token to its user, or fails.
	// A token resolves only while its signature verifies, its claims are
	// unexpired, and its row still exists in the store.
	ResolveToken(ctx context.Context, rawToken string) (*models.User, error)
	// SweepExpiredTokens drops expired rows from the token store and
	// reports how many were removed.
	SweepExpiredTokens(ctx context.Context) (int64, error)
}

type RegisterInput struct {
	FullName *string `json:"fullName"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	jwtSecret string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrAuthInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrAuthInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to compare password hash: %w", err)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, rawToken string) error {
	err := s.tokenRepo.DeleteByHash(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return ErrAuthInvalidToken
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *authService) ResolveToken(ctx context.Context, rawToken string) (*models.User, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrAuthTokenExpired
		}
		return nil, ErrAuthInvalidToken
	}
	if !token.Valid {
		return nil, ErrAuthInvalidToken
	}

	userIDClaim, ok := claims["user_id"].(float64)
	if !ok || userIDClaim <= 0 {
		return nil, ErrAuthInvalidToken
	}

	// A signed token is not enough: the row must survive in the store,
	// so logged-out tokens stop resolving before their JWT expiry.
	stored, err := s.tokenRepo.GetByHash(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, ErrAuthInvalidToken
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrAuthTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, int(userIDClaim))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidToken
		}
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}
	return user, nil
}

func (s *authService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	count, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return count, nil
}

func (s *authService) issueToken(ctx context.Context, user *models.User) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	record := &models.AuthToken{
		UserID:    user.ID,
		TokenHash: hashToken(signed),
		ExpiresAt: expiresAt,
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return signed, nil
}

func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
