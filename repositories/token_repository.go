package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ruben10-R/pro-league/models"
)

var ErrTokenNotFound = errors.New("auth token not found")

// TokenRepository is the bearer-token store: rows exist for issued
// tokens and are deleted on logout, which revokes them.
type TokenRepository interface {
	Create(ctx context.Context, token *models.AuthToken) error
	GetByHash(ctx context.Context, tokenHash string) (*models.AuthToken, error)
	DeleteByHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type postgresTokenRepository struct {
	db *sql.DB
}

func NewPostgresTokenRepository(db *sql.DB) TokenRepository {
	return &postgresTokenRepository{db: db}
}

func (r *postgresTokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create auth token: %w", err)
	}
	return nil
}

func (r *postgresTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*models.AuthToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM auth_tokens
		WHERE token_hash = $1`

	token := &models.AuthToken{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to scan auth token: %w", err)
	}
	return token, nil
}

func (r *postgresTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete auth token: %w", err)
	}
	return checkAffectedRows(result, ErrTokenNotFound)
}

func (r *postgresTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired auth tokens: %w", err)
	}
	return result.RowsAffected()
}
