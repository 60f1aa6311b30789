package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arashpm/user-service/internal/domain"
	"github.com/arashpm/user-service/pkg/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *database.Postgres
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *database.Postgres) TokenRepository {
	return &tokenRepository{db: db}
}

// Create creates a new refresh token record
func (r *tokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.TokenID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("refresh token already recorded: %w", ErrDuplicateToken)
			}
		}
		return fmt.Errorf("failed to create token: %w", err)
	}

	return nil
}

// GetByTokenID retrieves a refresh token record by its jti
func (r *tokenRepository) GetByTokenID(ctx context.Context, tokenID string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE token_id = $1
	`

	token := &domain.RefreshToken{}
	err := r.db.DB.QueryRowContext(ctx, query, tokenID).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("refresh token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get token by id: %w", err)
	}

	return token, nil
}

// GetByUserID retrieves all refresh token records for a user
func (r *tokenRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens by user id: %w", err)
	}
	defer rows.Close()

	var tokens []*domain.RefreshToken
	for rows.Next() {
		token := &domain.RefreshToken{}
		err := rows.Scan(
			&token.ID,
			&token.UserID,
			&token.TokenID,
			&token.TokenHash,
			&token.ExpiresAt,
			&token.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tokens: %w", err)
	}

	return tokens, nil
}

// DeleteByTokenID deletes a refresh token record by its jti
func (r *tokenRepository) DeleteByTokenID(ctx context.Context, tokenID string) error {
	query := `DELETE FROM refresh_tokens WHERE token_id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, tokenID)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("refresh token not found: %w", ErrNotFound)
	}

	return nil
}

// DeleteExpired deletes all expired refresh token records
func (r *tokenRepository) DeleteExpired(ctx context.Context) error {
	query := `DELETE FROM refresh_tokens WHERE expires_at < $1`

	_, err := r.db.DB.ExecContext(ctx, query, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	return nil
}
