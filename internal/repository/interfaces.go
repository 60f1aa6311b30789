package repository

import (
	"context"

	"github.com/arashpm/user-service/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string) error
}

// TokenRepository defines methods for refresh token records
type TokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenID(ctx context.Context, tokenID string) (*domain.RefreshToken, error)
	GetByUserID(ctx context.Context, userID string) ([]*domain.RefreshToken, error)
	DeleteByTokenID(ctx context.Context, tokenID string) error
	DeleteExpired(ctx context.Context) error
}
