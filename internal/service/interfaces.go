package service

import (
	"context"
	"time"

	"github.com/arashpm/user-service/internal/dto"
	"github.com/arashpm/user-service/internal/token"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Decode(ctx context.Context, raw string, opts token.VerifyOptions) (*token.Claims, error)
	VerifyAccess(ctx context.Context, raw string) (*token.Claims, error)
}

// UserService defines methods for profile and admin user management
type UserService interface {
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	DeleteUser(ctx context.Context, userID string) error
}

// RevocationRegistry tracks invalidated refresh tokens by their identifier.
// Revoke is idempotent; an identifier once present stays revoked for at
// least the supplied ttl, which callers set to the token's remaining
// lifetime. Consistency comes from the backing store, not in-process locks.
type RevocationRegistry interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
