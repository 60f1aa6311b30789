package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arashpm/user-service/internal/domain"
	"github.com/arashpm/user-service/internal/dto"
	"github.com/arashpm/user-service/internal/repository"
	"github.com/arashpm/user-service/internal/token"
	"github.com/arashpm/user-service/internal/utils"
)

// authService implements AuthService interface
type authService struct {
	userRepo      repository.UserRepository
	tokenRepo     repository.TokenRepository
	codec         *token.Codec
	issuer        *token.Issuer
	revocations   RevocationRegistry
	bcryptCost    int
	rotateRefresh bool
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	codec *token.Codec,
	issuer *token.Issuer,
	revocations RevocationRegistry,
	bcryptCost int,
	rotateRefresh bool,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		codec:         codec,
		issuer:        issuer,
		revocations:   revocations,
		bcryptCost:    bcryptCost,
		rotateRefresh: rotateRefresh,
	}
}

// Register registers a new user and issues a token pair
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	if !utils.ValidatePassword(req.Password) {
		return nil, ErrWeakPassword
	}

	if !utils.ValidateEmail(req.Email) {
		return nil, ErrInvalidEmail
	}

	// Check if user already exists
	_, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err == nil {
		return nil, fmt.Errorf("user with email %s already exists: %w", req.Email, repository.ErrDuplicateEmail)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        utils.SanitizeEmail(req.Email),
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.generateAuthResponse(ctx, user)
}

// Login authenticates a user. Any credential failure yields the same
// uniform error so callers cannot enumerate accounts.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed stamp must not fail the login
	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)
	user.LastLoginAt = timePtr(time.Now())

	return s.generateAuthResponse(ctx, user)
}

// Refresh renews a token pair from a refresh token. The revocation
// registry is consulted before anything is honored; with rotation enabled
// the presented token is revoked and a fresh pair issued.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.codec.Decode(refreshToken, token.AllChecks())
	if err != nil {
		return nil, err
	}

	if claims.TokenType != domain.TokenTypeRefresh {
		return nil, token.ErrWrongTokenType
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, token.ErrRevokedToken
	}

	record, err := s.tokenRepo.GetByTokenID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownRefreshToken
		}
		return nil, fmt.Errorf("failed to get token record: %w", err)
	}
	if record.TokenHash != utils.HashToken(refreshToken) {
		return nil, ErrUnknownRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	if !s.rotateRefresh {
		accessToken, err := s.issuer.IssueAccess(user)
		if err != nil {
			return nil, err
		}
		return &dto.AuthResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.issuer.AccessTTL().Seconds()),
			User:         toUserResponse(user),
		}, nil
	}

	// Rotate-on-use: the presented token dies with this call
	if err := s.revocations.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, fmt.Errorf("failed to revoke rotated token: %w", err)
	}
	if err := s.tokenRepo.DeleteByTokenID(ctx, claims.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to delete token record: %w", err)
	}

	return s.generateAuthResponse(ctx, user)
}

// Logout revokes a refresh token. It is idempotent: revoking an already
// revoked or expired token still reports success. The expiry check is
// skipped on decode so an expired session can be logged out cleanly.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.codec.Decode(refreshToken, token.VerifyOptions{Audience: true, Issuer: true})
	if err != nil {
		return err
	}

	if claims.TokenType != domain.TokenTypeRefresh {
		return token.ErrWrongTokenType
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if err := s.tokenRepo.DeleteByTokenID(ctx, claims.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete token record: %w", err)
	}

	return nil
}

// Decode is the diagnostic path: it verifies only the checks the caller
// asked for and performs no side effects. It must never back an
// authorization decision; that is VerifyAccess's job.
func (s *authService) Decode(_ context.Context, raw string, opts token.VerifyOptions) (*token.Claims, error) {
	return s.codec.Decode(raw, opts)
}

// VerifyAccess is the request-authentication gate. Every check always
// runs, and only access tokens pass.
func (s *authService) VerifyAccess(_ context.Context, raw string) (*token.Claims, error) {
	claims, err := s.codec.Decode(raw, token.AllChecks())
	if err != nil {
		return nil, err
	}

	if claims.TokenType != domain.TokenTypeAccess {
		return nil, token.ErrWrongTokenType
	}

	return claims, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
