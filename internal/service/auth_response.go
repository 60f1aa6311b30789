package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arashpm/user-service/internal/domain"
	"github.com/arashpm/user-service/internal/dto"
	"github.com/arashpm/user-service/internal/utils"
)

// generateAuthResponse issues a token pair for the user, records the
// refresh token for the rotation chain and shapes the response
func (s *authService) generateAuthResponse(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	issued, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	record := &domain.RefreshToken{
		UserID:    user.ID,
		TokenID:   issued.RefreshID,
		TokenHash: utils.HashToken(issued.Pair.RefreshToken),
		ExpiresAt: issued.RefreshExpiresAt,
	}

	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken:  issued.Pair.AccessToken,
		RefreshToken: issued.Pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    issued.AccessExpiresIn,
		User:         toUserResponse(user),
	}, nil
}

// toUserResponse maps a user record to its response shape
func toUserResponse(user *domain.User) dto.UserResponse {
	response := dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		Address:     user.Address,
		DateJoined:  user.DateJoined.Format(time.RFC3339),
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
	}

	if user.LastLoginAt != nil {
		lastLogin := user.LastLoginAt.Format(time.RFC3339)
		response.LastLoginAt = &lastLogin
	}

	return response
}
