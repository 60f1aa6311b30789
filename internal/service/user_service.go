package service

import (
	"context"
	"fmt"

	"github.com/arashpm/user-service/internal/dto"
	"github.com/arashpm/user-service/internal/repository"
	"github.com/arashpm/user-service/internal/utils"
)

// userService implements UserService interface
type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, bcryptCost int) UserService {
	return &userService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// GetUser gets user information
func (s *userService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := toUserResponse(user)
	return &response, nil
}

// ListUsers returns all users, newest first
func (s *userService) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for _, user := range users {
		response := toUserResponse(user)
		responses = append(responses, &response)
	}

	return responses, nil
}

// UpdateProfile applies a partial profile update for the user themselves
func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = utils.SanitizeEmail(*req.Email)
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	response := toUserResponse(user)
	return &response, nil
}

// UpdateUser applies an admin update, which may also flip account flags
func (s *userService) UpdateUser(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = utils.SanitizeEmail(*req.Email)
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	response := toUserResponse(user)
	return &response, nil
}

// ChangePassword verifies the old password and replaces it with the new one
func (s *userService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if req.NewPassword != req.NewPasswordConfirm {
		return ErrPasswordMismatch
	}

	if !utils.ValidatePassword(req.NewPassword) {
		return ErrWeakPassword
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return ErrWrongOldPassword
	}

	passwordHash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, passwordHash)
}

// DeleteUser removes a user account
func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	return s.userRepo.Delete(ctx, userID)
}
