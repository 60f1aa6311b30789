package handler

import (
	"net/http"

	"github.com/arashpm/user-service/internal/dto"
	"github.com/arashpm/user-service/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler handles profile and admin user management requests
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile handles reading the caller's own profile
// @Summary Get own profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles partial updates to the caller's own profile
// @Summary Update own profile
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), c.GetString("user_id"), &req)
	if err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword handles password changes for the caller's own account
// @Summary Change own password
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Password change"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/me/password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), c.GetString("user_id"), &req); err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Password changed successfully.",
	})
}

// ListUsers handles the admin user listing
// @Summary List all users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles the admin single-user read
// @Summary Get a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser handles the admin user update
// @Summary Update a user
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "User update"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles the admin user deletion
// @Summary Delete a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "User deleted successfully.",
	})
}
