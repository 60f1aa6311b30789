package handler

import (
	"net/http"

	"github.com/arashpm/user-service/internal/dto"
	"github.com/arashpm/user-service/internal/service"
	"github.com/arashpm/user-service/internal/token"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Register a new user and issue an initial token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Refresh handles token renewal
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest true "Refresh request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the presented refresh token
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.LogoutRequest true "Logout request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.Refresh); err != nil {
		// A bad token cannot be revoked, but it carries no session either
		status, body := statusForError(err)
		if status == http.StatusInternalServerError {
			c.JSON(status, body)
			return
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Successfully logged out.",
	})
}

// Decode handles diagnostic token decoding. It is deliberately anonymous:
// operators can self-service debug token issues, and the caller chooses
// which verifications run. It never feeds an authorization decision.
// @Summary Decode a token
// @Description Decode and optionally verify a token's claims
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.DecodeRequest true "Decode request"
// @Success 200 {object} dto.DecodeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/decode [post]
func (h *AuthHandler) Decode(c *gin.Context) {
	var req dto.DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	opts := token.VerifyOptions{
		Expiry:   boolOrTrue(req.VerifyExp),
		Audience: boolOrTrue(req.VerifyAud),
		Issuer:   boolOrTrue(req.VerifyIss),
	}

	claims, err := h.authService.Decode(c.Request.Context(), req.Token, opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"error":      err.Error(),
			"error_type": token.Kind(err),
		})
		return
	}

	c.JSON(http.StatusOK, dto.DecodeResponse{
		Success: true,
		Payload: claims,
		Options: dto.DecodeOptionsUsed{
			VerifyExp: opts.Expiry,
			VerifyAud: opts.Audience,
			VerifyIss: opts.Issuer,
		},
	})
}

// GetMe handles getting current user profile
// @Summary Get current user profile
// @Description Get information about the current authenticated user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "User ID not found in context",
		})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID.(string))
	if err != nil {
		status, body := statusForError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, user)
}

// boolOrTrue defaults an omitted flag to true so every check is
// fail-closed unless explicitly disabled
func boolOrTrue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
