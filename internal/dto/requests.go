package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email           string  `json:"email" binding:"required,email"`
	Username        string  `json:"username" binding:"required,min=3,max=150"`
	FirstName       string  `json:"first_name" binding:"required,max=150"`
	LastName        string  `json:"last_name" binding:"required,max=150"`
	PhoneNumber     *string `json:"phone_number" binding:"omitempty,max=15"`
	Address         *string `json:"address"`
	Password        string  `json:"password" binding:"required,min=8"`
	PasswordConfirm string  `json:"password_confirm" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token to renew
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// LogoutRequest carries the refresh token to revoke
type LogoutRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// DecodeRequest represents a diagnostic token decode request. Verification
// flags default to true when omitted (fail-closed).
type DecodeRequest struct {
	Token     string `json:"token" binding:"required"`
	VerifyExp *bool  `json:"verify_exp"`
	VerifyAud *bool  `json:"verify_aud"`
	VerifyIss *bool  `json:"verify_iss"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	Username    *string `json:"username" binding:"omitempty,min=3,max=150"`
	FirstName   *string `json:"first_name" binding:"omitempty,max=150"`
	LastName    *string `json:"last_name" binding:"omitempty,max=150"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`
	Address     *string `json:"address"`
}

// UpdateUserRequest represents an admin user update, which may also flip
// the active and staff flags
type UpdateUserRequest struct {
	UpdateProfileRequest
	IsActive *bool `json:"is_active"`
	IsStaff  *bool `json:"is_staff"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required,min=8"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	AccessToken  string       `json:"access"`
	RefreshToken string       `json:"refresh"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// UserResponse represents a user in responses
type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	DateJoined  string  `json:"date_joined"`
	LastLoginAt *string `json:"last_login_at"`
	IsActive    bool    `json:"is_active"`
	IsStaff     bool    `json:"is_staff"`
}

// DecodeResponse represents a successful diagnostic decode
type DecodeResponse struct {
	Success bool              `json:"success"`
	Payload interface{}       `json:"payload"`
	Options DecodeOptionsUsed `json:"validation_options_used"`
}

// DecodeOptionsUsed echoes which checks ran during a diagnostic decode
type DecodeOptionsUsed struct {
	VerifyExp bool `json:"verify_exp"`
	VerifyAud bool `json:"verify_aud"`
	VerifyIss bool `json:"verify_iss"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string      `json:"error"`
	ErrorType string      `json:"error_type,omitempty"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
