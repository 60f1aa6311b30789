package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the fixed claim set carried by issued tokens. Access tokens
// embed a snapshot of the user's profile taken at issuance; refresh tokens
// carry only the subject, type and timing fields. The field list is
// deliberately closed: nothing else ever enters a signed payload.
type Claims struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}
