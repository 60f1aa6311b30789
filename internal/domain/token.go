package domain

// Token type claim values. The type is fixed per token class and never mixed.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenPair represents an access/refresh token pair issued together
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}
