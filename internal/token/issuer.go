package token

import (
	"fmt"
	"time"

	"github.com/arashpm/user-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer builds claim sets for users and signs them through the codec.
// It has no side effects beyond signing: persisting refresh records and
// registering revocations belong to the caller.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer creates an issuer with the configured token lifetimes
func NewIssuer(codec *Codec, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssuedTokens carries a signed pair plus the refresh metadata the caller
// needs to persist the rotation chain.
type IssuedTokens struct {
	Pair             domain.TokenPair
	RefreshID        string
	RefreshExpiresAt time.Time
	AccessExpiresIn  int // seconds
}

// Issue produces an access/refresh token pair for the user. The access
// token embeds a profile snapshot copied at issuance time; later changes
// to the user record do not affect tokens already signed.
func (i *Issuer) Issue(user *domain.User) (*IssuedTokens, error) {
	accessClaims := i.buildClaims(user, domain.TokenTypeAccess, i.accessTTL)
	refreshClaims := i.buildClaims(user, domain.TokenTypeRefresh, i.refreshTTL)

	accessToken, err := i.codec.Sign(accessClaims)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := i.codec.Sign(refreshClaims)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &IssuedTokens{
		Pair: domain.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		RefreshID:        refreshClaims.ID,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
		AccessExpiresIn:  int(i.accessTTL.Seconds()),
	}, nil
}

// IssueAccess signs a standalone access token for the user. Used when a
// refresh presentation renews access without rotating the refresh token.
func (i *Issuer) IssueAccess(user *domain.User) (string, error) {
	accessToken, err := i.codec.Sign(i.buildClaims(user, domain.TokenTypeAccess, i.accessTTL))
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return accessToken, nil
}

// AccessTTL returns the configured access token lifetime
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

// RefreshTTL returns the configured refresh token lifetime
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// buildClaims constructs the claim set for one token class. Profile
// attributes go into access tokens only; the longer-lived refresh token
// carries nothing beyond subject, type and timing.
func (i *Issuer) buildClaims(user *domain.User, tokenType string, ttl time.Duration) *Claims {
	now := i.now()

	claims := &Claims{
		UserID:    user.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    i.codec.issuer,
			Audience:  jwt.ClaimStrings{i.codec.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	if tokenType == domain.TokenTypeAccess {
		claims.Username = user.Username
		claims.Email = user.Email
		claims.FirstName = user.FirstName
		claims.LastName = user.LastName
		if user.PhoneNumber != nil {
			claims.PhoneNumber = *user.PhoneNumber
		}
	}

	return claims
}
