package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerifyOptions control which claim checks run during Decode. Structural
// validity and signature correctness are always checked.
type VerifyOptions struct {
	Expiry   bool
	Audience bool
	Issuer   bool
}

// AllChecks returns options with every check enabled. The request gate
// always verifies with these; the relaxed forms exist for the diagnostic
// decode path only.
func AllChecks() VerifyOptions {
	return VerifyOptions{Expiry: true, Audience: true, Issuer: true}
}

// Codec signs claims into RS256 tokens and decodes tokens back into claims.
// Verification is a pure function of (token, options, current time, key).
type Codec struct {
	keys     *KeyPair
	issuer   string
	audience string
	now      func() time.Time
}

// NewCodec creates a codec bound to the resolved key pair
func NewCodec(keys *KeyPair, issuer, audience string) *Codec {
	return &Codec{
		keys:     keys,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// Sign encodes the claim set into a signed token string
func (c *Codec) Sign(claims *Claims) (string, error) {
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.keys.signing)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Decode parses and verifies a token string. Checks run in a fixed order
// and the first failure wins: structure, signature, then expiry, audience
// and issuer as enabled by opts. Library errors never escape untranslated.
func (c *Codec) Decode(tokenString string, opts VerifyOptions) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.keys.verifying, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformedToken
		}
	}

	now := c.now()

	if opts.Expiry {
		if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) {
			return nil, ErrExpired
		}
	}

	if opts.Audience {
		if !audienceMatches(claims.Audience, c.audience) {
			return nil, ErrAudienceMismatch
		}
	}

	if opts.Issuer {
		if claims.Issuer != c.issuer {
			return nil, ErrIssuerMismatch
		}
	}

	return claims, nil
}

func audienceMatches(audience jwt.ClaimStrings, expected string) bool {
	for _, aud := range audience {
		if aud == expected {
			return true
		}
	}
	return false
}
