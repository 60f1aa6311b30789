package token

import "errors"

// Decode and verification errors. Exactly one of these is reported per
// Decode call; the first failing check wins.
var (
	// ErrMalformedToken is returned when the token is not a well-formed signed envelope
	ErrMalformedToken = errors.New("token is malformed")

	// ErrInvalidSignature is returned when the signature does not verify against the key pair
	ErrInvalidSignature = errors.New("token signature is invalid")

	// ErrExpired is returned when the token is past its expiry and expiry verification is enabled
	ErrExpired = errors.New("token is expired")

	// ErrAudienceMismatch is returned when the audience claim does not match the configured audience
	ErrAudienceMismatch = errors.New("token audience mismatch")

	// ErrIssuerMismatch is returned when the issuer claim does not match the configured issuer
	ErrIssuerMismatch = errors.New("token issuer mismatch")

	// ErrRevokedToken is returned when a refresh token is presented after revocation
	ErrRevokedToken = errors.New("token has been revoked")

	// ErrWrongTokenType is returned when a token of one class is presented where the other is required
	ErrWrongTokenType = errors.New("unexpected token type")

	// ErrKeyResolution is returned at startup when no complete key pair can be loaded
	ErrKeyResolution = errors.New("no complete signing key pair found")
)

// Machine-readable kinds for the decode error taxonomy
const (
	KindMalformedToken   = "MalformedToken"
	KindInvalidSignature = "InvalidSignature"
	KindExpired          = "Expired"
	KindAudienceMismatch = "AudienceMismatch"
	KindIssuerMismatch   = "IssuerMismatch"
	KindRevokedToken     = "RevokedToken"
	KindWrongTokenType   = "WrongTokenType"
)

// Kind maps a decode error to its machine-readable kind. Unknown errors
// map to an empty string.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedToken):
		return KindMalformedToken
	case errors.Is(err, ErrInvalidSignature):
		return KindInvalidSignature
	case errors.Is(err, ErrExpired):
		return KindExpired
	case errors.Is(err, ErrAudienceMismatch):
		return KindAudienceMismatch
	case errors.Is(err, ErrIssuerMismatch):
		return KindIssuerMismatch
	case errors.Is(err, ErrRevokedToken):
		return KindRevokedToken
	case errors.Is(err, ErrWrongTokenType):
		return KindWrongTokenType
	}
	return ""
}
