package token

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// KeySource identifies which key pair location resolution settled on
type KeySource string

const (
	SourceProduction  KeySource = "production"
	SourceDevelopment KeySource = "development"
)

// KeyPair holds the resolved RSA signing and verifying keys. It is built
// once at startup and immutable afterwards; only the Codec signs with it.
type KeyPair struct {
	signing   *rsa.PrivateKey
	verifying *rsa.PublicKey
	source    KeySource
}

// Source returns which key location the pair was resolved from
func (k *KeyPair) Source() KeySource {
	return k.source
}

// NewKeyPairFromPEM parses a key pair from PEM-encoded material
func NewKeyPairFromPEM(privatePEM, publicPEM []byte, source KeySource) (*KeyPair, error) {
	signing, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s private key: %w", source, err)
	}

	verifying, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s public key: %w", source, err)
	}

	return &KeyPair{
		signing:   signing,
		verifying: verifying,
		source:    source,
	}, nil
}

// ResolveKeys loads the signing key pair at startup. The production pair is
// used only when both its halves exist and are non-empty; otherwise the
// development pair is used in full. A pair is never mixed from both
// locations. When neither location holds a complete pair the error wraps
// ErrKeyResolution and the process must not start serving.
func ResolveKeys(prodPrivate, prodPublic, devPrivate, devPublic string) (*KeyPair, error) {
	if keyFileUsable(prodPrivate) && keyFileUsable(prodPublic) {
		return loadPair(prodPrivate, prodPublic, SourceProduction)
	}

	if keyFileUsable(devPrivate) && keyFileUsable(devPublic) {
		return loadPair(devPrivate, devPublic, SourceDevelopment)
	}

	return nil, fmt.Errorf("%w: checked %s, %s and %s, %s",
		ErrKeyResolution, prodPrivate, prodPublic, devPrivate, devPublic)
}

func keyFileUsable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

func loadPair(privatePath, publicPath string, source KeySource) (*KeyPair, error) {
	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s private key: %w", source, err)
	}

	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s public key: %w", source, err)
	}

	return NewKeyPairFromPEM(privatePEM, publicPEM, source)
}
