package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	return key
}

func encodePrivatePEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func encodePublicPEM(t *testing.T, key *rsa.PublicKey) []byte {
	t.Helper()

	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		t.Fatalf("Failed to marshal public key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func writeKeyPair(t *testing.T, dir, privName, pubName string) *rsa.PrivateKey {
	t.Helper()

	key := generateTestKey(t)
	if err := os.WriteFile(filepath.Join(dir, privName), encodePrivatePEM(key), 0600); err != nil {
		t.Fatalf("Failed to write private key: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, pubName), encodePublicPEM(t, &key.PublicKey), 0644); err != nil {
		t.Fatalf("Failed to write public key: %v", err)
	}
	return key
}

func TestResolveKeysProductionPreferred(t *testing.T) {
	dir := t.TempDir()
	writeKeyPair(t, dir, "prod_private.pem", "prod_public.pem")
	writeKeyPair(t, dir, "dev_private.pem", "dev_public.pem")

	pair, err := ResolveKeys(
		filepath.Join(dir, "prod_private.pem"),
		filepath.Join(dir, "prod_public.pem"),
		filepath.Join(dir, "dev_private.pem"),
		filepath.Join(dir, "dev_public.pem"),
	)
	if err != nil {
		t.Fatalf("Failed to resolve keys: %v", err)
	}

	if pair.Source() != SourceProduction {
		t.Errorf("Expected source to be %s, got %s", SourceProduction, pair.Source())
	}
}

func TestResolveKeysDevelopmentFallback(t *testing.T) {
	dir := t.TempDir()
	writeKeyPair(t, dir, "dev_private.pem", "dev_public.pem")

	pair, err := ResolveKeys(
		filepath.Join(dir, "prod_private.pem"),
		filepath.Join(dir, "prod_public.pem"),
		filepath.Join(dir, "dev_private.pem"),
		filepath.Join(dir, "dev_public.pem"),
	)
	if err != nil {
		t.Fatalf("Failed to resolve keys: %v", err)
	}

	if pair.Source() != SourceDevelopment {
		t.Errorf("Expected source to be %s, got %s", SourceDevelopment, pair.Source())
	}
}

func TestResolveKeysPartialProductionFallsThrough(t *testing.T) {
	// Only the production private half exists. The resolver must not mix
	// it with a development public key; the development pair wins whole.
	dir := t.TempDir()
	prodKey := generateTestKey(t)
	if err := os.WriteFile(filepath.Join(dir, "prod_private.pem"), encodePrivatePEM(prodKey), 0600); err != nil {
		t.Fatalf("Failed to write private key: %v", err)
	}
	devKey := writeKeyPair(t, dir, "dev_private.pem", "dev_public.pem")

	pair, err := ResolveKeys(
		filepath.Join(dir, "prod_private.pem"),
		filepath.Join(dir, "prod_public.pem"),
		filepath.Join(dir, "dev_private.pem"),
		filepath.Join(dir, "dev_public.pem"),
	)
	if err != nil {
		t.Fatalf("Failed to resolve keys: %v", err)
	}

	if pair.Source() != SourceDevelopment {
		t.Errorf("Expected source to be %s, got %s", SourceDevelopment, pair.Source())
	}

	if pair.signing.Equal(prodKey) {
		t.Error("Resolver used the production private key despite the missing public half")
	}
	if !pair.signing.Equal(devKey) {
		t.Error("Resolver did not use the development private key")
	}
}

func TestResolveKeysEmptyProductionFilesFallThrough(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"prod_private.pem", "prod_public.pem"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0600); err != nil {
			t.Fatalf("Failed to write empty file: %v", err)
		}
	}
	writeKeyPair(t, dir, "dev_private.pem", "dev_public.pem")

	pair, err := ResolveKeys(
		filepath.Join(dir, "prod_private.pem"),
		filepath.Join(dir, "prod_public.pem"),
		filepath.Join(dir, "dev_private.pem"),
		filepath.Join(dir, "dev_public.pem"),
	)
	if err != nil {
		t.Fatalf("Failed to resolve keys: %v", err)
	}

	if pair.Source() != SourceDevelopment {
		t.Errorf("Expected source to be %s, got %s", SourceDevelopment, pair.Source())
	}
}

func TestResolveKeysNoCompletePair(t *testing.T) {
	dir := t.TempDir()

	_, err := ResolveKeys(
		filepath.Join(dir, "prod_private.pem"),
		filepath.Join(dir, "prod_public.pem"),
		filepath.Join(dir, "dev_private.pem"),
		filepath.Join(dir, "dev_public.pem"),
	)
	if err == nil {
		t.Fatal("Expected error when no key pair exists")
	}
	if !errors.Is(err, ErrKeyResolution) {
		t.Errorf("Expected ErrKeyResolution, got %v", err)
	}
}

func TestResolveKeysGarbagePEM(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"dev_private.pem", "dev_public.pem"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("not a pem"), 0600); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	_, err := ResolveKeys(
		filepath.Join(dir, "prod_private.pem"),
		filepath.Join(dir, "prod_public.pem"),
		filepath.Join(dir, "dev_private.pem"),
		filepath.Join(dir, "dev_public.pem"),
	)
	if err == nil {
		t.Fatal("Expected error for unparsable key material")
	}
}
