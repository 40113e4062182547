package todoist

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenSource supplies the bearer token for each fetch.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed API token.
type StaticTokenSource string

// Token returns the fixed token.
func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty API token")
	}
	return string(s), nil
}

// MaxAssertionDuration is the longest validity a minted service assertion
// may carry.
const MaxAssertionDuration = 10 * time.Minute

// JWTTokenSource mints short-lived RS256 assertions for providers that
// accept service-token auth instead of a static key.
type JWTTokenSource struct {
	issuer     string
	privateKey *rsa.PrivateKey
	duration   time.Duration
}

// NewJWTTokenSource creates a token source from an issuer ID and a
// PEM-encoded RSA private key.
func NewJWTTokenSource(issuer string, privateKeyPEM []byte) (*JWTTokenSource, error) {
	if issuer == "" {
		return nil, fmt.Errorf("issuer cannot be empty")
	}

	privateKey, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &JWTTokenSource{
		issuer:     issuer,
		privateKey: privateKey,
		duration:   MaxAssertionDuration,
	}, nil
}

// Token mints a fresh signed assertion.
func (s *JWTTokenSource) Token(ctx context.Context) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// parsePrivateKey parses a PEM-encoded RSA private key.
func parsePrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	// Try PKCS#1 format first (RSA PRIVATE KEY)
	if block.Type == "RSA PRIVATE KEY" {
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	}

	// Try PKCS#8 format (PRIVATE KEY)
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}

	return rsaKey, nil
}
