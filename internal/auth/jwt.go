package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Issuer is the iss claim of every session token.
const Issuer = "traba"

// DefaultTokenTTL is used when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

// ErrUnauthenticated is returned when a token is missing or fails verification.
var ErrUnauthenticated = errors.New("unauthenticated")

// Claims are the session token claims. The subject is the tenant ID.
type Claims struct {
	TenantName string `json:"tenant_name"`
	jwt.RegisteredClaims
}

// Signer issues and verifies ES256 session tokens.
type Signer struct {
	key *ecdsa.PrivateKey
	ttl time.Duration
}

// NewSigner creates a signer from a PEM encoded EC private key. An empty PEM
// generates an ephemeral key; tokens signed with it do not survive a restart.
func NewSigner(signingKeyPEM string, ttl time.Duration) (*Signer, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	if signingKeyPEM == "" {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		log.Warn().Msg("No JWT signing key configured, using an ephemeral key")
		return &Signer{key: key, ttl: ttl}, nil
	}

	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(signingKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	return &Signer{key: key, ttl: ttl}, nil
}

// Issue creates a signed token for the tenant.
func (s *Signer) Issue(tenantID uuid.UUID, tenantName string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		TenantName: tenantName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tenantID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    Issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, expiresAt, nil
}

// Verify checks the signature, issuer and expiry of a token and returns the
// tenant it was issued to.
func (s *Signer) Verify(tokenString string) (*Tenant, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodES256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return &s.key.PublicKey, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("%w: token invalid", ErrUnauthenticated)
	}

	tenantID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject: %w", ErrUnauthenticated, err)
	}

	return &Tenant{TenantID: tenantID, Name: claims.TenantName}, nil
}

// GenerateKeyPEM returns a new P-256 private key in PEM form, suitable for
// NewSigner.
func GenerateKeyPEM() (string, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}

	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to marshal key: %w", err)
	}

	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})), nil
}
