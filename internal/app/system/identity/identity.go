// Package identity verifies session tokens minted by the external student
// identity provider and maps them onto auth principals.
//
// Production deployments configure the provider's RSA public key (PEM);
// development may use a shared HMAC secret instead.
package identity

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/golang-jwt/jwt/v5"
)

// Config selects the verification key. Exactly one of PublicKeyPEM and
// Secret should be set.
type Config struct {
	PublicKeyPEM string
	Secret       string
	Issuer       string
}

// Claims is the subset of provider claims the backend reads.
type Claims struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	GivenName string `json:"given_name,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) firstName() string {
	if s := strings.TrimSpace(c.FirstName); s != "" {
		return s
	}
	return strings.TrimSpace(c.GivenName)
}

// Verifier checks student tokens.
type Verifier struct {
	keyFunc jwt.Keyfunc
	methods []string
	issuer  string
	now     func() time.Time
}

// New builds a Verifier from cfg.
func New(cfg Config) (*Verifier, error) {
	v := &Verifier{issuer: cfg.Issuer, now: time.Now}
	switch {
	case strings.TrimSpace(cfg.PublicKeyPEM) != "":
		key, err := parsePublicKey(cfg.PublicKeyPEM)
		if err != nil {
			return nil, err
		}
		v.keyFunc = func(*jwt.Token) (any, error) { return key, nil }
		v.methods = []string{"RS256", "RS384", "RS512"}
	case cfg.Secret != "":
		secret := []byte(cfg.Secret)
		v.keyFunc = func(*jwt.Token) (any, error) { return secret, nil }
		v.methods = []string{"HS256"}
	default:
		return nil, errors.New("identity: no public key or secret configured")
	}
	return v, nil
}

func parsePublicKey(pemText string) (*rsa.PublicKey, error) {
	// Keys pasted into env vars often carry literal "\n".
	pemText = strings.ReplaceAll(strings.TrimSpace(pemText), `\n`, "\n")
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemText))
	if err != nil {
		return nil, fmt.Errorf("identity: parse public key: %w", err)
	}
	return key, nil
}

// Verify implements auth.Verifier. The returned principal has role student,
// the token subject as ID, and the first name as Name (may be empty).
func (v *Verifier) Verify(_ context.Context, token string) (*auth.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithTimeFunc(v.now),
		jwt.WithLeeway(5 * time.Second),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var c Claims
	if _, err := jwt.ParseWithClaims(token, &c, v.keyFunc, opts...); err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if strings.TrimSpace(c.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", auth.ErrInvalidToken)
	}
	return &auth.Principal{
		ID:    c.Subject,
		Name:  c.firstName(),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		Role:  auth.RoleStudent,
	}, nil
}
