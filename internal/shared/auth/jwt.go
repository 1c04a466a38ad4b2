package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity contained in a JWT.
type Claims struct {
	Sub    string
	ShopID string
	Role   string
	Email  string
	Exp    int64
	Iat    int64
}

var (
	ErrMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

const (
	devSecret = "dev-secret"
	tokenTTL  = 12 * time.Hour
)

// tokenClaims is the wire form: registered claims plus the shop identity.
type tokenClaims struct {
	ShopID string `json:"shopId"`
	Role   string `json:"role,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier signs and verifies HS256 tokens with a shared secret.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier returns a verifier for secret. Outside dev-like environments
// an empty secret is rejected.
func NewVerifier(secret string, devLike bool) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		if !devLike {
			return nil, ErrMissingSecret
		}
		secret = devSecret
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

// Sign issues a token for claims. Used by tests and local tooling.
func (v *Verifier) Sign(claims Claims) (string, error) {
	if claims.Sub == "" {
		return "", errors.New("sub is required")
	}
	now := v.now().UTC()
	issuedAt := now
	if claims.Iat != 0 {
		issuedAt = time.Unix(claims.Iat, 0)
	}
	expiresAt := now.Add(tokenTTL)
	if claims.Exp != 0 {
		expiresAt = time.Unix(claims.Exp, 0)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		ShopID: claims.ShopID,
		Role:   claims.Role,
		Email:  claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Sub,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	return token.SignedString(v.secret)
}

// Verify checks the signature and expiry and returns the claims.
// Tokens without a shop are rejected.
func (v *Verifier) Verify(token string) (Claims, error) {
	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}
	if parsed.Subject == "" || parsed.ShopID == "" {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{
		Sub:    parsed.Subject,
		ShopID: parsed.ShopID,
		Role:   parsed.Role,
		Email:  parsed.Email,
	}
	if parsed.ExpiresAt != nil {
		claims.Exp = parsed.ExpiresAt.Unix()
	}
	if parsed.IssuedAt != nil {
		claims.Iat = parsed.IssuedAt.Unix()
	}
	return claims, nil
}
