package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that are malformed, carry a bad
// signature, or have expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the verified payload of a bearer token.
type Claims struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies bearer tokens. Tokens are HS256 JWTs with the
// user id in the subject claim. The secret is fixed at construction and never
// read from the environment afterwards.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a TokenCodec with the given HMAC secret.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	if len(secret) < 16 {
		return nil, errors.New("token secret must be at least 16 characters")
	}
	return &TokenCodec{secret: []byte(secret)}, nil
}

// Sign issues a token for userID that expires after ttl.
func (c *TokenCodec) Sign(userID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
func (c *TokenCodec) Verify(token string) (*Claims, error) {
	return c.parse(token)
}

// ExtractUnchecked verifies the signature of a token but skips expiry
// validation. It exists for the token refresh path, where an expired token is
// still acceptable proof of a past login.
func (c *TokenCodec) ExtractUnchecked(token string) (*Claims, error) {
	return c.parse(token, jwt.WithoutClaimsValidation())
}

func (c *TokenCodec) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{"HS256"}))

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(tc.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UserID: userID}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}
