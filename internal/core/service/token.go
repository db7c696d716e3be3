package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medrec/medical-records-api/internal/core/domain"
)

const defaultTokenTTL = 8 * time.Hour

// TokenCodec signs auth claims into HS256 bearer tokens and verifies them
// back. Decode has exactly two outcomes: valid claims, or ErrInvalidToken.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

type tokenClaims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token for the user, expiring ttl from now. The signature
// covers claims and expiry; any bit-flip invalidates it.
func (tc *TokenCodec) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.secret)
}

// Decode verifies signature and expiry and returns the embedded claims.
func (tc *TokenCodec) Decode(token string) (*domain.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return tc.secret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	return &domain.AuthClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
