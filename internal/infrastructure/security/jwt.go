package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

// JWTCodec issues and verifies HS256 bearer tokens.
// Signature comparison happens inside golang-jwt via hmac.Equal (constant time).
type JWTCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTCodec(secret string, issuer string) *JWTCodec {
	return &JWTCodec{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for iat/exp and for expiry checks.
func (c *JWTCodec) WithClock(now func() time.Time) *JWTCodec {
	if now != nil {
		c.now = now
	}
	return c
}

type accessClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (c *JWTCodec) Issue(claims auth.Claims, ttl time.Duration) (string, error) {
	now := c.now()
	ac := accessClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, ac)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (c *JWTCodec) Verify(token string) (auth.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, domain.ErrTokenInvalidCause(err)
	}

	ac, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid || ac.UserID <= 0 {
		return auth.Claims{}, domain.ErrTokenInvalid()
	}

	return auth.Claims{
		UserID:    ac.UserID,
		Email:     ac.Email,
		ExpiresAt: ac.ExpiresAt.Time,
	}, nil
}
