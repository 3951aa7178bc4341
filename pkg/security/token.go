package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/Ivanildsdev/myrecipebook/pkg/errors"
)

// accessTokenClaims are the claims carried by an access token. Sid holds the
// user identifier, never the internal database id.
type accessTokenClaims struct {
	jwt.RegisteredClaims
	Sid string `json:"sid"`
}

// TokenCodec issues and validates signed, time-limited access tokens. Tokens
// are HS256 signed with a single symmetric key; audience and issuer are not
// validated, this is a single-tenant deployment.
type TokenCodec struct {
	signingKey []byte
	expiration time.Duration
}

// NewTokenCodec creates a codec with the given symmetric key and token
// lifetime in minutes.
func NewTokenCodec(signingKey string, expirationMinutes uint) *TokenCodec {
	return &TokenCodec{
		signingKey: []byte(signingKey),
		expiration: time.Duration(expirationMinutes) * time.Minute,
	}
}

// Issue creates a signed token whose sid claim carries the user identifier
// and whose exp claim is the issue time plus the configured lifetime.
func (c *TokenCodec) Issue(userIdentifier uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiration)),
		},
		Sid: userIdentifier.String(),
	})

	return token.SignedString(c.signingKey)
}

// Validate verifies the signature and expiration of a token and returns the
// user identifier it carries. It fails with apperrors.ErrTokenExpired once
// the expiration claim is reached (no clock-skew tolerance) and with
// apperrors.ErrTokenInvalid for every other defect.
func (c *TokenCodec) Validate(tokenString string) (uuid.UUID, error) {
	claims := &accessTokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.signingKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, apperrors.ErrTokenExpired
		}
		return uuid.Nil, apperrors.ErrTokenInvalid
	}
	if !token.Valid {
		return uuid.Nil, apperrors.ErrTokenInvalid
	}

	identifier, err := uuid.Parse(claims.Sid)
	if err != nil {
		return uuid.Nil, apperrors.ErrTokenInvalid
	}

	return identifier, nil
}
