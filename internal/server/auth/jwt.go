// Package auth implements the two token families used by the identity
// service: signed session tokens (access + refresh JWTs) and stateless
// derived action tokens for email verification and password reset. The
// families are deliberately unrelated; neither can stand in for the other.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/thecollekta/airbnb-clone-project/internal/common"
)

// TokenType distinguishes access tokens from refresh tokens within the
// session family.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims includes the registered claims plus the account identifier and the
// session token type.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string    `json:"account_id"`
	TokenType TokenType `json:"token_type"`
}

// GenerateSessionToken mints an HS256 JWT for the given account with the
// requested type and validity window.
func GenerateSessionToken(accountID string, typ TokenType, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := timeNow()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		AccountID: accountID,
		TokenType: typ,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetAccountIDFromToken parses and verifies a session token of the expected
// type and returns the embedded account id.
//
// Failures map onto the shared sentinels: common.ErrMalformedToken,
// common.ErrTokenExpired, common.ErrBadSignature, and
// common.ErrWrongTokenType when an access token is presented where a
// refresh token is required (or vice versa).
func GetAccountIDFromToken(tokenString string, typ TokenType, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrBadSignature
		}
		return secretKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", common.ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", common.ErrBadSignature
		default:
			return "", common.ErrMalformedToken
		}
	}

	if !token.Valid {
		return "", common.ErrBadSignature
	}
	if claims.TokenType != typ {
		return "", common.ErrWrongTokenType
	}

	return claims.AccountID, nil
}
