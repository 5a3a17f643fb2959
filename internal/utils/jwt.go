package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token lifetimes.
const (
	AccessTokenExpiry = 24 * time.Hour
	ResetTokenExpiry  = 48 * time.Hour
)

// Claims carried by access tokens.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// resetClaims carried by password reset tokens. The subject is the email the
// token was issued for; the purpose claim keeps the two token kinds from
// being interchangeable.
type resetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

const resetPurpose = "password-reset"

// GenerateJWT creates an access token for a given user ID
func GenerateJWT(userID uuid.UUID, secret string) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWT parses and validates an access token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// GeneratePasswordResetToken creates a reset token bound to an email address.
func GeneratePasswordResetToken(email, secret string) (string, error) {
	claims := resetClaims{
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ResetTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyPasswordResetToken validates a reset token and returns the bound email.
func VerifyPasswordResetToken(tokenStr, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &resetClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*resetClaims)
	if !ok || !token.Valid || claims.Purpose != resetPurpose {
		return "", jwt.ErrSignatureInvalid
	}
	return claims.Subject, nil
}
