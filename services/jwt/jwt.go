package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	apiError "github.com/mindboosthq/mindboost-api/errors"
)

const (
	AccessTokenValidity  = time.Hour * 24
	RefreshTokenValidity = time.Hour * 24 * 7
	ResetTokenValidity   = time.Minute * 20
)

// GenerateTokenPair returns an access token and a refresh token for the user
func GenerateTokenPair(email string, secret string, isAdmin bool, id uint, role string) (string, string, error) {
	accessClaims := jwt.MapClaims{
		"id":       id,
		"email":    email,
		"role":     role,
		"is_admin": isAdmin,
		"type":     "access",
		"exp":      time.Now().Add(AccessTokenValidity).Unix(),
	}
	accessToken, err := generateToken(accessClaims, secret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"id":    id,
		"email": email,
		"type":  "refresh",
		"exp":   time.Now().Add(RefreshTokenValidity).Unix(),
	}
	refreshToken, err := generateToken(refreshClaims, secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GeneratePasswordResetToken returns a short lived token used in password reset links
func GeneratePasswordResetToken(id uint, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":   id,
		"type": "password_reset",
		"exp":  time.Now().Add(ResetTokenValidity).Unix(),
	}
	return generateToken(claims, secret)
}

func generateToken(claims jwt.MapClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAndGetClaims validates the token signature and expiry and returns its claims
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, apiError.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apiError.ErrUnauthorized
	}
	return claims, nil
}
