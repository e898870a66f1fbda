package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates the HS256 tokens used by the admin
// review routes. End-user authentication lives with the external auth
// provider; these tokens only gate operator access.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

// NewTokenService creates a new TokenService
func NewTokenService(secret string, expiresInSeconds int) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: time.Duration(expiresInSeconds) * time.Second,
	}
}

// Generate issues a token for an operator
func (s *TokenService) Generate(subject, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(s.expiresIn).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses a token and returns its claims
func (s *TokenService) Validate(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
