package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin grants access to admin-level routes
const RoleAdmin = "admin"

// Claims represents JWT claims
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry the role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenConfig holds token signing configuration
type TokenConfig struct {
	Secret        string
	TokenDuration time.Duration
	Issuer        string
}

// TokenService issues and validates HS256 bearer tokens
type TokenService struct {
	config *TokenConfig
}

// NewTokenService creates a new token service
func NewTokenService(config *TokenConfig) *TokenService {
	if config.TokenDuration == 0 {
		config.TokenDuration = 24 * time.Hour // Default to 24 hours
	}
	if config.Issuer == "" {
		config.Issuer = "functions-sample-api"
	}
	return &TokenService{config: config}
}

// Enabled reports whether a signing secret is configured
func (s *TokenService) Enabled() bool {
	return s != nil && s.config.Secret != ""
}

// GenerateToken generates a signed token for a subject
func (s *TokenService) GenerateToken(subject string, roles []string) (string, error) {
	if !s.Enabled() {
		return "", ErrTokensDisabled
	}

	now := time.Now()
	claims := &Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a token and returns its claims
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	if !s.Enabled() {
		return nil, ErrTokensDisabled
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
