// Package auth enforces route authorization levels: anonymous routes are open,
// function routes need a function or master key, admin routes need the master key
// or an admin bearer token.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"functions-sample-api/internal/routes"
	"functions-sample-api/pkg/function"
)

const (
	// KeyHeader carries a function or master key
	KeyHeader = "x-functions-key"

	// KeyQueryParam is the query string alternative to KeyHeader
	KeyQueryParam = "code"
)

var (
	// ErrUnauthorized is returned when credentials are missing or invalid
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when valid credentials lack the required role
	ErrForbidden = errors.New("forbidden")

	// ErrTokensDisabled is returned when no token signing secret is configured
	ErrTokensDisabled = errors.New("bearer tokens are not configured")
)

// Credentials are the caller-supplied secrets extracted from a request
type Credentials struct {
	Key         string
	BearerToken string
}

// CredentialsFromRequest extracts a key and bearer token from a request
func CredentialsFromRequest(req *function.Request) Credentials {
	creds := Credentials{
		Key: req.Header(KeyHeader),
	}
	if creds.Key == "" {
		creds.Key = req.Query(KeyQueryParam)
	}

	authHeader := req.Header("Authorization")
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
		creds.BearerToken = strings.TrimSpace(parts[1])
	}

	return creds
}

// Authorizer checks credentials against a route's auth level
type Authorizer struct {
	functionKey string
	masterKey   string
	tokens      *TokenService
}

// NewAuthorizer creates an authorizer. Empty keys never match, so routes above
// anonymous are closed until keys are configured.
func NewAuthorizer(functionKey, masterKey string, tokens *TokenService) *Authorizer {
	return &Authorizer{
		functionKey: functionKey,
		masterKey:   masterKey,
		tokens:      tokens,
	}
}

// Authorize returns nil if the credentials satisfy the level, ErrUnauthorized or
// ErrForbidden otherwise
func (a *Authorizer) Authorize(level routes.AuthLevel, creds Credentials) error {
	switch level {
	case routes.AuthAnonymous:
		return nil

	case routes.AuthFunction:
		if keyMatches(creds.Key, a.functionKey) || keyMatches(creds.Key, a.masterKey) {
			return nil
		}
		return ErrUnauthorized

	case routes.AuthAdmin:
		if keyMatches(creds.Key, a.masterKey) {
			return nil
		}
		if creds.BearerToken == "" {
			return ErrUnauthorized
		}

		claims, err := a.tokens.ValidateToken(creds.BearerToken)
		if err != nil {
			logrus.WithField("error", err.Error()).Warn("Token validation failed")
			return ErrUnauthorized
		}
		if !claims.HasRole(RoleAdmin) {
			logrus.WithFields(logrus.Fields{
				"subject": claims.Subject,
				"roles":   claims.Roles,
			}).Warn("Authorization failed - insufficient permissions")
			return ErrForbidden
		}
		return nil

	default:
		return ErrForbidden
	}
}

func keyMatches(given, expected string) bool {
	if given == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}
