package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/ahmadchreiff/eigen-journal/internal/config"
)

// ErrInvalidCredentials is returned for any failed login. The same error covers
// an unknown identity and a wrong password so responses never reveal which.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator verifies logins against the single configured administrative
// identity and mints access tokens for it.
type Authenticator struct {
	adminEmail    string
	adminPassword string
	tokens        *TokenManager
}

// NewAuthenticator builds an Authenticator from the auth configuration.
func NewAuthenticator(cfg config.AuthConfig, tm *TokenManager) *Authenticator {
	return &Authenticator{
		adminEmail:    cfg.AdminEmail,
		adminPassword: cfg.AdminPassword,
		tokens:        tm,
	}
}

// Login compares the submitted pair against the configured admin identity and,
// on match, returns a signed token carrying the ADMIN role claim.
func (a *Authenticator) Login(email, password string) (string, error) {
	if a.adminEmail == "" || a.adminPassword == "" {
		return "", ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.adminPassword)) == 1
	if !emailOK || !passOK {
		return "", ErrInvalidCredentials
	}

	return a.tokens.Generate(a.adminEmail, RoleAdmin)
}
