package auth

import (
	"crypto/subtle"
	"errors"

	"parkdash/internal/config"
	"parkdash/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Authenticator checks logins against the single statically configured
// operator account.
type Authenticator struct {
	email    string
	password string
	name     string
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{
		email:    cfg.AdminEmail,
		password: cfg.AdminPassword,
		name:     cfg.AdminName,
	}
}

// Authenticate compares both fields in constant time and returns the
// operator profile on success.
func (a *Authenticator) Authenticate(email, password string) (models.User, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !emailOK || !passOK {
		return models.User{}, ErrInvalidCredentials
	}
	return models.User{
		Email: a.email,
		Name:  a.name,
		Role:  "admin",
	}, nil
}
