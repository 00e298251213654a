package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("auth: invalid credentials")
	ErrUserNotFound        = errors.New("auth: user not found")
	ErrUserInactive        = errors.New("auth: user is inactive")
	ErrEmailTaken          = errors.New("auth: email already registered")
	ErrDomainNotConfigured = errors.New("auth: domain not configured for sign-in")
	ErrWeakPassword        = errors.New("auth: password too short")
	ErrHashingFailed       = errors.New("auth: password hashing failed")
	ErrStoreFailure        = errors.New("auth: store failure")
	ErrForbidden           = errors.New("auth: forbidden")
	ErrInvalidRole         = errors.New("auth: invalid role")
)
