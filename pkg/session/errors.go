package session

import "errors"

var (
	ErrInvalidSession  = errors.New("session: invalid session")
	ErrSessionExpired  = errors.New("session: expired")
	ErrSessionNotFound = errors.New("session: not found")
	ErrNoToken         = errors.New("session: no token on request")
	ErrTokenGeneration = errors.New("session: token generation failed")
	ErrStoreFailure    = errors.New("session: store failure")
)
