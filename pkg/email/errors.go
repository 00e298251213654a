package email

import "errors"

var (
	ErrSendFailed     = errors.New("email: failed to send")
	ErrInvalidConfig  = errors.New("email: invalid config")
	ErrInvalidMessage = errors.New("email: invalid message")
)
