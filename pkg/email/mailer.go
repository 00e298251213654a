package email

import (
	"context"
	"fmt"
	"regexp"
)

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a single outbound transactional email.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks the message has a deliverable recipient, a subject, and a
// body.
func (m Message) Validate() error {
	if m.To == "" || !emailRegex.MatchString(m.To) {
		return fmt.Errorf("%w: invalid recipient %q", ErrInvalidMessage, m.To)
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: empty subject", ErrInvalidMessage)
	}
	if m.BodyHTML == "" {
		return fmt.Errorf("%w: empty body", ErrInvalidMessage)
	}
	return nil
}
