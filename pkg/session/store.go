package session

import (
	"context"

	"github.com/google/uuid"
)

// Store persists sessions keyed by token.
type Store interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
