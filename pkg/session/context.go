package session

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type sessionContextKey struct{}

// WithSession attaches a session to the context.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext returns the session attached to the context, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session)
	return session, ok
}

// UserIDFromContext returns the authenticated user's id from the context.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	session, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return session.UserID, true
}

// LoggerExtractor surfaces the session user on log records.
func LoggerExtractor(ctx context.Context) (slog.Attr, bool) {
	session, ok := FromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("user_id", session.UserID.String()), true
}
