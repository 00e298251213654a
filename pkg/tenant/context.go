package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Info is the request-scoped identity of a resolved tenant: enough for
// downstream code to scope its data access without another store round trip.
type Info struct {
	ID       uuid.UUID
	Slug     string
	Hostname string
}

type contextKey struct{}

// WithInfo attaches a resolved tenant to the context.
func WithInfo(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, contextKey{}, info)
}

// FromContext retrieves the resolved tenant from the context.
func FromContext(ctx context.Context) (*Info, bool) {
	info, ok := ctx.Value(contextKey{}).(*Info)
	return info, ok
}

// IDFromContext retrieves just the tenant ID from the context.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	info, ok := FromContext(ctx)
	if !ok || info == nil {
		return uuid.UUID{}, false
	}
	return info.ID, true
}

// MustFromContext panics if no tenant is resolved. Use only behind the
// request gate, where a tenant is guaranteed.
func MustFromContext(ctx context.Context) *Info {
	info, ok := FromContext(ctx)
	if !ok || info == nil {
		panic("tenant: no tenant in context")
	}
	return info
}

// LoggerExtractor enriches log records with the tenant ID from context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
