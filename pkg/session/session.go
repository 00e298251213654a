package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is an authenticated browser session. TenantID is nil for platform
// super admins, who are not bound to any tenant.
type Session struct {
	ID             uuid.UUID  `json:"id"`
	Token          string     `json:"token"`
	UserID         uuid.UUID  `json:"user_id"`
	TenantID       *uuid.UUID `json:"tenant_id,omitempty"`
	Role           string     `json:"role"`
	ExpiresAt      time.Time  `json:"expires_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// New creates a session for the given user.
func New(token string, userID uuid.UUID, tenantID *uuid.UUID, role string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		UserID:         userID,
		TenantID:       tenantID,
		Role:           role,
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// BelongsTo reports whether the session may act within the given tenant. A
// nil TenantID means a super admin session, which is valid everywhere.
func (s *Session) BelongsTo(tenantID uuid.UUID) bool {
	if s == nil {
		return false
	}
	if s.TenantID == nil {
		return true
	}
	return *s.TenantID == tenantID
}
