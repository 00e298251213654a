package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Manager issues, resolves, and destroys sessions over a Store and a
// Transport.
type Manager struct {
	store     Store
	transport Transport
	cfg       Config
}

// NewManager wires a store and transport together. A nil store falls back to
// an in-memory store; a nil transport falls back to the cookie transport.
func NewManager(store Store, transport Transport, cfg Config) *Manager {
	if store == nil {
		store = NewMemoryStore(cfg.CleanupInterval)
	}
	if transport == nil {
		transport = NewCookieTransport(cfg.CookieName, cfg.SecureCookies)
	}
	return &Manager{store: store, transport: transport, cfg: cfg}
}

// Issue creates a session for an authenticated user and sets the client
// token. A previous session on the request, if any, is destroyed first so
// login always rotates the token.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uuid.UUID, tenantID *uuid.UUID, role string) (*Session, error) {
	if token, err := m.transport.GetToken(r); err == nil {
		_ = m.store.Delete(ctx, token)
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := New(token, userID, tenantID, role, m.cfg.TTL)
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := m.transport.SetToken(w, token, m.cfg.TTL); err != nil {
		_ = m.store.Delete(ctx, token)
		return nil, err
	}
	return session, nil
}

// Resolve returns the live session on the request, or an error when there is
// none, it expired, or the store failed.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}
	return m.store.Get(ctx, token)
}

// Destroy deletes the request's session and clears the client token.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.transport.GetToken(r); err == nil && token != "" {
		_ = m.store.Delete(ctx, token)
	}
	return m.transport.ClearToken(w)
}

// RevokeUser deletes every session belonging to the user. Used when a user
// is deactivated or a tenant is suspended.
func (m *Manager) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	return m.store.DeleteByUserID(ctx, userID)
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
