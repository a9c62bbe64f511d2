// internal/domain/session/session.go
package session

import (
	"context"
	"errors"
	"time"

	"agrimarket/internal/domain/account"
)

var ErrNotFound = errors.New("session: not found")

// DefaultTTL is the idle lifetime of a login session.
const DefaultTTL = 24 * time.Hour

// Session is the explicit replacement for the original client's ambient
// {email, role, token} record: one keyed entry per token, threaded through
// request context instead of looked up from global state.
type Session struct {
	Token     string       `json:"token"`
	Email     string       `json:"email"`
	Role      account.Role `json:"role"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Store is the persistence port for sessions (Redis-backed in production).
type Store interface {
	// Put saves the session under its token with the given TTL.
	Put(ctx context.Context, s Session, ttl time.Duration) error

	// Get returns the session for token; ErrNotFound when absent/expired.
	Get(ctx context.Context, token string) (Session, error)

	// Delete revokes the token (logout).
	Delete(ctx context.Context, token string) error
}
