package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session data keys
const (
	FlashSuccessKey = "flash.success"
	FlashErrorKey   = "flash.error"
	ReturnToKey     = "return_to"
	CSRFTokenKey    = "csrf_token"
)

// Session links an opaque client-held token to an identity and a small
// transient key-value store. UserID is empty for anonymous sessions.
// ExpiresAt is fixed at creation; UpdatedAt only tracks the last store
// write and never extends the session's life.
type Session struct {
	ID        string            `json:"id"`
	Token     string            `json:"token"`
	UserID    string            `json:"user_id,omitempty"`
	Data      map[string]string `json:"data"`
	ExpiresAt time.Time         `json:"expires_at"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsAnonymous reports whether no identity is attached.
func (s *Session) IsAnonymous() bool {
	return s.UserID == ""
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// GetByToken returns only sessions whose hard expiry has not passed.
	GetByToken(ctx context.Context, token string) (*Session, error)
	// UpdateData replaces the session's key-value store and bumps the
	// write watermark.
	UpdateData(ctx context.Context, token string, data map[string]string) error
	// Touch bumps the write watermark only if it is older than the given
	// cutoff. It reports whether a write was actually performed.
	Touch(ctx context.Context, token string, olderThan time.Time) (bool, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
