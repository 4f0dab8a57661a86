package middleware

import (
	"context"

	"campgrounds/internal/domain"
)

type contextKey string

const (
	sessionKey     contextKey = "session"
	currentUserKey contextKey = "current_user"
)

// WithSession attaches the resolved session to the context.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession returns the session attached to the request.
func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*domain.Session)
	return session, ok
}

// WithCurrentUser attaches the authenticated user to the context.
func WithCurrentUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// GetCurrentUser returns the authenticated user, if any. Absence means
// the request is anonymous.
func GetCurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*domain.User)
	return user, ok
}
