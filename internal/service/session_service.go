package service

import (
	"context"
	"time"

	"campgrounds/internal/domain"
	"campgrounds/internal/observability"
	"campgrounds/internal/security"
)

const (
	// SessionTTL is the hard session expiry, measured from creation.
	// It is never extended by activity.
	SessionTTL = 7 * 24 * time.Hour

	// TouchInterval bounds session store write volume under read-heavy
	// traffic: a session written less than this long ago is not
	// rewritten on mere access.
	TouchInterval = 24 * time.Hour
)

// SessionService owns the server-side session records: identity
// attachment, the flash channel and the one-shot return-to path.
type SessionService struct {
	repo domain.SessionRepository
}

// NewSessionService creates a new session service
func NewSessionService(repo domain.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// Begin creates a fresh anonymous session with a random token and a
// csrf token for its forms.
func (s *SessionService) Begin(ctx context.Context) (*domain.Session, error) {
	token, err := security.GenerateToken()
	if err != nil {
		return nil, err
	}
	csrf, err := security.GenerateToken()
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		Token:     token,
		Data:      map[string]string{domain.CSRFTokenKey: csrf},
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	observability.SessionsCreatedTotal.Inc()
	return session, nil
}

// Resolve loads the unexpired session for a token.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	return s.repo.GetByToken(ctx, token)
}

// Attach binds an identity to the client at login. The anonymous record
// is dropped and fresh session and csrf tokens are issued so nothing
// minted before login can be replayed; the rest of the data map carries
// over.
func (s *SessionService) Attach(ctx context.Context, session *domain.Session, userID string) (*domain.Session, error) {
	token, err := security.GenerateToken()
	if err != nil {
		return nil, err
	}
	csrf, err := security.GenerateToken()
	if err != nil {
		return nil, err
	}

	data := session.Data
	if data == nil {
		data = make(map[string]string)
	}
	data[domain.CSRFTokenKey] = csrf

	next := &domain.Session{
		Token:     token,
		UserID:    userID,
		Data:      data,
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if err := s.repo.Create(ctx, next); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, session.Token); err != nil {
		return nil, err
	}

	observability.SessionsCreatedTotal.Inc()
	return next, nil
}

// Destroy ends a session at logout.
func (s *SessionService) Destroy(ctx context.Context, session *domain.Session) error {
	return s.repo.Delete(ctx, session.Token)
}

// Touch refreshes the session's write watermark, coalescing writes that
// would land within the touch interval. The hard expiry is unaffected.
func (s *SessionService) Touch(ctx context.Context, session *domain.Session) error {
	written, err := s.repo.Touch(ctx, session.Token, time.Now().Add(-TouchInterval))
	if err != nil {
		return err
	}

	if written {
		observability.SessionWritesTotal.WithLabelValues("written").Inc()
	} else {
		observability.SessionWritesTotal.WithLabelValues("absorbed").Inc()
	}
	return nil
}

// SetFlash queues a one-shot message of the given kind ("success" or
// "error") for the next rendered page.
func (s *SessionService) SetFlash(ctx context.Context, session *domain.Session, kind, message string) error {
	return s.setValue(ctx, session, flashKey(kind), message)
}

// PopFlash returns the queued message of the given kind and clears it, so
// a second read comes back empty.
func (s *SessionService) PopFlash(ctx context.Context, session *domain.Session, kind string) (string, error) {
	return s.popValue(ctx, session, flashKey(kind))
}

// SetReturnTo remembers the originally requested path for a one-time
// redirect after login.
func (s *SessionService) SetReturnTo(ctx context.Context, session *domain.Session, path string) error {
	return s.setValue(ctx, session, domain.ReturnToKey, path)
}

// PopReturnTo returns the remembered path and clears it.
func (s *SessionService) PopReturnTo(ctx context.Context, session *domain.Session) (string, error) {
	return s.popValue(ctx, session, domain.ReturnToKey)
}

func (s *SessionService) setValue(ctx context.Context, session *domain.Session, key, value string) error {
	if session.Data == nil {
		session.Data = make(map[string]string)
	}
	session.Data[key] = value

	if err := s.repo.UpdateData(ctx, session.Token, session.Data); err != nil {
		return err
	}
	observability.SessionWritesTotal.WithLabelValues("written").Inc()
	return nil
}

func (s *SessionService) popValue(ctx context.Context, session *domain.Session, key string) (string, error) {
	value, ok := session.Data[key]
	if !ok {
		return "", nil
	}
	delete(session.Data, key)

	if err := s.repo.UpdateData(ctx, session.Token, session.Data); err != nil {
		return "", err
	}
	observability.SessionWritesTotal.WithLabelValues("written").Inc()
	return value, nil
}

func flashKey(kind string) string {
	if kind == "error" {
		return domain.FlashErrorKey
	}
	return domain.FlashSuccessKey
}
