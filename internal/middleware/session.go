package middleware

import (
	"errors"
	"net/http"

	"campgrounds/internal/domain"
	"campgrounds/internal/observability"
	"campgrounds/internal/render"
	"campgrounds/internal/security"
	"campgrounds/internal/service"
)

// SessionCookie is the name of the signed session cookie.
const SessionCookie = "campground_session"

// SessionManager resolves the identity for every inbound request. A
// request with no valid token gets a fresh anonymous session and a new
// cookie; an expired or forged token is treated the same way.
type SessionManager struct {
	sessions *service.SessionService
	users    domain.UserRepository
	signer   *security.CookieSigner
	renderer *render.Renderer
	secure   bool
}

// NewSessionManager creates the session resolution middleware.
func NewSessionManager(sessions *service.SessionService, users domain.UserRepository, signer *security.CookieSigner, renderer *render.Renderer, secure bool) *SessionManager {
	return &SessionManager{
		sessions: sessions,
		users:    users,
		signer:   signer,
		renderer: renderer,
		secure:   secure,
	}
}

// Middleware returns a chi-compatible middleware function
func (m *SessionManager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, fresh, err := m.resolve(r)
			if err != nil {
				m.renderer.RespondError(w, r, err)
				return
			}

			if fresh {
				m.setCookie(w, session)
			} else if err := m.sessions.Touch(r.Context(), session); err != nil {
				// A failed touch only delays the write watermark.
				observability.FromContext(r.Context()).Warn("session touch failed",
					"error", err.Error())
			}

			ctx := WithSession(r.Context(), session)

			if !session.IsAnonymous() {
				user, err := m.users.GetByID(ctx, session.UserID)
				switch {
				case err == nil:
					ctx = WithCurrentUser(ctx, user)
					ctx = observability.WithUserID(ctx, user.ID)
				case errors.Is(err, domain.ErrUserNotFound):
					// Identity no longer resolves; demote to anonymous.
				default:
					m.renderer.RespondError(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolve returns the request's session, creating one when the cookie is
// missing, forged or expired. fresh reports that a cookie must be issued.
func (m *SessionManager) resolve(r *http.Request) (*domain.Session, bool, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		if token, err := m.signer.Verify(cookie.Value); err == nil {
			session, err := m.sessions.Resolve(r.Context(), token)
			if err == nil {
				return session, false, nil
			}
			if !errors.Is(err, domain.ErrSessionNotFound) {
				return nil, false, err
			}
		}
	}

	session, err := m.sessions.Begin(r.Context())
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// SetCookie issues the signed cookie for a session. The cookie expiry
// matches the session's hard expiry.
func (m *SessionManager) SetCookie(w http.ResponseWriter, session *domain.Session) {
	m.setCookie(w, session)
}

func (m *SessionManager) setCookie(w http.ResponseWriter, session *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    m.signer.Sign(session.Token),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie at logout.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
