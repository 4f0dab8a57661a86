package middleware

import (
	"net/http"

	"campgrounds/internal/domain"
	"campgrounds/internal/observability"
	"campgrounds/internal/render"
	"campgrounds/internal/service"
)

// Flash messages raised by the guard.
const (
	MsgMustBeSignedIn = "You must be signed in first!"
	MsgNoPermission   = "You do not have permission to do that!"
)

// Guard decides per route whether the current identity may proceed.
// A missing identity always surfaces as a redirect to the login page,
// never as a permission denial: authentication is checked strictly
// before ownership.
type Guard struct {
	sessions    *service.SessionService
	campgrounds domain.CampgroundRepository
	reviews     domain.ReviewRepository
	renderer    *render.Renderer
}

// NewGuard creates the authorization guard.
func NewGuard(sessions *service.SessionService, campgrounds domain.CampgroundRepository, reviews domain.ReviewRepository, renderer *render.Renderer) *Guard {
	return &Guard{
		sessions:    sessions,
		campgrounds: campgrounds,
		reviews:     reviews,
		renderer:    renderer,
	}
}

// RequireLogin short-circuits anonymous requests: the original
// destination is remembered for a one-time replay after login, a flash
// message is queued and the client is sent to the login page.
func (g *Guard) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetCurrentUser(r.Context()); !ok {
			g.denyUnauthenticated(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	observability.AuthDenialsTotal.WithLabelValues("unauthenticated").Inc()

	if session, ok := GetSession(r.Context()); ok {
		if err := g.sessions.SetReturnTo(r.Context(), session, r.URL.RequestURI()); err != nil {
			g.renderer.RespondError(w, r, err)
			return
		}
		if err := g.sessions.SetFlash(r.Context(), session, "error", MsgMustBeSignedIn); err != nil {
			g.renderer.RespondError(w, r, err)
			return
		}
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (g *Guard) denyForbidden(w http.ResponseWriter, r *http.Request, location string) {
	observability.AuthDenialsTotal.WithLabelValues("forbidden").Inc()

	if session, ok := GetSession(r.Context()); ok {
		if err := g.sessions.SetFlash(r.Context(), session, "error", MsgNoPermission); err != nil {
			g.renderer.RespondError(w, r, err)
			return
		}
	}

	http.Redirect(w, r, location, http.StatusSeeOther)
}
