package handler

import (
	"net/http"

	"campgrounds/internal/domain"
	"campgrounds/internal/middleware"
	"campgrounds/internal/observability"
	"campgrounds/internal/render"
	"campgrounds/internal/service"
)

// Home renders the landing page.
func Home(sessions *service.SessionService, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.Render(w, r, http.StatusOK, "home", newPage(r, sessions, "Campgrounds", nil))
	}
}

// newPage assembles the common page data: current user plus the one-shot
// flash messages, which are consumed by this render and gone afterwards.
func newPage(r *http.Request, sessions *service.SessionService, title string, content any) render.Page {
	page := render.Page{Title: title, Content: content}

	if user, ok := middleware.GetCurrentUser(r.Context()); ok {
		page.CurrentUser = user
	}

	session, ok := middleware.GetSession(r.Context())
	if !ok {
		return page
	}
	page.CSRFToken = session.Data[domain.CSRFTokenKey]

	var err error
	if page.Success, err = sessions.PopFlash(r.Context(), session, "success"); err != nil {
		observability.FromContext(r.Context()).Warn("failed to pop flash", "error", err.Error())
	}
	if page.Error, err = sessions.PopFlash(r.Context(), session, "error"); err != nil {
		observability.FromContext(r.Context()).Warn("failed to pop flash", "error", err.Error())
	}

	return page
}

// flash queues a message for the next rendered page; a failed write is
// logged and the message dropped rather than failing the request.
func flash(r *http.Request, sessions *service.SessionService, kind, message string) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		return
	}
	if err := sessions.SetFlash(r.Context(), session, kind, message); err != nil {
		observability.FromContext(r.Context()).Warn("failed to set flash", "error", err.Error())
	}
}
