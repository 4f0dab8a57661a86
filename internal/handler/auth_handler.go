package handler

import (
	"errors"
	"net/http"

	"campgrounds/internal/domain"
	"campgrounds/internal/middleware"
	"campgrounds/internal/observability"
	"campgrounds/internal/render"
	"campgrounds/internal/service"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	auth           *service.AuthService
	sessions       *service.SessionService
	sessionManager *middleware.SessionManager
	renderer       *render.Renderer
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, sessionManager *middleware.SessionManager, renderer *render.Renderer) *AuthHandler {
	return &AuthHandler{
		auth:           auth,
		sessions:       sessions,
		sessionManager: sessionManager,
		renderer:       renderer,
	}
}

// RegisterForm renders the registration page
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetCurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "users/register", newPage(r, h.sessions, "Register", nil))
}

// Register creates an account and signs the new user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RespondError(w, r, domain.Invalid("form", "could not be parsed"))
		return
	}

	user, err := h.auth.Register(r.Context(),
		r.PostForm.Get("username"),
		r.PostForm.Get("email"),
		r.PostForm.Get("password"),
	)
	if err != nil {
		var validation *domain.ValidationError
		switch {
		case errors.As(err, &validation):
			flash(r, h.sessions, "error", validation.Error())
		case errors.Is(err, domain.ErrUsernameExists), errors.Is(err, domain.ErrEmailExists):
			flash(r, h.sessions, "error", err.Error())
		default:
			h.renderer.RespondError(w, r, err)
			return
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	h.signIn(w, r, user, "Welcome to Campgrounds!")
}

// LoginForm renders the login page
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetCurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "users/login", newPage(r, h.sessions, "Log In", nil))
}

// Login verifies credentials and attaches the identity to the session.
// The originally requested path, if one was remembered, is replayed
// exactly once.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RespondError(w, r, domain.Invalid("form", "could not be parsed"))
		return
	}

	user, err := h.auth.Login(r.Context(),
		r.PostForm.Get("username"),
		r.PostForm.Get("password"),
	)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			flash(r, h.sessions, "error", "Invalid username or password")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.renderer.RespondError(w, r, err)
		return
	}

	h.signIn(w, r, user, "Welcome back!")
}

// Logout ends the session. A fresh anonymous session carries the
// goodbye message to the next page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session, ok := middleware.GetSession(r.Context()); ok {
		if err := h.sessions.Destroy(r.Context(), session); err != nil {
			h.renderer.RespondError(w, r, err)
			return
		}
	}

	next, err := h.sessions.Begin(r.Context())
	if err != nil {
		h.sessionManager.ClearCookie(w)
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
		return
	}
	h.sessionManager.SetCookie(w, next)

	if err := h.sessions.SetFlash(r.Context(), next, "success", "Goodbye!"); err != nil {
		observability.FromContext(r.Context()).Warn("failed to set flash", "error", err.Error())
	}
	http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
}

// signIn rotates the session onto the identity, issues the new cookie
// and sends the user on.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, user *domain.User, greeting string) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		h.renderer.RespondError(w, r, domain.ErrSessionNotFound)
		return
	}

	next, err := h.sessions.Attach(r.Context(), session, user.ID)
	if err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}
	h.sessionManager.SetCookie(w, next)

	destination := "/campgrounds"
	if returnTo, err := h.sessions.PopReturnTo(r.Context(), next); err == nil && returnTo != "" {
		destination = returnTo
	}

	if err := h.sessions.SetFlash(r.Context(), next, "success", greeting); err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	http.Redirect(w, r, destination, http.StatusSeeOther)
}
