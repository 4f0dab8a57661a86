package render

import (
	"errors"
	"net/http"

	"campgrounds/internal/domain"
	"campgrounds/internal/observability"
)

// ErrorPage is the content of the rendered error template.
type ErrorPage struct {
	Status  int
	Message string
}

// RespondError is the single funnel every failed request goes through.
// It maps the error kind to a status and a safe message; internal detail
// is logged, never rendered.
func (rn *Renderer) RespondError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		rn.errorPage(w, r, http.StatusBadRequest, validation.Error())
	case errors.Is(err, domain.ErrCampgroundNotFound),
		errors.Is(err, domain.ErrReviewNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		rn.errorPage(w, r, http.StatusNotFound, "Page Not Found")
	default:
		observability.FromContext(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err.Error())
		rn.errorPage(w, r, http.StatusInternalServerError, "Something Went Wrong")
	}
}

// NotFound renders the 404 page for unmatched routes.
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rn.errorPage(w, r, http.StatusNotFound, "Page Not Found")
}

// Forbidden renders the 403 page for rejected requests.
func (rn *Renderer) Forbidden(w http.ResponseWriter, r *http.Request) {
	rn.errorPage(w, r, http.StatusForbidden, "Forbidden")
}

func (rn *Renderer) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	page := Page{Title: message, Content: ErrorPage{Status: status, Message: message}}
	rn.Render(w, r, status, "error", page)
}
