package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"campgrounds/internal/domain"
	"campgrounds/internal/middleware"
	"campgrounds/internal/render"
	"campgrounds/internal/service"
)

// ReviewHandler handles review creation and deletion
type ReviewHandler struct {
	reviews  *service.ReviewService
	sessions *service.SessionService
	renderer *render.Renderer
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *service.ReviewService, sessions *service.SessionService, renderer *render.Renderer) *ReviewHandler {
	return &ReviewHandler{
		reviews:  reviews,
		sessions: sessions,
		renderer: renderer,
	}
}

// Create adds a review to a campground. If the campground was deleted
// concurrently the insert is rejected and surfaces as a 404.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetCurrentUser(r.Context())
	if !ok {
		h.renderer.RespondError(w, r, domain.ErrUserNotFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.RespondError(w, r, domain.Invalid("form", "could not be parsed"))
		return
	}

	campgroundID := chi.URLParam(r, "campgroundID")
	input := service.ReviewInput{
		Rating: r.PostForm.Get("rating"),
		Body:   r.PostForm.Get("body"),
	}

	if _, err := h.reviews.Create(r.Context(), campgroundID, user.ID, input); err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	flash(r, h.sessions, "success", "Created new review!")
	http.Redirect(w, r, "/campgrounds/"+campgroundID, http.StatusSeeOther)
}

// Delete removes a review and detaches it from its campground
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	campgroundID := chi.URLParam(r, "campgroundID")

	if err := h.reviews.Delete(r.Context(), chi.URLParam(r, "reviewID")); err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	flash(r, h.sessions, "success", "Successfully deleted review")
	http.Redirect(w, r, "/campgrounds/"+campgroundID, http.StatusSeeOther)
}
