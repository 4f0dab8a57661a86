package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"campgrounds/internal/domain"
)

// RequireCampgroundOwner loads the campground named in the route and
// lets the request through only when the current identity owns it.
// Resolution order: unknown id is a 404 before any identity concern; a
// missing identity then reads as unauthenticated, never as forbidden.
func (g *Guard) RequireCampgroundOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "campgroundID")

		campground, err := g.campgrounds.GetByID(r.Context(), id)
		if err != nil {
			g.renderer.RespondError(w, r, err)
			return
		}

		user, ok := GetCurrentUser(r.Context())
		if !ok {
			g.denyUnauthenticated(w, r)
			return
		}
		if campground.AuthorID != user.ID {
			g.denyForbidden(w, r, "/campgrounds/"+campground.ID)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireReviewAuthor is the review twin of RequireCampgroundOwner: only
// the review's author may proceed. A review reached under a campground
// path it does not belong to does not exist at that path.
func (g *Guard) RequireReviewAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "reviewID")

		review, err := g.reviews.GetByID(r.Context(), id)
		if err != nil {
			g.renderer.RespondError(w, r, err)
			return
		}
		if review.CampgroundID != chi.URLParam(r, "campgroundID") {
			g.renderer.RespondError(w, r, domain.ErrReviewNotFound)
			return
		}

		user, ok := GetCurrentUser(r.Context())
		if !ok {
			g.denyUnauthenticated(w, r)
			return
		}
		if review.AuthorID != user.ID {
			g.denyForbidden(w, r, "/campgrounds/"+review.CampgroundID)
			return
		}

		next.ServeHTTP(w, r)
	})
}
