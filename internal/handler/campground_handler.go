package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campgrounds/internal/domain"
	"campgrounds/internal/middleware"
	"campgrounds/internal/render"
	"campgrounds/internal/service"
)

// CampgroundHandler handles campground pages and mutations
type CampgroundHandler struct {
	campgrounds *service.CampgroundService
	sessions    *service.SessionService
	renderer    *render.Renderer
}

// NewCampgroundHandler creates a new campground handler
func NewCampgroundHandler(campgrounds *service.CampgroundService, sessions *service.SessionService, renderer *render.Renderer) *CampgroundHandler {
	return &CampgroundHandler{
		campgrounds: campgrounds,
		sessions:    sessions,
		renderer:    renderer,
	}
}

type campgroundListContent struct {
	Campgrounds []*domain.Campground
}

type campgroundShowContent struct {
	Campground *domain.Campground
	Reviews    []*domain.Review
	IsOwner    bool
}

type campgroundFormContent struct {
	Campground *domain.Campground
	Form       service.CampgroundInput
}

// Index lists all campgrounds
func (h *CampgroundHandler) Index(w http.ResponseWriter, r *http.Request) {
	campgrounds, err := h.campgrounds.List(r.Context())
	if err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	content := campgroundListContent{Campgrounds: campgrounds}
	h.renderer.Render(w, r, http.StatusOK, "campgrounds/index",
		newPage(r, h.sessions, "All Campgrounds", content))
}

// New renders the creation form
func (h *CampgroundHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "campgrounds/new",
		newPage(r, h.sessions, "New Campground", campgroundFormContent{}))
}

// Create validates the bound form and persists a campground owned by the
// caller.
func (h *CampgroundHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetCurrentUser(r.Context())
	if !ok {
		h.renderer.RespondError(w, r, domain.ErrUserNotFound)
		return
	}

	input, err := bindCampgroundInput(r)
	if err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	campground, err := h.campgrounds.Create(r.Context(), input, user.ID)
	if err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	flash(r, h.sessions, "success", "Successfully made a new campground!")
	http.Redirect(w, r, "/campgrounds/"+campground.ID, http.StatusSeeOther)
}

// Show renders one campground with its reviews
func (h *CampgroundHandler) Show(w http.ResponseWriter, r *http.Request) {
	campground, reviews, err := h.campgrounds.Get(r.Context(), chi.URLParam(r, "campgroundID"))
	if err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	content := campgroundShowContent{Campground: campground, Reviews: reviews}
	if user, ok := middleware.GetCurrentUser(r.Context()); ok {
		content.IsOwner = campground.AuthorID == user.ID
	}

	h.renderer.Render(w, r, http.StatusOK, "campgrounds/show",
		newPage(r, h.sessions, campground.Title, content))
}

// Edit renders the edit form prefilled with the stored values
func (h *CampgroundHandler) Edit(w http.ResponseWriter, r *http.Request) {
	campground, _, err := h.campgrounds.Get(r.Context(), chi.URLParam(r, "campgroundID"))
	if err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	content := campgroundFormContent{
		Campground: campground,
		Form:       formFromCampground(campground),
	}
	h.renderer.Render(w, r, http.StatusOK, "campgrounds/edit",
		newPage(r, h.sessions, "Edit "+campground.Title, content))
}

// Update rewrites a campground's mutable fields
func (h *CampgroundHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, err := bindCampgroundInput(r)
	if err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	id := chi.URLParam(r, "campgroundID")
	if _, err := h.campgrounds.Update(r.Context(), id, input); err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	flash(r, h.sessions, "success", "Successfully updated campground!")
	http.Redirect(w, r, "/campgrounds/"+id, http.StatusSeeOther)
}

// Delete removes a campground and all of its reviews
func (h *CampgroundHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.campgrounds.Delete(r.Context(), chi.URLParam(r, "campgroundID")); err != nil {
		h.renderer.RespondError(w, r, err)
		return
	}

	flash(r, h.sessions, "success", "Successfully deleted campground")
	http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
}

// bindCampgroundInput converts the untyped form into the typed command
// the service validates. Image references arrive as parallel url and
// filename fields.
func bindCampgroundInput(r *http.Request) (service.CampgroundInput, error) {
	if err := r.ParseForm(); err != nil {
		return service.CampgroundInput{}, domain.Invalid("form", "could not be parsed")
	}

	urls := r.PostForm["image_url"]
	filenames := r.PostForm["image_filename"]
	if len(urls) != len(filenames) {
		return service.CampgroundInput{}, domain.Invalid("images", "each image needs a url and a filename")
	}

	images := make([]domain.Image, 0, len(urls))
	for i := range urls {
		if urls[i] == "" && filenames[i] == "" {
			continue
		}
		images = append(images, domain.Image{URL: urls[i], Filename: filenames[i]})
	}

	return service.CampgroundInput{
		Title:       r.PostForm.Get("title"),
		Location:    r.PostForm.Get("location"),
		Description: r.PostForm.Get("description"),
		Price:       r.PostForm.Get("price"),
		Longitude:   r.PostForm.Get("longitude"),
		Latitude:    r.PostForm.Get("latitude"),
		Images:      images,
	}, nil
}

func formFromCampground(c *domain.Campground) service.CampgroundInput {
	return service.CampgroundInput{
		Title:       c.Title,
		Location:    c.Location,
		Description: c.Description,
		Price:       fmt.Sprintf("%.2f", c.Price),
		Longitude:   fmt.Sprintf("%g", c.Longitude),
		Latitude:    fmt.Sprintf("%g", c.Latitude),
		Images:      c.Images,
	}
}
