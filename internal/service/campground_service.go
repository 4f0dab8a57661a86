package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"campgrounds/internal/domain"
)

// CampgroundInput is the typed command a route binds a form into before
// any guard or repository sees it. Numeric fields arrive as raw strings
// and are converted during validation.
type CampgroundInput struct {
	Title       string
	Location    string
	Description string
	Price       string
	Longitude   string
	Latitude    string
	Images      []domain.Image
}

// CampgroundService validates campground commands and drives the
// repository. Ownership checks happen in the guard before any mutating
// call lands here.
type CampgroundService struct {
	campgrounds domain.CampgroundRepository
	reviews     domain.ReviewRepository
}

// NewCampgroundService creates a new campground service
func NewCampgroundService(campgrounds domain.CampgroundRepository, reviews domain.ReviewRepository) *CampgroundService {
	return &CampgroundService{campgrounds: campgrounds, reviews: reviews}
}

// List returns all campgrounds, newest first.
func (s *CampgroundService) List(ctx context.Context) ([]*domain.Campground, error) {
	return s.campgrounds.List(ctx)
}

// Get loads one campground together with its reviews.
func (s *CampgroundService) Get(ctx context.Context, id string) (*domain.Campground, []*domain.Review, error) {
	campground, err := s.campgrounds.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reviews, err := s.reviews.ListByCampground(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return campground, reviews, nil
}

// Create validates the input and persists a campground owned by authorID.
// Validation failures never reach the store.
func (s *CampgroundService) Create(ctx context.Context, input CampgroundInput, authorID string) (*domain.Campground, error) {
	campground, err := buildCampground(input)
	if err != nil {
		return nil, err
	}
	campground.AuthorID = authorID

	if err := s.campgrounds.Create(ctx, campground); err != nil {
		return nil, err
	}
	return campground, nil
}

// Update validates the input and rewrites the campground's mutable
// fields. The owner link never changes.
func (s *CampgroundService) Update(ctx context.Context, id string, input CampgroundInput) (*domain.Campground, error) {
	campground, err := buildCampground(input)
	if err != nil {
		return nil, err
	}
	campground.ID = id

	if err := s.campgrounds.Update(ctx, campground); err != nil {
		return nil, err
	}
	return campground, nil
}

// Delete removes a campground and cascades its reviews. It returns the
// number of reviews removed with it.
func (s *CampgroundService) Delete(ctx context.Context, id string) (int64, error) {
	return s.campgrounds.Delete(ctx, id)
}

func buildCampground(input CampgroundInput) (*domain.Campground, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.Invalid("title", "is required")
	}
	if utf8.RuneCountInString(title) > 100 {
		return nil, domain.Invalid("title", "must be at most 100 characters")
	}

	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, domain.Invalid("location", "is required")
	}
	if utf8.RuneCountInString(location) > 100 {
		return nil, domain.Invalid("location", "must be at most 100 characters")
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.Invalid("description", "is required")
	}
	if utf8.RuneCountInString(description) > 2000 {
		return nil, domain.Invalid("description", "must be at most 2000 characters")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(input.Price), 64)
	if err != nil {
		return nil, domain.Invalid("price", "must be a number")
	}
	if price < 0 {
		return nil, domain.Invalid("price", "must not be negative")
	}

	longitude, err := parseCoordinate(input.Longitude, 180)
	if err != nil {
		return nil, domain.Invalid("longitude", "must be between -180 and 180")
	}
	latitude, err := parseCoordinate(input.Latitude, 90)
	if err != nil {
		return nil, domain.Invalid("latitude", "must be between -90 and 90")
	}

	for _, image := range input.Images {
		if image.URL == "" || image.Filename == "" {
			return nil, domain.Invalid("images", "each image needs a url and a filename")
		}
	}

	return &domain.Campground{
		Title:       title,
		Location:    location,
		Description: description,
		Price:       price,
		Longitude:   longitude,
		Latitude:    latitude,
		Images:      input.Images,
	}, nil
}

// parseCoordinate parses an optional coordinate field; empty means 0.
func parseCoordinate(raw string, bound float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < -bound || value > bound {
		return 0, domain.ErrInvalidInput
	}
	return value, nil
}
