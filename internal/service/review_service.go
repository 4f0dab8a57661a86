package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"campgrounds/internal/domain"
)

// ReviewInput is the typed command bound from a review form.
type ReviewInput struct {
	Rating string
	Body   string
}

// ReviewService validates review commands and drives the repository.
type ReviewService struct {
	reviews domain.ReviewRepository
}

// NewReviewService creates a new review service
func NewReviewService(reviews domain.ReviewRepository) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// Create validates the input and persists a review authored by authorID
// against the given campground. If the campground vanished in the
// meantime the repository reports ErrCampgroundNotFound and nothing is
// written.
func (s *ReviewService) Create(ctx context.Context, campgroundID, authorID string, input ReviewInput) (*domain.Review, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(input.Rating))
	if err != nil {
		return nil, domain.Invalid("rating", "must be a whole number")
	}
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, domain.Invalid("rating", "must be between 1 and 5")
	}

	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, domain.Invalid("body", "is required")
	}
	if utf8.RuneCountInString(body) > 1000 {
		return nil, domain.Invalid("body", "must be at most 1000 characters")
	}

	review := &domain.Review{
		CampgroundID: campgroundID,
		AuthorID:     authorID,
		Rating:       rating,
		Body:         body,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Get loads a review by id.
func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// Delete removes a review; dropping the row detaches it from the parent
// campground's review list.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	return s.reviews.Delete(ctx, id)
}
