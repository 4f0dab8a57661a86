package domain

import (
	"context"
	"errors"
	"time"
)

var ErrReviewNotFound = errors.New("review not found")

// Review rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Review belongs to exactly one campground and one author, both fixed at
// creation.
type Review struct {
	ID           string    `json:"id"`
	CampgroundID string    `json:"campground_id"`
	AuthorID     string    `json:"author_id"`
	Author       string    `json:"author,omitempty"`
	Rating       int       `json:"rating"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	ListByCampground(ctx context.Context, campgroundID string) ([]*Review, error)
	Delete(ctx context.Context, id string) error
	CountByCampground(ctx context.Context, campgroundID string) (int64, error)
}
