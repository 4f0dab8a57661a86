package domain

import (
	"context"
	"errors"
	"time"
)

var ErrCampgroundNotFound = errors.New("campground not found")

// Image is a reference to an externally stored picture. Filename is the
// storage key inside the CDN, not a local path.
type Image struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Campground represents a listed campground. AuthorID is set at creation
// and never changes; Author carries the owner's username when the record
// was loaded with a join.
type Campground struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Longitude   float64   `json:"longitude"`
	Latitude    float64   `json:"latitude"`
	Images      []Image   `json:"images"`
	AuthorID    string    `json:"author_id"`
	Author      string    `json:"author,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CampgroundRepository defines the interface for campground data access
type CampgroundRepository interface {
	Create(ctx context.Context, campground *Campground) error
	GetByID(ctx context.Context, id string) (*Campground, error)
	List(ctx context.Context) ([]*Campground, error)
	// Update persists title, description, price, location, coordinates and
	// images. The author link is immutable and never written.
	Update(ctx context.Context, campground *Campground) error
	// Delete removes the campground and all of its reviews in one
	// transaction. It returns the number of reviews removed.
	Delete(ctx context.Context, id string) (int64, error)
	DeleteAll(ctx context.Context) error
}
