package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"campgrounds/internal/domain"
)

// Counter for generating distinct usernames
var idCounter atomic.Int64

// nextID generates a unique ID for test fixtures
func nextID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// UserOptions allows customizing user fixture creation
type UserOptions struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewTestUser creates a test user with sensible defaults
// Pass options to override specific fields
func NewTestUser(opts ...func(*UserOptions)) *domain.User {
	o := &UserOptions{
		ID:           nextID("user"),
		Username:     fmt.Sprintf("testuser%d", idCounter.Add(1)),
		PasswordHash: "$2a$12$test.hash.for.testing.purposes.only", // bcrypt hash placeholder
	}

	for _, opt := range opts {
		opt(o)
	}

	// Set email based on username if not provided
	if o.Email == "" {
		o.Email = o.Username + "@example.com"
	}

	// Set created time if not provided
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	return &domain.User{
		ID:           o.ID,
		Username:     o.Username,
		Email:        o.Email,
		PasswordHash: o.PasswordHash,
		CreatedAt:    o.CreatedAt,
	}
}

// User option functions

// WithUserID sets the user ID
func WithUserID(id string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.ID = id
	}
}

// WithUsername sets the username
func WithUsername(username string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Username = username
	}
}

// WithEmail sets the email
func WithEmail(email string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Email = email
	}
}

// WithPasswordHash sets the password hash
func WithPasswordHash(hash string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.PasswordHash = hash
	}
}

// SessionOptions allows customizing session fixture creation
type SessionOptions struct {
	ID        string
	UserID    string
	Token     string
	Data      map[string]string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTestSession creates a test session with sensible defaults.
// The default session is anonymous; use WithSessionUserID to attach
// an identity.
func NewTestSession(opts ...func(*SessionOptions)) *domain.Session {
	now := time.Now()
	o := &SessionOptions{
		ID:        nextID("session"),
		Token:     nextID("token"),
		Data:      map[string]string{},
		ExpiresAt: now.Add(7 * 24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, opt := range opts {
		opt(o)
	}

	return &domain.Session{
		ID:        o.ID,
		UserID:    o.UserID,
		Token:     o.Token,
		Data:      o.Data,
		ExpiresAt: o.ExpiresAt,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// Session option functions

// WithSessionUserID attaches an identity to the session
func WithSessionUserID(userID string) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.UserID = userID
	}
}

// WithSessionToken sets the session token
func WithSessionToken(token string) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.Token = token
	}
}

// WithSessionData sets the session's key-value store
func WithSessionData(data map[string]string) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.Data = data
	}
}

// WithSessionExpiresAt sets the session's hard expiry
func WithSessionExpiresAt(t time.Time) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.ExpiresAt = t
	}
}

// WithSessionUpdatedAt sets the session's write watermark
func WithSessionUpdatedAt(t time.Time) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.UpdatedAt = t
	}
}

// CampgroundOptions allows customizing campground fixture creation
type CampgroundOptions struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Location    string
	Longitude   float64
	Latitude    float64
	Images      []domain.Image
	AuthorID    string
	Author      string
}

// NewTestCampground creates a test campground with sensible defaults
func NewTestCampground(opts ...func(*CampgroundOptions)) *domain.Campground {
	o := &CampgroundOptions{
		ID:          nextID("campground"),
		Title:       "Misty Hollow",
		Description: "A quiet riverside spot under old growth pines.",
		Price:       20,
		Location:    "Bozeman, Montana",
		Longitude:   -111.0429,
		Latitude:    45.677,
		AuthorID:    nextID("user"),
	}

	for _, opt := range opts {
		opt(o)
	}

	now := time.Now()
	return &domain.Campground{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Price:       o.Price,
		Location:    o.Location,
		Longitude:   o.Longitude,
		Latitude:    o.Latitude,
		Images:      o.Images,
		AuthorID:    o.AuthorID,
		Author:      o.Author,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Campground option functions

// WithCampgroundID sets the campground ID
func WithCampgroundID(id string) func(*CampgroundOptions) {
	return func(o *CampgroundOptions) {
		o.ID = id
	}
}

// WithCampgroundTitle sets the title
func WithCampgroundTitle(title string) func(*CampgroundOptions) {
	return func(o *CampgroundOptions) {
		o.Title = title
	}
}

// WithCampgroundPrice sets the nightly price
func WithCampgroundPrice(price float64) func(*CampgroundOptions) {
	return func(o *CampgroundOptions) {
		o.Price = price
	}
}

// WithCampgroundAuthor sets the owning user
func WithCampgroundAuthor(userID string) func(*CampgroundOptions) {
	return func(o *CampgroundOptions) {
		o.AuthorID = userID
	}
}

// WithCampgroundImages sets the image references
func WithCampgroundImages(images []domain.Image) func(*CampgroundOptions) {
	return func(o *CampgroundOptions) {
		o.Images = images
	}
}

// ReviewOptions allows customizing review fixture creation
type ReviewOptions struct {
	ID           string
	CampgroundID string
	AuthorID     string
	Author       string
	Rating       int
	Body         string
}

// NewTestReview creates a test review with sensible defaults
func NewTestReview(opts ...func(*ReviewOptions)) *domain.Review {
	o := &ReviewOptions{
		ID:           nextID("review"),
		CampgroundID: nextID("campground"),
		AuthorID:     nextID("user"),
		Rating:       4,
		Body:         "Great spot, would camp again.",
	}

	for _, opt := range opts {
		opt(o)
	}

	return &domain.Review{
		ID:           o.ID,
		CampgroundID: o.CampgroundID,
		AuthorID:     o.AuthorID,
		Author:       o.Author,
		Rating:       o.Rating,
		Body:         o.Body,
		CreatedAt:    time.Now(),
	}
}

// Review option functions

// WithReviewID sets the review ID
func WithReviewID(id string) func(*ReviewOptions) {
	return func(o *ReviewOptions) {
		o.ID = id
	}
}

// WithReviewCampground sets the parent campground
func WithReviewCampground(campgroundID string) func(*ReviewOptions) {
	return func(o *ReviewOptions) {
		o.CampgroundID = campgroundID
	}
}

// WithReviewAuthor sets the authoring user
func WithReviewAuthor(userID string) func(*ReviewOptions) {
	return func(o *ReviewOptions) {
		o.AuthorID = userID
	}
}

// WithReviewRating sets the rating
func WithReviewRating(rating int) func(*ReviewOptions) {
	return func(o *ReviewOptions) {
		o.Rating = rating
	}
}
