package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"campgrounds/internal/domain"
)

// ReviewRepository implements domain.ReviewRepository for PostgreSQL
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review. A concurrent campground delete makes the
// insert fail on the parent foreign key; that surfaces as
// ErrCampgroundNotFound so no orphan is ever created.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (campground_id, author_id, rating, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		review.CampgroundID,
		review.AuthorID,
		review.Rating,
		review.Body,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		if IsForeignKeyViolation(err, "reviews_campground_id_fkey") {
			return domain.ErrCampgroundNotFound
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by ID with its author's username
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		SELECT r.id, r.campground_id, r.author_id, u.username, r.rating, r.body, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1
	`
	review := &domain.Review{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID,
		&review.CampgroundID,
		&review.AuthorID,
		&review.Author,
		&review.Rating,
		&review.Body,
		&review.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// ListByCampground retrieves a campground's reviews, oldest first
func (r *ReviewRepository) ListByCampground(ctx context.Context, campgroundID string) ([]*domain.Review, error) {
	query := `
		SELECT r.id, r.campground_id, r.author_id, u.username, r.rating, r.body, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.campground_id = $1
		ORDER BY r.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, campgroundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		review := &domain.Review{}
		err := rows.Scan(
			&review.ID,
			&review.CampgroundID,
			&review.AuthorID,
			&review.Author,
			&review.Rating,
			&review.Body,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

// Delete removes a review. Deleting the row is what detaches it from the
// parent campground's review list.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// CountByCampground counts the reviews attached to a campground
func (r *ReviewRepository) CountByCampground(ctx context.Context, campgroundID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE campground_id = $1`, campgroundID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}
