package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"campgrounds/internal/domain"
)

// CampgroundRepository implements domain.CampgroundRepository for PostgreSQL
type CampgroundRepository struct {
	db *sql.DB
	tx *TxManager
}

// NewCampgroundRepository creates a new PostgreSQL campground repository
func NewCampgroundRepository(db *sql.DB) *CampgroundRepository {
	return &CampgroundRepository{db: db, tx: NewTxManager(db)}
}

// Create inserts a new campground. The author link is written once here
// and never touched again.
func (r *CampgroundRepository) Create(ctx context.Context, campground *domain.Campground) error {
	images, err := marshalImages(campground.Images)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO campgrounds (title, description, price, location, longitude, latitude, images, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		campground.Title,
		campground.Description,
		campground.Price,
		campground.Location,
		campground.Longitude,
		campground.Latitude,
		images,
		campground.AuthorID,
	).Scan(&campground.ID, &campground.CreatedAt, &campground.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campground: %w", err)
	}
	return nil
}

// GetByID retrieves a campground by ID with its author's username
func (r *CampgroundRepository) GetByID(ctx context.Context, id string) (*domain.Campground, error) {
	query := `
		SELECT c.id, c.title, c.description, c.price, c.location, c.longitude, c.latitude,
		       c.images, c.author_id, u.username, c.created_at, c.updated_at
		FROM campgrounds c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`
	campground, err := scanCampground(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrCampgroundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campground: %w", err)
	}
	return campground, nil
}

// List retrieves all campgrounds, newest first
func (r *CampgroundRepository) List(ctx context.Context) ([]*domain.Campground, error) {
	query := `
		SELECT c.id, c.title, c.description, c.price, c.location, c.longitude, c.latitude,
		       c.images, c.author_id, u.username, c.created_at, c.updated_at
		FROM campgrounds c
		JOIN users u ON u.id = c.author_id
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list campgrounds: %w", err)
	}
	defer rows.Close()

	campgrounds := make([]*domain.Campground, 0)
	for rows.Next() {
		campground, err := scanCampground(rows)
		if err != nil {
			return nil, err
		}
		campgrounds = append(campgrounds, campground)
	}

	return campgrounds, rows.Err()
}

// Update persists the mutable columns. The author column is deliberately
// absent from the statement.
func (r *CampgroundRepository) Update(ctx context.Context, campground *domain.Campground) error {
	images, err := marshalImages(campground.Images)
	if err != nil {
		return err
	}

	query := `
		UPDATE campgrounds
		SET title = $1, description = $2, price = $3, location = $4,
		    longitude = $5, latitude = $6, images = $7, updated_at = now()
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		campground.Title,
		campground.Description,
		campground.Price,
		campground.Location,
		campground.Longitude,
		campground.Latitude,
		images,
		campground.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campground: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCampgroundNotFound
	}
	return nil
}

// Delete removes a campground and all reviews referencing it in a single
// transaction, so no review is left with a dangling parent. It returns
// the number of reviews removed.
func (r *CampgroundRepository) Delete(ctx context.Context, id string) (int64, error) {
	var reviewsDeleted int64

	err := r.tx.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE campground_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		reviewsDeleted, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		result, err = tx.ExecContext(ctx, `DELETE FROM campgrounds WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete campground: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return domain.ErrCampgroundNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return reviewsDeleted, nil
}

// DeleteAll wipes all campgrounds and their reviews. Used by the seed tool.
func (r *CampgroundRepository) DeleteAll(ctx context.Context) error {
	return r.tx.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reviews`); err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM campgrounds`); err != nil {
			return fmt.Errorf("failed to delete campgrounds: %w", err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampground(row rowScanner) (*domain.Campground, error) {
	campground := &domain.Campground{}
	var images []byte

	err := row.Scan(
		&campground.ID,
		&campground.Title,
		&campground.Description,
		&campground.Price,
		&campground.Location,
		&campground.Longitude,
		&campground.Latitude,
		&images,
		&campground.AuthorID,
		&campground.Author,
		&campground.CreatedAt,
		&campground.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(images, &campground.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	return campground, nil
}

func marshalImages(images []domain.Image) ([]byte, error) {
	if images == nil {
		images = []domain.Image{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode images: %w", err)
	}
	return data, nil
}
