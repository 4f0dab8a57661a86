package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"campgrounds/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_Create(t *testing.T) {
	t.Run("successful_creation", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewReviewRepository(db)

		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO reviews (campground_id, author_id, rating, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`)).
			WithArgs("campground-1", "user-1", 4, "Great spot.").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
				AddRow("review-1", now))

		review := &domain.Review{
			CampgroundID: "campground-1",
			AuthorID:     "user-1",
			Rating:       4,
			Body:         "Great spot.",
		}

		err = repo.Create(context.Background(), review)
		require.NoError(t, err)
		assert.Equal(t, "review-1", review.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("campground_deleted_concurrently", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewReviewRepository(db)

		// The parent foreign key rejects the insert when the campground
		// vanished between the page render and the submit
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews`)).
			WithArgs("vanished", "user-1", 4, "Great spot.").
			WillReturnError(&pq.Error{Code: "23503", Constraint: "reviews_campground_id_fkey"})

		review := &domain.Review{
			CampgroundID: "vanished",
			AuthorID:     "user-1",
			Rating:       4,
			Body:         "Great spot.",
		}

		err = repo.Create(context.Background(), review)
		assert.Equal(t, domain.ErrCampgroundNotFound, err)
	})

	t.Run("query_error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewReviewRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews`)).
			WillReturnError(errors.New("database error"))

		err = repo.Create(context.Background(), &domain.Review{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create review")
	})
}

func TestReviewRepository_GetByID(t *testing.T) {
	t.Run("successful_retrieval", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewReviewRepository(db)

		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT r.id, r.campground_id, r.author_id, u.username, r.rating, r.body, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1
	`)).
			WithArgs("review-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "campground_id", "author_id", "username", "rating", "body", "created_at"}).
				AddRow("review-1", "campground-1", "user-1", "colt", 4, "Great spot.", now))

		review, err := repo.GetByID(context.Background(), "review-1")
		require.NoError(t, err)
		assert.Equal(t, "review-1", review.ID)
		assert.Equal(t, "campground-1", review.CampgroundID)
		assert.Equal(t, "colt", review.Author)
		assert.Equal(t, 4, review.Rating)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not_found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewReviewRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT r.id, r.campground_id, r.author_id, u.username, r.rating, r.body, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1
	`)).
			WithArgs("nonexistent").
			WillReturnRows(sqlmock.NewRows([]string{"id", "campground_id", "author_id", "username", "rating", "body", "created_at"}))

		review, err := repo.GetByID(context.Background(), "nonexistent")
		require.Error(t, err)
		assert.Nil(t, review)
		assert.Equal(t, domain.ErrReviewNotFound, err)
	})
}

func TestReviewRepository_ListByCampground(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewRepository(db)

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT r.id, r.campground_id, r.author_id, u.username, r.rating, r.body, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.campground_id = $1
		ORDER BY r.created_at ASC
	`)).
		WithArgs("campground-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "campground_id", "author_id", "username", "rating", "body", "created_at"}).
			AddRow("review-1", "campground-1", "user-1", "colt", 4, "Great spot.", now).
			AddRow("review-2", "campground-1", "user-2", "sam", 5, "Even better.", now))

	reviews, err := repo.ListByCampground(context.Background(), "campground-1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "colt", reviews[0].Author)
	assert.Equal(t, 5, reviews[1].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete(t *testing.T) {
	t.Run("successful_delete", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewReviewRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews WHERE id = $1`)).
			WithArgs("review-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Delete(context.Background(), "review-1")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not_found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewReviewRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews WHERE id = $1`)).
			WithArgs("nonexistent").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Delete(context.Background(), "nonexistent")
		assert.Equal(t, domain.ErrReviewNotFound, err)
	})
}

func TestReviewRepository_CountByCampground(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reviews WHERE campground_id = $1`)).
		WithArgs("campground-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountByCampground(context.Background(), "campground-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
