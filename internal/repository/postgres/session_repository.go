package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"campgrounds/internal/domain"
)

// SessionRepository implements domain.SessionRepository for PostgreSQL.
// Sessions sit on every request's hot path, so the statements are
// prepared once at construction time.
type SessionRepository struct {
	db                *sql.DB
	createStmt        *sql.Stmt
	getByTokenStmt    *sql.Stmt
	updateDataStmt    *sql.Stmt
	touchStmt         *sql.Stmt
	deleteStmt        *sql.Stmt
	deleteExpiredStmt *sql.Stmt
}

// NewSessionRepository creates a new SessionRepository with prepared
// statements. Returns an error if statement preparation fails.
func NewSessionRepository(db *sql.DB) (*SessionRepository, error) {
	repo := &SessionRepository{db: db}

	var err error
	repo.createStmt, err = db.Prepare(`
		INSERT INTO sessions (token, user_id, data, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare create statement: %w", err)
	}

	repo.getByTokenStmt, err = db.Prepare(`
		SELECT id, token, user_id, data, expires_at, created_at, updated_at
		FROM sessions
		WHERE token = $1 AND expires_at > $2
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare getByToken statement: %w", err)
	}

	repo.updateDataStmt, err = db.Prepare(`
		UPDATE sessions SET data = $1, updated_at = now() WHERE token = $2
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare updateData statement: %w", err)
	}

	repo.touchStmt, err = db.Prepare(`
		UPDATE sessions SET updated_at = now() WHERE token = $1 AND updated_at < $2
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare touch statement: %w", err)
	}

	repo.deleteStmt, err = db.Prepare(`DELETE FROM sessions WHERE token = $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	repo.deleteExpiredStmt, err = db.Prepare(`DELETE FROM sessions WHERE expires_at <= $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare deleteExpired statement: %w", err)
	}

	return repo, nil
}

// Close releases the prepared statements.
func (r *SessionRepository) Close() error {
	stmts := []*sql.Stmt{
		r.createStmt, r.getByTokenStmt, r.updateDataStmt,
		r.touchStmt, r.deleteStmt, r.deleteExpiredStmt,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	data, err := marshalSessionData(session.Data)
	if err != nil {
		return err
	}

	err = r.createStmt.QueryRowContext(ctx,
		session.Token,
		nullableID(session.UserID),
		data,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	session := &domain.Session{}
	var userID sql.NullString
	var data []byte

	err := r.getByTokenStmt.QueryRowContext(ctx, token, time.Now()).Scan(
		&session.ID,
		&session.Token,
		&userID,
		&data,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}

	session.UserID = userID.String
	if err := json.Unmarshal(data, &session.Data); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	if session.Data == nil {
		session.Data = make(map[string]string)
	}
	return session, nil
}

func (r *SessionRepository) UpdateData(ctx context.Context, token string, data map[string]string) error {
	encoded, err := marshalSessionData(data)
	if err != nil {
		return err
	}

	result, err := r.updateDataStmt.ExecContext(ctx, encoded, token)
	if err != nil {
		return fmt.Errorf("failed to update session data: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Touch bumps updated_at only when the current watermark is older than
// the cutoff, so read-heavy traffic does not rewrite the row on every
// request.
func (r *SessionRepository) Touch(ctx context.Context, token string, olderThan time.Time) (bool, error) {
	result, err := r.touchStmt.ExecContext(ctx, token, olderThan)
	if err != nil {
		return false, fmt.Errorf("failed to touch session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.deleteStmt.ExecContext(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.deleteExpiredStmt.ExecContext(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return count, nil
}

func marshalSessionData(data map[string]string) ([]byte, error) {
	if data == nil {
		data = map[string]string{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session data: %w", err)
	}
	return encoded, nil
}

func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}
