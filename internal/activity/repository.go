package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Repository handles activity persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new activity repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new activity record
func (r *Repository) Create(ctx context.Context, a *Activity) error {
	query := `
		INSERT INTO activities (id, user_id, event_type, payload, is_read)
		VALUES ($1, $2, $3, $4, false)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, a.ID, a.UserID, string(a.EventType), []byte(a.Payload)).
		Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// ListByUserID retrieves a user's activity feed, newest first
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*Activity, error) {
	query := `
		SELECT id, user_id, event_type, payload, is_read, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*Activity
	for rows.Next() {
		a := &Activity{}
		var payload []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.EventType, &payload, &a.IsRead, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.Payload = payload
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// MarkAsRead marks one activity as read for its recipient
func (r *Repository) MarkAsRead(ctx context.Context, id uuid.UUID, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE activities SET is_read = true WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark activity as read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check activity update: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
