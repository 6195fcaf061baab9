package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors
var ErrActivityNotFound = errors.New("activity not found")

// Service handles activity feed business logic
type Service struct {
	repo *Repository
}

// NewService creates a new activity service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Record stores an activity event for a user. Callers treat failures as
// non-fatal: the transactional work has already succeeded by the time this
// runs, so they log the error and move on.
func (s *Service) Record(ctx context.Context, userID int64, eventType EventType, payload map[string]interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode activity payload: %w", err)
	}

	a := &Activity{
		ID:        uuid.New(),
		UserID:    userID,
		EventType: eventType,
		Payload:   raw,
	}
	return s.repo.Create(ctx, a)
}

// ListByUserID retrieves a user's activity feed
func (s *Service) ListByUserID(ctx context.Context, userID int64, limit int) ([]*Activity, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUserID(ctx, userID, limit)
}

// MarkAsRead marks an activity as read
func (s *Service) MarkAsRead(ctx context.Context, id uuid.UUID, userID int64) error {
	if err := s.repo.MarkAsRead(ctx, id, userID); err != nil {
		return ErrActivityNotFound
	}
	return nil
}
