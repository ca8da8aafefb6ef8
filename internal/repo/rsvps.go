package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"eventInvite/internal/model"
)

func (r *repository) CreateRSVPSubmission(ctx context.Context, s *model.RSVPSubmission) (int64, error) {
	meals, err := json.Marshal(s.SpecialMeals)
	if err != nil {
		return 0, fmt.Errorf("failed to encode special meals: %w", err)
	}
	if s.Allergies == nil {
		s.Allergies = []model.Allergy{}
	}
	allergies, err := json.Marshal(s.Allergies)
	if err != nil {
		return 0, fmt.Errorf("failed to encode allergies: %w", err)
	}

	query := `
		INSERT INTO event_rsvps (event_id, event_type, adults, children, special_meals, allergies)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	row := r.db.QueryRowContext(ctx, query, s.EventID, s.EventType, s.Adults, s.Children, meals, allergies)
	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		return 0, fmt.Errorf("failed to insert rsvp submission: %w", err)
	}
	return s.ID, nil
}
