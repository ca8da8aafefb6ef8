package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"eventInvite/internal/model"
)

const eventColumns = `id, organizer_id, event_type, event_details, invitation_text,
	invitation_path, font, design_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var (
		e       model.Event
		details []byte
	)
	if err := row.Scan(
		&e.ID, &e.OrganizerID, &e.EventType, &details, &e.InvitationText,
		&e.InvitationPath, &e.Font, &e.DesignID, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to decode event details: %w", err)
		}
	}
	if e.Details == nil {
		e.Details = model.EventDetails{}
	}
	return &e, nil
}

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) (int64, error) {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return 0, fmt.Errorf("failed to encode event details: %w", err)
	}

	query := `
		INSERT INTO events (organizer_id, event_type, event_details, invitation_text, font, design_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, query,
		e.OrganizerID, e.EventType, details, e.InvitationText, e.Font, e.DesignID,
	)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	return e.ID, nil
}

func (r *repository) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// GetLatestEvent returns the organizer's most recently created event.
func (r *repository) GetLatestEvent(ctx context.Context, organizerID string) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, organizerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get latest event: %w", err)
	}
	return e, nil
}

func (r *repository) execEventUpdate(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// UpdateEventDetails stores the type and details. resetInvitation clears the
// invitation text and image, which were composed for the previous type.
func (r *repository) UpdateEventDetails(ctx context.Context, id int64, eventType model.EventType, details model.EventDetails, resetInvitation bool) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode event details: %w", err)
	}
	query := `
		UPDATE events
		SET event_type = $1, event_details = $2, updated_at = NOW()
		WHERE id = $3
	`
	if resetInvitation {
		query = `
			UPDATE events
			SET event_type = $1, event_details = $2, invitation_text = '', invitation_path = '', updated_at = NOW()
			WHERE id = $3
		`
	}
	return r.execEventUpdate(ctx, query, eventType, raw, id)
}

func (r *repository) UpdateEventDesign(ctx context.Context, id int64, path, text, font, designID string) error {
	query := `
		UPDATE events
		SET invitation_path = $1, invitation_text = $2, font = $3, design_id = $4, updated_at = NOW()
		WHERE id = $5
	`
	return r.execEventUpdate(ctx, query, path, text, font, designID, id)
}
