package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventInvite/internal/model"
)

func (r *repository) CreateOrganizer(ctx context.Context, o *model.Organizer) error {
	query := `
		INSERT INTO organizers (id, email, password_hash)
		VALUES ($1, LOWER($2), $3)
		RETURNING email, created_at
	`
	err := r.db.QueryRowContext(ctx, query, o.ID, o.Email, o.PasswordHash).Scan(&o.Email, &o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to insert organizer: %w", err)
	}
	return nil
}

func (r *repository) getOrganizer(ctx context.Context, where string, arg any) (*model.Organizer, error) {
	query := `SELECT id, email, password_hash, created_at FROM organizers WHERE ` + where

	var o model.Organizer
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&o.ID, &o.Email, &o.PasswordHash, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizerNotFound
		}
		return nil, fmt.Errorf("failed to get organizer: %w", err)
	}
	return &o, nil
}

func (r *repository) GetOrganizerByEmail(ctx context.Context, email string) (*model.Organizer, error) {
	return r.getOrganizer(ctx, "email = LOWER($1)", email)
}

func (r *repository) GetOrganizerByID(ctx context.Context, id string) (*model.Organizer, error) {
	return r.getOrganizer(ctx, "id = $1", id)
}

func (r *repository) CreateSession(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO sessions (id, organizer_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, query, s.ID, s.OrganizerID, s.ExpiresAt).Scan(&s.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *repository) GetSession(ctx context.Context, id string) (*model.Session, error) {
	query := `SELECT id, organizer_id, expires_at, created_at FROM sessions WHERE id = $1`

	var s model.Session
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.OrganizerID, &s.ExpiresAt, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *repository) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
