package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventInvite/internal/model"
)

const guestColumns = `id, organizer_id, event_id, first_name, last_name, phone, email, status,
	adults, children, total_guests, veg_adults, veg_children, vegan_adults, vegan_children,
	glatt_adults, glatt_children, allergy_adults, allergy_children, allergy_note,
	created_at, updated_at`

func scanGuest(row rowScanner) (*model.InvitedGuest, error) {
	var g model.InvitedGuest
	err := row.Scan(
		&g.ID, &g.OrganizerID, &g.EventID, &g.FirstName, &g.LastName, &g.Phone, &g.Email, &g.Status,
		&g.Adults, &g.Children, &g.TotalGuests, &g.VegAdults, &g.VegChildren, &g.VeganAdults, &g.VeganChildren,
		&g.GlattAdults, &g.GlattChildren, &g.AllergyAdults, &g.AllergyChildren, &g.AllergyNote,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) queryGuests(ctx context.Context, query string, args ...any) ([]model.InvitedGuest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get guests: %w", err)
	}
	defer rows.Close()

	guests := []model.InvitedGuest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guests: %w", err)
	}
	return guests, nil
}

// CreateGuest stores a freshly invited guest: pending, one adult.
func (r *repository) CreateGuest(ctx context.Context, g *model.InvitedGuest) (int64, error) {
	query := `
		INSERT INTO invited_guests (organizer_id, event_id, first_name, last_name, phone, email, status, adults, total_guests)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', 1, 1)
		RETURNING id, status, adults, total_guests, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, query, g.OrganizerID, g.EventID, g.FirstName, g.LastName, g.Phone, g.Email)
	if err := row.Scan(&g.ID, &g.Status, &g.Adults, &g.TotalGuests, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return 0, fmt.Errorf("failed to insert guest: %w", err)
	}
	return g.ID, nil
}

func (r *repository) GetGuest(ctx context.Context, eventID, guestID int64) (*model.InvitedGuest, error) {
	query := `SELECT ` + guestColumns + ` FROM invited_guests WHERE id = $1 AND event_id = $2`

	g, err := scanGuest(r.db.QueryRowContext(ctx, query, guestID, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return g, nil
}

func (r *repository) ListGuests(ctx context.Context, eventID int64) ([]model.InvitedGuest, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM invited_guests
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.queryGuests(ctx, query, eventID)
}

// ListGuestsByStatus treats an empty status as pending.
func (r *repository) ListGuestsByStatus(ctx context.Context, eventID int64, status model.GuestStatus) ([]model.InvitedGuest, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM invited_guests
		WHERE event_id = $1 AND COALESCE(NULLIF(status, ''), 'pending') = $2
		ORDER BY created_at ASC, id ASC
	`
	return r.queryGuests(ctx, query, eventID, status)
}

func (r *repository) SearchGuests(ctx context.Context, eventID int64, q string) ([]model.InvitedGuest, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM invited_guests
		WHERE event_id = $1
		  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR phone ILIKE $2)
		ORDER BY created_at ASC, id ASC
	`
	return r.queryGuests(ctx, query, eventID, "%"+escapeLike(q)+"%")
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

// CountGuests returns how many guests were invited and how many answered.
func (r *repository) CountGuests(ctx context.Context, eventID int64) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status IN ('approved', 'rejected'))
		FROM invited_guests
		WHERE event_id = $1
	`
	var total, answered int
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&total, &answered); err != nil {
		return 0, 0, fmt.Errorf("failed to count guests: %w", err)
	}
	return total, answered, nil
}

// UpdateGuestResponse writes a guest's answer. A nil allergy note keeps the
// stored one.
func (r *repository) UpdateGuestResponse(ctx context.Context, eventID, guestID int64, resp model.GuestResponse) (*model.InvitedGuest, error) {
	query := `
		UPDATE invited_guests
		SET status = $1, adults = $2, children = $3, total_guests = $2 + $3,
		    veg_adults = $4, veg_children = $5, vegan_adults = $6, vegan_children = $7,
		    glatt_adults = $8, glatt_children = $9, allergy_adults = $10, allergy_children = $11,
		    allergy_note = COALESCE($12, allergy_note), updated_at = NOW()
		WHERE id = $13 AND event_id = $14
		RETURNING ` + guestColumns

	row := r.db.QueryRowContext(ctx, query,
		resp.Status, resp.Adults, resp.Children,
		resp.VegAdults, resp.VegChildren, resp.VeganAdults, resp.VeganChildren,
		resp.GlattAdults, resp.GlattChildren, resp.AllergyAdults, resp.AllergyChildren,
		resp.AllergyNote, guestID, eventID,
	)
	g, err := scanGuest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to update guest response: %w", err)
	}
	return g, nil
}

// SetStatusByPhone answers for the most recently invited guest with a
// matching number, as used by chat replies. Declining zeroes the headcount.
func (r *repository) SetStatusByPhone(ctx context.Context, phoneDigits string, status model.GuestStatus) (*model.InvitedGuest, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM invited_guests
		WHERE regexp_replace(phone, '\D', '', 'g') = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
		FOR UPDATE
	`, phoneDigits).Scan(&id)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to find guest by phone: %w", err)
	}

	update := `UPDATE invited_guests SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + guestColumns
	if status == model.StatusRejected {
		update = `
			UPDATE invited_guests
			SET status = $1, adults = 0, children = 0, total_guests = 0,
			    veg_adults = 0, veg_children = 0, vegan_adults = 0, vegan_children = 0,
			    glatt_adults = 0, glatt_children = 0, allergy_adults = 0, allergy_children = 0,
			    updated_at = NOW()
			WHERE id = $2
			RETURNING ` + guestColumns
	}

	g, err := scanGuest(tx.QueryRowContext(ctx, update, status, id))
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to update guest status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return g, nil
}
