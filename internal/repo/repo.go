package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"eventInvite/internal/model"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrGuestNotFound     = errors.New("guest not found")
	ErrOrganizerNotFound = errors.New("organizer not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrEmailTaken        = errors.New("email already registered")
)

const uniqueViolation = "23505"

type Repository interface {
	CreateOrganizer(ctx context.Context, o *model.Organizer) error
	GetOrganizerByEmail(ctx context.Context, email string) (*model.Organizer, error)
	GetOrganizerByID(ctx context.Context, id string) (*model.Organizer, error)
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error

	CreateEvent(ctx context.Context, e *model.Event) (int64, error)
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	GetLatestEvent(ctx context.Context, organizerID string) (*model.Event, error)
	UpdateEventDetails(ctx context.Context, id int64, eventType model.EventType, details model.EventDetails, resetInvitation bool) error
	UpdateEventDesign(ctx context.Context, id int64, path, text, font, designID string) error

	CreateGuest(ctx context.Context, g *model.InvitedGuest) (int64, error)
	GetGuest(ctx context.Context, eventID, guestID int64) (*model.InvitedGuest, error)
	ListGuests(ctx context.Context, eventID int64) ([]model.InvitedGuest, error)
	ListGuestsByStatus(ctx context.Context, eventID int64, status model.GuestStatus) ([]model.InvitedGuest, error)
	SearchGuests(ctx context.Context, eventID int64, query string) ([]model.InvitedGuest, error)
	CountGuests(ctx context.Context, eventID int64) (total, answered int, err error)
	UpdateGuestResponse(ctx context.Context, eventID, guestID int64, resp model.GuestResponse) (*model.InvitedGuest, error)
	SetStatusByPhone(ctx context.Context, phoneDigits string, status model.GuestStatus) (*model.InvitedGuest, error)

	CreateRSVPSubmission(ctx context.Context, s *model.RSVPSubmission) (int64, error)

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *repository) applyFiles(files []string, action string) error {
	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s file %s: %w", action, file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to %s %s: %w", action, file, err)
		}
	}
	return nil
}

// MigrateUp applies every *.up.sql in name order. Scripts are idempotent, so
// it runs on each start.
func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	sort.Strings(files)

	if err := r.applyFiles(files, "apply migration"); err != nil {
		return err
	}
	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

// MigrateDown runs the *.down.sql scripts newest first.
func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	if err := r.applyFiles(files, "rollback migration"); err != nil {
		return err
	}
	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}
