package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"eventInvite/internal/auth"
	"eventInvite/internal/catalog"
	"eventInvite/internal/dto"
	"eventInvite/internal/invite"
	"eventInvite/internal/model"
	"eventInvite/internal/rabbit"
	"eventInvite/internal/repo"
	"eventInvite/internal/storage"
	"eventInvite/internal/wizard"
)

const msgBadJSON = "פורמט JSON לא תקין"

type Service interface {
	SignUp(ctx *ginext.Context)
	SignIn(ctx *ginext.Context)
	SignOut(ctx *ginext.Context)
	Session(ctx *ginext.Context)

	Meta(ctx *ginext.Context)
	Catalog(ctx *ginext.Context)
	CreateEvent(ctx *ginext.Context)
	UpdateEvent(ctx *ginext.Context)
	GetEvent(ctx *ginext.Context)
	CurrentEvent(ctx *ginext.Context)
	OpenStep(ctx *ginext.Context)
	Progress(ctx *ginext.Context)
	SaveDesign(ctx *ginext.Context)

	InviteGuest(ctx *ginext.Context)
	ListGuests(ctx *ginext.Context)
	SearchGuests(ctx *ginext.Context)
	GuestQR(ctx *ginext.Context)

	GetRSVP(ctx *ginext.Context)
	AnswerRSVP(ctx *ginext.Context)
	SaveHeadcount(ctx *ginext.Context)

	Report(ctx *ginext.Context)
	ApprovedCSV(ctx *ginext.Context)
}

type Config struct {
	// PublicBaseURL prefixes the RSVP links sent to guests.
	PublicBaseURL string
	// ReminderDelay schedules a reminder per invited guest; zero disables it.
	ReminderDelay time.Duration
}

type CatalogSource interface {
	Current() *catalog.Catalog
}

// ImageSender delivers an invitation through a linked WhatsApp device.
type ImageSender interface {
	SendImage(ctx context.Context, phone string, image []byte, mimeType, caption string) error
}

type Deps struct {
	Repo     repo.Repository
	Auth     *auth.Manager
	Bucket   storage.Bucket
	Catalog  CatalogSource
	Composer *invite.Composer
	Queue    rabbit.Publisher
	WhatsApp ImageSender
	Log      *zerolog.Logger
}

type service struct {
	cfg      Config
	repo     repo.Repository
	auth     *auth.Manager
	bucket   storage.Bucket
	catalog  CatalogSource
	composer *invite.Composer
	queue    rabbit.Publisher
	chat     ImageSender
	log      *zerolog.Logger
	now      func() time.Time
}

func NewService(cfg Config, d Deps) Service {
	composer := d.Composer
	if composer == nil {
		composer = invite.NewComposer()
	}
	return &service{
		cfg:      cfg,
		repo:     d.Repo,
		auth:     d.Auth,
		bucket:   d.Bucket,
		catalog:  d.Catalog,
		composer: composer,
		queue:    d.Queue,
		chat:     d.WhatsApp,
		log:      d.Log,
		now:      time.Now,
	}
}

func principal(ctx *ginext.Context) (*auth.Principal, bool) {
	v, ok := ctx.Get(auth.PrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*auth.Principal)
	return p, ok && p != nil
}

func parseID(ctx *ginext.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		dto.FieldBadFormatError(ctx, name)
		return 0, false
	}
	return id, true
}

// ownedEvent loads the :id event of the signed-in organizer and writes the
// error response itself when it cannot.
func (s *service) ownedEvent(ctx *ginext.Context) (*model.Event, bool) {
	p, ok := principal(ctx)
	if !ok {
		dto.UnauthorizedError(ctx)
		return nil, false
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return nil, false
	}

	ev, err := s.repo.GetEventByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return nil, false
		}
		s.log.Error().Err(err).Int64("event_id", id).Msg("failed to load event")
		dto.InternalServerError(ctx)
		return nil, false
	}
	if ev.OrganizerID != p.OrganizerID {
		s.log.Warn().Int64("event_id", id).Str("organizer_id", p.OrganizerID).Msg("event belongs to another organizer")
		dto.ForbiddenError(ctx)
		return nil, false
	}
	return ev, true
}

func (s *service) progress(ctx context.Context, ev *model.Event) (wizard.Progress, error) {
	total, answered, err := s.repo.CountGuests(ctx, ev.ID)
	if err != nil {
		return wizard.Progress{}, err
	}
	return wizard.ProgressOf(ev, total, answered), nil
}

// gate answers 409 with the step to reopen when step is not reachable yet.
func (s *service) gate(ctx *ginext.Context, ev *model.Event, step wizard.Step) bool {
	p, err := s.progress(ctx.Request.Context(), ev)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to count guests")
		dto.InternalServerError(ctx)
		return false
	}

	var se *wizard.StepError
	if err := wizard.Gate(p, step); errors.As(err, &se) {
		dto.StepBlockedError(ctx, se.Message, int(se.Reopen))
		return false
	}
	return true
}

func (s *service) publish(ctx context.Context, msg dto.JobMessage, delay time.Duration) {
	if s.queue == nil {
		return
	}
	if err := rabbit.PublishJSON(ctx, s.queue, msg, delay); err != nil {
		s.log.Error().Err(err).Str("kind", msg.Kind).Msg("failed to publish job to RabbitMQ")
	}
}

func (s *service) inviteURL(ev *model.Event) string {
	if s.bucket == nil {
		return ev.InvitationPath
	}
	return storage.PublicURL(s.bucket, ev.InvitationPath)
}
