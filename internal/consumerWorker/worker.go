package consumerWorker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"eventInvite/internal/dto"
	"eventInvite/internal/messaging"
	"eventInvite/internal/model"
	"eventInvite/internal/rabbit"
	"eventInvite/internal/repo"
)

type Store interface {
	GetGuest(ctx context.Context, eventID, guestID int64) (*model.InvitedGuest, error)
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	GetOrganizerByID(ctx context.Context, id string) (*model.Organizer, error)
}

type Notifier interface {
	SendWelcome(to string) error
	SendRSVPAnswered(to, guestName string, attending bool, adults, children int) error
	SendReminder(to, guestName, eventType, rsvpLink string) error
}

// TextSender reaches guests that left no email. Optional.
type TextSender interface {
	SendText(ctx context.Context, phone, text string) error
}

type Reader struct {
	RMQ     rabbit.Consumer
	repo    Store
	mail    Notifier
	chat    TextSender
	baseURL string
	log     *zerolog.Logger
	done    chan struct{}
	cancel  context.CancelFunc
}

func NewReader(rmq rabbit.Consumer, store Store, mail Notifier, chat TextSender, baseURL string, log *zerolog.Logger) *Reader {
	return &Reader{
		RMQ:     rmq,
		repo:    store,
		mail:    mail,
		chat:    chat,
		baseURL: baseURL,
		log:     log,
		done:    make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.log.Info().Msg("🐇 RabbitMQ Reader started")

	go func() {
		defer close(r.done)

		if err := r.RMQ.Consume(cctx, r.Handle); err != nil {
			r.log.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		r.log.Info().Msg("🛑 RabbitMQ Reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

// Handle processes one job. Malformed messages and missing rows are dropped;
// only transient failures are returned so the broker redelivers them.
func (r *Reader) Handle(ctx context.Context, body []byte) error {
	var msg dto.JobMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		r.log.Error().Err(err).Msgf("Failed to unmarshal message: %s", string(body))
		return nil
	}

	r.log.Info().
		Str("kind", msg.Kind).
		Int64("event_id", msg.EventID).
		Int64("guest_id", msg.GuestID).
		Msg("📩 Received message from RabbitMQ")

	var err error
	switch msg.Kind {
	case dto.JobRSVPReminder:
		err = r.remind(ctx, msg)
	case dto.JobRSVPAnswered:
		err = r.notifyAnswered(ctx, msg)
	case dto.JobWelcome:
		if e := r.mail.SendWelcome(msg.Email); e != nil {
			r.log.Warn().Err(e).Str("email", msg.Email).Msg("Failed to send welcome email")
		}
	default:
		r.log.Warn().Str("kind", msg.Kind).Msg("Unknown job kind, skipping")
	}

	if errors.Is(err, repo.ErrGuestNotFound) || errors.Is(err, repo.ErrEventNotFound) || errors.Is(err, repo.ErrOrganizerNotFound) {
		r.log.Warn().Err(err).Str("kind", msg.Kind).Msg("Job target no longer exists, skipping")
		return nil
	}
	return err
}

func (r *Reader) remind(ctx context.Context, msg dto.JobMessage) error {
	guest, err := r.repo.GetGuest(ctx, msg.EventID, msg.GuestID)
	if err != nil {
		return err
	}
	if guest.Status != model.StatusPending && guest.Status != "" {
		r.log.Info().Int64("guest_id", guest.ID).Msg("⏳ Guest already answered, skipping reminder")
		return nil
	}

	event, err := r.repo.GetEventByID(ctx, msg.EventID)
	if err != nil {
		return err
	}
	link := messaging.RSVPLink(r.baseURL, event.ID, guest.ID)
	name := guest.FirstName + " " + guest.LastName

	if guest.Email != "" {
		if err := r.mail.SendReminder(guest.Email, name, string(event.EventType), link); err != nil {
			r.log.Warn().Err(err).Int64("guest_id", guest.ID).Msg("Failed to send reminder email")
		}
		return nil
	}
	if r.chat != nil {
		text := fmt.Sprintf("שלום %s, טרם אישרת הגעה ל%s.\nלאישור השתתפות לחצו על הקישור:\n%s", guest.FirstName, event.EventType, link)
		if err := r.chat.SendText(ctx, guest.Phone, text); err != nil {
			r.log.Warn().Err(err).Int64("guest_id", guest.ID).Msg("Failed to send reminder message")
		}
		return nil
	}
	r.log.Info().Int64("guest_id", guest.ID).Msg("No reminder channel for guest")
	return nil
}

func (r *Reader) notifyAnswered(ctx context.Context, msg dto.JobMessage) error {
	guest, err := r.repo.GetGuest(ctx, msg.EventID, msg.GuestID)
	if err != nil {
		return err
	}
	organizer, err := r.repo.GetOrganizerByID(ctx, guest.OrganizerID)
	if err != nil {
		return err
	}

	name := guest.FirstName + " " + guest.LastName
	attending := guest.Status == model.StatusApproved
	if err := r.mail.SendRSVPAnswered(organizer.Email, name, attending, guest.Adults, guest.Children); err != nil {
		r.log.Warn().Err(err).Str("email", organizer.Email).Msg("Failed to notify organizer")
	} else {
		r.log.Info().Str("email", organizer.Email).Int64("guest_id", guest.ID).Msg("📧 Organizer notified")
	}
	return nil
}
