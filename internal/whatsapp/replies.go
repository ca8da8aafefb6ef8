package whatsapp

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"eventInvite/internal/messaging"
	"eventInvite/internal/model"
	"eventInvite/internal/repo"
)

const (
	replyApproved = "תודה! אישור ההגעה נקלט. לעדכון מספר המוזמנים והעדפות הארוחה היכנסו לקישור שבהזמנה."
	replyRejected = "תודה על העדכון, נשמח לראותכם באירוע הבא."
)

var (
	yesWords = map[string]bool{"כן": true, "מגיע": true, "מגיעה": true, "מגיעים": true, "מגיעות": true, "yes": true, "y": true}
	noWords  = map[string]bool{"לא": true, "no": true, "n": true}
)

// ParseReply maps a chat reply to an RSVP status. A negative word wins, so
// "לא מגיע" is a decline.
func ParseReply(text string) (model.GuestStatus, bool) {
	if strings.Contains(text, "❌") {
		return model.StatusRejected, true
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	yes := strings.Contains(text, "✅")
	for _, w := range words {
		if noWords[w] {
			return model.StatusRejected, true
		}
		if yesWords[w] {
			yes = true
		}
	}
	if yes {
		return model.StatusApproved, true
	}
	return "", false
}

// LocalNumber turns 9725XXXXXXXX into 05XXXXXXXX, the form organizers type.
func LocalNumber(international string) string {
	d := messaging.Digits(international)
	if strings.HasPrefix(d, "972") {
		return "0" + d[3:]
	}
	return d
}

type StatusStore interface {
	SetStatusByPhone(ctx context.Context, phoneDigits string, status model.GuestStatus) (*model.InvitedGuest, error)
}

type TextSender interface {
	SendText(ctx context.Context, phone, text string) error
}

// ReplyHandler records yes/no replies from invited guests and confirms them.
type ReplyHandler struct {
	store    StatusStore
	sender   TextSender
	log      *zerolog.Logger
	answered func(g *model.InvitedGuest)
}

func NewReplyHandler(store StatusStore, sender TextSender, log *zerolog.Logger, answered func(g *model.InvitedGuest)) *ReplyHandler {
	return &ReplyHandler{store: store, sender: sender, log: log, answered: answered}
}

// Handle is an IncomingHandler. Messages from unknown numbers and texts
// that are not an answer are ignored.
func (h *ReplyHandler) Handle(ctx context.Context, phone, text string) {
	status, ok := ParseReply(text)
	if !ok {
		return
	}

	g, err := h.store.SetStatusByPhone(ctx, LocalNumber(phone), status)
	if err != nil {
		if !errors.Is(err, repo.ErrGuestNotFound) {
			h.log.Error().Err(err).Str("phone", phone).Msg("failed to record chat reply")
		}
		return
	}
	h.log.Info().Int64("guest_id", g.ID).Str("status", string(status)).Msg("chat reply recorded")

	if h.answered != nil {
		h.answered(g)
	}

	reply := replyApproved
	if status == model.StatusRejected {
		reply = replyRejected
	}
	if err := h.sender.SendText(ctx, phone, reply); err != nil {
		h.log.Error().Err(err).Str("phone", phone).Msg("failed to confirm chat reply")
	}
}
