package dto

// Job kinds carried over the broker.
const (
	JobRSVPReminder = "rsvp_reminder"
	JobRSVPAnswered = "rsvp_answered"
	JobWelcome      = "welcome"
)

type JobMessage struct {
	Kind        string `json:"kind"`
	EventID     int64  `json:"event_id,omitempty"`
	GuestID     int64  `json:"guest_id,omitempty"`
	OrganizerID string `json:"organizer_id,omitempty"`
	Email       string `json:"email,omitempty"`
}
