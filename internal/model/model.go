package model

import "time"

type EventType string

const (
	EventWedding    EventType = "חתונה"
	EventHenna      EventType = "חינה"
	EventBarMitzvah EventType = "בר מצווה"
	EventBatMitzvah EventType = "בת מצווה"
	EventBrit       EventType = "ברית"
	EventBrita      EventType = "בריתה"
	EventBirthday   EventType = "יום הולדת"
	EventBusiness   EventType = "אירוע עסקי"
)

// EventTypes lists the selectable types in display order.
var EventTypes = []EventType{
	EventWedding, EventHenna, EventBarMitzvah, EventBatMitzvah,
	EventBrit, EventBrita, EventBirthday, EventBusiness,
}

// ParseEventType accepts the stored identifiers and the combined "ברית/ה" label.
func ParseEventType(s string) (EventType, bool) {
	if s == "ברית/ה" {
		return EventBrit, true
	}
	for _, t := range EventTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

type GuestStatus string

const (
	StatusPending  GuestStatus = "pending"
	StatusApproved GuestStatus = "approved"
	StatusRejected GuestStatus = "rejected"
)

// EventDetails is the free-form details mapping of an event keyed by form field.
type EventDetails map[string]string

type Organizer struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Session struct {
	ID          string    `db:"id" json:"id"`
	OrganizerID string    `db:"organizer_id" json:"organizer_id"`
	ExpiresAt   time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Event struct {
	ID             int64        `db:"id" json:"id"`
	OrganizerID    string       `db:"organizer_id" json:"organizer_id"`
	EventType      EventType    `db:"event_type" json:"event_type"`
	Details        EventDetails `db:"event_details" json:"event_details"`
	InvitationText string       `db:"invitation_text" json:"invitation_text"`
	InvitationPath string       `db:"invitation_path,omitempty" json:"invitation_path,omitempty"`
	Font           string       `db:"font" json:"font"`
	DesignID       string       `db:"design_id,omitempty" json:"design_id,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

type InvitedGuest struct {
	ID              int64       `db:"id" json:"id"`
	OrganizerID     string      `db:"organizer_id" json:"organizer_id"`
	EventID         int64       `db:"event_id" json:"event_id"`
	FirstName       string      `db:"first_name" json:"first_name"`
	LastName        string      `db:"last_name" json:"last_name"`
	Phone           string      `db:"phone" json:"phone"`
	Email           string      `db:"email,omitempty" json:"email,omitempty"`
	Status          GuestStatus `db:"status" json:"status"`
	Adults          int         `db:"adults" json:"adults"`
	Children        int         `db:"children" json:"children"`
	TotalGuests     int         `db:"total_guests" json:"total_guests"`
	VegAdults       int         `db:"veg_adults" json:"veg_adults"`
	VegChildren     int         `db:"veg_children" json:"veg_children"`
	VeganAdults     int         `db:"vegan_adults" json:"vegan_adults"`
	VeganChildren   int         `db:"vegan_children" json:"vegan_children"`
	GlattAdults     int         `db:"glatt_adults" json:"glatt_adults"`
	GlattChildren   int         `db:"glatt_children" json:"glatt_children"`
	AllergyAdults   int         `db:"allergy_adults" json:"allergy_adults"`
	AllergyChildren int         `db:"allergy_children" json:"allergy_children"`
	AllergyNote     string      `db:"allergy_note,omitempty" json:"allergy_note,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// GuestResponse is the set of columns a guest writes through the public RSVP link.
type GuestResponse struct {
	Status          GuestStatus
	Adults          int
	Children        int
	VegAdults       int
	VegChildren     int
	VeganAdults     int
	VeganChildren   int
	GlattAdults     int
	GlattChildren   int
	AllergyAdults   int
	AllergyChildren int
	AllergyNote     *string
}

type Headcount struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type Allergy struct {
	Description string `json:"description"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
}

// SpecialMeals is keyed by meal category: vegetarian, vegan, glatt.
type SpecialMeals map[string]Headcount

type RSVPSubmission struct {
	ID           int64        `db:"id" json:"id"`
	EventID      int64        `db:"event_id" json:"event_id"`
	EventType    EventType    `db:"event_type" json:"event_type"`
	Adults       int          `db:"adults" json:"adults"`
	Children     int          `db:"children" json:"children"`
	SpecialMeals SpecialMeals `db:"special_meals" json:"special_meals"`
	Allergies    []Allergy    `db:"allergies" json:"allergies"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}
