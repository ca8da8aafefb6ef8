package wizard

import (
	"fmt"
	"strings"
	"time"

	"eventInvite/internal/model"
)

const (
	MsgMissingFieldsPrefix = "נא למלא את השדות הבאים: "
	MsgDateNotFuture       = "תאריך האירוע חייב להיות עתידי."
	MsgUnknownEventType    = "סוג אירוע לא מוכר"
)

// FieldOrder is the canonical order of the details form.
var FieldOrder = []string{
	"brideName", "groomName", "brideParents", "groomParents",
	"boyName", "boyParents", "girlName", "girlParents",
	"babyParents", "birthdayName", "birthdayAge",
	"businessName", "businessContact",
	"date", "time", "chuppahTime", "hallName", "hallAddress",
	"customEventDescription",
}

var Labels = map[string]string{
	"brideName":       "שם הכלה",
	"groomName":       "שם החתן",
	"brideParents":    "שם הורי הכלה",
	"groomParents":    "שם הורי החתן",
	"boyName":         "שם חתן בר מצווה",
	"boyParents":      "שם ההורים",
	"girlName":        "שם כלת בת מצווה",
	"girlParents":     "שם ההורים",
	"babyParents":     "שם ההורים",
	"birthdayName":    "שם החוגג/ת",
	"birthdayAge":     "גיל",
	"businessName":    "שם החברה",
	"businessContact": "איש קשר",
	"date":            "תאריך האירוע",
	"time":            "שעת האירוע",
	"chuppahTime":     "שעת החופה",
	"hallName":        "שם האולם",
	"hallAddress":     "כתובת האולם",
}

var commonFields = []string{"date", "time", "hallName", "hallAddress"}

var typeFields = map[model.EventType][]string{
	model.EventWedding:    {"brideName", "groomName", "brideParents", "groomParents", "chuppahTime"},
	model.EventHenna:      {"brideName", "groomName", "brideParents", "groomParents"},
	model.EventBarMitzvah: {"boyName", "boyParents"},
	model.EventBatMitzvah: {"girlName", "girlParents"},
	model.EventBrit:       {"babyParents"},
	model.EventBrita:      {"babyParents"},
	model.EventBirthday:   {"birthdayName", "birthdayAge"},
	model.EventBusiness:   {"businessName", "businessContact"},
}

// RequiredFields returns the allowlist of mandatory keys for the type, in form order.
func RequiredFields(t model.EventType) []string {
	allowed := make(map[string]bool)
	for _, k := range commonFields {
		allowed[k] = true
	}
	for _, k := range typeFields[t] {
		allowed[k] = true
	}

	out := make([]string, 0, len(allowed))
	for _, k := range FieldOrder {
		if allowed[k] {
			out = append(out, k)
		}
	}
	return out
}

// DefaultDetails holds the prefilled values of a fresh details form.
func DefaultDetails() model.EventDetails {
	return model.EventDetails{
		"time":                   "19:30",
		"chuppahTime":            "21:00",
		"customEventDescription": "תיאור האירוע",
	}
}

// MissingFields returns the required keys whose trimmed value is empty.
func MissingFields(t model.EventType, details model.EventDetails) []string {
	var missing []string
	for _, k := range RequiredFields(t) {
		if strings.TrimSpace(details[k]) == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

func MissingMessage(missing []string) string {
	labels := make([]string, 0, len(missing))
	for _, k := range missing {
		if l, ok := Labels[k]; ok {
			labels = append(labels, l)
		} else {
			labels = append(labels, k)
		}
	}
	return MsgMissingFieldsPrefix + strings.Join(labels, ", ")
}

// ValidationError carries the Hebrew message shown next to the details form and
// the keys to highlight.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateDetails checks the details form of an event of type t against today's date.
func ValidateDetails(t model.EventType, details model.EventDetails, today time.Time) error {
	if _, ok := typeFields[t]; !ok {
		return &ValidationError{Message: MsgUnknownEventType}
	}

	if d := strings.TrimSpace(details["date"]); d != "" {
		date, err := time.ParseInLocation(time.DateOnly, d, today.Location())
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("%s: %s", Labels["date"], d), Fields: []string{"date"}}
		}
		y, m, dd := today.Date()
		midnight := time.Date(y, m, dd, 0, 0, 0, 0, today.Location())
		if !date.After(midnight) {
			return &ValidationError{Message: MsgDateNotFuture, Fields: []string{"date"}}
		}
	}

	if missing := MissingFields(t, details); len(missing) > 0 {
		return &ValidationError{Message: MissingMessage(missing), Fields: missing}
	}
	return nil
}

// TimeSlots lists the selectable half-hour slots from 08:00 to 23:30.
func TimeSlots() []string {
	slots := make([]string, 0, 32)
	for half := 16; half < 48; half++ {
		m := "00"
		if half%2 == 1 {
			m = "30"
		}
		slots = append(slots, fmt.Sprintf("%02d:%s", half/2, m))
	}
	return slots
}
