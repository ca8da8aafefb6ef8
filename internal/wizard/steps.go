package wizard

import (
	"fmt"

	"eventInvite/internal/model"
)

type Step int

const (
	StepEventType Step = iota + 1
	StepDetails
	StepDesign
	StepInvite
	StepReports
)

const (
	MsgChooseTypeFirst   = "עליך לבחור סוג אירוע לפני מעבר לשלב זה"
	MsgFillDetailsFirst  = "נא למלא את פרטי האירוע לפני מעבר לשלב זה"
	MsgChooseDesignFirst = "יש לבחור עיצוב הזמנה לפני מעבר לשלב זה"
	MsgInvalidStepNumber = "שלב לא קיים"
)

var Titles = map[Step]string{
	StepEventType: "שלב 1 - סוג אירוע",
	StepDetails:   "שלב 2 - פרטי האירוע",
	StepDesign:    "שלב 3 - בחר עיצוב הזמנה",
	StepInvite:    "שלב 4 - שליחת הזמנה לאורח",
	StepReports:   `שלב 5 - דוחו"ת אישורי הגעה`,
}

func ParseStep(n int) (Step, error) {
	if n < int(StepEventType) || n > int(StepReports) {
		return 0, fmt.Errorf("%s: %d", MsgInvalidStepNumber, n)
	}
	return Step(n), nil
}

// Progress is what the wizard knows about one event.
type Progress struct {
	EventType        model.EventType    `json:"event_type,omitempty"`
	Details          model.EventDetails `json:"-"`
	TypeChosen       bool               `json:"type_chosen"`
	DetailsCompleted bool               `json:"details_completed"`
	DesignChosen     bool               `json:"design_chosen"`
	InvitationSent   bool               `json:"invitation_sent"`
	RSVPCollected    bool               `json:"rsvp_collected"`
}

// ProgressOf derives the step flags from the stored event and its guest count.
func ProgressOf(ev *model.Event, guests int, answered int) Progress {
	if ev == nil {
		return Progress{}
	}
	p := Progress{
		EventType:      ev.EventType,
		Details:        ev.Details,
		TypeChosen:     ev.EventType != "",
		DesignChosen:   ev.InvitationPath != "",
		InvitationSent: guests > 0,
		RSVPCollected:  answered > 0,
	}
	p.DetailsCompleted = p.TypeChosen && len(MissingFields(ev.EventType, ev.Details)) == 0
	return p
}

// StepError tells the caller which dialog to reopen instead of the requested step.
type StepError struct {
	Message string
	Reopen  Step
}

func (e *StepError) Error() string {
	return e.Message
}

// Gate reports whether step may be opened given the progress so far.
func Gate(p Progress, step Step) error {
	switch step {
	case StepEventType, StepReports:
		return nil
	}

	if !p.TypeChosen {
		return &StepError{Message: MsgChooseTypeFirst, Reopen: StepEventType}
	}
	if step == StepDetails {
		return nil
	}

	if !p.DetailsCompleted {
		msg := MsgFillDetailsFirst
		if missing := MissingFields(p.EventType, p.Details); len(missing) > 0 {
			msg = MissingMessage(missing)
		}
		return &StepError{Message: msg, Reopen: StepDetails}
	}
	if step == StepDesign {
		return nil
	}

	if !p.DesignChosen {
		return &StepError{Message: MsgChooseDesignFirst, Reopen: StepDesign}
	}
	return nil
}
