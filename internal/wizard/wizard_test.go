package wizard

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"eventInvite/internal/model"
)

func fullDetails() model.EventDetails {
	d := DefaultDetails()
	for _, k := range FieldOrder {
		if d[k] == "" {
			d[k] = "x"
		}
	}
	d["date"] = "2099-06-01"
	return d
}

func TestRequiredFields(t *testing.T) {
	tests := []struct {
		eventType model.EventType
		expected  []string
	}{
		{model.EventWedding, []string{"brideName", "groomName", "brideParents", "groomParents", "date", "time", "chuppahTime", "hallName", "hallAddress"}},
		{model.EventHenna, []string{"brideName", "groomName", "brideParents", "groomParents", "date", "time", "hallName", "hallAddress"}},
		{model.EventBarMitzvah, []string{"boyName", "boyParents", "date", "time", "hallName", "hallAddress"}},
		{model.EventBatMitzvah, []string{"girlName", "girlParents", "date", "time", "hallName", "hallAddress"}},
		{model.EventBrit, []string{"babyParents", "date", "time", "hallName", "hallAddress"}},
		{model.EventBrita, []string{"babyParents", "date", "time", "hallName", "hallAddress"}},
		{model.EventBirthday, []string{"birthdayName", "birthdayAge", "date", "time", "hallName", "hallAddress"}},
		{model.EventBusiness, []string{"businessName", "businessContact", "date", "time", "hallName", "hallAddress"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			got := RequiredFields(tt.eventType)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("RequiredFields(%s) = %v, want %v", tt.eventType, got, tt.expected)
			}
		})
	}
}

func TestRequiredFieldsNeverIncludeDescription(t *testing.T) {
	for _, et := range model.EventTypes {
		for _, k := range RequiredFields(et) {
			if k == "customEventDescription" {
				t.Errorf("%s requires the free description", et)
			}
		}
	}
}

func TestMissingFieldsBirthday(t *testing.T) {
	d := fullDetails()
	d["birthdayName"] = ""
	d["birthdayAge"] = "   "

	missing := MissingFields(model.EventBirthday, d)
	if !reflect.DeepEqual(missing, []string{"birthdayName", "birthdayAge"}) {
		t.Fatalf("Expected birthdayName and birthdayAge missing, got %v", missing)
	}

	msg := MissingMessage(missing)
	want := "נא למלא את השדות הבאים: שם החוגג/ת, גיל"
	if msg != want {
		t.Errorf("Expected %q, got %q", want, msg)
	}
}

func TestMissingFieldsIgnoresOtherTypes(t *testing.T) {
	d := fullDetails()
	d["brideName"] = ""
	d["chuppahTime"] = ""

	if missing := MissingFields(model.EventBusiness, d); len(missing) != 0 {
		t.Errorf("Wedding fields should not be required for a business event, got %v", missing)
	}
	if missing := MissingFields(model.EventHenna, d); !reflect.DeepEqual(missing, []string{"brideName"}) {
		t.Errorf("Henna should require brideName but not chuppahTime, got %v", missing)
	}
}

func TestValidateDetails(t *testing.T) {
	today := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(d model.EventDetails)
		wantMsg string
	}{
		{name: "complete", mutate: func(d model.EventDetails) {}},
		{name: "today is not future", mutate: func(d model.EventDetails) { d["date"] = "2026-10-19" }, wantMsg: MsgDateNotFuture},
		{name: "past date", mutate: func(d model.EventDetails) { d["date"] = "2020-01-01" }, wantMsg: MsgDateNotFuture},
		{name: "tomorrow", mutate: func(d model.EventDetails) { d["date"] = "2026-10-20" }},
		{name: "missing hall", mutate: func(d model.EventDetails) { d["hallName"] = "" }, wantMsg: MsgMissingFieldsPrefix + "שם האולם"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := fullDetails()
			tt.mutate(d)
			err := ValidateDetails(model.EventWedding, d, today)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("Expected %q, got %q", tt.wantMsg, verr.Message)
			}
		})
	}
}

func TestGate(t *testing.T) {
	complete := Progress{
		EventType:        model.EventWedding,
		Details:          fullDetails(),
		TypeChosen:       true,
		DetailsCompleted: true,
		DesignChosen:     true,
	}

	incomplete := complete
	incomplete.DetailsCompleted = false
	incomplete.Details = model.EventDetails{"date": "2099-01-01", "time": "19:30", "hallName": "a", "hallAddress": "b",
		"brideName": "a", "groomName": "b", "brideParents": "c", "groomParents": "d"}

	noDesign := complete
	noDesign.DesignChosen = false

	tests := []struct {
		name   string
		p      Progress
		step   Step
		reopen Step
		msg    string
	}{
		{name: "step 1 always open", p: Progress{}, step: StepEventType},
		{name: "step 5 always open", p: Progress{}, step: StepReports},
		{name: "details need type", p: Progress{}, step: StepDetails, reopen: StepEventType, msg: MsgChooseTypeFirst},
		{name: "design needs type", p: Progress{}, step: StepDesign, reopen: StepEventType, msg: MsgChooseTypeFirst},
		{name: "design needs details", p: incomplete, step: StepDesign, reopen: StepDetails, msg: MsgMissingFieldsPrefix + "שעת החופה"},
		{name: "invite needs design", p: noDesign, step: StepInvite, reopen: StepDesign, msg: MsgChooseDesignFirst},
		{name: "invite open", p: complete, step: StepInvite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Gate(tt.p, tt.step)
			if tt.msg == "" {
				if err != nil {
					t.Fatalf("Expected step %d open, got %v", tt.step, err)
				}
				return
			}
			var serr *StepError
			if !errors.As(err, &serr) {
				t.Fatalf("Expected StepError, got %v", err)
			}
			if serr.Reopen != tt.reopen {
				t.Errorf("Expected reopen %d, got %d", tt.reopen, serr.Reopen)
			}
			if serr.Message != tt.msg {
				t.Errorf("Expected %q, got %q", tt.msg, serr.Message)
			}
		})
	}
}

func TestGateFallsBackToGenericDetailsMessage(t *testing.T) {
	p := Progress{EventType: model.EventBirthday, Details: fullDetails(), TypeChosen: true}
	err := Gate(p, StepInvite)
	var serr *StepError
	if !errors.As(err, &serr) || serr.Message != MsgFillDetailsFirst {
		t.Errorf("Expected generic details message, got %v", err)
	}
}

func TestProgressOf(t *testing.T) {
	ev := &model.Event{EventType: model.EventBirthday, Details: fullDetails(), InvitationPath: "a.jpg"}
	p := ProgressOf(ev, 2, 0)
	if !p.TypeChosen || !p.DetailsCompleted || !p.DesignChosen || !p.InvitationSent || p.RSVPCollected {
		t.Errorf("Unexpected progress %+v", p)
	}
	if ProgressOf(nil, 0, 0).TypeChosen {
		t.Error("Expected empty progress for no event")
	}
}

func TestInvitationText(t *testing.T) {
	d := fullDetails()
	d["birthdayName"] = "דנה"
	d["birthdayAge"] = "30"
	d["date"] = "2027-03-05"
	d["time"] = "20:00"
	d["hallName"] = "גן אירועים"
	d["hallAddress"] = "תל אביב"

	got := DefaultInvitationText(model.EventBirthday, d)
	want := "הזמנה ליום הולדת\n\nאת/ה מוזמנ/ת לחגוג עם דנה יום הולדת 30!\nבתאריך 05/03/2027 בשעה 20:00\nב-גן אירועים, תל אביב"
	if got != want {
		t.Errorf("Unexpected birthday text:\n%s\nwant:\n%s", got, want)
	}

	if custom := InvitationText("  שלום, בואו!  ", model.EventBirthday, d); custom != "שלום, בואו!" {
		t.Errorf("Expected custom text to win, got %q", custom)
	}
	if def := InvitationText("   ", model.EventBirthday, d); def != want {
		t.Errorf("Expected blank custom text to fall back to template, got %q", def)
	}
}

func TestWeddingTemplateMentionsChuppah(t *testing.T) {
	d := fullDetails()
	d["chuppahTime"] = "21:00"
	if !strings.Contains(DefaultInvitationText(model.EventWedding, d), "חופה תתקיים בשעה 21:00") {
		t.Error("Wedding invitation should mention the chuppah time")
	}
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	if len(slots) != 32 {
		t.Fatalf("Expected 32 slots, got %d", len(slots))
	}
	if slots[0] != "08:00" || slots[1] != "08:30" || slots[31] != "23:30" {
		t.Errorf("Unexpected slot bounds: %s %s %s", slots[0], slots[1], slots[31])
	}
}

func TestParseStep(t *testing.T) {
	if _, err := ParseStep(0); err == nil {
		t.Error("Expected error for step 0")
	}
	if s, err := ParseStep(3); err != nil || s != StepDesign {
		t.Errorf("Expected design step, got %v %v", s, err)
	}
}
