package wizard

import (
	"fmt"
	"strings"

	"eventInvite/internal/model"
)

// FormatDateHebrew turns YYYY-MM-DD into DD/MM/YYYY.
func FormatDateHebrew(iso string) string {
	if iso == "" {
		return ""
	}
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

func whenWhere(d model.EventDetails, at string) string {
	return fmt.Sprintf("בתאריך %s בשעה %s\n%s%s, %s",
		FormatDateHebrew(d["date"]), d["time"], at, d["hallName"], d["hallAddress"])
}

var templates = map[model.EventType]func(d model.EventDetails) string{
	model.EventWedding: func(d model.EventDetails) string {
		return fmt.Sprintf("%s ובתם %s יחד עם %s ובנם %s\nשמחים להזמינכם לחגוג עמנו את חתונת ילדינו\n%s\nחופה תתקיים בשעה %s",
			d["brideParents"], d["brideName"], d["groomParents"], d["groomName"], whenWhere(d, "באולם "), d["chuppahTime"])
	},
	model.EventHenna: func(d model.EventDetails) string {
		return fmt.Sprintf("%s ובתם %s יחד עם %s ובנם %s\nמזמינים אתכם לחגוג עמנו בחינה\n%s",
			d["brideParents"], d["brideName"], d["groomParents"], d["groomName"], whenWhere(d, "באולם "))
	},
	model.EventBarMitzvah: func(d model.EventDetails) string {
		return fmt.Sprintf("אנו, %s,\nמזמינים אתכם לחגוג עמנו את בר המצווה של בננו %s\n%s",
			d["boyParents"], d["boyName"], whenWhere(d, "באולם "))
	},
	model.EventBatMitzvah: func(d model.EventDetails) string {
		return fmt.Sprintf("אנו, %s,\nמזמינים אתכם לחגוג עמנו את בת המצווה של בתנו %s\n%s",
			d["girlParents"], d["girlName"], whenWhere(d, "באולם "))
	},
	model.EventBrit: func(d model.EventDetails) string {
		return fmt.Sprintf("אנו, %s,\nשמחים להזמינכם לברית בננו\n%s", d["babyParents"], whenWhere(d, "באולם "))
	},
	model.EventBrita: func(d model.EventDetails) string {
		return fmt.Sprintf("אנו, %s,\nשמחים להזמינכם לבריתה בתנו\n%s", d["babyParents"], whenWhere(d, "באולם "))
	},
	model.EventBirthday: func(d model.EventDetails) string {
		return fmt.Sprintf("את/ה מוזמנ/ת לחגוג עם %s יום הולדת %s!\n%s",
			d["birthdayName"], d["birthdayAge"], whenWhere(d, "ב-"))
	},
	model.EventBusiness: func(d model.EventDetails) string {
		return fmt.Sprintf("חברת %s (%s)\nמתכבדת להזמינך לאירוע העסקי שלנו\n%s",
			d["businessName"], d["businessContact"], whenWhere(d, "ב-"))
	},
}

// DefaultInvitationText renders the template of the event type, or "" for an unknown type.
func DefaultInvitationText(t model.EventType, d model.EventDetails) string {
	tmpl, ok := templates[t]
	if !ok {
		return ""
	}
	return "הזמנה ל" + string(t) + "\n\n" + tmpl(d)
}

// InvitationText prefers a non-blank custom text over the type's template.
func InvitationText(custom string, t model.EventType, d model.EventDetails) string {
	if c := strings.TrimSpace(custom); c != "" {
		return c
	}
	return DefaultInvitationText(t, d)
}
