// Package messaging builds the outbound invitation links and message bodies.
package messaging

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	MsgRequiredGuestFields = "נא למלא שם פרטי, שם משפחה ומספר טלפון תקין."
	MsgInvalidPhone        = "מספר טלפון לא תקין – יש להזין 10 ספרות."
	MsgInvalidEmail        = "המייל לא תקין"
	MsgSendFailed          = "אירעה שגיאה בשליחת ההזמנה."
	MsgSMSSendFailed       = "אירעה שגיאה בשליחת ההזמנה בסמס."

	countryCode = "972"
)

var (
	ErrInvalidPhone = errors.New(MsgInvalidPhone)
	ErrInvalidEmail = errors.New(MsgInvalidEmail)

	nonDigits = regexp.MustCompile(`\D`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Digits strips everything but 0-9.
func Digits(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ValidPhone accepts a number with exactly 10 digits, formatting aside.
func ValidPhone(phone string) bool {
	return len(Digits(phone)) == 10
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// International turns a local 05x number into 9725x. Numbers already carrying
// the country code lose the trunk zero that sometimes follows it.
func International(phone string) string {
	d := Digits(phone)
	if strings.HasPrefix(d, "0") && len(d) == 10 {
		d = countryCode + d[1:]
	}
	if strings.HasPrefix(d, countryCode+"0") {
		d = countryCode + d[len(countryCode)+1:]
	}
	return d
}

// CheckGuest validates the fields the organizer fills in before sending.
func CheckGuest(firstName, lastName, phone, email string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" || strings.TrimSpace(phone) == "" {
		return errors.New(MsgRequiredGuestFields)
	}
	if !ValidPhone(phone) {
		return ErrInvalidPhone
	}
	if e := strings.TrimSpace(email); e != "" && !ValidEmail(e) {
		return ErrInvalidEmail
	}
	return nil
}

var uriComponentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way browsers build query values for
// wa.me and sms: links.
func EncodeURIComponent(s string) string {
	return uriComponentUnescape.Replace(url.QueryEscape(s))
}

// RSVPLink is the public per-guest page.
func RSVPLink(baseURL string, eventID, guestID int64) string {
	return strings.TrimRight(baseURL, "/") + "/" + strconv.FormatInt(eventID, 10) + "/" + strconv.FormatInt(guestID, 10)
}

// WhatsAppBody is the text prefilled in the WhatsApp chat.
func WhatsAppBody(invitationText, imageURL, rsvpLink string) string {
	return invitationText + "\n\n" +
		"מצורפת ההזמנה לאירוע:\n" + imageURL + "\n\n" +
		"לאישור השתתפות לחצו על הקישור:\n" + rsvpLink
}

// SMSBody carries no image link.
func SMSBody(invitationText, rsvpLink string) string {
	return invitationText + "\n\nלאישור השתתפות לחצו על הקישור:\n" + rsvpLink
}

// DirectCaption goes under the image sent through the linked device.
func DirectCaption(invitationText, rsvpLink string) string {
	return SMSBody(invitationText, rsvpLink)
}

func WhatsAppURL(phone, body string) string {
	return "https://wa.me/" + countryCode + Digits(phone)[1:] + "?text=" + EncodeURIComponent(body)
}

func SMSURL(phone, body string) string {
	return "sms:" + countryCode + Digits(phone)[1:] + "?body=" + EncodeURIComponent(body)
}

// Links is what the organizer's client opens after a guest is saved.
type Links struct {
	RSVP     string `json:"rsvp"`
	WhatsApp string `json:"whatsapp"`
	SMS      string `json:"sms"`
}

// BuildLinks expects a phone that already passed ValidPhone.
func BuildLinks(baseURL string, eventID, guestID int64, phone, invitationText, imageURL string) Links {
	link := RSVPLink(baseURL, eventID, guestID)
	return Links{
		RSVP:     link,
		WhatsApp: WhatsAppURL(phone, WhatsAppBody(invitationText, imageURL, link)),
		SMS:      SMSURL(phone, SMSBody(invitationText, link)),
	}
}
