package mailer

import (
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  Config
	log  *zerolog.Logger
	send sendFunc
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &Mailer{cfg: cfg, log: log, send: smtp.SendMail}
}

// Enabled is false when no SMTP host is configured; sends are then skipped.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

func (m *Mailer) compose(to, subject, body string) []byte {
	headers := []string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + mime.BEncoding.Encode("UTF-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Transfer-Encoding: 8bit",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body)
}

func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		m.log.Debug().Str("to", to).Str("subject", subject).Msg("smtp disabled, email skipped")
		return nil
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{to}, m.compose(to, subject, body)); err != nil {
		m.log.Warn().Msgf("failed to send email to %s: %v", to, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Msgf("📧 email sent to %s (%s)", to, subject)
	return nil
}

func (m *Mailer) SendWelcome(to string) error {
	return m.Send(to, "נרשמת בהצלחה!",
		"שלום,\n\nנרשמת בהצלחה למערכת ההזמנות. אפשר להתחיל ליצור את האירוע הראשון שלך.")
}

// SendRSVPAnswered tells the organizer that a guest answered.
func (m *Mailer) SendRSVPAnswered(to, guestName string, attending bool, adults, children int) error {
	if !attending {
		return m.Send(to, "עדכון אישור הגעה: "+guestName,
			fmt.Sprintf("%s עדכן/ה שלא יגיע/ו לאירוע.", guestName))
	}
	return m.Send(to, "עדכון אישור הגעה: "+guestName,
		fmt.Sprintf("%s אישר/ה הגעה.\nבוגרים: %d\nילדים: %d", guestName, adults, children))
}

// SendReminder asks a guest who has not answered yet to confirm.
func (m *Mailer) SendReminder(to, guestName, eventType, rsvpLink string) error {
	return m.Send(to, "תזכורת: אישור הגעה ל"+eventType,
		fmt.Sprintf("שלום %s,\n\nטרם אישרת הגעה ל%s.\nלאישור השתתפות לחצו על הקישור:\n%s", guestName, eventType, rsvpLink))
}
