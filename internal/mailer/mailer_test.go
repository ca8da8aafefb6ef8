package mailer

import (
	"errors"
	"mime"
	"net/smtp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type captured struct {
	addr string
	to   []string
	msg  string
}

func newTestMailer(cfg Config, err error) (*Mailer, *captured) {
	log := zerolog.Nop()
	m := New(cfg, &log)
	c := &captured{}
	m.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		c.addr, c.to, c.msg = addr, to, string(msg)
		return err
	}
	return m, c
}

func TestSendReminder(t *testing.T) {
	m, c := newTestMailer(Config{Host: "smtp.example.com", Port: 587, User: "bot@example.com"}, nil)

	if err := m.SendReminder("guest@example.com", "דנה", "חתונה", "https://x/1/2"); err != nil {
		t.Fatalf("SendReminder: %v", err)
	}
	if c.addr != "smtp.example.com:587" {
		t.Errorf("Unexpected addr %q", c.addr)
	}
	if len(c.to) != 1 || c.to[0] != "guest@example.com" {
		t.Errorf("Unexpected recipients %v", c.to)
	}
	if !strings.Contains(c.msg, "From: bot@example.com\r\n") {
		t.Error("Expected From to default to the SMTP user")
	}
	if !strings.Contains(c.msg, "Subject: "+mime.BEncoding.Encode("UTF-8", "תזכורת: אישור הגעה לחתונה")) {
		t.Errorf("Expected encoded Hebrew subject, got %s", c.msg)
	}
	if !strings.HasSuffix(c.msg, "https://x/1/2") {
		t.Error("Expected the RSVP link in the body")
	}
}

func TestSendDisabledAndFailures(t *testing.T) {
	m, c := newTestMailer(Config{}, nil)
	if err := m.SendWelcome("a@b.co"); err != nil {
		t.Fatalf("Disabled mailer should not fail: %v", err)
	}
	if c.msg != "" {
		t.Error("Disabled mailer should not send")
	}

	m, _ = newTestMailer(Config{Host: "h", Port: 25}, errors.New("refused"))
	if err := m.SendRSVPAnswered("a@b.co", "דנה", true, 2, 1); err == nil {
		t.Error("Expected the send error")
	}
}
