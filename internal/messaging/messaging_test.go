package messaging

import (
	"strings"
	"testing"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"050-123-4567", true},
		{"0501234567", true},
		{"(050) 123 4567", true},
		{"123", false},
		{"05012345678", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := ValidPhone(tt.phone); got != tt.valid {
				t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.valid)
			}
		})
	}
}

func TestCheckGuest(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		phone string
		email string
		want  string
	}{
		{name: "valid", first: "דנה", last: "כהן", phone: "050-123-4567"},
		{name: "short phone", first: "דנה", last: "כהן", phone: "123", want: MsgInvalidPhone},
		{name: "missing last name", first: "דנה", last: " ", phone: "0501234567", want: MsgRequiredGuestFields},
		{name: "bad email", first: "דנה", last: "כהן", phone: "0501234567", email: "dana@", want: MsgInvalidEmail},
		{name: "good email", first: "דנה", last: "כהן", phone: "0501234567", email: "dana@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckGuest(tt.first, tt.last, tt.phone, tt.email)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.want {
				t.Errorf("Expected %q, got %v", tt.want, err)
			}
		})
	}
}

func TestInternational(t *testing.T) {
	tests := map[string]string{
		"050-123-4567":    "972501234567",
		"+972 50 1234567": "972501234567",
		"9720501234567":   "972501234567",
	}
	for in, want := range tests {
		if got := International(in); got != want {
			t.Errorf("International(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEncodeURIComponent(t *testing.T) {
	got := EncodeURIComponent("שלום (חברים)! a+b\n")
	want := "%D7%A9%D7%9C%D7%95%D7%9D%20(%D7%97%D7%91%D7%A8%D7%99%D7%9D)!%20a%2Bb%0A"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestBuildLinks(t *testing.T) {
	links := BuildLinks("https://invites.example/", 42, 7, "050-123-4567", "הזמנה", "https://cdn.example/a.jpg")

	if links.RSVP != "https://invites.example/42/7" {
		t.Errorf("Unexpected RSVP link %q", links.RSVP)
	}
	if !strings.HasPrefix(links.WhatsApp, "https://wa.me/972501234567?text=") {
		t.Errorf("Unexpected WhatsApp link %q", links.WhatsApp)
	}
	if !strings.Contains(links.WhatsApp, EncodeURIComponent("https://cdn.example/a.jpg")) {
		t.Error("WhatsApp body should carry the image URL")
	}
	if !strings.HasPrefix(links.SMS, "sms:972501234567?body=") {
		t.Errorf("Unexpected SMS link %q", links.SMS)
	}
	if strings.Contains(links.SMS, EncodeURIComponent("https://cdn.example/a.jpg")) {
		t.Error("SMS body should not carry the image URL")
	}
	if !strings.HasSuffix(links.SMS, EncodeURIComponent("https://invites.example/42/7")) {
		t.Error("SMS body should end with the RSVP link")
	}
}
