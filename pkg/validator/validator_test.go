package validator

import (
	"context"
	"strings"
	"testing"
)

type sample struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6"`
	EventType string `validate:"required,eventtype"`
}

func TestValidate(t *testing.T) {
	valid := sample{Email: "a@b.co", Password: "secret1", EventType: "חתונה"}

	tests := []struct {
		name    string
		mutate  func(s *sample)
		wantErr string
	}{
		{name: "valid", mutate: func(*sample) {}},
		{name: "combined brit label", mutate: func(s *sample) { s.EventType = "ברית/ה" }},
		{name: "missing email", mutate: func(s *sample) { s.Email = "" }, wantErr: ErrFieldRequired},
		{name: "bad email", mutate: func(s *sample) { s.Email = "nope" }, wantErr: ErrInvalidEmail},
		{name: "short password", mutate: func(s *sample) { s.Password = "12345" }, wantErr: ErrFieldBelowMinLen},
		{name: "unknown event type", mutate: func(s *sample) { s.EventType = "כנס" }, wantErr: ErrUnknownEventType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := Validate(context.Background(), s)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Fatalf("Expected error starting with %q, got %v", tt.wantErr, err)
			}
		})
	}
}
