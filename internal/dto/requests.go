package dto

import (
	"eventInvite/internal/catalog"
	"eventInvite/internal/messaging"
	"eventInvite/internal/model"
	"eventInvite/internal/report"
	"eventInvite/internal/wizard"
)

type AuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string           `json:"token"`
	Organizer *model.Organizer `json:"organizer"`
}

type SaveEventRequest struct {
	EventType string             `json:"event_type" validate:"required,eventtype"`
	Details   model.EventDetails `json:"details"`
}

type EventResponse struct {
	Event      *model.Event    `json:"event"`
	InviteURL  string          `json:"invite_url,omitempty"`
	Progress   wizard.Progress `json:"progress"`
	Invitation string          `json:"invitation_text"`
}

type StepOpenResponse struct {
	Step  int    `json:"step"`
	Title string `json:"title"`
	Open  bool   `json:"open"`
}

type StepBlockedData struct {
	Message string `json:"message"`
	Reopen  int    `json:"reopen"`
}

type FieldInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type EventTypeInfo struct {
	Type     model.EventType `json:"type"`
	Required []FieldInfo     `json:"required"`
}

type WizardMetaResponse struct {
	EventTypes []EventTypeInfo        `json:"event_types"`
	TimeSlots  []string               `json:"time_slots"`
	Defaults   model.EventDetails     `json:"defaults"`
	Steps      map[wizard.Step]string `json:"steps"`
}

type DesignRequest struct {
	DesignID       string `json:"design_id" validate:"required"`
	Font           string `json:"font"`
	InvitationText string `json:"invitation_text"`
}

type DesignResponse struct {
	InvitationPath string `json:"invitation_path"`
	InviteURL      string `json:"invite_url"`
	InvitationText string `json:"invitation_text"`
	Font           string `json:"font"`
	DesignID       string `json:"design_id"`
}

type CatalogResponse struct {
	DefaultFont string           `json:"default_font"`
	Designs     []catalog.Design `json:"designs"`
	Fonts       []catalog.Font   `json:"fonts"`
}

const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
	ChannelDirect   = "direct"
)

// InviteGuestRequest is checked by messaging.CheckGuest so the Hebrew
// messages match the form's wording.
type InviteGuestRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Channel   string `json:"channel" validate:"omitempty,oneof=whatsapp sms direct"`
}

type InviteGuestResponse struct {
	Guest *model.InvitedGuest `json:"guest"`
	Links messaging.Links     `json:"links"`
	Sent  bool                `json:"sent"`
}

type GuestPageResponse struct {
	Guest     *model.InvitedGuest `json:"guest"`
	EventType model.EventType     `json:"event_type"`
	InviteURL string              `json:"invite_url,omitempty"`
	Meals     []MealInfo          `json:"meals"`
}

type MealInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type RSVPAnswerRequest struct {
	Attending    *bool              `json:"attending"`
	Adults       int                `json:"adults"`
	Children     int                `json:"children"`
	SpecialMeals model.SpecialMeals `json:"special_meals"`
	Allergies    []model.Allergy    `json:"allergies" validate:"max=20"`
}

type HeadcountRequest struct {
	Adults       int                `json:"adults"`
	Children     int                `json:"children"`
	SpecialMeals model.SpecialMeals `json:"special_meals"`
	Allergies    []model.Allergy    `json:"allergies" validate:"max=20"`
}

type ReportResponse = report.Report
