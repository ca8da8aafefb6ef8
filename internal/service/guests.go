package service

import (
	"errors"
	"net/http"
	"strings"

	"github.com/skip2/go-qrcode"
	"github.com/wb-go/wbf/ginext"

	"eventInvite/internal/dto"
	"eventInvite/internal/invite"
	"eventInvite/internal/messaging"
	"eventInvite/internal/model"
	"eventInvite/internal/repo"
	"eventInvite/internal/wizard"
	"eventInvite/pkg/validator"
)

const (
	msgSearchEmpty    = "נא להזין שם או טלפון"
	msgNoSearchResult = "לא נמצאו אורחים תואמים"
	msgGuestNotFound  = "האורח לא נמצא"

	qrSize = 256
)

// InviteGuest is step 4: saves the guest and returns the links that carry the
// invitation. The direct channel also sends the image from the linked device.
func (s *service) InviteGuest(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}

	var req dto.InviteGuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse guest request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, msgBadJSON)
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.FieldIncorrectError(ctx, verr.Error())
		return
	}
	if err := messaging.CheckGuest(req.FirstName, req.LastName, req.Phone, req.Email); err != nil {
		dto.FieldIncorrectError(ctx, err.Error())
		return
	}
	if !s.gate(ctx, ev, wizard.StepInvite) {
		return
	}

	failMsg := messaging.MsgSendFailed
	if req.Channel == dto.ChannelSMS {
		failMsg = messaging.MsgSMSSendFailed
	}

	guest := &model.InvitedGuest{
		OrganizerID: ev.OrganizerID,
		EventID:     ev.ID,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		Status:      model.StatusPending,
	}
	id, err := s.repo.CreateGuest(ctx.Request.Context(), guest)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to create guest")
		dto.InternalServerError(ctx, failMsg)
		return
	}
	guest.ID = id

	text := wizard.InvitationText(ev.InvitationText, ev.EventType, ev.Details)
	links := messaging.BuildLinks(s.cfg.PublicBaseURL, ev.ID, guest.ID, guest.Phone, text, s.inviteURL(ev))

	sent := false
	if req.Channel == dto.ChannelDirect && s.chat != nil {
		img, err := s.bucket.Download(ctx.Request.Context(), ev.InvitationPath)
		if err == nil {
			err = s.chat.SendImage(ctx.Request.Context(), guest.Phone, img, invite.ContentType, messaging.DirectCaption(text, links.RSVP))
		}
		if err != nil {
			s.log.Error().Err(err).Int64("guest_id", guest.ID).Msg("failed to send invitation over WhatsApp")
			dto.InternalServerError(ctx, failMsg)
			return
		}
		sent = true
	}

	if s.cfg.ReminderDelay > 0 {
		s.publish(ctx.Request.Context(), dto.JobMessage{
			Kind:        dto.JobRSVPReminder,
			EventID:     ev.ID,
			GuestID:     guest.ID,
			OrganizerID: ev.OrganizerID,
		}, s.cfg.ReminderDelay)
	}

	s.log.Info().Int64("event_id", ev.ID).Int64("guest_id", guest.ID).Str("channel", req.Channel).Msg("guest invited")
	dto.SuccessCreatedResponse(ctx, dto.InviteGuestResponse{Guest: guest, Links: links, Sent: sent})
}

func (s *service) ListGuests(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}
	guests, err := s.repo.ListGuests(ctx.Request.Context(), ev.ID)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to list guests")
		dto.InternalServerError(ctx)
		return
	}
	if guests == nil {
		guests = []model.InvitedGuest{}
	}
	dto.SuccessResponse(ctx, guests)
}

// SearchGuests matches the query against first name, last name and phone.
func (s *service) SearchGuests(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}
	q := strings.TrimSpace(ctx.Query("q"))
	if q == "" {
		dto.FieldIncorrectError(ctx, msgSearchEmpty)
		return
	}

	guests, err := s.repo.SearchGuests(ctx.Request.Context(), ev.ID, q)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to search guests")
		dto.InternalServerError(ctx)
		return
	}
	if len(guests) == 0 {
		dto.GuestNotFoundError(ctx, msgNoSearchResult)
		return
	}
	dto.SuccessResponse(ctx, guests)
}

// GuestQR renders the guest's RSVP link as a PNG QR code.
func (s *service) GuestQR(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}
	guestID, ok := parseID(ctx, "guestId")
	if !ok {
		return
	}

	guest, err := s.repo.GetGuest(ctx.Request.Context(), ev.ID, guestID)
	if err != nil {
		if errors.Is(err, repo.ErrGuestNotFound) {
			dto.GuestNotFoundError(ctx, msgGuestNotFound)
			return
		}
		s.log.Error().Err(err).Int64("guest_id", guestID).Msg("failed to load guest")
		dto.InternalServerError(ctx)
		return
	}

	png, err := qrcode.Encode(messaging.RSVPLink(s.cfg.PublicBaseURL, ev.ID, guest.ID), qrcode.Medium, qrSize)
	if err != nil {
		s.log.Error().Err(err).Int64("guest_id", guest.ID).Msg("failed to render QR code")
		dto.InternalServerError(ctx)
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}
