package service

import (
	"github.com/wb-go/wbf/ginext"

	"eventInvite/internal/dto"
	"eventInvite/internal/invite"
	"eventInvite/internal/storage"
	"eventInvite/internal/wizard"
	"eventInvite/pkg/validator"
)

const (
	msgUploadFailed   = "שגיאה בהעלאת ההזמנה"
	msgDesignNotFound = "העיצוב שנבחר אינו קיים"
	msgFontNotFound   = "הגופן שנבחר אינו קיים"
)

// SaveDesign is step 3: draws the invitation text over the chosen design,
// uploads the image and records it on the event.
func (s *service) SaveDesign(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}

	var req dto.DesignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse design request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, msgBadJSON)
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.FieldIncorrectError(ctx, verr.Error())
		return
	}
	if !s.gate(ctx, ev, wizard.StepDesign) {
		return
	}

	cat := s.catalog.Current()
	design, err := cat.Design(req.DesignID)
	if err != nil {
		dto.FieldIncorrectError(ctx, msgDesignNotFound)
		return
	}
	font, err := cat.Font(req.Font)
	if err != nil {
		dto.FieldIncorrectError(ctx, msgFontNotFound)
		return
	}

	bg, err := invite.LoadBackground(design.Image)
	if err != nil {
		s.log.Error().Err(err).Str("design_id", design.ID).Msg("failed to load design background")
		dto.InternalServerError(ctx, msgUploadFailed)
		return
	}

	text := wizard.InvitationText(req.InvitationText, ev.EventType, ev.Details)
	res, err := s.composer.Compose(bg, text, font)
	if err != nil {
		s.log.Error().Err(err).Str("font", font.Key).Msg("failed to compose invitation")
		dto.InternalServerError(ctx, msgUploadFailed)
		return
	}

	name := storage.NewObjectName()
	if err := s.bucket.Upload(ctx.Request.Context(), name, res.Image, invite.ContentType); err != nil {
		s.log.Error().Err(err).Str("object", name).Msg("failed to upload invitation")
		dto.InternalServerError(ctx, msgUploadFailed)
		return
	}

	if err := s.repo.UpdateEventDesign(ctx.Request.Context(), ev.ID, name, res.Text, res.FontKey, design.ID); err != nil {
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to save invitation on event")
		dto.InternalServerError(ctx, msgUploadFailed)
		return
	}

	s.log.Info().Int64("event_id", ev.ID).Str("object", name).Str("design_id", design.ID).Msg("invitation uploaded")
	dto.SuccessResponse(ctx, dto.DesignResponse{
		InvitationPath: name,
		InviteURL:      s.bucket.PublicURL(name),
		InvitationText: res.Text,
		Font:           res.FontKey,
		DesignID:       design.ID,
	})
}
