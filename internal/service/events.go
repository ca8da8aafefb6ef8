package service

import (
	"errors"
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"eventInvite/internal/dto"
	"eventInvite/internal/model"
	"eventInvite/internal/repo"
	"eventInvite/internal/wizard"
	"eventInvite/pkg/validator"
)

func (s *service) Meta(ctx *ginext.Context) {
	types := make([]dto.EventTypeInfo, 0, len(model.EventTypes))
	for _, t := range model.EventTypes {
		keys := wizard.RequiredFields(t)
		fields := make([]dto.FieldInfo, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, dto.FieldInfo{Key: k, Label: wizard.Labels[k]})
		}
		types = append(types, dto.EventTypeInfo{Type: t, Required: fields})
	}

	dto.SuccessResponse(ctx, dto.WizardMetaResponse{
		EventTypes: types,
		TimeSlots:  wizard.TimeSlots(),
		Defaults:   wizard.DefaultDetails(),
		Steps:      wizard.Titles,
	})
}

func (s *service) Catalog(ctx *ginext.Context) {
	c := s.catalog.Current()
	dto.SuccessResponse(ctx, dto.CatalogResponse{
		DefaultFont: c.DefaultFont,
		Designs:     c.Designs,
		Fonts:       c.Fonts,
	})
}

func (s *service) bindEvent(ctx *ginext.Context) (model.EventType, model.EventDetails, bool) {
	var req dto.SaveEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse event request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, msgBadJSON)
		return "", nil, false
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.FieldIncorrectError(ctx, verr.Error())
		return "", nil, false
	}
	t, _ := model.ParseEventType(req.EventType)
	if req.Details == nil {
		req.Details = model.EventDetails{}
	}
	return t, req.Details, true
}

// CreateEvent is step 1: it stores the chosen type with the default details.
func (s *service) CreateEvent(ctx *ginext.Context) {
	p, ok := principal(ctx)
	if !ok {
		dto.UnauthorizedError(ctx)
		return
	}
	t, details, ok := s.bindEvent(ctx)
	if !ok {
		return
	}

	merged := wizard.DefaultDetails()
	for k, v := range details {
		merged[k] = v
	}
	ev := &model.Event{
		OrganizerID: p.OrganizerID,
		EventType:   t,
		Details:     merged,
	}

	id, err := s.repo.CreateEvent(ctx.Request.Context(), ev)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event in DB")
		dto.InternalServerError(ctx)
		return
	}
	ev.ID = id
	s.log.Info().Int64("event_id", id).Str("event_type", string(t)).Msg("event created successfully")

	s.respondEvent(ctx, ev, true)
}

// UpdateEvent is step 2: the details must be complete and the date in the future.
func (s *service) UpdateEvent(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}
	t, details, ok := s.bindEvent(ctx)
	if !ok {
		return
	}

	var verr *wizard.ValidationError
	if err := wizard.ValidateDetails(t, details, s.now()); errors.As(err, &verr) {
		dto.FieldIncorrectError(ctx, verr.Message)
		return
	}

	// A new type invalidates the invitation written for the old one.
	typeChanged := t != ev.EventType
	if err := s.repo.UpdateEventDetails(ctx.Request.Context(), ev.ID, t, details, typeChanged); err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to update event details")
		dto.InternalServerError(ctx)
		return
	}
	ev.EventType, ev.Details = t, details
	if typeChanged {
		ev.InvitationText, ev.InvitationPath = "", ""
	}

	s.respondEvent(ctx, ev, false)
}

func (s *service) GetEvent(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}
	s.respondEvent(ctx, ev, false)
}

// CurrentEvent returns the organizer's most recently created event.
func (s *service) CurrentEvent(ctx *ginext.Context) {
	p, ok := principal(ctx)
	if !ok {
		dto.UnauthorizedError(ctx)
		return
	}
	ev, err := s.repo.GetLatestEvent(ctx.Request.Context(), p.OrganizerID)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to load latest event")
		dto.InternalServerError(ctx)
		return
	}
	s.respondEvent(ctx, ev, false)
}

func (s *service) respondEvent(ctx *ginext.Context, ev *model.Event, created bool) {
	progress, err := s.progress(ctx.Request.Context(), ev)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to count guests")
		dto.InternalServerError(ctx)
		return
	}

	resp := dto.EventResponse{
		Event:      ev,
		InviteURL:  s.inviteURL(ev),
		Progress:   progress,
		Invitation: wizard.InvitationText(ev.InvitationText, ev.EventType, ev.Details),
	}
	if created {
		dto.SuccessCreatedResponse(ctx, resp)
		return
	}
	dto.SuccessResponse(ctx, resp)
}

// OpenStep checks whether the wizard may move to the requested step.
func (s *service) OpenStep(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}
	n, err := strconv.Atoi(ctx.Param("step"))
	if err != nil {
		dto.FieldBadFormatError(ctx, "step")
		return
	}
	step, err := wizard.ParseStep(n)
	if err != nil {
		dto.FieldIncorrectError(ctx, wizard.MsgInvalidStepNumber)
		return
	}
	if !s.gate(ctx, ev, step) {
		return
	}

	dto.SuccessResponse(ctx, dto.StepOpenResponse{Step: int(step), Title: wizard.Titles[step], Open: true})
}

func (s *service) Progress(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}
	p, err := s.progress(ctx.Request.Context(), ev)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to count guests")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, p)
}
