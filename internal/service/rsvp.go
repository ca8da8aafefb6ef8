package service

import (
	"errors"

	"github.com/wb-go/wbf/ginext"

	"eventInvite/internal/dto"
	"eventInvite/internal/model"
	"eventInvite/internal/repo"
	"eventInvite/internal/rsvp"
	"eventInvite/pkg/validator"
)

const (
	msgLoadFailed = "שגיאה בטעינת הנתונים"
	msgSaveFailed = "אירעה שגיאה בשמירה."
)

func mealInfo() []dto.MealInfo {
	out := make([]dto.MealInfo, 0, len(rsvp.MealCategories))
	for _, m := range rsvp.MealCategories {
		out = append(out, dto.MealInfo{Key: m.Key, Label: m.Label})
	}
	return out
}

func (s *service) publicIDs(ctx *ginext.Context) (int64, int64, bool) {
	eventID, ok := parseID(ctx, "eventId")
	if !ok {
		return 0, 0, false
	}
	guestID, ok := parseID(ctx, "guestId")
	if !ok {
		return 0, 0, false
	}
	return eventID, guestID, true
}

// GetRSVP serves the public guest page. The guest must belong to the event.
func (s *service) GetRSVP(ctx *ginext.Context) {
	eventID, guestID, ok := s.publicIDs(ctx)
	if !ok {
		return
	}

	guest, err := s.repo.GetGuest(ctx.Request.Context(), eventID, guestID)
	if err == nil {
		var ev *model.Event
		ev, err = s.repo.GetEventByID(ctx.Request.Context(), eventID)
		if err == nil {
			dto.SuccessResponse(ctx, dto.GuestPageResponse{
				Guest:     guest,
				EventType: ev.EventType,
				InviteURL: s.inviteURL(ev),
				Meals:     mealInfo(),
			})
			return
		}
	}

	if errors.Is(err, repo.ErrGuestNotFound) || errors.Is(err, repo.ErrEventNotFound) {
		dto.GuestNotFoundError(ctx, msgLoadFailed)
		return
	}
	s.log.Error().Err(err).Int64("event_id", eventID).Int64("guest_id", guestID).Msg("failed to load RSVP page")
	dto.InternalServerError(ctx, msgLoadFailed)
}

// AnswerRSVP stores the guest's answer and tells the organizer about it.
func (s *service) AnswerRSVP(ctx *ginext.Context) {
	eventID, guestID, ok := s.publicIDs(ctx)
	if !ok {
		return
	}

	var req dto.RSVPAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse RSVP answer")
		dto.BadResponseError(ctx, dto.FieldIncorrect, msgBadJSON)
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.FieldIncorrectError(ctx, verr.Error())
		return
	}

	resp, err := rsvp.Resolve(rsvp.Answer{
		Attending:    req.Attending,
		Adults:       req.Adults,
		Children:     req.Children,
		SpecialMeals: req.SpecialMeals,
		Allergies:    req.Allergies,
	})
	if err != nil {
		dto.FieldIncorrectError(ctx, err.Error())
		return
	}

	guest, err := s.repo.UpdateGuestResponse(ctx.Request.Context(), eventID, guestID, resp)
	if err != nil {
		if errors.Is(err, repo.ErrGuestNotFound) {
			dto.GuestNotFoundError(ctx, msgLoadFailed)
			return
		}
		s.log.Error().Err(err).Int64("guest_id", guestID).Msg("failed to save RSVP answer")
		dto.InternalServerError(ctx, msgSaveFailed)
		return
	}

	s.log.Info().Int64("event_id", eventID).Int64("guest_id", guestID).Str("status", string(guest.Status)).Msg("RSVP answered")
	s.publish(ctx.Request.Context(), dto.JobMessage{
		Kind:        dto.JobRSVPAnswered,
		EventID:     eventID,
		GuestID:     guestID,
		OrganizerID: guest.OrganizerID,
	}, 0)

	dto.SuccessResponse(ctx, guest)
}

// SaveHeadcount records the organizer's own headcount entry for the event.
func (s *service) SaveHeadcount(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}

	var req dto.HeadcountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse headcount request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, msgBadJSON)
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.FieldIncorrectError(ctx, verr.Error())
		return
	}
	meals, allergies, err := rsvp.ValidateHeadcount(req.Adults, req.Children, req.SpecialMeals, req.Allergies)
	if err != nil {
		dto.FieldIncorrectError(ctx, err.Error())
		return
	}

	sub := &model.RSVPSubmission{
		EventID:      ev.ID,
		EventType:    ev.EventType,
		Adults:       req.Adults,
		Children:     req.Children,
		SpecialMeals: meals,
		Allergies:    allergies,
	}

	id, err := s.repo.CreateRSVPSubmission(ctx.Request.Context(), sub)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to save headcount")
		dto.InternalServerError(ctx, msgSaveFailed)
		return
	}
	sub.ID = id

	dto.SuccessCreatedResponse(ctx, sub)
}
