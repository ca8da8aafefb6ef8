package service

import (
	"errors"

	"github.com/wb-go/wbf/ginext"

	"eventInvite/internal/auth"
	"eventInvite/internal/dto"
	"eventInvite/internal/repo"
	"eventInvite/pkg/validator"
)

func (s *service) bindAuth(ctx *ginext.Context) (dto.AuthRequest, bool) {
	var req dto.AuthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse auth request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, msgBadJSON)
		return req, false
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.FieldIncorrectError(ctx, verr.Error())
		return req, false
	}
	return req, true
}

func (s *service) SignUp(ctx *ginext.Context) {
	req, ok := s.bindAuth(ctx)
	if !ok {
		return
	}

	token, organizer, err := s.auth.SignUp(ctx.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, repo.ErrEmailTaken):
		dto.EmailTakenError(ctx)
		return
	case errors.Is(err, auth.ErrWeakPassword):
		dto.FieldIncorrectError(ctx, err.Error())
		return
	case err != nil:
		s.log.Error().Err(err).Msg("failed to sign up organizer")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Str("organizer_id", organizer.ID).Msg("organizer signed up")
	dto.SuccessCreatedResponse(ctx, dto.AuthResponse{Token: token, Organizer: organizer})
}

func (s *service) SignIn(ctx *ginext.Context) {
	req, ok := s.bindAuth(ctx)
	if !ok {
		return
	}

	token, organizer, err := s.auth.SignIn(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			dto.FieldIncorrectError(ctx, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("failed to sign in organizer")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.AuthResponse{Token: token, Organizer: organizer})
}

func (s *service) SignOut(ctx *ginext.Context) {
	p, ok := principal(ctx)
	if !ok {
		dto.UnauthorizedError(ctx)
		return
	}
	if err := s.auth.SignOut(ctx.Request.Context(), p); err != nil {
		s.log.Error().Err(err).Str("session_id", p.SessionID).Msg("failed to sign out")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, nil)
}

func (s *service) Session(ctx *ginext.Context) {
	p, ok := principal(ctx)
	if !ok {
		dto.UnauthorizedError(ctx)
		return
	}
	organizer, err := s.auth.Organizer(ctx.Request.Context(), p)
	if err != nil {
		if errors.Is(err, repo.ErrOrganizerNotFound) {
			dto.UnauthorizedError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to load organizer")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, dto.AuthResponse{Organizer: organizer})
}
