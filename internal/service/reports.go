package service

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"eventInvite/internal/dto"
	"eventInvite/internal/model"
	"eventInvite/internal/report"
)

const msgCSVApprovedOnly = "ניתן לייצא רק את רשימת המאשרים"

// Report is step 5: guests of one status with their meal totals.
func (s *service) Report(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}
	status, err := report.ParseStatus(ctx.Param("status"))
	if err != nil {
		dto.FieldBadFormatError(ctx, "status")
		return
	}

	guests, err := s.repo.ListGuestsByStatus(ctx.Request.Context(), ev.ID, status)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to load report guests")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, dto.ReportResponse(report.Build(guests, status)))
}

// ApprovedCSV downloads the approved guests as a spreadsheet-friendly CSV.
func (s *service) ApprovedCSV(ctx *ginext.Context) {
	ev, ok := s.ownedEvent(ctx)
	if !ok {
		return
	}
	if ctx.Param("status") != string(model.StatusApproved) {
		dto.FieldIncorrectError(ctx, msgCSVApprovedOnly)
		return
	}

	guests, err := s.repo.ListGuestsByStatus(ctx.Request.Context(), ev.ID, model.StatusApproved)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", ev.ID).Msg("failed to load approved guests")
		dto.InternalServerError(ctx)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+report.CSVFileName+`"`)
	ctx.Data(http.StatusOK, report.CSVContentType, report.ApprovedCSV(guests))
}
