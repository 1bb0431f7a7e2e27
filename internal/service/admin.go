package service

import (
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"eventplanner/internal/dto"
	"eventplanner/internal/export"
	"eventplanner/internal/model"
)

const msgNoRegistrations = "No registrations available yet."

func (s *service) AdminEventDates(ctx *ginext.Context) {
	dates, err := s.repo.GetAllEventDates(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get event dates")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, s.dateOptions(dates))
}

func (s *service) AdminDateEvents(ctx *ginext.Context) {
	date, ok := queryInt(ctx, "event_date")
	if !ok {
		return
	}
	if date == 0 {
		dto.SuccessResponse(ctx, []dto.Option{})
		return
	}

	events, err := s.repo.GetEventsByDate(ctx, date)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get events by date")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, eventOptions(events))
}

// ListRegistrations resolves the date -> event filters the way the admin
// screen shows them: an unknown or missing selection falls back to the
// first option.
func (s *service) ListRegistrations(ctx *ginext.Context) {
	wantDate, ok := queryInt(ctx, "event_date")
	if !ok {
		return
	}
	wantEvent, ok := queryInt(ctx, "event_id")
	if !ok {
		return
	}

	dates, err := s.repo.GetAllEventDates(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get event dates")
		dto.InternalServerError(ctx)
		return
	}
	if len(dates) == 0 {
		dto.SuccessResponse(ctx, dto.RegistrationListResponse{
			Empty:         true,
			Message:       msgNoRegistrations,
			Dates:         []dto.Option{},
			Events:        []dto.Option{},
			Registrations: []dto.RegistrationResponse{},
		})
		return
	}

	resp := dto.RegistrationListResponse{Dates: s.dateOptions(dates)}
	resp.EventDate = pick(wantDate, resp.Dates)

	events, err := s.repo.GetEventsByDate(ctx, resp.EventDate)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get events by date")
		dto.InternalServerError(ctx)
		return
	}
	resp.Events = eventOptions(events)
	resp.EventID = pick(wantEvent, resp.Events)

	filter := model.RegistrationFilter{EventDate: resp.EventDate, EventID: resp.EventID}
	regs, err := s.repo.GetRegistrations(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get registrations")
		dto.InternalServerError(ctx)
		return
	}
	resp.Count, err = s.repo.CountRegistrations(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count registrations")
		dto.InternalServerError(ctx)
		return
	}

	resp.Registrations = make([]dto.RegistrationResponse, 0, len(regs))
	for _, r := range regs {
		resp.Registrations = append(resp.Registrations, s.registrationResponse(r))
	}
	dto.SuccessResponse(ctx, resp)
}

func (s *service) ExportRegistrations(ctx *ginext.Context) {
	date, ok := queryInt(ctx, "event_date")
	if !ok {
		return
	}
	eventID, ok := queryInt(ctx, "event_id")
	if !ok {
		return
	}

	regs, err := s.repo.GetRegistrations(ctx, model.RegistrationFilter{EventDate: date, EventID: eventID})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get registrations for export")
		dto.InternalServerError(ctx)
		return
	}

	ctx.Header("Content-Type", export.ContentType)
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	ctx.Status(http.StatusOK)
	if err := export.WriteRegistrations(ctx.Writer, regs, s.loc); err != nil {
		s.log.Error().Err(err).Msg("failed to write csv export")
		return
	}

	s.log.Info().Int("rows", len(regs)).Msg("registrations exported")
}
