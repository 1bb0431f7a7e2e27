package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-go/wbf/ginext"

	"eventplanner/internal/category"
	"eventplanner/internal/dto"
	"eventplanner/internal/model"
	"eventplanner/pkg/validator"
)

var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

func parseDateTime(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported datetime %q", raw)
}

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, loc)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// validateEvent checks an event creation request and, when it is valid,
// returns the event to store: epoch seconds, registration end moved to
// 23:59:59 of its day and event date at the start of its day.
func validateEvent(ctx context.Context, req dto.CreateEventRequest, cats *category.Catalog, loc *time.Location) (model.Event, validator.FieldErrors) {
	fe := validator.Validate(ctx, req)

	if req.Category != "" && !cats.Has(req.Category) {
		fe.Add("category", "Unknown category")
	}

	var start, end, day time.Time
	var err error
	if !fe.Has("registration_start") {
		if start, err = parseDateTime(req.RegistrationStart, loc); err != nil {
			fe.Add("registration_start", validator.ErrInvalidFormat)
		}
	}
	if !fe.Has("registration_end") {
		if end, err = parseDateTime(req.RegistrationEnd, loc); err != nil {
			fe.Add("registration_end", validator.ErrInvalidFormat)
		}
	}
	if !fe.Has("event_date") {
		if day, err = parseDate(req.EventDate, loc); err != nil {
			fe.Add("event_date", validator.ErrInvalidFormat)
		}
	}

	if !start.IsZero() && !end.IsZero() && start.After(end) {
		fe.Add("registration_end", "Registration end must be after the start.")
	}
	if !start.IsZero() && !day.IsZero() && day.Before(startOfDay(start)) {
		fe.Add("event_date", "Event date must be after registration start.")
	}

	if len(fe) > 0 {
		return model.Event{}, fe
	}
	return model.Event{
		Name:              req.Name,
		Category:          req.Category,
		RegistrationStart: start.Unix(),
		RegistrationEnd:   endOfDay(end).Unix(),
		EventDate:         day.Unix(),
	}, nil
}

func (s *service) CreateEvent(ctx *ginext.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create event request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	event, fe := validateEvent(ctx, req, s.categories, s.loc)
	if len(fe) > 0 {
		s.log.Debug().Msgf("event validation failed: %v", fe)
		dto.ValidationError(ctx, dto.FieldIncorrect, fe)
		return
	}

	id, err := s.repo.CreateEvent(ctx, &event)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event in DB")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("event_id", id).Str("event_name", event.Name).Msg("event created successfully")

	dto.SuccessCreatedResponse(ctx, dto.MessageResponse{
		Message: fmt.Sprintf("Event %s saved.", event.Name),
		Data:    s.eventResponse(event),
	})
}

func (s *service) ListEvents(ctx *ginext.Context) {
	events, err := s.repo.GetEvents(ctx, false)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list events")
		dto.InternalServerError(ctx)
		return
	}

	resp := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, s.eventResponse(e))
	}
	dto.SuccessResponse(ctx, resp)
}

func (s *service) eventResponse(e model.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:                e.ID,
		Name:              e.Name,
		Category:          e.Category,
		CategoryLabel:     s.categories.Label(e.Category),
		RegistrationStart: s.formatDateTime(e.RegistrationStart),
		RegistrationEnd:   s.formatDateTime(e.RegistrationEnd),
		EventDate:         s.formatDate(e.EventDate),
		RegistrationOpen:  e.OpenAt(s.now().Unix()),
		Created:           e.Created,
	}
}
