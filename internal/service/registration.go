package service

import (
	"context"
	"errors"
	"strings"

	"github.com/wb-go/wbf/ginext"

	"eventplanner/internal/dto"
	"eventplanner/internal/model"
	"eventplanner/internal/repo"
	"eventplanner/pkg/validator"
)

const (
	msgRegistrationClosed = "Registrations are currently closed. Please check back later."
	msgSelectionRequired  = "Please select a category, event date, and event."
	msgEventUnavailable   = "Selected event is no longer available. Please choose another."
	msgEventGone          = "Unable to locate the selected event."
	msgRegistered         = "Thank you for registering. A confirmation email has been sent."
)

var (
	errEventGone   = errors.New("selected event no longer exists")
	errEventClosed = errors.New("selected event is outside its registration window")
)

func (s *service) RegistrationForm(ctx *ginext.Context) {
	active, err := s.repo.GetActiveCategories(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get active categories")
		dto.InternalServerError(ctx)
		return
	}

	categories := s.categories.Filter(active)
	if len(categories) == 0 {
		dto.SuccessResponse(ctx, dto.RegistrationFormResponse{
			Open:       false,
			Message:    msgRegistrationClosed,
			Categories: []dto.CategoryOption{},
			Dates:      []dto.Option{},
			Events:     []dto.Option{},
		})
		return
	}

	resp := dto.RegistrationFormResponse{Open: true}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, dto.CategoryOption{Value: c.Key, Label: c.Label})
	}

	resp.Category = categories[0].Key
	for _, c := range categories {
		if c.Key == ctx.Query("category") {
			resp.Category = c.Key
		}
	}

	wantDate, ok := queryInt(ctx, "event_date")
	if !ok {
		return
	}
	wantEvent, ok := queryInt(ctx, "event_id")
	if !ok {
		return
	}

	dates, err := s.repo.GetEventDatesByCategory(ctx, resp.Category, true)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get event dates")
		dto.InternalServerError(ctx)
		return
	}
	resp.Dates = s.dateOptions(dates)
	resp.EventDate = pick(wantDate, resp.Dates)

	resp.Events = []dto.Option{}
	if resp.EventDate != 0 {
		events, err := s.repo.GetEventsByCategoryAndDate(ctx, resp.Category, resp.EventDate, true)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to get events")
			dto.InternalServerError(ctx)
			return
		}
		resp.Events = eventOptions(events)
		resp.EventID = pick(wantEvent, resp.Events)
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) RegistrationDates(ctx *ginext.Context) {
	category := ctx.Query("category")
	if category == "" {
		dto.SuccessResponse(ctx, []dto.Option{})
		return
	}

	dates, err := s.repo.GetEventDatesByCategory(ctx, category, true)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get event dates")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, s.dateOptions(dates))
}

func (s *service) RegistrationEvents(ctx *ginext.Context) {
	category := ctx.Query("category")
	date, ok := queryInt(ctx, "event_date")
	if !ok {
		return
	}
	if category == "" || date == 0 {
		dto.SuccessResponse(ctx, []dto.Option{})
		return
	}

	events, err := s.repo.GetEventsByCategoryAndDate(ctx, category, date, true)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get events")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, eventOptions(events))
}

// registrationCheck is the outcome of validating a registration request.
type registrationCheck struct {
	errors    validator.FieldErrors
	duplicate bool
}

func (c registrationCheck) ok() bool { return len(c.errors) == 0 }

// validateRegistration runs every check of a registration request without
// writing anything. A non-nil error is a storage failure.
func (s *service) validateRegistration(ctx context.Context, req dto.CreateRegistrationRequest) (registrationCheck, error) {
	check := registrationCheck{errors: validator.Validate(ctx, req)}

	if req.Category == "" || req.EventDate == 0 || req.EventID == 0 {
		check.errors.Add("event_id", msgSelectionRequired)
		return check, nil
	}

	event, err := s.repo.GetEvent(ctx, req.EventID)
	if err != nil {
		return check, err
	}
	if event == nil || event.Category != req.Category || event.EventDate != req.EventDate ||
		!event.OpenAt(s.now().Unix()) {
		check.errors.Add("event_id", msgEventUnavailable)
		return check, nil
	}

	if !check.errors.Has("email") {
		exists, err := s.repo.RegistrationExists(ctx, event.EventDate, strings.ToLower(req.Email))
		if err != nil {
			return check, err
		}
		if exists {
			check.duplicate = true
			check.errors.Add("email", s.duplicateMessage(event.EventDate))
		}
	}

	return check, nil
}

func (s *service) duplicateMessage(eventDate int64) string {
	return "You have already registered for an event on " + s.formatDate(eventDate) + "."
}

// commitRegistration re-reads the event, checks its window again and stores
// the denormalized registration with the email lower-cased.
func (s *service) commitRegistration(ctx context.Context, req dto.CreateRegistrationRequest) (*model.Registration, error) {
	event, err := s.repo.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, errEventGone
	}
	if !event.OpenAt(s.now().Unix()) {
		return nil, errEventClosed
	}

	reg := &model.Registration{
		EventID:     event.ID,
		FullName:    req.FullName,
		Email:       strings.ToLower(req.Email),
		CollegeName: req.CollegeName,
		Department:  req.Department,
		Category:    event.Category,
		EventDate:   event.EventDate,
		EventName:   event.Name,
	}
	if _, err := s.repo.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *service) Register(ctx *ginext.Context) {
	var req dto.CreateRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	check, err := s.validateRegistration(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to validate registration")
		dto.InternalServerError(ctx)
		return
	}
	if !check.ok() {
		code := dto.FieldIncorrect
		if check.duplicate {
			code = dto.RegistrationDuplicate
		}
		dto.ValidationError(ctx, code, check.errors)
		return
	}

	reg, err := s.commitRegistration(ctx, req)
	switch {
	case errors.Is(err, errEventGone):
		s.log.Warn().Int64("event_id", req.EventID).Msg("event vanished between validation and submit")
		dto.EventNotFoundError(ctx, msgEventGone)
		return
	case errors.Is(err, errEventClosed):
		dto.ValidationError(ctx, dto.FieldIncorrect, map[string]string{"event_id": msgEventUnavailable})
		return
	case errors.Is(err, repo.ErrDuplicateRegistration):
		dto.ValidationError(ctx, dto.RegistrationDuplicate, map[string]string{"email": s.duplicateMessage(req.EventDate)})
		return
	case err != nil:
		s.log.Error().Err(err).Msg("failed to create registration")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("registration_id", reg.ID).Int64("event_id", reg.EventID).Msg("registration created successfully")

	s.notifier.Notify(ctx, *reg, s.categories.Label(reg.Category))

	dto.SuccessCreatedResponse(ctx, dto.MessageResponse{
		Message: msgRegistered,
		Data:    s.registrationResponse(*reg),
	})
}

func (s *service) registrationResponse(r model.Registration) dto.RegistrationResponse {
	return dto.RegistrationResponse{
		ID:          r.ID,
		EventID:     r.EventID,
		FullName:    r.FullName,
		Email:       r.Email,
		CollegeName: r.CollegeName,
		Department:  r.Department,
		Category:    r.Category,
		EventDate:   s.formatDate(r.EventDate),
		EventName:   r.EventName,
		Submitted:   s.formatDateTime(r.Created),
	}
}
