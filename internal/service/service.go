package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"eventplanner/internal/category"
	"eventplanner/internal/dto"
	"eventplanner/internal/model"
	"eventplanner/internal/repo"
	"eventplanner/internal/settings"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

type Service interface {
	Categories(ctx *ginext.Context)

	CreateEvent(ctx *ginext.Context)
	ListEvents(ctx *ginext.Context)

	RegistrationForm(ctx *ginext.Context)
	RegistrationDates(ctx *ginext.Context)
	RegistrationEvents(ctx *ginext.Context)
	Register(ctx *ginext.Context)

	AdminEventDates(ctx *ginext.Context)
	AdminDateEvents(ctx *ginext.Context)
	ListRegistrations(ctx *ginext.Context)
	ExportRegistrations(ctx *ginext.Context)

	GetSettings(ctx *ginext.Context)
	UpdateSettings(ctx *ginext.Context)
}

// Notifier is satisfied by *notify.Service.
type Notifier interface {
	Notify(ctx context.Context, reg model.Registration, categoryLabel string)
}

type service struct {
	repo       repo.Repository
	categories *category.Catalog
	settings   settings.Store
	notifier   Notifier
	loc        *time.Location
	now        func() time.Time
	log        *zerolog.Logger
}

func NewService(
	repo repo.Repository,
	categories *category.Catalog,
	st settings.Store,
	notifier Notifier,
	loc *time.Location,
	logger *zerolog.Logger,
) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:       repo,
		categories: categories,
		settings:   st,
		notifier:   notifier,
		loc:        loc,
		now:        time.Now,
		log:        logger,
	}
}

func (s *service) Categories(ctx *ginext.Context) {
	dto.SuccessResponse(ctx, s.categories.All())
}

func (s *service) formatDate(ts int64) string {
	return time.Unix(ts, 0).In(s.loc).Format(dateLayout)
}

func (s *service) formatDateTime(ts int64) string {
	return time.Unix(ts, 0).In(s.loc).Format(dateTimeLayout)
}

func (s *service) dateOptions(dates []int64) []dto.Option {
	out := make([]dto.Option, 0, len(dates))
	for _, d := range dates {
		out = append(out, dto.Option{Value: d, Label: s.formatDate(d)})
	}
	return out
}

func eventOptions(events []model.Event) []dto.Option {
	out := make([]dto.Option, 0, len(events))
	for _, e := range events {
		out = append(out, dto.Option{Value: e.ID, Label: e.Name})
	}
	return out
}

// pick returns want when it is among options, else the first option, else 0.
func pick(want int64, options []dto.Option) int64 {
	if len(options) == 0 {
		return 0
	}
	for _, o := range options {
		if o.Value == want {
			return want
		}
	}
	return options[0].Value
}

// queryInt parses an optional integer query parameter. A missing value is 0.
func queryInt(ctx *ginext.Context, name string) (int64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		dto.FieldBadFormatError(ctx, name)
		return 0, false
	}
	return v, true
}
