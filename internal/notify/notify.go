// Package notify sends the registration emails.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"eventplanner/internal/mailer"
	"eventplanner/internal/model"
	"eventplanner/internal/settings"
)

const DateLayout = "2006-01-02"

type Service struct {
	sender   mailer.Sender
	settings settings.Store
	loc      *time.Location
	log      *zerolog.Logger
}

func NewService(sender mailer.Sender, st settings.Store, loc *time.Location, log *zerolog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{sender: sender, settings: st, loc: loc, log: log}
}

// Params builds the template parameters for a registration.
func (s *Service) Params(reg model.Registration, categoryLabel string) map[string]string {
	return map[string]string{
		"full_name":    reg.FullName,
		"event_name":   reg.EventName,
		"event_date":   time.Unix(reg.EventDate, 0).In(s.loc).Format(DateLayout),
		"category":     categoryLabel,
		"email":        reg.Email,
		"college_name": reg.CollegeName,
		"department":   reg.Department,
	}
}

// Notify mails the registrant and, when enabled, the administrator.
// Failures are logged and never returned.
func (s *Service) Notify(ctx context.Context, reg model.Registration, categoryLabel string) {
	params := s.Params(reg, categoryLabel)

	s.send(ctx, mailer.Message{Key: mailer.KeyUserConfirmation, To: reg.Email, Params: params})

	st, err := s.settings.Load(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load notification settings")
		return
	}
	if st.NotifyAdmin && st.AdminNotificationEmail != "" {
		s.send(ctx, mailer.Message{Key: mailer.KeyAdminNotification, To: st.AdminNotificationEmail, Params: params})
	}
}

func (s *Service) send(ctx context.Context, msg mailer.Message) {
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Warn().Err(err).Str("template", msg.Key).Str("to", msg.To).Msg("failed to send notification")
	}
}
