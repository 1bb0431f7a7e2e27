package mailer

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/rs/zerolog"
)

const (
	KeyUserConfirmation  = "user_confirmation"
	KeyAdminNotification = "admin_notification"
)

// Message is a templated mail addressed to a single recipient.
type Message struct {
	Key    string            `json:"key"`
	To     string            `json:"to"`
	Params map[string]string `json:"params"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type mailTemplate struct {
	subject *template.Template
	body    *template.Template
}

var templates = map[string]mailTemplate{
	KeyUserConfirmation: {
		subject: template.Must(template.New("subject").Parse(`Registration confirmed: {{.event_name}}`)),
		body: template.Must(template.New("body").Parse(`Hello {{.full_name}},

Thank you for registering for {{.event_name}} ({{.category}}) on {{.event_date}}.

College: {{.college_name}}
Department: {{.department}}
`)),
	},
	KeyAdminNotification: {
		subject: template.Must(template.New("subject").Parse(`New registration: {{.event_name}}`)),
		body: template.Must(template.New("body").Parse(`A new registration was submitted.

Name: {{.full_name}}
Email: {{.email}}
Event: {{.event_name}}
Category: {{.category}}
Event date: {{.event_date}}
College: {{.college_name}}
Department: {{.department}}
`)),
	},
}

// Render returns the subject and body for msg.
func Render(msg Message) (string, string, error) {
	tpl, ok := templates[msg.Key]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", msg.Key)
	}

	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, msg.Params); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	if err := tpl.body.Execute(&body, msg.Params); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return subject.String(), body.String(), nil
}

// LogSender writes rendered messages to the log instead of delivering them.
type LogSender struct {
	log *zerolog.Logger
}

func NewLogSender(log *zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}
	s.log.Info().
		Str("template", msg.Key).
		Str("to", msg.To).
		Str("subject", subject).
		Str("body", body).
		Msg("mail not delivered (log transport)")
	return nil
}
