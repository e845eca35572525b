package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"taskpal/config"
	"taskpal/infras/otel"
	"taskpal/shared/constant"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

const (
	contentTypeHTML = "text/html"
)

type Mail struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type mailerImpl struct {
	cfg    *config.Config
	dialer dialer
	otel   otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Mailer {
	smtp := cfg.External.SMTP

	return &mailerImpl{
		cfg:    cfg,
		dialer: gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password),
		otel:   otel,
	}
}

func (m *mailerImpl) Send(ctx context.Context, mail Mail) (err error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelMailerScopeName, constant.OtelMailerScopeName+".Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("mail.subject", mail.Subject)

	if m.cfg.External.SMTP.Host == "" {
		log.Warn().Str("to", mail.To).Str("subject", mail.Subject).Msg("smtp is not configured, mail not sent")

		return nil
	}

	from := m.cfg.External.SMTP.From
	if from == "" {
		from = m.cfg.External.SMTP.Username
	}

	message := gomail.NewMessage()
	message.SetHeader("From", message.FormatAddress(from, m.cfg.App.Name))
	message.SetHeader("To", mail.To)
	message.SetHeader("Subject", mail.Subject)
	message.SetBody(contentTypeHTML, mail.Body)

	if err = m.dialer.DialAndSend(message); err != nil {
		log.Error().Err(err).Str("to", mail.To).Msg("failed to send mail")

		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}

// Render executes one of the html templates in templates.go.
func Render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render mail template %s: %w", tmpl.Name(), err)
	}

	return buf.String(), nil
}
