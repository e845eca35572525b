package jobs

//go:generate go run go.uber.org/mock/mockgen -source=./mail.go -destination=./mocks/mail_mock.go -package=mocks

import (
	"context"
	"fmt"
	"html/template"
	"taskpal/config"
	"taskpal/infras/kafka"
	"taskpal/infras/mailer"
	"taskpal/infras/otel"
	bookingModel "taskpal/internal/domains/booking/model"
	bookingRepository "taskpal/internal/domains/booking/repository"
	providerModel "taskpal/internal/domains/provider/model"
	providerRepository "taskpal/internal/domains/provider/repository"
	userModel "taskpal/internal/domains/user/model"
	userRepository "taskpal/internal/domains/user/repository"
	"taskpal/shared"
	"taskpal/shared/constant"
	"taskpal/shared/timezone"

	"github.com/rs/zerolog/log"
)

const scheduleLayout = "Mon, 02 Jan 2006 15:04"

// BookingMailer sends the booking lifecycle e-mails.
type BookingMailer interface {
	HandleEvent(ctx context.Context, event kafka.Event) error
	Remind(ctx context.Context, bookingID string) error
}

type bookingMailerImpl struct {
	bookingRepo  bookingRepository.Booking
	userRepo     userRepository.User
	providerRepo providerRepository.Provider
	mailer       mailer.Mailer
	cfg          *config.Config
	otel         otel.Otel
}

func NewBookingMailer(
	bookingRepo bookingRepository.Booking,
	userRepo userRepository.User,
	providerRepo providerRepository.Provider,
	mailer mailer.Mailer,
	cfg *config.Config,
	otel otel.Otel,
) BookingMailer {
	return &bookingMailerImpl{
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		providerRepo: providerRepo,
		mailer:       mailer,
		cfg:          cfg,
		otel:         otel,
	}
}

// parties loads what every booking e-mail needs.
type parties struct {
	booking  bookingModel.Booking
	client   userModel.User
	provider providerModel.Provider
}

// HandleEvent mails the party a domain event concerns. Events for bookings that no
// longer exist are dropped.
func (h *bookingMailerImpl) HandleEvent(ctx context.Context, event kafka.Event) (err error) {
	ctx, scope := h.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".HandleEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		"event.type":       event.Type,
		"event.booking_id": event.BookingID,
	})

	switch event.Type {
	case kafka.EventBookingCreated, kafka.EventPaymentCompleted, kafka.EventExecutionCompleted:
	default:
		log.Warn().Str("event", event.Type).Msg("ignoring unknown domain event")

		return nil
	}

	p, err := h.load(ctx, event.BookingID)
	if err != nil {
		return err
	}

	if p.booking.ID == "" {
		log.Warn().Str("booking_id", event.BookingID).Str("event", event.Type).Msg("booking no longer exists, skipping e-mail")

		return nil
	}

	data := h.data(p)

	var (
		to      string
		subject string
		tmpl    *template.Template
	)

	switch event.Type {
	case kafka.EventBookingCreated:
		to, subject, tmpl = p.provider.Email, "New booking request", mailer.BookingCreatedTemplate
		data.RecipientName, data.CounterPart = p.provider.DisplayName(), p.client.FullName()
	case kafka.EventPaymentCompleted:
		to, subject, tmpl = p.client.Email, "Payment receipt", mailer.PaymentReceiptTemplate
		data.RecipientName, data.CounterPart = p.client.FullName(), p.provider.DisplayName()
		data.Amount = amount(event.Data)
	case kafka.EventExecutionCompleted:
		to, subject, tmpl = p.client.Email, "How did it go?", mailer.ReviewInviteTemplate
		data.RecipientName, data.CounterPart = p.client.FullName(), p.provider.DisplayName()
	}

	return h.send(ctx, to, subject, tmpl, data)
}

// Remind mails both parties about a booking scheduled soon.
func (h *bookingMailerImpl) Remind(ctx context.Context, bookingID string) (err error) {
	ctx, scope := h.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".Remind")
	defer scope.End()
	defer scope.TraceIfError(err)

	p, err := h.load(ctx, bookingID)
	if err != nil {
		return err
	}

	if p.booking.ID == "" {
		return nil
	}

	const subject = "Booking reminder"

	data := h.data(p)
	data.RecipientName, data.CounterPart = p.client.FullName(), p.provider.DisplayName()

	if err = h.send(ctx, p.client.Email, subject, mailer.ReminderTemplate, data); err != nil {
		return err
	}

	data.RecipientName, data.CounterPart = p.provider.DisplayName(), p.client.FullName()

	return h.send(ctx, p.provider.Email, subject, mailer.ReminderTemplate, data)
}

func (h *bookingMailerImpl) data(p parties) mailer.BookingData {
	return mailer.BookingData{
		AppName:       h.cfg.App.Name,
		BookingID:     p.booking.ID,
		ScheduledDate: timezone.ToAppTime(p.booking.ScheduledDate).Format(scheduleLayout),
		Link:          h.cfg.App.FrontendURL,
	}
}

func (h *bookingMailerImpl) load(ctx context.Context, bookingID string) (res parties, err error) {
	res.booking, err = h.bookingRepo.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if res.booking.ID == "" {
		return res, nil
	}

	res.client, err = h.userRepo.Get(ctx, shared.FilterByID(res.booking.ClientID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get client")

		return res, fmt.Errorf("failed to get client: %w", err)
	}

	res.provider, err = h.providerRepo.Get(ctx, shared.FilterByID(res.booking.ProviderID, providerModel.FieldID, providerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider")

		return res, fmt.Errorf("failed to get provider: %w", err)
	}

	return res, nil
}

func (h *bookingMailerImpl) send(ctx context.Context, to, subject string, tmpl *template.Template, data mailer.BookingData) error {
	if to == "" {
		log.Warn().Str("booking_id", data.BookingID).Str("subject", subject).Msg("recipient has no e-mail, skipping")

		return nil
	}

	body, err := mailer.Render(tmpl, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to render mail")

		return fmt.Errorf("failed to render mail: %w", err)
	}

	if err = h.mailer.Send(ctx, mailer.Mail{To: to, Subject: h.cfg.App.Name + ": " + subject, Body: body}); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}

// amount formats the amount and currency carried by payment.completed.
func amount(data map[string]any) string {
	value, _ := data["amount"].(float64)
	currency, _ := data["currency"].(string)

	return fmt.Sprintf("%s %.2f", currency, value)
}
