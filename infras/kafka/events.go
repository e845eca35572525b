package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"taskpal/config"
	"taskpal/infras/otel"
	"taskpal/shared/constant"
	"taskpal/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	EventBookingCreated     = "booking.created"
	EventPaymentCompleted   = "payment.completed"
	EventExecutionCompleted = "execution.completed"

	headerEventType = "event-type"
)

// Event is the envelope written to the domain event topic. Events are keyed by
// booking so that consumers see the events of one booking in order.
type Event struct {
	Type       string         `json:"type"`
	BookingID  string         `json:"booking_id"`
	ClientID   string         `json:"client_id"`
	ProviderID string         `json:"provider_id"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func (e Event) Message(ctx context.Context) Message {
	headers := map[string]string{headerEventType: e.Type}
	InjectTrace(ctx, headers)

	return Message{Key: e.BookingID, Value: e, Headers: headers}
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type publisherImpl struct {
	client Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewPublisher(client Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

// Publish is fire-and-forget: delivery failures are logged and never surface to the caller.
func (p *publisherImpl) Publish(ctx context.Context, event Event) {
	if len(p.cfg.External.Kafka.Brokers) == 0 {
		log.Debug().Str("event", event.Type).Msg("kafka brokers not configured, skipping domain event")

		return
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = timezone.Now()
	}

	go func() {
		c, scope := p.otel.NewScope(context.WithoutCancel(ctx), constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"event.type":       event.Type,
			"event.booking_id": event.BookingID,
		})

		err := p.client.SendMessages(c, p.cfg.External.Kafka.Topic, event.Message(c))
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("event", event.Type).Msg("failed to publish domain event")
		}
	}()
}
