package jobs

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"taskpal/config"
	"taskpal/infras/kafka"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Worker consumes the domain event topic and runs the cron jobs until SIGTERM.
type Worker struct {
	client    kafka.Client
	mailer    BookingMailer
	scheduler *Scheduler
	cfg       *config.Config
}

func NewWorker(client kafka.Client, mailer BookingMailer, scheduler *Scheduler, cfg *config.Config) *Worker {
	return &Worker{
		client:    client,
		mailer:    mailer,
		scheduler: scheduler,
		cfg:       cfg,
	}
}

func (w *Worker) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler, err := w.scheduler.Start(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	kafkaConfig := w.cfg.External.Kafka

	if len(kafkaConfig.Brokers) == 0 {
		log.Warn().Msg("kafka brokers not configured, running cron jobs only")

		<-ctx.Done()
	} else {
		log.Info().Str("topic", kafkaConfig.Topic).Str("group", kafkaConfig.ConsumerGroup).Msg("Starting domain event consumer.")

		w.client.Consume(ctx, kafkaConfig.ConsumerGroup, kafkaConfig.Topic, w.handle)
	}

	<-scheduler.Stop().Done()

	if err = w.client.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka client")
	}

	log.Info().Msg("Worker stopped.")
}

func (w *Worker) handle(ctx context.Context, message kafkaGo.Message) {
	event, err := kafka.Decode[kafka.Event](message)
	if err != nil {
		return
	}

	// Mail already being sent is finished even when shutdown starts.
	if err = w.mailer.HandleEvent(context.WithoutCancel(ctx), event); err != nil {
		log.Error().Err(err).Str("event", event.Type).Str("booking_id", event.BookingID).Msg("failed to handle domain event")
	}
}
