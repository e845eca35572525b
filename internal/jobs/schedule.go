package jobs

import (
	"context"
	"fmt"
	"taskpal/infras/otel"
	authorizedService "taskpal/internal/domains/authorized/service"
	bookingModel "taskpal/internal/domains/booking/model"
	bookingRepository "taskpal/internal/domains/booking/repository"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/timezone"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	SpecDelegateSweep = "@hourly"
	SpecReminders     = "0 8 * * *"
)

// Scheduler runs the periodic jobs of the worker.
type Scheduler struct {
	authorized  authorizedService.AuthorizedUser
	bookingRepo bookingRepository.Booking
	mailer      BookingMailer
	otel        otel.Otel
}

func NewScheduler(authorized authorizedService.AuthorizedUser, bookingRepo bookingRepository.Booking, mailer BookingMailer, otel otel.Otel) *Scheduler {
	return &Scheduler{
		authorized:  authorized,
		bookingRepo: bookingRepo,
		mailer:      mailer,
		otel:        otel,
	}
}

// Start registers the jobs on a cron running in the application timezone.
func (s *Scheduler) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(timezone.GetLocation()))

	if _, err := c.AddFunc(SpecDelegateSweep, func() { s.SweepDelegates(ctx) }); err != nil {
		return nil, fmt.Errorf("failed to schedule delegate sweep: %w", err)
	}

	if _, err := c.AddFunc(SpecReminders, func() { s.SendReminders(ctx, timezone.Now()) }); err != nil {
		return nil, fmt.Errorf("failed to schedule reminders: %w", err)
	}

	c.Start()

	log.Info().Int("jobs", len(c.Entries())).Msg("cron scheduler started")

	return c, nil
}

func (s *Scheduler) SweepDelegates(ctx context.Context) {
	if _, err := s.authorized.DeactivateExpired(ctx); err != nil {
		log.Error().Err(err).Msg("failed to deactivate expired authorized users")
	}
}

// SendReminders mails the parties of every Confirmed or Paid booking scheduled on
// the day after now.
func (s *Scheduler) SendReminders(ctx context.Context, now time.Time) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".SendReminders")
	defer scope.End()

	from, to := tomorrow(now)

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, reminderFilter(from, to))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings for reminders")

		return
	}

	sent := 0

	for _, booking := range bookings {
		if err := s.mailer.Remind(ctx, booking.ID); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to send booking reminder")

			continue
		}

		sent++
	}

	log.Info().Int("bookings", len(bookings)).Int("sent", sent).Msg("booking reminders sent")
}

// tomorrow returns the start and end of the calendar day after now.
func tomorrow(now time.Time) (time.Time, time.Time) {
	year, month, day := now.Date()
	start := time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())

	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func reminderFilter(from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Value:    []string{bookingModel.StatusConfirmed, bookingModel.StatusPaid},
				Operator: gDto.FilterOperatorIn,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				ArgName:  "scheduled_from",
				Field:    bookingModel.FieldScheduledDate,
				Value:    from,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				ArgName:  "scheduled_to",
				Field:    bookingModel.FieldScheduledDate,
				Value:    to,
				Operator: gDto.FilterOperatorLessEq,
				Table:    bookingModel.TableName,
			},
		},
	}
}
