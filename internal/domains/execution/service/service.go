package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskpal/infras/kafka"
	"taskpal/infras/otel"
	"taskpal/infras/postgres"
	"taskpal/infras/realtime"
	bookingModel "taskpal/internal/domains/booking/model"
	bookingDto "taskpal/internal/domains/booking/model/dto"
	bookingRepo "taskpal/internal/domains/booking/repository"
	"taskpal/internal/domains/execution/model"
	"taskpal/internal/domains/execution/model/dto"
	"taskpal/internal/domains/execution/repository"
	notificationModel "taskpal/internal/domains/notification/model"
	notificationDto "taskpal/internal/domains/notification/model/dto"
	notificationService "taskpal/internal/domains/notification/service"
	"taskpal/shared"
	"taskpal/shared/constant"
	"taskpal/shared/failure"
	"taskpal/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Execution interface {
	GetOrCreate(ctx context.Context, bookingID string) (dto.ExecutionResponse, error)
	UpdateField(ctx context.Context, req dto.UpdateFieldRequest, bookingID string) (dto.ExecutionResponse, error)
}

type serviceImpl struct {
	repo         repository.Execution
	bookingRepo  bookingRepo.Booking
	transactor   postgres.Transactor
	notification notificationService.Notification
	broadcaster  realtime.Broadcaster
	publisher    kafka.Publisher
	otel         otel.Otel
}

func New(
	repo repository.Execution,
	bookingRepo bookingRepo.Booking,
	transactor postgres.Transactor,
	notification notificationService.Notification,
	broadcaster realtime.Broadcaster,
	publisher kafka.Publisher,
	otel otel.Otel,
) Execution {
	return &serviceImpl{
		repo:         repo,
		bookingRepo:  bookingRepo,
		transactor:   transactor,
		notification: notification,
		broadcaster:  broadcaster,
		publisher:    publisher,
		otel:         otel,
	}
}

// GetOrCreate returns the execution of a paid booking, creating it on first access.
func (s *serviceImpl) GetOrCreate(ctx context.Context, bookingID string) (res dto.ExecutionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetOrCreate")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, _, err := s.booking(ctx, bookingID, true)
	if err != nil {
		return res, err
	}

	var execution model.Execution

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		execution, err = s.ensure(ctx, tx, booking.ID)

		return err
	})
	if err != nil {
		return res, err
	}

	res.FromModel(execution)

	return res, nil
}

// UpdateField changes one execution field on behalf of the booking party that owns it.
// Once both completion flags are set the booking is completed in the same transaction.
func (s *serviceImpl) UpdateField(ctx context.Context, req dto.UpdateFieldRequest, bookingID string) (res dto.ExecutionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateField")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, party, err := s.booking(ctx, bookingID, false)
	if err != nil {
		return res, err
	}

	if booking.Status == bookingModel.StatusCompleted && completionField(req.Field) {
		return res, failure.BadRequestFromString("booking is already completed") // nolint:wrapcheck
	}

	var (
		execution  model.Execution
		completing bool
	)

	// The execution row stays locked until commit, so two parties completing at
	// once are serialized and the second one sees both flags.
	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		execution, err = s.ensure(ctx, tx, booking.ID)
		if err != nil {
			return err
		}

		fields, err := applyField(&execution, party, req)
		if err != nil {
			return err
		}

		completing = execution.Completed() && execution.CompletedAt == nil
		if completing {
			now := timezone.Now()
			fields.CompletedAt = &now
			execution.CompletedAt = &now
		}

		actor := shared.ActorFromContext(ctx)

		if err = s.repo.UpdateTx(ctx, tx, shared.TransformFields(fields, actor), shared.FilterByID(execution.ID, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update execution")

			return fmt.Errorf("failed to update execution: %w", err)
		}

		if !completing {
			return nil
		}

		status := shared.TransformFields(bookingDto.StatusFields{Status: bookingModel.StatusCompleted}, actor)
		if err = s.bookingRepo.UpdateTx(ctx, tx, status, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to complete booking")

			return fmt.Errorf("failed to complete booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(execution)

	room := realtime.BookingRoom(booking.ID)
	s.broadcaster.Emit(ctx, room, realtime.EventExecutionUpdated, dto.UpdatedEvent{
		BookingID: booking.ID,
		Field:     req.Field,
		UpdatedBy: party,
		Execution: res,
	})

	counterpartID, counterpartRole := booking.Counterpart(party)

	if !completing {
		s.notify(ctx, counterpartID, counterpartRole, booking.ID, "Task progress updated",
			"The other party updated the task progress.")

		return res, nil
	}

	s.broadcaster.Emit(ctx, room, realtime.EventBookingStatusUpdated, bookingDto.StatusUpdatedEvent{
		BookingID: booking.ID,
		Status:    bookingModel.StatusCompleted,
	})

	s.publisher.Publish(ctx, kafka.Event{
		Type:       kafka.EventExecutionCompleted,
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ProviderID: booking.ProviderID,
	})

	s.notify(ctx, counterpartID, counterpartRole, booking.ID, "Task completed",
		"Both parties marked the task as done. The booking is completed.")

	return res, nil
}

// booking loads the booking behind an execution and checks that it was paid.
func (s *serviceImpl) booking(ctx context.Context, id string, allowAdmin bool) (booking bookingModel.Booking, party string, err error) {
	booking, err = s.bookingRepo.Get(ctx, shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, party, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, party, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	userID, role := shared.UserFromContext(ctx)

	party = booking.PartyRole(userID, role)
	if party == constant.Empty && !(allowAdmin && shared.IsAdmin(role)) {
		return booking, party, failure.Forbidden("you are not a party to this booking") // nolint:wrapcheck
	}

	if booking.Status != bookingModel.StatusPaid && booking.Status != bookingModel.StatusCompleted {
		return booking, party, failure.BadRequestFromString("execution is available once the booking is paid") // nolint:wrapcheck
	}

	return booking, party, nil
}

// ensure creates the booking's execution when missing and returns it locked in tx.
func (s *serviceImpl) ensure(ctx context.Context, tx *sqlx.Tx, bookingID string) (execution model.Execution, err error) {
	if _, err = s.repo.InsertIgnoreConflictTx(ctx, tx, dto.NewExecution(bookingID, shared.ActorFromContext(ctx)), model.FieldBookingID); err != nil {
		log.Error().Err(err).Msg("failed to create execution")

		return execution, fmt.Errorf("failed to create execution: %w", err)
	}

	execution, err = s.repo.GetForUpdateTx(ctx, tx, shared.FilterByField(model.FieldBookingID, bookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get execution")

		return execution, fmt.Errorf("failed to get execution: %w", err)
	}

	return execution, nil
}

func (s *serviceImpl) notify(ctx context.Context, recipientID, role, bookingID, title, message string) {
	err := s.notification.Notify(ctx, notificationDto.NotifyRequest{
		RecipientID:   recipientID,
		RecipientRole: role,
		Type:          notificationModel.TypeExecution,
		Title:         title,
		Message:       message,
		ReferenceID:   bookingID,
	})
	if err != nil {
		log.Warn().Err(err).Str("booking_id", bookingID).Msg("failed to send execution notification")
	}
}
