package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskpal/config"
	"taskpal/infras/kafka"
	"taskpal/infras/otel"
	"taskpal/infras/postgres"
	"taskpal/infras/realtime"
	"taskpal/infras/stripe"
	bookingModel "taskpal/internal/domains/booking/model"
	bookingDto "taskpal/internal/domains/booking/model/dto"
	bookingRepo "taskpal/internal/domains/booking/repository"
	notificationModel "taskpal/internal/domains/notification/model"
	notificationDto "taskpal/internal/domains/notification/model/dto"
	notificationService "taskpal/internal/domains/notification/service"
	"taskpal/internal/domains/payment/model"
	"taskpal/internal/domains/payment/model/dto"
	"taskpal/internal/domains/payment/repository"
	userModel "taskpal/internal/domains/user/model"
	userRepo "taskpal/internal/domains/user/repository"
	"taskpal/shared"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Payment interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error)
	Verify(ctx context.Context, req dto.VerifyRequest) (dto.PaymentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams) (dto.GetPaymentsResponse, error)
	GetByBooking(ctx context.Context, bookingID string) (dto.PaymentResponse, error)
}

type serviceImpl struct {
	repo         repository.Payment
	bookingRepo  bookingRepo.Booking
	userRepo     userRepo.User
	transactor   postgres.Transactor
	gateway      stripe.Gateway
	notification notificationService.Notification
	broadcaster  realtime.Broadcaster
	publisher    kafka.Publisher
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	repo repository.Payment,
	bookingRepo bookingRepo.Booking,
	userRepo userRepo.User,
	transactor postgres.Transactor,
	gateway stripe.Gateway,
	notification notificationService.Notification,
	broadcaster realtime.Broadcaster,
	publisher kafka.Publisher,
	cfg *config.Config,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:         repo,
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		transactor:   transactor,
		gateway:      gateway,
		notification: notification,
		broadcaster:  broadcaster,
		publisher:    publisher,
		cfg:          cfg,
		otel:         otel,
	}
}

// Checkout opens a hosted checkout session for a confirmed booking.
func (s *serviceImpl) Checkout(ctx context.Context, req dto.CheckoutRequest) (res dto.CheckoutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Checkout")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.clientBooking(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	if booking.Status != bookingModel.StatusConfirmed {
		return res, failure.BadRequestFromString("only confirmed bookings can be paid") // nolint:wrapcheck
	}

	if booking.Price == nil || *booking.Price <= 0 {
		return res, failure.BadRequestFromString("booking has no agreed price") // nolint:wrapcheck
	}

	client, err := s.userRepo.Get(ctx, shared.FilterByID(booking.ClientID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get client")

		return res, fmt.Errorf("failed to get client: %w", err)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, stripe.CheckoutRequest{
		BookingID:   booking.ID,
		ClientID:    booking.ClientID,
		ProviderID:  booking.ProviderID,
		Description: fmt.Sprintf("%s booking %s", s.cfg.App.Name, booking.ID),
		Amount:      dto.ToMinorUnits(*booking.Price),
		Currency:    s.cfg.External.Stripe.Currency,
		Email:       client.Email,
	})
	if err != nil {
		return res, failure.InternalError(err) // nolint:wrapcheck
	}

	res.SessionID = session.ID
	res.URL = session.URL

	return res, nil
}

// Verify records a paid checkout session. Verifying the same booking twice returns
// the payment recorded the first time.
func (s *serviceImpl) Verify(ctx context.Context, req dto.VerifyRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(err)

	session, err := s.gateway.GetCheckoutSession(ctx, req.SessionID)
	if err != nil {
		return res, failure.InternalError(err) // nolint:wrapcheck
	}

	if !session.Paid {
		return res, failure.BadRequestFromString("payment has not been completed") // nolint:wrapcheck
	}

	bookingID := session.Metadata[stripe.MetadataBookingID]
	if bookingID == constant.Empty {
		return res, failure.BadRequestFromString("checkout session is not linked to a booking") // nolint:wrapcheck
	}

	booking, err := s.clientBooking(ctx, bookingID)
	if err != nil {
		return res, err
	}

	existing, err := s.byBooking(ctx, booking.ID)
	if err != nil {
		return res, err
	}

	if existing.ID != constant.Empty {
		res.FromModel(existing)

		return res, nil
	}

	actor := shared.ActorFromContext(ctx)
	payment := dto.NewPayment(booking, session, actor)
	inserted := false

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) (txErr error) {
		current, txErr := s.bookingRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName))
		if txErr != nil {
			return fmt.Errorf("failed to lock booking: %w", txErr)
		}

		if current.Status == bookingModel.StatusPaid {
			return nil
		}

		// A booking cancelled after checkout keeps its status; the charge is left
		// for a manual refund.
		if current.Status != bookingModel.StatusConfirmed {
			log.Warn().Str("booking_id", booking.ID).Str("session_id", session.ID).Str("status", current.Status).
				Msg("paid checkout session for a booking that is no longer confirmed")

			return failure.BadRequestFromString(fmt.Sprintf("a %s booking cannot be marked paid", current.Status)) // nolint:wrapcheck
		}

		inserted, txErr = s.repo.InsertIgnoreConflictTx(ctx, tx, payment, model.FieldBookingID)
		if txErr != nil {
			return fmt.Errorf("failed to record payment: %w", txErr)
		}

		if !inserted {
			return nil
		}

		status := shared.TransformFields(bookingDto.StatusFields{Status: bookingModel.StatusPaid}, actor)
		if err := s.bookingRepo.UpdateTx(ctx, tx, status, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
			return fmt.Errorf("failed to mark booking paid: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to verify payment")

		return res, err
	}

	// A concurrent verification already recorded the payment.
	if !inserted {
		if payment, err = s.byBooking(ctx, booking.ID); err != nil {
			return res, err
		}

		res.FromModel(payment)

		return res, nil
	}

	s.broadcaster.Emit(ctx, realtime.BookingRoom(booking.ID), realtime.EventBookingStatusUpdated, bookingDto.StatusUpdatedEvent{
		BookingID: booking.ID,
		Status:    bookingModel.StatusPaid,
	})

	s.publisher.Publish(ctx, kafka.Event{
		Type:       kafka.EventPaymentCompleted,
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ProviderID: booking.ProviderID,
		Data: map[string]any{
			"amount":   payment.Amount,
			"currency": payment.Currency,
		},
	})

	err = s.notification.Notify(ctx, notificationDto.NotifyRequest{
		RecipientID:   booking.ProviderID,
		RecipientRole: constant.RoleProvider,
		Type:          notificationModel.TypePayment,
		Title:         "Payment received",
		Message:       fmt.Sprintf("The client paid %.2f %s for the booking.", payment.Amount, payment.Currency),
		ReferenceID:   booking.ID,
	})
	if err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to send payment notification")
	}

	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, role := shared.UserFromContext(ctx)

	filter := gDto.FilterGroup{}

	switch {
	case role == constant.RoleProvider:
		filter = shared.FilterByFields(model.TableName, model.FieldProviderID, userID)
	case shared.IsClient(role):
		filter = shared.FilterByFields(model.TableName, model.FieldClientID, userID)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) GetByBooking(ctx context.Context, bookingID string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	payment, err := s.byBooking(ctx, bookingID)
	if err != nil {
		return res, err
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	userID, role := shared.UserFromContext(ctx)

	party := payment.ClientID == userID && shared.IsClient(role) ||
		payment.ProviderID == userID && role == constant.RoleProvider
	if !party && !shared.IsAdmin(role) {
		return res, failure.Forbidden("you are not a party to this payment") // nolint:wrapcheck
	}

	res.FromModel(payment)

	return res, nil
}

// clientBooking loads a booking the caller pays for as its client.
func (s *serviceImpl) clientBooking(ctx context.Context, id string) (booking bookingModel.Booking, err error) {
	booking, err = s.bookingRepo.Get(ctx, shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	userID, role := shared.UserFromContext(ctx)
	if booking.PartyRole(userID, role) != constant.RoleClient {
		return booking, failure.Forbidden("only the booking client can pay") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) byBooking(ctx context.Context, bookingID string) (payment model.Payment, err error) {
	payment, err = s.repo.Get(ctx, shared.FilterByField(model.FieldBookingID, bookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return payment, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}
