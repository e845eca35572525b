package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"
	"taskpal/config"
	"taskpal/infras/chat"
	"taskpal/infras/kafka"
	"taskpal/infras/otel"
	"taskpal/infras/pdf"
	"taskpal/infras/postgres"
	"taskpal/infras/realtime"
	"taskpal/infras/s3"
	"taskpal/internal/domains/booking/model"
	"taskpal/internal/domains/booking/model/dto"
	"taskpal/internal/domains/booking/repository"
	chatModel "taskpal/internal/domains/chat/model"
	chatRepo "taskpal/internal/domains/chat/repository"
	notificationModel "taskpal/internal/domains/notification/model"
	notificationDto "taskpal/internal/domains/notification/model/dto"
	notificationService "taskpal/internal/domains/notification/service"
	providerModel "taskpal/internal/domains/provider/model"
	providerRepo "taskpal/internal/domains/provider/repository"
	userRepo "taskpal/internal/domains/user/repository"
	"taskpal/shared"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
	"taskpal/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, status string) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdatePrice(ctx context.Context, req dto.UpdatePriceRequest, id string) (dto.BookingResponse, error)
	Agree(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	DownloadAgreement(ctx context.Context, id string) (dto.AgreementResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Booking
	threadRepo   chatRepo.Thread
	providerRepo providerRepo.Provider
	userRepo     userRepo.User
	transactor   postgres.Transactor
	notification notificationService.Notification
	broadcaster  realtime.Broadcaster
	publisher    kafka.Publisher
	renderer     pdf.Renderer
	s3           s3.S3
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	threadRepo chatRepo.Thread,
	providerRepo providerRepo.Provider,
	userRepo userRepo.User,
	transactor postgres.Transactor,
	notification notificationService.Notification,
	broadcaster realtime.Broadcaster,
	publisher kafka.Publisher,
	renderer pdf.Renderer,
	s3 s3.S3,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		threadRepo:   threadRepo,
		providerRepo: providerRepo,
		userRepo:     userRepo,
		transactor:   transactor,
		notification: notification,
		broadcaster:  broadcaster,
		publisher:    publisher,
		renderer:     renderer,
		s3:           s3,
		cfg:          cfg,
		otel:         otel,
	}
}

// Create books an approved provider for the calling client. The booking and its
// chat thread are written in one transaction.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.ClientID == constant.Empty || req.ProviderID == constant.Empty {
		return res, failure.BadRequestFromString("client_id and provider_id are required") // nolint:wrapcheck
	}

	userID, _ := shared.UserFromContext(ctx)
	if req.ClientID != userID {
		return res, failure.Forbidden("bookings can only be created for yourself") // nolint:wrapcheck
	}

	provider, err := s.providerRepo.Get(ctx, shared.FilterByID(req.ProviderID, providerModel.FieldID, providerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider")

		return res, fmt.Errorf("failed to get provider: %w", err)
	}

	if provider.ID == constant.Empty {
		return res, failure.NotFound("provider not found") // nolint:wrapcheck
	}

	if provider.Status != providerModel.StatusApproved {
		return res, failure.BadRequestFromString("provider is not accepting bookings") // nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	booking := req.ToModel(actor)

	thread := chatModel.Thread{
		ID:         uuid.NewString(),
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ProviderID: booking.ProviderID,
		ChannelID:  chat.ChannelID(booking.ID),
		Metadata:   booking.Metadata,
	}

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if err := s.threadRepo.InsertTx(ctx, tx, thread); err != nil {
			return fmt.Errorf("failed to create chat thread: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, err
	}

	s.publisher.Publish(ctx, kafka.Event{
		Type:       kafka.EventBookingCreated,
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ProviderID: booking.ProviderID,
	})

	s.notify(ctx, booking.ProviderID, constant.RoleProvider, booking.ID,
		"New booking request", "You have a new booking request scheduled on "+booking.ScheduledDate.Format(constant.DateFormat)+".")

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, status string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, role := shared.UserFromContext(ctx)

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	switch {
	case role == constant.RoleProvider:
		filter = shared.FilterByFields(model.TableName, model.FieldProviderID, userID)
	case shared.IsClient(role):
		filter = shared.FilterByFields(model.TableName, model.FieldClientID, userID)
	}

	if status != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Value:    status,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, _, err := s.access(ctx, id, true)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// UpdatePrice records a price proposal. Any change clears both signatures and
// reopens negotiation.
func (s *serviceImpl) UpdatePrice(ctx context.Context, req dto.UpdatePriceRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdatePrice")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, party, err := s.access(ctx, id, false)
	if err != nil {
		return res, err
	}

	if booking.FullySigned() {
		return res, failure.BadRequestFromString("price cannot change after both parties signed the agreement") // nolint:wrapcheck
	}

	if booking.Closed() {
		return res, failure.BadRequestFromString(fmt.Sprintf("price cannot change on a %s booking", booking.Status)) // nolint:wrapcheck
	}

	updated, ok, err := s.repo.ProposePrice(ctx, repository.PriceRequest{
		BookingID: id,
		Price:     req.Price,
		Actor:     shared.ActorFromContext(ctx),
		At:        timezone.Now(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking price")

		return res, fmt.Errorf("failed to update booking price: %w", err)
	}

	if !ok {
		return res, failure.New(http.StatusConflict, "the booking changed while updating the price, review it and try again") // nolint:wrapcheck
	}

	booking = updated

	s.broadcaster.Emit(ctx, realtime.BookingRoom(id), realtime.EventBookingPriceUpdated, dto.PriceUpdatedEvent{
		BookingID:  id,
		Price:      req.Price,
		ProposedBy: party,
	})

	counterpartID, counterpartRole := booking.Counterpart(party)
	s.notify(ctx, counterpartID, counterpartRole, id,
		"New price proposal", fmt.Sprintf("A price of %.2f was proposed for your booking.", req.Price))

	res.FromModel(booking)

	return res, nil
}

// Agree signs the agreement for the caller's side. The booking is confirmed once
// both sides have signed.
func (s *serviceImpl) Agree(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Agree")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, party, err := s.access(ctx, id, false)
	if err != nil {
		return res, err
	}

	if booking.Price == nil {
		return res, failure.BadRequestFromString("no price has been proposed yet") // nolint:wrapcheck
	}

	if booking.Closed() {
		return res, failure.BadRequestFromString(fmt.Sprintf("cannot sign a %s booking", booking.Status)) // nolint:wrapcheck
	}

	signed, ok, err := s.repo.Sign(ctx, repository.SignRequest{
		BookingID: id,
		Party:     party,
		Price:     *booking.Price,
		Actor:     shared.ActorFromContext(ctx),
		At:        timezone.Now(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to sign booking")

		return res, fmt.Errorf("failed to sign booking: %w", err)
	}

	if !ok {
		return res, failure.New(http.StatusConflict, "the booking changed while signing, review it and sign again") // nolint:wrapcheck
	}

	booking = signed

	room := realtime.BookingRoom(id)

	s.broadcaster.Emit(ctx, room, realtime.EventBookingAgreementSigned, dto.AgreementSignedEvent{
		BookingID:        id,
		SignedBy:         party,
		SignedByClient:   booking.SignedByClient,
		SignedByProvider: booking.SignedByProvider,
	})

	counterpartID, counterpartRole := booking.Counterpart(party)

	if booking.Status == model.StatusConfirmed {
		s.broadcaster.Emit(ctx, room, realtime.EventBookingStatusUpdated, dto.StatusUpdatedEvent{BookingID: id, Status: booking.Status})
		s.notify(ctx, counterpartID, counterpartRole, id, "Booking confirmed", "Both parties agreed on the price. The booking is confirmed.")
	} else {
		s.notify(ctx, counterpartID, counterpartRole, id, "Agreement signed", "The other party agreed to the proposed price.")
	}

	res.FromModel(booking)

	return res, nil
}

// Cancel is allowed from any status, by either party or an admin.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, party, err := s.access(ctx, id, true)
	if err != nil {
		return res, err
	}

	if err = s.update(ctx, id, shared.TransformFields(dto.StatusFields{Status: model.StatusCancelled}, shared.ActorFromContext(ctx))); err != nil {
		return res, err
	}

	booking.Status = model.StatusCancelled

	s.broadcaster.Emit(ctx, realtime.BookingRoom(id), realtime.EventBookingStatusUpdated, dto.StatusUpdatedEvent{BookingID: id, Status: booking.Status})

	message := "Your booking was cancelled."

	if party == constant.Empty {
		s.notify(ctx, booking.ClientID, constant.RoleClient, id, "Booking cancelled", message)
		s.notify(ctx, booking.ProviderID, constant.RoleProvider, id, "Booking cancelled", message)
	} else {
		counterpartID, counterpartRole := booking.Counterpart(party)
		s.notify(ctx, counterpartID, counterpartRole, id, "Booking cancelled", message)
	}

	res.FromModel(booking)

	return res, nil
}

// Delete removes the booking row only. Executions and payments are kept.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	return nil
}

// access loads the booking and resolves the caller's side of it. Admins pass with
// an empty party when allowAdmin is set.
func (s *serviceImpl) access(ctx context.Context, id string, allowAdmin bool) (booking model.Booking, party string, err error) {
	booking, err = s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, party, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, party, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	userID, role := shared.UserFromContext(ctx)

	party = booking.PartyRole(userID, role)
	if party != constant.Empty {
		return booking, party, nil
	}

	if allowAdmin && shared.IsAdmin(role) {
		return booking, party, nil
	}

	return booking, party, failure.Forbidden("you are not a party to this booking") // nolint:wrapcheck
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	return nil
}

// notify never fails the calling operation.
func (s *serviceImpl) notify(ctx context.Context, recipientID, role, bookingID, title, message string) {
	err := s.notification.Notify(ctx, notificationDto.NotifyRequest{
		RecipientID:   recipientID,
		RecipientRole: role,
		Type:          notificationModel.TypeBooking,
		Title:         title,
		Message:       message,
		ReferenceID:   bookingID,
	})
	if err != nil {
		log.Warn().Err(err).Str("booking_id", bookingID).Msg("failed to send booking notification")
	}
}
