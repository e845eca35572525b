package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"taskpal/infras/otel"
	"taskpal/infras/postgres"
	bookingModel "taskpal/internal/domains/booking/model"
	bookingRepo "taskpal/internal/domains/booking/repository"
	executionModel "taskpal/internal/domains/execution/model"
	executionRepo "taskpal/internal/domains/execution/repository"
	notificationModel "taskpal/internal/domains/notification/model"
	notificationDto "taskpal/internal/domains/notification/model/dto"
	notificationService "taskpal/internal/domains/notification/service"
	providerService "taskpal/internal/domains/provider/service"
	"taskpal/internal/domains/review/model"
	"taskpal/internal/domains/review/model/dto"
	"taskpal/internal/domains/review/repository"
	"taskpal/shared"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
	gRepo "taskpal/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var errDuplicateReview = errors.New("booking already reviewed")

type Review interface {
	Create(ctx context.Context, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetByProvider(ctx context.Context, req gDto.QueryParams, providerID string) (dto.GetReviewsResponse, error)
	GetByBooking(ctx context.Context, bookingID string) (dto.ReviewResponse, error)
}

type serviceImpl struct {
	repo          repository.Review
	bookingRepo   bookingRepo.Booking
	executionRepo executionRepo.Execution
	transactor    postgres.Transactor
	provider      providerService.Provider
	notification  notificationService.Notification
	otel          otel.Otel
}

func New(
	repo repository.Review,
	bookingRepo bookingRepo.Booking,
	executionRepo executionRepo.Execution,
	transactor postgres.Transactor,
	provider providerService.Provider,
	notification notificationService.Notification,
	otel otel.Otel,
) Review {
	return &serviceImpl{
		repo:          repo,
		bookingRepo:   bookingRepo,
		executionRepo: executionRepo,
		transactor:    transactor,
		provider:      provider,
		notification:  notification,
		otel:          otel,
	}
}

// Create reviews the provider of a booking whose execution both parties completed.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	userID, role := shared.UserFromContext(ctx)
	if booking.PartyRole(userID, role) != constant.RoleClient {
		return res, failure.Forbidden("only the booking client can leave a review") // nolint:wrapcheck
	}

	execution, err := s.executionRepo.Get(ctx, shared.FilterByField(executionModel.FieldBookingID, booking.ID, executionModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get execution")

		return res, fmt.Errorf("failed to get execution: %w", err)
	}

	if execution.ID == constant.Empty || !execution.Completed() {
		return res, failure.BadRequestFromString("reviews open once both parties completed the task") // nolint:wrapcheck
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByField(model.FieldBookingID, booking.ID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing review")

		return res, fmt.Errorf("failed to check existing review: %w", err)
	}

	if exist {
		return res, failure.BadRequestFromString(errDuplicateReview.Error()) // nolint:wrapcheck
	}

	review := req.ToModel(booking, shared.ActorFromContext(ctx))

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, review); err != nil {
			if gRepo.IsUniqueViolation(err) {
				return errDuplicateReview
			}

			return fmt.Errorf("failed to create review: %w", err)
		}

		return s.repo.RecomputeProviderRatingTx(ctx, tx, booking.ProviderID) // nolint:wrapcheck
	})
	if errors.Is(err, errDuplicateReview) {
		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create review")

		return res, err
	}

	s.provider.InvalidateCache(ctx, booking.ProviderID)

	err = s.notification.Notify(ctx, notificationDto.NotifyRequest{
		RecipientID:   booking.ProviderID,
		RecipientRole: constant.RoleProvider,
		Type:          notificationModel.TypeReview,
		Title:         "New review",
		Message:       fmt.Sprintf("You received a %d-star review.", review.Rating),
		ReferenceID:   booking.ID,
	})
	if err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to send review notification")
	}

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) GetByProvider(ctx context.Context, req gDto.QueryParams, providerID string) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByProvider")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByField(model.FieldProviderID, providerID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) GetByBooking(ctx context.Context, bookingID string) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	review, err := s.repo.Get(ctx, shared.FilterByField(model.FieldBookingID, bookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return res, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return res, failure.NotFound("review not found") // nolint:wrapcheck
	}

	res.FromModel(review)

	return res, nil
}
