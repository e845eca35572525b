package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskpal/infras/otel"
	"taskpal/internal/domains/admin/model/dto"
	"taskpal/internal/domains/admin/repository"
	authService "taskpal/internal/domains/auth/service"
	bookingModel "taskpal/internal/domains/booking/model"
	bookingRepo "taskpal/internal/domains/booking/repository"
	paymentModel "taskpal/internal/domains/payment/model"
	paymentRepo "taskpal/internal/domains/payment/repository"
	providerModel "taskpal/internal/domains/provider/model"
	providerRepo "taskpal/internal/domains/provider/repository"
	userRepo "taskpal/internal/domains/user/repository"
	"taskpal/shared"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
	"taskpal/shared/password"
	gRepo "taskpal/shared/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Admin interface {
	Create(ctx context.Context, req dto.CreateAdminRequest) (dto.AdminResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams) (dto.GetAdminsResponse, error)
	Stats(ctx context.Context) (dto.StatsResponse, error)
}

type serviceImpl struct {
	repo         repository.Admin
	auth         authService.Auth
	userRepo     userRepo.User
	providerRepo providerRepo.Provider
	bookingRepo  bookingRepo.Booking
	paymentRepo  paymentRepo.Payment
	otel         otel.Otel
}

func New(
	repo repository.Admin,
	auth authService.Auth,
	userRepo userRepo.User,
	providerRepo providerRepo.Provider,
	bookingRepo bookingRepo.Booking,
	paymentRepo paymentRepo.Payment,
	otel otel.Otel,
) Admin {
	return &serviceImpl{
		repo:         repo,
		auth:         auth,
		userRepo:     userRepo,
		providerRepo: providerRepo,
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAdminRequest) (res dto.AdminResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.auth.EmailExists(ctx, req.Email)
	if err != nil {
		return res, fmt.Errorf("failed to check email: %w", err)
	}

	if exists {
		return res, failure.BadRequestFromString("email already registered") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := req.ToModel(shared.ActorFromContext(ctx), hashedPassword)

	if err = s.repo.Insert(ctx, admin); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, failure.BadRequestFromString("email already registered") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create admin")

		return res, fmt.Errorf("failed to create admin: %w", err)
	}

	res.FromModel(admin)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams) (res dto.GetAdminsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count admins")

		return res, fmt.Errorf("failed to count admins: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get admins")

		return res, fmt.Errorf("failed to get admins: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// Stats gathers the dashboard counters concurrently.
func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	var providers, bookings map[string]int

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		res.TotalUsers, err = s.userRepo.Count(gctx, gDto.FilterGroup{})
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}

		return nil
	})

	group.Go(func() (err error) {
		providers, err = s.providerRepo.CountGroupBy(gctx, providerModel.FieldStatus, gDto.FilterGroup{})
		if err != nil {
			return fmt.Errorf("failed to count providers: %w", err)
		}

		return nil
	})

	group.Go(func() (err error) {
		bookings, err = s.bookingRepo.CountGroupBy(gctx, bookingModel.FieldStatus, gDto.FilterGroup{})
		if err != nil {
			return fmt.Errorf("failed to count bookings: %w", err)
		}

		return nil
	})

	group.Go(func() (err error) {
		paid := shared.FilterByField(paymentModel.FieldStatus, paymentModel.StatusPaid, paymentModel.TableName)

		res.TotalPaidAmount, err = s.paymentRepo.Sum(gctx, paymentModel.FieldAmount, paid)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}

		return nil
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to collect stats")

		return res, err // nolint:wrapcheck
	}

	res.SetProviders(providers, providerModel.StatusPending)
	res.SetBookings(bookings)

	return res, nil
}
