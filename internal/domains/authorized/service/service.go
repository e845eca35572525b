package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskpal/config"
	"taskpal/infras/otel"
	authService "taskpal/internal/domains/auth/service"
	"taskpal/internal/domains/authorized/model"
	"taskpal/internal/domains/authorized/model/dto"
	"taskpal/internal/domains/authorized/repository"
	"taskpal/shared"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
	"taskpal/shared/otp"
	"taskpal/shared/password"
	gRepo "taskpal/shared/repository"
	"taskpal/shared/timezone"

	"github.com/rs/zerolog/log"
)

type AuthorizedUser interface {
	Create(ctx context.Context, req dto.CreateAuthorizedUserRequest) (dto.AuthorizedUserResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams) (dto.GetAuthorizedUsersResponse, error)
	Revoke(ctx context.Context, id string) error
	DeactivateExpired(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	repo repository.AuthorizedUser
	auth authService.Auth
	otp  otp.Store
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.AuthorizedUser, auth authService.Auth, otp otp.Store, cfg *config.Config, otel otel.Otel) AuthorizedUser {
	return &serviceImpl{
		repo: repo,
		auth: auth,
		otp:  otp,
		cfg:  cfg,
		otel: otel,
	}
}

// Create registers a delegate for the calling client. The delegate's e-mail must
// have received a "delegate" OTP beforehand.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAuthorizedUserRequest) (res dto.AuthorizedUserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	clientID, _ := shared.UserFromContext(ctx)

	if err = s.otp.Verify(ctx, otp.PurposeDelegate, req.Email, string(req.OTP)); err != nil {
		return res, err // nolint:wrapcheck
	}

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

	delegate := req.ToModel(clientID, hashedPassword, timezone.Now(), s.cfg.AuthorizedUser.DefaultExpiryDays)

	if err = s.repo.Insert(ctx, delegate); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, failure.BadRequestFromString("email already registered") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create authorized user")

		return res, fmt.Errorf("failed to create authorized user: %w", err)
	}

	res.FromModel(delegate)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams) (res dto.GetAuthorizedUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	clientID, _ := shared.UserFromContext(ctx)
	filter := shared.FilterByFields(model.TableName, model.FieldClientID, clientID)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count authorized users")

		return res, fmt.Errorf("failed to count authorized users: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get authorized users")

		return res, fmt.Errorf("failed to get authorized users: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Revoke(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Revoke")
	defer scope.End()
	defer scope.TraceIfError(err)

	clientID, _ := shared.UserFromContext(ctx)
	filter := shared.FilterByFields(model.TableName,
		model.FieldID, id,
		model.FieldClientID, clientID,
	)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if authorized user exists")

		return fmt.Errorf("failed to check if authorized user exists: %w", err)
	}

	if !exist {
		return failure.NotFound("authorized user not found") // nolint:wrapcheck
	}

	inactive := false

	if err = s.repo.Update(ctx, shared.TransformFields(dto.RevokeRequest{Active: &inactive}, clientID), filter); err != nil {
		log.Error().Err(err).Msg("failed to revoke authorized user")

		return fmt.Errorf("failed to revoke authorized user: %w", err)
	}

	return nil
}

func (s *serviceImpl) DeactivateExpired(ctx context.Context) (affected int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeactivateExpired")
	defer scope.End()
	defer scope.TraceIfError(err)

	affected, err = s.repo.DeactivateExpired(ctx, timezone.Now())
	if err != nil {
		return 0, err // nolint:wrapcheck
	}

	if affected > 0 {
		log.Info().Int64("count", affected).Msg("deactivated expired authorized users")
	}

	return affected, nil
}
