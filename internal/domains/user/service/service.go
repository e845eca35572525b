package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskpal/config"
	"taskpal/infras/otel"
	"taskpal/infras/s3"
	notificationModel "taskpal/internal/domains/notification/model"
	notificationDto "taskpal/internal/domains/notification/model/dto"
	notificationService "taskpal/internal/domains/notification/service"
	"taskpal/internal/domains/user/model"
	"taskpal/internal/domains/user/model/dto"
	"taskpal/internal/domains/user/repository"
	"taskpal/shared"
	"taskpal/shared/cache"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser = "user:get"
)

type User interface {
	GetMe(ctx context.Context) (dto.UserResponse, error)
	UpdateMe(ctx context.Context, req dto.UpdateProfileRequest) error
	UploadProfilePicture(ctx context.Context, req gDto.UploadImageRequest) (gDto.UploadResponse, error)
	UploadDocument(ctx context.Context, req gDto.UploadDocumentRequest) (gDto.UploadResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Verify(ctx context.Context, req dto.VerifyUserRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.User
	notification notificationService.Notification
	s3           s3.S3
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.User, notification notificationService.Notification, s3 s3.S3, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:         repo,
		notification: notification,
		s3:           s3,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) GetMe(ctx context.Context) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMe")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.UserFromContext(ctx)

	return s.Get(ctx, userID)
}

func (s *serviceImpl) UpdateMe(ctx context.Context, req dto.UpdateProfileRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateMe")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateProfileRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	userID, _ := shared.UserFromContext(ctx)

	if err = s.update(ctx, userID, shared.TransformFields(req, shared.ActorFromContext(ctx))); err != nil {
		return err
	}

	return nil
}

func (s *serviceImpl) UploadProfilePicture(ctx context.Context, req gDto.UploadImageRequest) (res gDto.UploadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadProfilePicture")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.UserFromContext(ctx)

	user, err := s.getModel(ctx, userID)
	if err != nil {
		return res, err
	}

	res.URL, err = s.s3.UploadFile(ctx, s3.DirectoryProfilePictures, req.Content, req.File)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload profile picture")

		return res, fmt.Errorf("failed to upload profile picture: %w", err)
	}

	fields := shared.TransformFields(dto.UpdateProfilePictureRequest{ProfilePicture: res.URL}, shared.ActorFromContext(ctx))
	if err = s.update(ctx, userID, fields); err != nil {
		return res, err
	}

	if user.ProfilePicture != nil && *user.ProfilePicture != "" {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.s3.DeleteByURL(c, *user.ProfilePicture); err != nil {
				log.Warn().Err(err).Msg("failed to delete previous profile picture")
			}
		}()
	}

	return res, nil
}

func (s *serviceImpl) UploadDocument(ctx context.Context, req gDto.UploadDocumentRequest) (res gDto.UploadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadDocument")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.UserFromContext(ctx)

	user, err := s.getModel(ctx, userID)
	if err != nil {
		return res, err
	}

	res.URL, err = s.s3.UploadFile(ctx, s3.DirectoryDocuments, req.Content, req.File)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload document")

		return res, fmt.Errorf("failed to upload document: %w", err)
	}

	documents := append(user.Documents, res.URL)

	fields := shared.TransformFields(dto.UpdateDocumentsRequest{Documents: documents}, shared.ActorFromContext(ctx))
	if err = s.update(ctx, userID, fields); err != nil {
		return res, err
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for user")

		return res, nil
	}

	user, err := s.getModel(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save user to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Verify(ctx context.Context, req dto.VerifyUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.getModel(ctx, id); err != nil {
		return err
	}

	if err = s.update(ctx, id, shared.TransformFields(req, shared.ActorFromContext(ctx))); err != nil {
		return err
	}

	message := "Your account has been verified."
	if !*req.IsVerified {
		message = "Your account verification has been revoked."
	}

	if err := s.notification.Notify(ctx, notificationDto.NotifyRequest{
		RecipientID:   id,
		RecipientRole: constant.RoleClient,
		Type:          notificationModel.TypeAccount,
		Title:         "Account verification",
		Message:       message,
	}); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("failed to notify user about verification")
	}

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return failure.NotFound("user not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete user from cache")
		}
	}()

	return nil
}

func (s *serviceImpl) getModel(ctx context.Context, id string) (model.User, error) {
	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found") // nolint:wrapcheck
	}

	return user, nil
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete user from cache")
		}
	}()

	return nil
}
