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
	"taskpal/internal/domains/provider/model"
	"taskpal/internal/domains/provider/model/dto"
	"taskpal/internal/domains/provider/repository"
	"taskpal/shared"
	"taskpal/shared/cache"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetProvider    = "provider:get"
	cacheGetAllProvider = "provider:gets"
)

type Provider interface {
	GetApproved(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetProvidersResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetProvidersResponse, error)
	Get(ctx context.Context, id string) (dto.ProviderResponse, error)
	GetMe(ctx context.Context) (dto.ProviderResponse, error)
	UpdateMe(ctx context.Context, req dto.UpdateProfileRequest) error
	UploadProfilePicture(ctx context.Context, req gDto.UploadImageRequest) (gDto.UploadResponse, error)
	UploadDocument(ctx context.Context, req gDto.UploadDocumentRequest) (gDto.UploadResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) error
	InvalidateCache(ctx context.Context, id string)
}

type serviceImpl struct {
	repo         repository.Provider
	notification notificationService.Notification
	s3           s3.S3
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Provider, notification notificationService.Notification, s3 s3.S3, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Provider {
	return &serviceImpl{
		repo:         repo,
		notification: notification,
		s3:           s3,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// GetApproved lists the providers visible to clients. Results are cached per query.
func (s *serviceImpl) GetApproved(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetProvidersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetApproved")
	defer scope.End()
	defer scope.TraceIfError(err)

	approved := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.StatusApproved,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	if len(filter.Filters) > 0 {
		approved.Filters = append(approved.Filters, filter)
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProvider, req, approved)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for providers")

		return res, nil
	}

	res, err = s.list(ctx, req, approved)
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save providers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetProvidersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.list(ctx, req, filter)
}

func (s *serviceImpl) list(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetProvidersResponse, err error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count providers")

		return res, fmt.Errorf("failed to count providers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get providers")

		return res, fmt.Errorf("failed to get providers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ProviderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetProvider, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for provider")

		return res, nil
	}

	provider, err := s.getModel(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(provider)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save provider to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMe(ctx context.Context) (res dto.ProviderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMe")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.UserFromContext(ctx)

	provider, err := s.getModel(ctx, userID)
	if err != nil {
		return res, err
	}

	res.FromModel(provider)

	return res, nil
}

func (s *serviceImpl) UpdateMe(ctx context.Context, req dto.UpdateProfileRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateMe")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateProfileRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	userID, _ := shared.UserFromContext(ctx)

	return s.update(ctx, userID, shared.TransformFields(req, userID))
}

func (s *serviceImpl) UploadProfilePicture(ctx context.Context, req gDto.UploadImageRequest) (res gDto.UploadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadProfilePicture")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.UserFromContext(ctx)

	provider, err := s.getModel(ctx, userID)
	if err != nil {
		return res, err
	}

	res.URL, err = s.s3.UploadFile(ctx, s3.DirectoryProfilePictures, req.Content, req.File)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload profile picture")

		return res, fmt.Errorf("failed to upload profile picture: %w", err)
	}

	if err = s.update(ctx, userID, shared.TransformFields(dto.UpdateProfilePictureRequest{ProfilePicture: res.URL}, userID)); err != nil {
		return res, err
	}

	if provider.ProfilePicture != nil && *provider.ProfilePicture != "" {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.s3.DeleteByURL(c, *provider.ProfilePicture); err != nil {
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

	provider, err := s.getModel(ctx, userID)
	if err != nil {
		return res, err
	}

	res.URL, err = s.s3.UploadFile(ctx, s3.DirectoryDocuments, req.Content, req.File)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload document")

		return res, fmt.Errorf("failed to upload document: %w", err)
	}

	documents := append(provider.Documents, res.URL)

	if err = s.update(ctx, userID, shared.TransformFields(dto.UpdateDocumentsRequest{Documents: documents}, userID)); err != nil {
		return res, err
	}

	return res, nil
}

// UpdateStatus moves a provider through review. Only Approved providers can log in and be booked.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.getModel(ctx, id)
	if err != nil {
		return err
	}

	if provider.Status == req.Status {
		return nil
	}

	if err = s.update(ctx, id, shared.TransformFields(req, shared.ActorFromContext(ctx))); err != nil {
		return err
	}

	if err := s.notification.Notify(ctx, notificationDto.NotifyRequest{
		RecipientID:   id,
		RecipientRole: constant.RoleProvider,
		Type:          notificationModel.TypeAccount,
		Title:         "Account status updated",
		Message:       fmt.Sprintf("Your provider account is now %s.", req.Status),
	}); err != nil {
		log.Warn().Err(err).Str("provider_id", id).Msg("failed to notify provider about status change")
	}

	return nil
}

// InvalidateCache drops the cached detail of one provider and every cached listing.
func (s *serviceImpl) InvalidateCache(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetProvider, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete provider from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllProvider)
	}()
}

func (s *serviceImpl) getModel(ctx context.Context, id string) (model.Provider, error) {
	provider, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider")

		return provider, fmt.Errorf("failed to get provider: %w", err)
	}

	if provider.ID == constant.Empty {
		return provider, failure.NotFound("provider not found") // nolint:wrapcheck
	}

	return provider, nil
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update provider")

		return fmt.Errorf("failed to update provider: %w", err)
	}

	s.InvalidateCache(ctx, id)

	return nil
}
