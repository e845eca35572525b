package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskpal/config"
	"taskpal/infras/otel"
	"taskpal/infras/realtime"
	"taskpal/internal/domains/announcement/model"
	"taskpal/internal/domains/announcement/model/dto"
	"taskpal/internal/domains/announcement/repository"
	"taskpal/shared"
	"taskpal/shared/cache"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheActiveAnnouncements = "announcement:active"
)

type Announcement interface {
	Create(ctx context.Context, req dto.CreateAnnouncementRequest) (dto.AnnouncementResponse, error)
	Update(ctx context.Context, req dto.UpdateAnnouncementRequest, id string) (dto.AnnouncementResponse, error)
	Activate(ctx context.Context, id string) (dto.AnnouncementResponse, error)
	Complete(ctx context.Context, id string) (dto.AnnouncementResponse, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context, req gDto.QueryParams, state string) (dto.GetAnnouncementsResponse, error)
	GetActive(ctx context.Context) ([]dto.AnnouncementResponse, error)
}

type serviceImpl struct {
	repo        repository.Announcement
	broadcaster realtime.Broadcaster
	cache       cache.RedisCache
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Announcement, broadcaster realtime.Broadcaster, cache cache.RedisCache, cfg *config.Config, otel otel.Otel) Announcement {
	return &serviceImpl{
		repo:        repo,
		broadcaster: broadcaster,
		cache:       cache,
		cfg:         cfg,
		otel:        otel,
	}
}

// Create stores a pending announcement. It goes live only through Activate.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAnnouncementRequest) (res dto.AnnouncementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return res, failure.BadRequestFromString("end_date must not be before start_date") // nolint:wrapcheck
	}

	announcement := req.ToModel(shared.ActorFromContext(ctx))

	if err = s.repo.Insert(ctx, announcement); err != nil {
		log.Error().Err(err).Msg("failed to create announcement")

		return res, fmt.Errorf("failed to create announcement: %w", err)
	}

	res.FromModel(announcement)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAnnouncementRequest, id string) (res dto.AnnouncementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	announcement, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	req.Apply(&announcement)

	if announcement.StartDate != nil && announcement.EndDate != nil && announcement.EndDate.Before(*announcement.StartDate) {
		return res, failure.BadRequestFromString("end_date must not be before start_date") // nolint:wrapcheck
	}

	if err = s.update(ctx, id, shared.TransformFields(req, shared.ActorFromContext(ctx))); err != nil {
		return res, err
	}

	res.FromModel(announcement)

	return res, nil
}

func (s *serviceImpl) Activate(ctx context.Context, id string) (res dto.AnnouncementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Activate")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.setActive(ctx, id, true)
	if err != nil {
		return res, err
	}

	s.broadcaster.Emit(ctx, realtime.RoomAnnouncements, realtime.EventAnnouncementActivated, res)

	return res, nil
}

func (s *serviceImpl) Complete(ctx context.Context, id string) (res dto.AnnouncementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.setActive(ctx, id, false)
	if err != nil {
		return res, err
	}

	s.broadcaster.Emit(ctx, realtime.RoomAnnouncements, realtime.EventAnnouncementCompleted, res)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.get(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete announcement")

		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	s.invalidateCache(ctx)
	s.broadcaster.Emit(ctx, realtime.RoomAnnouncements, realtime.EventAnnouncementDeleted, dto.DeletedEvent{ID: id})

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, state string) (res dto.GetAnnouncementsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err := stateFilter(state)
	if err != nil {
		return res, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count announcements")

		return res, fmt.Errorf("failed to count announcements: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get announcements")

		return res, fmt.Errorf("failed to get announcements: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// GetActive returns the live announcements, newest first. The list is cached until
// the next change.
func (s *serviceImpl) GetActive(ctx context.Context) (res []dto.AnnouncementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetActive")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.cache.Get(ctx, cacheActiveAnnouncements, &res); err == nil {
		return res, nil
	}

	filter, _ := stateFilter(model.StateActive)
	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: constant.DefaultValueSortDir}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active announcements")

		return res, fmt.Errorf("failed to get active announcements: %w", err)
	}

	res = make([]dto.AnnouncementResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheActiveAnnouncements, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save active announcements to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) setActive(ctx context.Context, id string, active bool) (res dto.AnnouncementResponse, err error) {
	announcement, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.update(ctx, id, shared.TransformFields(dto.StateFields{IsActive: &active}, shared.ActorFromContext(ctx))); err != nil {
		return res, err
	}

	announcement.IsActive = &active
	res.FromModel(announcement)

	return res, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Announcement, error) {
	announcement, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get announcement")

		return announcement, fmt.Errorf("failed to get announcement: %w", err)
	}

	if announcement.ID == constant.Empty {
		return announcement, failure.NotFound("announcement not found") // nolint:wrapcheck
	}

	return announcement, nil
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update announcement")

		return fmt.Errorf("failed to update announcement: %w", err)
	}

	s.invalidateCache(ctx)

	return nil
}

func (s *serviceImpl) invalidateCache(ctx context.Context) {
	go func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), cacheActiveAnnouncements); err != nil {
			log.Error().Err(err).Msg("failed to delete active announcements from cache")
		}
	}()
}

func stateFilter(state string) (gDto.FilterGroup, error) {
	filter := gDto.Filter{Field: model.FieldIsActive, Table: model.TableName}

	switch state {
	case constant.Empty:
		return gDto.FilterGroup{}, nil
	case model.StatePending:
		filter.Operator = gDto.FilterOperatorIsNull
	case model.StateActive:
		filter.Operator = gDto.FilterOperatorEq
		filter.Value = true
	case model.StateCompleted:
		filter.Operator = gDto.FilterOperatorEq
		filter.Value = false
	default:
		return gDto.FilterGroup{}, failure.BadRequestFromString("state must be one of pending, active, completed") // nolint:wrapcheck
	}

	return gDto.FilterGroup{Filters: []any{filter}}, nil
}
