package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskpal/config"
	"taskpal/infras/otel"
	"taskpal/infras/realtime"
	"taskpal/internal/domains/notification/model"
	"taskpal/internal/domains/notification/model/dto"
	"taskpal/internal/domains/notification/repository"
	"taskpal/shared"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"

	"github.com/rs/zerolog/log"
)

type Notification interface {
	Notify(ctx context.Context, req dto.NotifyRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, isRead *bool) (dto.GetNotificationsResponse, error)
	UnreadCount(ctx context.Context) (dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Notification
	broadcaster realtime.Broadcaster
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Notification, broadcaster realtime.Broadcaster, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:        repo,
		broadcaster: broadcaster,
		cfg:         cfg,
		otel:        otel,
	}
}

// Notify stores the notification and pushes it to the recipient's room.
func (s *serviceImpl) Notify(ctx context.Context, req dto.NotifyRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Notify")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.RecipientID == "" {
		return failure.BadRequestFromString("notification recipient is required")
	}

	notification := req.ToModel(shared.ActorFromContext(ctx))

	if err = s.repo.Insert(ctx, notification); err != nil {
		log.Error().Err(err).Str("recipient_id", req.RecipientID).Msg("failed to create notification")

		return fmt.Errorf("failed to create notification: %w", err)
	}

	var res dto.NotificationResponse
	res.FromModel(notification)

	s.broadcaster.Emit(ctx, realtime.UserRoom(req.RecipientID), realtime.EventNotificationNew, res)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, isRead *bool) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.UserFromContext(ctx)

	filter := shared.FilterByFields(model.TableName, model.FieldRecipientID, userID)
	if isRead != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldIsRead,
			Value:    *isRead,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if req.SortBy == "" {
		req.SortBy = constant.DefaultValueSortBy
		req.SortDir = constant.DefaultValueSortDir
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) UnreadCount(ctx context.Context) (res dto.UnreadCountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UnreadCount")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.UserFromContext(ctx)

	res.Unread, err = s.repo.Count(ctx, shared.FilterByFields(model.TableName,
		model.FieldRecipientID, userID,
		model.FieldIsRead, false,
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to count unread notifications")

		return res, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err := s.ownFilter(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(dto.MarkReadRequest{IsRead: true}, shared.ActorFromContext(ctx)), filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}

func (s *serviceImpl) MarkAllRead(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkAllRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.UserFromContext(ctx)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRecipientID,
				Value:    userID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "was_read",
				Field:    model.FieldIsRead,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	if err = s.repo.Update(ctx, shared.TransformFields(dto.MarkReadRequest{IsRead: true}, shared.ActorFromContext(ctx)), filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notifications as read")

		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err := s.ownFilter(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete notification")

		return fmt.Errorf("failed to delete notification: %w", err)
	}

	return nil
}

// ownFilter scopes id to the caller and fails with 404 when the notification belongs to someone else.
func (s *serviceImpl) ownFilter(ctx context.Context, id string) (gDto.FilterGroup, error) {
	userID, _ := shared.UserFromContext(ctx)

	filter := shared.FilterByFields(model.TableName,
		model.FieldID, id,
		model.FieldRecipientID, userID,
	)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if notification exists")

		return filter, fmt.Errorf("failed to check if notification exists: %w", err)
	}

	if !exist {
		return filter, failure.NotFound("notification not found")
	}

	return filter, nil
}
