package service

import (
	"context"
	"errors"
	"fmt"
	"taskpal/infras/chat"
	"taskpal/infras/otel"
	"taskpal/internal/domains/chat/model"
	"taskpal/internal/domains/chat/model/dto"
	"taskpal/internal/domains/chat/repository"
	"taskpal/shared"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"

	"github.com/rs/zerolog/log"
)

type Chat interface {
	Token(ctx context.Context) (dto.TokenResponse, error)
	GetThreads(ctx context.Context, req gDto.QueryParams) (dto.GetThreadsResponse, error)
}

type serviceImpl struct {
	repo   repository.Thread
	issuer chat.TokenIssuer
	otel   otel.Otel
}

func New(repo repository.Thread, issuer chat.TokenIssuer, otel otel.Otel) Chat {
	return &serviceImpl{
		repo:   repo,
		issuer: issuer,
		otel:   otel,
	}
}

func (s *serviceImpl) Token(ctx context.Context) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Token")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := shared.UserFromContext(ctx)

	token, err := s.issuer.UserToken(ctx, userID)
	if errors.Is(err, chat.ErrNotConfigured) {
		log.Error().Msg("chat token requested but the chat provider is not configured")

		return res, failure.InternalError(err) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to issue chat token")

		return res, fmt.Errorf("failed to issue chat token: %w", err)
	}

	res.Token = token
	res.APIKey = s.issuer.APIKey()
	res.UserID = userID

	return res, nil
}

// GetThreads lists the caller's threads. Admins see every thread.
func (s *serviceImpl) GetThreads(ctx context.Context, req gDto.QueryParams) (res dto.GetThreadsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetThreads")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, role := shared.UserFromContext(ctx)

	var filter gDto.FilterGroup

	switch {
	case role == constant.RoleProvider:
		filter = shared.FilterByFields(model.TableName, model.FieldProviderID, userID)
	case shared.IsClient(role):
		filter = shared.FilterByFields(model.TableName, model.FieldClientID, userID)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count chat threads")

		return res, fmt.Errorf("failed to count chat threads: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get chat threads")

		return res, fmt.Errorf("failed to get chat threads: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}
