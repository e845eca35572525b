package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskpal/infras/otel"
	"taskpal/infras/postgres"
	"taskpal/internal/domains/authorized/model"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	gRepo "taskpal/shared/repository"
	"time"

	"github.com/rs/zerolog/log"
)

type AuthorizedUser interface {
	Insert(ctx context.Context, model model.AuthorizedUser) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.AuthorizedUser, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AuthorizedUser, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.AuthorizedUser]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) AuthorizedUser {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.AuthorizedUser](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// DeactivateExpired switches off every active delegate whose expiry has passed.
func (r *repositoryImpl) DeactivateExpired(ctx context.Context, now time.Time) (affected int64, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".DeactivateExpired")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"UPDATE %s SET %s = FALSE, %s = $1, %s = $2 WHERE %s = TRUE AND %s <= $1",
		model.TableName,
		model.FieldActive,
		constant.FieldModifiedAt,
		constant.FieldModifiedBy,
		model.FieldActive,
		model.FieldExpiresAt,
	)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := r.db.Write.ExecContext(ctx, query, now, constant.ContextSystem)
	if err != nil {
		log.Error().Err(err).Msg("failed to deactivate expired authorized users")

		return 0, fmt.Errorf("failed to deactivate expired authorized users: %w", err)
	}

	affected, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}
