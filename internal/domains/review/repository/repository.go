package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskpal/infras/otel"
	"taskpal/infras/postgres"
	providerModel "taskpal/internal/domains/provider/model"
	"taskpal/internal/domains/review/model"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	gRepo "taskpal/shared/repository"
	"taskpal/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Review interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Review) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Review, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	RecomputeProviderRatingTx(ctx context.Context, sqltx *sqlx.Tx, providerID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// RecomputeProviderRatingTx refreshes the provider's average rating and review count
// from its reviews.
func (r *repositoryImpl) RecomputeProviderRatingTx(ctx context.Context, sqltx *sqlx.Tx, providerID string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".RecomputeProviderRatingTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		`UPDATE %[1]s SET
			%[2]s = (SELECT COALESCE(ROUND(AVG(%[3]s)::numeric, 2), 0) FROM %[4]s WHERE %[5]s = $1),
			%[6]s = (SELECT COUNT(*) FROM %[4]s WHERE %[5]s = $1),
			%[7]s = $2
		WHERE %[8]s = $1`,
		providerModel.TableName,
		providerModel.FieldRating,
		model.FieldRating,
		model.TableName,
		model.FieldProviderID,
		providerModel.FieldReviewCount,
		constant.FieldModifiedAt,
		providerModel.FieldID,
	)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = sqltx.ExecContext(ctx, query, providerID, timezone.Now()); err != nil {
		log.Error().Err(err).Msg("failed to recompute provider rating")

		return fmt.Errorf("failed to recompute provider rating: %w", err)
	}

	return nil
}
