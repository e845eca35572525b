package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"taskpal/infras/otel"
	"taskpal/infras/postgres"
	"taskpal/internal/domains/execution/model"
	gDto "taskpal/shared/dto"
	gRepo "taskpal/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Execution interface {
	InsertIgnoreConflictTx(ctx context.Context, sqltx *sqlx.Tx, model model.Execution, conflictColumn string) (bool, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Execution, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Execution, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Execution]
}

func New(db *postgres.Connection, otel otel.Otel) Execution {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Execution](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
