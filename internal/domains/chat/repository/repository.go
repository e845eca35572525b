package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"taskpal/infras/otel"
	"taskpal/infras/postgres"
	"taskpal/internal/domains/chat/model"
	gDto "taskpal/shared/dto"
	gRepo "taskpal/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Thread interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Thread) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Thread, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Thread]
}

func New(db *postgres.Connection, otel otel.Otel) Thread {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Thread](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
