package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"taskpal/infras/otel"
	"taskpal/infras/postgres"
	"taskpal/internal/domains/booking/model"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/logger"
	gRepo "taskpal/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CountGroupBy(ctx context.Context, column string, filter gDto.FilterGroup) (map[string]int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Sign(ctx context.Context, req SignRequest) (model.Booking, bool, error)
	ProposePrice(ctx context.Context, req PriceRequest) (model.Booking, bool, error)
}

// SignRequest records one party's agreement to Price.
type SignRequest struct {
	BookingID string
	Party     string
	Price     float64
	Actor     string
	At        time.Time
}

// PriceRequest proposes Price and clears both signatures.
type PriceRequest struct {
	BookingID string
	Price     float64
	Actor     string
	At        time.Time
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Sign sets the party's flag and confirms the booking when the other side has
// already signed, in one statement so two parties signing at once both land. The
// row only changes while its price still equals req.Price and it is open; false
// is returned otherwise.
func (r *repositoryImpl) Sign(ctx context.Context, req SignRequest) (model.Booking, bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Sign")
	defer scope.End()

	byClient := req.Party == constant.RoleClient

	query := fmt.Sprintf(`UPDATE %[1]s SET
		%[2]s = %[2]s OR $2,
		%[3]s = %[3]s OR $3,
		%[4]s = CASE WHEN (%[2]s OR $2) AND (%[3]s OR $3) THEN $4 ELSE %[4]s END,
		%[5]s = $5,
		%[6]s = $6
	WHERE %[7]s = $1 AND %[8]s = $7 AND %[4]s NOT IN ($8, $9, $10)
	RETURNING %[9]s`,
		model.TableName, model.FieldSignedByClient, model.FieldSignedByProvider, model.FieldStatus,
		constant.FieldModifiedAt, constant.FieldModifiedBy, model.FieldID, model.FieldPrice,
		strings.Join(r.InsertColumns, ", "),
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return r.returning(ctx, scope, "sign booking", query,
		req.BookingID, byClient, !byClient, model.StatusConfirmed, req.At, req.Actor, req.Price,
		model.StatusCancelled, model.StatusPaid, model.StatusCompleted,
	)
}

// ProposePrice sets a new price and moves the booking back to negotiation. The
// row only changes while it is open and not signed by both parties; false is
// returned otherwise.
func (r *repositoryImpl) ProposePrice(ctx context.Context, req PriceRequest) (model.Booking, bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ProposePrice")
	defer scope.End()

	query := fmt.Sprintf(`UPDATE %[1]s SET
		%[2]s = $2,
		%[3]s = $3,
		%[4]s = FALSE,
		%[5]s = FALSE,
		%[6]s = $4,
		%[7]s = $5
	WHERE %[8]s = $1 AND NOT (%[4]s AND %[5]s) AND %[3]s NOT IN ($6, $7, $8)
	RETURNING %[9]s`,
		model.TableName, model.FieldPrice, model.FieldStatus, model.FieldSignedByClient, model.FieldSignedByProvider,
		constant.FieldModifiedAt, constant.FieldModifiedBy, model.FieldID,
		strings.Join(r.InsertColumns, ", "),
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return r.returning(ctx, scope, "propose price", query,
		req.BookingID, req.Price, model.StatusNegotiating, req.At, req.Actor,
		model.StatusCancelled, model.StatusPaid, model.StatusCompleted,
	)
}

// returning runs a guarded UPDATE ... RETURNING and scans the changed row.
func (r *repositoryImpl) returning(ctx context.Context, scope otel.Scope, action, query string, args ...any) (model.Booking, bool, error) {
	var booking model.Booking

	err := r.db.Write.QueryRowxContext(ctx, query, args...).StructScan(&booking)
	if errors.Is(err, sql.ErrNoRows) {
		return booking, false, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return booking, false, fmt.Errorf("failed to %s: %w", action, err)
	}

	return booking, true, nil
}
