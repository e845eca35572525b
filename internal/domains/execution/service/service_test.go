package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"taskpal/infras/kafka"
	kafkaMocks "taskpal/infras/kafka/mocks"
	"taskpal/infras/otel/mocks"
	postgresMocks "taskpal/infras/postgres/mocks"
	"taskpal/infras/realtime"
	realtimeMocks "taskpal/infras/realtime/mocks"
	bookingMocks "taskpal/internal/domains/booking/mocks"
	bookingModel "taskpal/internal/domains/booking/model"
	executionMocks "taskpal/internal/domains/execution/mocks"
	"taskpal/internal/domains/execution/model"
	"taskpal/internal/domains/execution/model/dto"
	"taskpal/internal/domains/execution/service"
	notificationMocks "taskpal/internal/domains/notification/service/mocks"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
)

type executionServiceFixture struct {
	repo         *executionMocks.MockExecution
	bookings     *bookingMocks.MockBooking
	transactor   *postgresMocks.MockTransactor
	notification *notificationMocks.MockNotification
	broadcaster  *realtimeMocks.MockBroadcaster
	publisher    *kafkaMocks.MockPublisher
	svc          service.Execution
}

func newFixture(t *testing.T) executionServiceFixture {
	ctrl := gomock.NewController(t)

	f := executionServiceFixture{
		repo:         executionMocks.NewMockExecution(ctrl),
		bookings:     bookingMocks.NewMockBooking(ctrl),
		transactor:   postgresMocks.NewMockTransactor(ctrl),
		notification: notificationMocks.NewMockNotification(ctrl),
		broadcaster:  realtimeMocks.NewMockBroadcaster(ctrl),
		publisher:    kafkaMocks.NewMockPublisher(ctrl),
	}

	f.svc = service.New(f.repo, f.bookings, f.transactor, f.notification, f.broadcaster, f.publisher, mocks.NewOtel())

	return f
}

func callerContext(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

// inTx runs the unit of work directly and expects the execution row to be
// created if missing and then read under lock.
func (f executionServiceFixture) inTx(execution model.Execution) {
	f.transactor.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error { return fn(nil) })
	f.repo.EXPECT().InsertIgnoreConflictTx(gomock.Any(), gomock.Any(), gomock.Any(), model.FieldBookingID).Return(false, nil)
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(execution, nil)
}

func paidBooking() bookingModel.Booking {
	return bookingModel.Booking{ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: bookingModel.StatusPaid}
}

func TestExecutionService_GetOrCreate(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		booking   bookingModel.Booking
		setupMock func(f executionServiceFixture)
		wantCode  int
	}{
		{
			name:      "unknown booking",
			ctx:       callerContext("client-1", constant.RoleClient),
			booking:   bookingModel.Booking{},
			setupMock: func(executionServiceFixture) {},
			wantCode:  http.StatusNotFound,
		},
		{
			name:      "not a party",
			ctx:       callerContext("provider-9", constant.RoleProvider),
			booking:   paidBooking(),
			setupMock: func(executionServiceFixture) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "booking not paid",
			ctx:       callerContext("client-1", constant.RoleClient),
			booking:   bookingModel.Booking{ID: "booking-1", ClientID: "client-1", Status: bookingModel.StatusConfirmed},
			setupMock: func(executionServiceFixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:    "existing execution is returned",
			ctx:     callerContext("provider-1", constant.RoleProvider),
			booking: paidBooking(),
			setupMock: func(f executionServiceFixture) {
				f.inTx(model.Execution{ID: "execution-1", BookingID: "booking-1", CompletedProvider: true})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking, nil)
			tt.setupMock(f)

			res, err := f.svc.GetOrCreate(tt.ctx, "booking-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "execution-1", res.ID)
			assert.True(t, res.CompletedProvider)
		})
	}
}

func TestExecutionService_UpdateField_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		req      dto.UpdateFieldRequest
		wantCode int
	}{
		{
			name:     "unknown field",
			ctx:      callerContext("client-1", constant.RoleClient),
			req:      dto.UpdateFieldRequest{Field: "status", Value: "Completed"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "client cannot complete for the provider",
			ctx:      callerContext("client-1", constant.RoleClient),
			req:      dto.UpdateFieldRequest{Field: model.FieldCompletedProvider, Value: true},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "provider cannot write client notes",
			ctx:      callerContext("provider-1", constant.RoleProvider),
			req:      dto.UpdateFieldRequest{Field: model.FieldClientNotes, Value: "done"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "completion flag must be boolean",
			ctx:      callerContext("client-1", constant.RoleClient),
			req:      dto.UpdateFieldRequest{Field: model.FieldCompletedClient, Value: "yes"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(paidBooking(), nil)
			f.inTx(model.Execution{ID: "execution-1", BookingID: "booking-1"})

			_, err := f.svc.UpdateField(tt.ctx, tt.req, "booking-1")

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestExecutionService_UpdateField_Notes(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(paidBooking(), nil)
	f.inTx(model.Execution{ID: "execution-1", BookingID: "booking-1"})
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, "arrived at 9am", fields[model.FieldProviderNotes])
			assert.NotContains(t, fields, model.FieldCompletedAt)

			return nil
		})
	f.broadcaster.EXPECT().Emit(gomock.Any(), realtime.BookingRoom("booking-1"), realtime.EventExecutionUpdated, gomock.Any())
	f.notification.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.UpdateField(callerContext("provider-1", constant.RoleProvider),
		dto.UpdateFieldRequest{Field: model.FieldProviderNotes, Value: "arrived at 9am"}, "booking-1")

	assert.NoError(t, err)
	assert.Equal(t, "arrived at 9am", *res.ProviderNotes)
}

func TestExecutionService_UpdateField_CompletesBooking(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(paidBooking(), nil)
	f.inTx(model.Execution{ID: "execution-1", BookingID: "booking-1", CompletedProvider: true})
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, true, fields[model.FieldCompletedClient])
			assert.Contains(t, fields, model.FieldCompletedAt)

			return nil
		})
	f.bookings.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, bookingModel.StatusCompleted, fields[bookingModel.FieldStatus])

			return nil
		})
	f.broadcaster.EXPECT().Emit(gomock.Any(), gomock.Any(), realtime.EventExecutionUpdated, gomock.Any())
	f.broadcaster.EXPECT().Emit(gomock.Any(), gomock.Any(), realtime.EventBookingStatusUpdated, gomock.Any())
	f.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, event kafka.Event) {
			assert.Equal(t, kafka.EventExecutionCompleted, event.Type)
			assert.Equal(t, "booking-1", event.BookingID)
		})
	f.notification.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.UpdateField(callerContext("client-1", constant.RoleClient),
		dto.UpdateFieldRequest{Field: model.FieldCompletedClient, Value: true}, "booking-1")

	assert.NoError(t, err)
	assert.True(t, res.CompletedClient)
	assert.NotNil(t, res.CompletedAt)
}

func TestExecutionService_UpdateField_CompletedBookingLocksFlags(t *testing.T) {
	f := newFixture(t)

	booking := paidBooking()
	booking.Status = bookingModel.StatusCompleted
	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

	_, err := f.svc.UpdateField(callerContext("client-1", constant.RoleClient),
		dto.UpdateFieldRequest{Field: model.FieldCompletedClient, Value: false}, "booking-1")

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestExecutionService_UpdateField_AlreadyCompletedExecution(t *testing.T) {
	f := newFixture(t)

	completedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(paidBooking(), nil)
	f.inTx(model.Execution{
		ID: "execution-1", BookingID: "booking-1",
		CompletedClient: true, CompletedProvider: true, CompletedAt: &completedAt,
	})
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.NotContains(t, fields, model.FieldCompletedAt)

			return nil
		})
	f.broadcaster.EXPECT().Emit(gomock.Any(), gomock.Any(), realtime.EventExecutionUpdated, gomock.Any())
	f.notification.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.UpdateField(callerContext("client-1", constant.RoleClient),
		dto.UpdateFieldRequest{Field: model.FieldCompletedClient, Value: true}, "booking-1")

	assert.NoError(t, err)
	assert.Equal(t, completedAt, *res.CompletedAt)
}

func TestExecutionService_UpdateField_RollsBackOnBookingFailure(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(paidBooking(), nil)
	f.inTx(model.Execution{ID: "execution-1", BookingID: "booking-1", CompletedClient: true})
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.bookings.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("deadlock detected"))

	_, err := f.svc.UpdateField(callerContext("provider-1", constant.RoleProvider),
		dto.UpdateFieldRequest{Field: model.FieldCompletedProvider, Value: true}, "booking-1")

	assert.ErrorContains(t, err, "failed to complete booking")
}
