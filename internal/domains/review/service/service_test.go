package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"taskpal/infras/otel/mocks"
	postgresMocks "taskpal/infras/postgres/mocks"
	bookingMocks "taskpal/internal/domains/booking/mocks"
	bookingModel "taskpal/internal/domains/booking/model"
	executionMocks "taskpal/internal/domains/execution/mocks"
	executionModel "taskpal/internal/domains/execution/model"
	notificationMocks "taskpal/internal/domains/notification/service/mocks"
	providerServiceMocks "taskpal/internal/domains/provider/service/mocks"
	reviewMocks "taskpal/internal/domains/review/mocks"
	"taskpal/internal/domains/review/model"
	"taskpal/internal/domains/review/model/dto"
	"taskpal/internal/domains/review/service"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
)

type reviewServiceFixture struct {
	repo         *reviewMocks.MockReview
	bookings     *bookingMocks.MockBooking
	executions   *executionMocks.MockExecution
	transactor   *postgresMocks.MockTransactor
	provider     *providerServiceMocks.MockProvider
	notification *notificationMocks.MockNotification
	svc          service.Review
}

func newFixture(t *testing.T) reviewServiceFixture {
	ctrl := gomock.NewController(t)

	f := reviewServiceFixture{
		repo:         reviewMocks.NewMockReview(ctrl),
		bookings:     bookingMocks.NewMockBooking(ctrl),
		executions:   executionMocks.NewMockExecution(ctrl),
		transactor:   postgresMocks.NewMockTransactor(ctrl),
		provider:     providerServiceMocks.NewMockProvider(ctrl),
		notification: notificationMocks.NewMockNotification(ctrl),
	}

	f.svc = service.New(f.repo, f.bookings, f.executions, f.transactor, f.provider, f.notification, mocks.NewOtel())

	return f
}

func clientContext(id string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleClient)
}

func TestReviewService_Create(t *testing.T) {
	completed := bookingModel.Booking{ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: bookingModel.StatusCompleted}
	done := executionModel.Execution{ID: "execution-1", BookingID: "booking-1", CompletedClient: true, CompletedProvider: true}
	req := dto.CreateReviewRequest{BookingID: "booking-1", Rating: 5}

	inTx := func(f reviewServiceFixture) {
		f.transactor.EXPECT().
			WithTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error { return fn(nil) })
	}

	tests := []struct {
		name      string
		caller    string
		setupMock func(f reviewServiceFixture)
		wantCode  int
	}{
		{
			name:   "unknown booking",
			caller: "client-1",
			setupMock: func(f reviewServiceFixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "someone else's booking",
			caller: "client-2",
			setupMock: func(f reviewServiceFixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "execution missing",
			caller: "client-1",
			setupMock: func(f reviewServiceFixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
				f.executions.EXPECT().Get(gomock.Any(), gomock.Any()).Return(executionModel.Execution{}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "provider has not completed",
			caller: "client-1",
			setupMock: func(f reviewServiceFixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
				f.executions.EXPECT().Get(gomock.Any(), gomock.Any()).Return(executionModel.Execution{ID: "execution-1", CompletedClient: true}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "already reviewed",
			caller: "client-1",
			setupMock: func(f reviewServiceFixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
				f.executions.EXPECT().Get(gomock.Any(), gomock.Any()).Return(done, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "concurrent duplicate insert",
			caller: "client-1",
			setupMock: func(f reviewServiceFixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
				f.executions.EXPECT().Get(gomock.Any(), gomock.Any()).Return(done, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				inTx(f)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "creates review and refreshes rating",
			caller: "client-1",
			setupMock: func(f reviewServiceFixture) {
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
				f.executions.EXPECT().Get(gomock.Any(), gomock.Any()).Return(done, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				inTx(f)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, review model.Review) error {
						assert.Equal(t, "provider-1", review.ProviderID)
						assert.Equal(t, 5, review.Rating)

						return nil
					})
				f.repo.EXPECT().RecomputeProviderRatingTx(gomock.Any(), gomock.Any(), "provider-1").Return(nil)
				f.provider.EXPECT().InvalidateCache(gomock.Any(), "provider-1")
				f.notification.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(clientContext(tt.caller), req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "booking-1", res.BookingID)
		})
	}
}

func TestReviewService_GetByProvider(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Review{{ID: "r1"}, {ID: "r2"}}, nil)

	res, err := f.svc.GetByProvider(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, "provider-1")

	assert.NoError(t, err)
	assert.Len(t, res.Reviews, 2)
	assert.Equal(t, 2, res.TotalPage)
	assert.Equal(t, 3, res.TotalData)
}

func TestReviewService_GetByBooking_NotFound(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Review{}, nil)

	_, err := f.svc.GetByBooking(context.Background(), "booking-1")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
