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

	"taskpal/config"
	"taskpal/infras/kafka"
	kafkaMocks "taskpal/infras/kafka/mocks"
	"taskpal/infras/otel/mocks"
	"taskpal/infras/pdf"
	pdfMocks "taskpal/infras/pdf/mocks"
	postgresMocks "taskpal/infras/postgres/mocks"
	"taskpal/infras/realtime"
	realtimeMocks "taskpal/infras/realtime/mocks"
	s3Mocks "taskpal/infras/s3/mocks"
	bookingMocks "taskpal/internal/domains/booking/mocks"
	"taskpal/internal/domains/booking/model"
	"taskpal/internal/domains/booking/model/dto"
	"taskpal/internal/domains/booking/repository"
	"taskpal/internal/domains/booking/service"
	threadMocks "taskpal/internal/domains/chat/mocks"
	chatModel "taskpal/internal/domains/chat/model"
	notificationDto "taskpal/internal/domains/notification/model/dto"
	notificationMocks "taskpal/internal/domains/notification/service/mocks"
	providerMocks "taskpal/internal/domains/provider/mocks"
	providerModel "taskpal/internal/domains/provider/model"
	userMocks "taskpal/internal/domains/user/mocks"
	userModel "taskpal/internal/domains/user/model"
	"taskpal/shared/constant"
	"taskpal/shared/failure"
)

type bookingServiceFixture struct {
	repo         *bookingMocks.MockBooking
	threads      *threadMocks.MockThread
	providers    *providerMocks.MockProvider
	users        *userMocks.MockUser
	transactor   *postgresMocks.MockTransactor
	notification *notificationMocks.MockNotification
	broadcaster  *realtimeMocks.MockBroadcaster
	publisher    *kafkaMocks.MockPublisher
	renderer     *pdfMocks.MockRenderer
	s3           *s3Mocks.MockS3
	svc          service.Booking
}

func newFixture(t *testing.T) bookingServiceFixture {
	ctrl := gomock.NewController(t)

	f := bookingServiceFixture{
		repo:         bookingMocks.NewMockBooking(ctrl),
		threads:      threadMocks.NewMockThread(ctrl),
		providers:    providerMocks.NewMockProvider(ctrl),
		users:        userMocks.NewMockUser(ctrl),
		transactor:   postgresMocks.NewMockTransactor(ctrl),
		notification: notificationMocks.NewMockNotification(ctrl),
		broadcaster:  realtimeMocks.NewMockBroadcaster(ctrl),
		publisher:    kafkaMocks.NewMockPublisher(ctrl),
		renderer:     pdfMocks.NewMockRenderer(ctrl),
		s3:           s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Name = "TaskPal"
	cfg.External.Stripe.Currency = "php"

	f.svc = service.New(f.repo, f.threads, f.providers, f.users, f.transactor, f.notification,
		f.broadcaster, f.publisher, f.renderer, f.s3, cfg, mocks.NewOtel())

	return f
}

func callerContext(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func price(value float64) *float64 {
	return &value
}

func TestBookingService_Create(t *testing.T) {
	validReq := dto.CreateBookingRequest{
		ClientID:      "client-1",
		ProviderID:    "provider-1",
		ScheduledDate: time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(f bookingServiceFixture)
		wantCode  int
	}{
		{
			name:      "missing provider id",
			req:       dto.CreateBookingRequest{ClientID: "client-1"},
			setupMock: func(bookingServiceFixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "missing client id",
			req:       dto.CreateBookingRequest{ProviderID: "provider-1"},
			setupMock: func(bookingServiceFixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "booking for another client",
			req:       dto.CreateBookingRequest{ClientID: "client-2", ProviderID: "provider-1"},
			setupMock: func(bookingServiceFixture) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name: "unknown provider",
			req:  validReq,
			setupMock: func(f bookingServiceFixture) {
				f.providers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(providerModel.Provider{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "provider not approved",
			req:  validReq,
			setupMock: func(f bookingServiceFixture) {
				f.providers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(providerModel.Provider{ID: "provider-1", Status: providerModel.StatusPending}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "transaction failure",
			req:  validReq,
			setupMock: func(f bookingServiceFixture) {
				f.providers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(providerModel.Provider{ID: "provider-1", Status: providerModel.StatusApproved}, nil)
				f.transactor.EXPECT().
					WithTx(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error { return fn(nil) })
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.threads.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "creates booking and chat thread together",
			req:  validReq,
			setupMock: func(f bookingServiceFixture) {
				f.providers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(providerModel.Provider{ID: "provider-1", Status: providerModel.StatusApproved}, nil)
				f.transactor.EXPECT().
					WithTx(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error { return fn(nil) })

				var bookingID string

				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						assert.Equal(t, model.StatusPending, booking.Status)
						bookingID = booking.ID

						return nil
					})
				f.threads.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, thread chatModel.Thread) error {
						assert.Equal(t, bookingID, thread.BookingID)
						assert.Equal(t, "booking-"+bookingID, thread.ChannelID)

						return nil
					})
				f.publisher.EXPECT().
					Publish(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, event kafka.Event) {
						assert.Equal(t, kafka.EventBookingCreated, event.Type)
					})
				f.notification.EXPECT().
					Notify(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req notificationDto.NotifyRequest) error {
						assert.Equal(t, "provider-1", req.RecipientID)

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(callerContext("client-1", constant.RoleClient), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Nil(t, res.Price)
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	booking := model.Booking{ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: model.StatusPending}

	tests := []struct {
		name     string
		ctx      context.Context
		found    model.Booking
		wantCode int
	}{
		{name: "client party", ctx: callerContext("client-1", constant.RoleClient), found: booking},
		{name: "delegate acts as the client", ctx: callerContext("client-1", constant.RoleAuthorized), found: booking},
		{name: "admin", ctx: callerContext("admin-1", constant.RoleAdmin), found: booking},
		{name: "unrelated provider", ctx: callerContext("provider-2", constant.RoleProvider), found: booking, wantCode: http.StatusForbidden},
		{name: "unknown booking", ctx: callerContext("client-1", constant.RoleClient), found: model.Booking{}, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.found, nil)

			res, err := f.svc.Get(tt.ctx, "booking-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "booking-1", res.ID)
		})
	}
}

func TestBookingService_UpdatePrice(t *testing.T) {
	tests := []struct {
		name      string
		booking   model.Booking
		setupMock func(f bookingServiceFixture)
		wantCode  int
	}{
		{
			name: "both parties already signed",
			booking: model.Booking{ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1",
				Status: model.StatusConfirmed, Price: price(500), SignedByClient: true, SignedByProvider: true},
			setupMock: func(bookingServiceFixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "cancelled booking",
			booking:   model.Booking{ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: model.StatusCancelled},
			setupMock: func(bookingServiceFixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "new proposal clears the signatures",
			booking: model.Booking{ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1",
				Status: model.StatusNegotiating, Price: price(400), SignedByClient: true},
			setupMock: func(f bookingServiceFixture) {
				f.repo.EXPECT().
					ProposePrice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req repository.PriceRequest) (model.Booking, bool, error) {
						assert.Equal(t, "booking-1", req.BookingID)
						assert.Equal(t, 750.0, req.Price)
						assert.Equal(t, "provider-1", req.Actor)

						return model.Booking{ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1",
							Status: model.StatusNegotiating, Price: price(750)}, true, nil
					})
				f.broadcaster.EXPECT().
					Emit(gomock.Any(), realtime.BookingRoom("booking-1"), realtime.EventBookingPriceUpdated, dto.PriceUpdatedEvent{
						BookingID:  "booking-1",
						Price:      750,
						ProposedBy: constant.RoleProvider,
					})
				f.notification.EXPECT().
					Notify(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req notificationDto.NotifyRequest) error {
						assert.Equal(t, "client-1", req.RecipientID)

						return nil
					})
			},
		},
		{
			name: "signed by both while proposing",
			booking: model.Booking{ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1",
				Status: model.StatusNegotiating, Price: price(400), SignedByClient: true},
			setupMock: func(f bookingServiceFixture) {
				f.repo.EXPECT().ProposePrice(gomock.Any(), gomock.Any()).Return(model.Booking{}, false, nil)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking, nil)
			tt.setupMock(f)

			res, err := f.svc.UpdatePrice(callerContext("provider-1", constant.RoleProvider), dto.UpdatePriceRequest{Price: 750}, "booking-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, 750.0, *res.Price)
			assert.False(t, res.SignedByClient)
			assert.False(t, res.SignedByProvider)
		})
	}
}

func TestBookingService_Agree(t *testing.T) {
	t.Run("no price yet", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "booking-1", ClientID: "client-1", Status: model.StatusPending}, nil)

		_, err := f.svc.Agree(callerContext("client-1", constant.RoleClient), "booking-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("first signature keeps negotiating", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
			ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: model.StatusNegotiating, Price: price(500),
		}, nil)
		f.repo.EXPECT().
			Sign(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req repository.SignRequest) (model.Booking, bool, error) {
				assert.Equal(t, "booking-1", req.BookingID)
				assert.Equal(t, constant.RoleClient, req.Party)
				assert.Equal(t, 500.0, req.Price)
				assert.Equal(t, "client-1", req.Actor)

				return model.Booking{
					ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: model.StatusNegotiating,
					Price: price(500), SignedByClient: true,
				}, true, nil
			})
		f.broadcaster.EXPECT().Emit(gomock.Any(), gomock.Any(), realtime.EventBookingAgreementSigned, gomock.Any())
		f.notification.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Agree(callerContext("client-1", constant.RoleClient), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusNegotiating, res.Status)
		assert.True(t, res.SignedByClient)
	})

	t.Run("second signature confirms", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
			ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: model.StatusNegotiating,
			Price: price(500), SignedByClient: true,
		}, nil)
		f.repo.EXPECT().Sign(gomock.Any(), gomock.Any()).Return(model.Booking{
			ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: model.StatusConfirmed,
			Price: price(500), SignedByClient: true, SignedByProvider: true,
		}, true, nil)
		f.broadcaster.EXPECT().Emit(gomock.Any(), gomock.Any(), realtime.EventBookingAgreementSigned, gomock.Any())
		f.broadcaster.EXPECT().Emit(gomock.Any(), gomock.Any(), realtime.EventBookingStatusUpdated, dto.StatusUpdatedEvent{
			BookingID: "booking-1",
			Status:    model.StatusConfirmed,
		})
		f.notification.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Agree(callerContext("provider-1", constant.RoleProvider), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)
	})

	t.Run("price changed concurrently", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
			ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: model.StatusNegotiating, Price: price(500),
		}, nil)
		f.repo.EXPECT().Sign(gomock.Any(), gomock.Any()).Return(model.Booking{}, false, nil)

		_, err := f.svc.Agree(callerContext("provider-1", constant.RoleProvider), "booking-1")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
		ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: model.StatusPaid,
	}, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.broadcaster.EXPECT().Emit(gomock.Any(), gomock.Any(), realtime.EventBookingStatusUpdated, gomock.Any())
	f.notification.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Cancel(callerContext("client-1", constant.RoleClient), "booking-1")

	assert.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, res.Status)
}

func TestBookingService_DownloadAgreement(t *testing.T) {
	t.Run("not fully signed", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
			ID: "booking-1", ClientID: "client-1", Price: price(500), SignedByClient: true,
		}, nil)

		_, err := f.svc.DownloadAgreement(callerContext("client-1", constant.RoleClient), "booking-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("renders and stores the agreement", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
			ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: model.StatusConfirmed,
			Price: price(500), SignedByClient: true, SignedByProvider: true,
		}, nil)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "client-1", FirstName: "Lola", LastName: "Cruz"}, nil)
		f.providers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(providerModel.Provider{ID: "provider-1", FirstName: "Ben", LastName: "Reyes"}, nil)
		f.renderer.EXPECT().
			RenderAgreement(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, agreement pdf.Agreement) ([]byte, error) {
				assert.Equal(t, "Lola Cruz", agreement.Client.Name)
				assert.Equal(t, "Ben Reyes", agreement.Provider.Name)
				assert.Equal(t, "PHP", agreement.Currency)

				return []byte("%PDF"), nil
			})
		f.s3.EXPECT().
			UploadFileBytes(gomock.Any(), "agreements", "booking-1.pdf", constant.ContentTypePDF, []byte("%PDF")).
			Return("https://cdn/agreements/booking-1.pdf", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.DownloadAgreement(callerContext("client-1", constant.RoleClient), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn/agreements/booking-1.pdf", res.URL)
	})
}

func TestBookingService_Delete(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := f.svc.Delete(callerContext("admin-1", constant.RoleAdmin), "booking-1")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
