package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"taskpal/config"
	"taskpal/infras/kafka"
	kafkaMocks "taskpal/infras/kafka/mocks"
	"taskpal/infras/otel/mocks"
	postgresMocks "taskpal/infras/postgres/mocks"
	"taskpal/infras/realtime"
	realtimeMocks "taskpal/infras/realtime/mocks"
	"taskpal/infras/stripe"
	stripeMocks "taskpal/infras/stripe/mocks"
	bookingMocks "taskpal/internal/domains/booking/mocks"
	bookingModel "taskpal/internal/domains/booking/model"
	notificationMocks "taskpal/internal/domains/notification/service/mocks"
	paymentMocks "taskpal/internal/domains/payment/mocks"
	"taskpal/internal/domains/payment/model"
	"taskpal/internal/domains/payment/model/dto"
	"taskpal/internal/domains/payment/service"
	userMocks "taskpal/internal/domains/user/mocks"
	userModel "taskpal/internal/domains/user/model"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
)

type paymentServiceFixture struct {
	repo         *paymentMocks.MockPayment
	bookings     *bookingMocks.MockBooking
	users        *userMocks.MockUser
	transactor   *postgresMocks.MockTransactor
	gateway      *stripeMocks.MockGateway
	notification *notificationMocks.MockNotification
	broadcaster  *realtimeMocks.MockBroadcaster
	publisher    *kafkaMocks.MockPublisher
	svc          service.Payment
}

func newFixture(t *testing.T) paymentServiceFixture {
	ctrl := gomock.NewController(t)

	f := paymentServiceFixture{
		repo:         paymentMocks.NewMockPayment(ctrl),
		bookings:     bookingMocks.NewMockBooking(ctrl),
		users:        userMocks.NewMockUser(ctrl),
		transactor:   postgresMocks.NewMockTransactor(ctrl),
		gateway:      stripeMocks.NewMockGateway(ctrl),
		notification: notificationMocks.NewMockNotification(ctrl),
		broadcaster:  realtimeMocks.NewMockBroadcaster(ctrl),
		publisher:    kafkaMocks.NewMockPublisher(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Name = "TaskPal"
	cfg.External.Stripe.Currency = "php"

	f.svc = service.New(f.repo, f.bookings, f.users, f.transactor, f.gateway, f.notification,
		f.broadcaster, f.publisher, cfg, mocks.NewOtel())

	return f
}

func callerContext(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func booking(status string, price *float64) bookingModel.Booking {
	return bookingModel.Booking{ID: "booking-1", ClientID: "client-1", ProviderID: "provider-1", Status: status, Price: price}
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(150050), dto.ToMinorUnits(1500.50))
	assert.Equal(t, int64(1999), dto.ToMinorUnits(19.99))
}

func TestPaymentService_Checkout(t *testing.T) {
	agreed := 1250.75

	tests := []struct {
		name      string
		ctx       context.Context
		booking   bookingModel.Booking
		setupMock func(f paymentServiceFixture)
		wantCode  int
	}{
		{
			name:      "provider cannot pay",
			ctx:       callerContext("provider-1", constant.RoleProvider),
			booking:   booking(bookingModel.StatusConfirmed, &agreed),
			setupMock: func(paymentServiceFixture) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "booking not confirmed",
			ctx:       callerContext("client-1", constant.RoleClient),
			booking:   booking(bookingModel.StatusNegotiating, &agreed),
			setupMock: func(paymentServiceFixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:    "delegate opens a session in minor units",
			ctx:     callerContext("client-1", constant.RoleAuthorized),
			booking: booking(bookingModel.StatusConfirmed, &agreed),
			setupMock: func(f paymentServiceFixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "client-1", Email: "lola@example.com"}, nil)
				f.gateway.EXPECT().
					CreateCheckoutSession(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req stripe.CheckoutRequest) (stripe.CheckoutSession, error) {
						assert.Equal(t, int64(125075), req.Amount)
						assert.Equal(t, "php", req.Currency)
						assert.Equal(t, "booking-1", req.BookingID)
						assert.Equal(t, "lola@example.com", req.Email)

						return stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout/cs_1"}, nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking, nil)
			tt.setupMock(f)

			res, err := f.svc.Checkout(tt.ctx, dto.CheckoutRequest{BookingID: "booking-1"})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "cs_1", res.SessionID)
			assert.Equal(t, "https://checkout/cs_1", res.URL)
		})
	}
}

func TestPaymentService_Verify(t *testing.T) {
	agreed := 500.0
	paidSession := stripe.CheckoutSession{
		ID:              "cs_1",
		Paid:            true,
		AmountTotal:     50000,
		Currency:        "php",
		PaymentIntentID: "pi_1",
		Metadata:        map[string]string{stripe.MetadataBookingID: "booking-1"},
	}

	t.Run("unpaid session", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.EXPECT().GetCheckoutSession(gomock.Any(), "cs_1").Return(stripe.CheckoutSession{ID: "cs_1"}, nil)

		_, err := f.svc.Verify(callerContext("client-1", constant.RoleClient), dto.VerifyRequest{SessionID: "cs_1"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("already recorded", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.EXPECT().GetCheckoutSession(gomock.Any(), gomock.Any()).Return(paidSession, nil)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(bookingModel.StatusPaid, &agreed), nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{ID: "payment-1", BookingID: "booking-1", Amount: 500}, nil)

		res, err := f.svc.Verify(callerContext("client-1", constant.RoleClient), dto.VerifyRequest{SessionID: "cs_1"})

		assert.NoError(t, err)
		assert.Equal(t, "payment-1", res.ID)
	})

	t.Run("records payment and marks booking paid", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.EXPECT().GetCheckoutSession(gomock.Any(), gomock.Any()).Return(paidSession, nil)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(bookingModel.StatusConfirmed, &agreed), nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
		f.transactor.EXPECT().
			WithTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error { return fn(nil) })
		f.bookings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(bookingModel.StatusConfirmed, &agreed), nil)
		f.repo.EXPECT().
			InsertIgnoreConflictTx(gomock.Any(), gomock.Any(), gomock.Any(), model.FieldBookingID).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, payment model.Payment, _ string) (bool, error) {
				assert.Equal(t, 500.0, payment.Amount)
				assert.Equal(t, "PHP", payment.Currency)
				assert.Equal(t, model.StatusPaid, payment.Status)
				assert.Equal(t, "pi_1", *payment.PaymentIntent)

				return true, nil
			})
		f.bookings.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, bookingModel.StatusPaid, fields[bookingModel.FieldStatus])

				return nil
			})
		f.broadcaster.EXPECT().Emit(gomock.Any(), realtime.BookingRoom("booking-1"), realtime.EventBookingStatusUpdated, gomock.Any())
		f.publisher.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, event kafka.Event) {
				assert.Equal(t, kafka.EventPaymentCompleted, event.Type)
			})
		f.notification.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Verify(callerContext("client-1", constant.RoleClient), dto.VerifyRequest{SessionID: "cs_1"})

		assert.NoError(t, err)
		assert.Equal(t, "cs_1", res.SessionID)
		assert.Equal(t, 500.0, res.Amount)
	})

	t.Run("concurrent verification already paid", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.EXPECT().GetCheckoutSession(gomock.Any(), gomock.Any()).Return(paidSession, nil)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(bookingModel.StatusConfirmed, &agreed), nil)
		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{}, nil),
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{ID: "payment-1", BookingID: "booking-1", Amount: 500}, nil),
		)
		f.transactor.EXPECT().
			WithTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error { return fn(nil) })
		f.bookings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(bookingModel.StatusPaid, &agreed), nil)

		res, err := f.svc.Verify(callerContext("client-1", constant.RoleClient), dto.VerifyRequest{SessionID: "cs_1"})

		assert.NoError(t, err)
		assert.Equal(t, "payment-1", res.ID)
	})

	t.Run("cancelled after checkout", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.EXPECT().GetCheckoutSession(gomock.Any(), gomock.Any()).Return(paidSession, nil)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(bookingModel.StatusConfirmed, &agreed), nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
		f.transactor.EXPECT().
			WithTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error { return fn(nil) })
		f.bookings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(bookingModel.StatusCancelled, &agreed), nil)

		_, err := f.svc.Verify(callerContext("client-1", constant.RoleClient), dto.VerifyRequest{SessionID: "cs_1"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestPaymentService_GetByBooking(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		found    model.Payment
		wantCode int
	}{
		{name: "not found", ctx: callerContext("client-1", constant.RoleClient), found: model.Payment{}, wantCode: http.StatusNotFound},
		{name: "stranger", ctx: callerContext("client-2", constant.RoleClient), found: model.Payment{ID: "payment-1", ClientID: "client-1", ProviderID: "provider-1"}, wantCode: http.StatusForbidden},
		{name: "provider", ctx: callerContext("provider-1", constant.RoleProvider), found: model.Payment{ID: "payment-1", ClientID: "client-1", ProviderID: "provider-1"}},
		{name: "admin", ctx: callerContext("admin-1", constant.RoleAdmin), found: model.Payment{ID: "payment-1", ClientID: "client-1", ProviderID: "provider-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.found, nil)

			res, err := f.svc.GetByBooking(tt.ctx, "booking-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "payment-1", res.ID)
		})
	}
}
