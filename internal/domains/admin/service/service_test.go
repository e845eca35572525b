package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"taskpal/infras/otel/mocks"
	adminMocks "taskpal/internal/domains/admin/mocks"
	"taskpal/internal/domains/admin/model"
	"taskpal/internal/domains/admin/model/dto"
	"taskpal/internal/domains/admin/service"
	authMocks "taskpal/internal/domains/auth/service/mocks"
	bookingMocks "taskpal/internal/domains/booking/mocks"
	paymentMocks "taskpal/internal/domains/payment/mocks"
	providerMocks "taskpal/internal/domains/provider/mocks"
	userMocks "taskpal/internal/domains/user/mocks"
	"taskpal/shared/failure"
	"taskpal/shared/password"
)

type adminServiceFixture struct {
	repo      *adminMocks.MockAdmin
	auth      *authMocks.MockAuth
	users     *userMocks.MockUser
	providers *providerMocks.MockProvider
	bookings  *bookingMocks.MockBooking
	payments  *paymentMocks.MockPayment
	svc       service.Admin
}

func newFixture(t *testing.T) adminServiceFixture {
	ctrl := gomock.NewController(t)

	f := adminServiceFixture{
		repo:      adminMocks.NewMockAdmin(ctrl),
		auth:      authMocks.NewMockAuth(ctrl),
		users:     userMocks.NewMockUser(ctrl),
		providers: providerMocks.NewMockProvider(ctrl),
		bookings:  bookingMocks.NewMockBooking(ctrl),
		payments:  paymentMocks.NewMockPayment(ctrl),
	}

	f.svc = service.New(f.repo, f.auth, f.users, f.providers, f.bookings, f.payments, mocks.NewOtel())

	return f
}

func TestAdminService_Create(t *testing.T) {
	req := dto.CreateAdminRequest{Name: "Ops", Email: "ops@taskpal.ph", Password: "s3cret-pass", Role: "admin"}

	t.Run("email taken", func(t *testing.T) {
		f := newFixture(t)
		f.auth.EXPECT().EmailExists(gomock.Any(), req.Email).Return(true, nil)

		_, err := f.svc.Create(context.Background(), req)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("stores hashed password", func(t *testing.T) {
		f := newFixture(t)
		f.auth.EXPECT().EmailExists(gomock.Any(), req.Email).Return(false, nil)
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, admin model.Admin) error {
				assert.NotEqual(t, req.Password, admin.Password)
				assert.NoError(t, password.Verify(req.Password, admin.Password))

				return nil
			})

		res, err := f.svc.Create(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "admin", res.Role)
	})
}

func TestAdminService_Stats(t *testing.T) {
	t.Run("aggregates counters", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Count(gomock.Any(), gomock.Any()).Return(12, nil)
		f.providers.EXPECT().CountGroupBy(gomock.Any(), "status", gomock.Any()).Return(map[string]int{"Approved": 4, "Pending": 2}, nil)
		f.bookings.EXPECT().CountGroupBy(gomock.Any(), "status", gomock.Any()).Return(map[string]int{"Paid": 3, "Completed": 5}, nil)
		f.payments.EXPECT().Sum(gomock.Any(), "amount", gomock.Any()).Return(4200.5, nil)

		res, err := f.svc.Stats(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 12, res.TotalUsers)
		assert.Equal(t, 6, res.TotalProviders)
		assert.Equal(t, 2, res.PendingProviders)
		assert.Equal(t, 8, res.TotalBookings)
		assert.Equal(t, 4200.5, res.TotalPaidAmount)
	})

	t.Run("any failing counter fails the stats", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db down")).MaxTimes(1)
		f.providers.EXPECT().CountGroupBy(gomock.Any(), gomock.Any(), gomock.Any()).Return(map[string]int{}, nil).MaxTimes(1)
		f.bookings.EXPECT().CountGroupBy(gomock.Any(), gomock.Any(), gomock.Any()).Return(map[string]int{}, nil).MaxTimes(1)
		f.payments.EXPECT().Sum(gomock.Any(), gomock.Any(), gomock.Any()).Return(0.0, nil).MaxTimes(1)

		_, err := f.svc.Stats(context.Background())

		assert.Error(t, err)
	})
}
