package jobs_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"taskpal/config"
	"taskpal/infras/kafka"
	"taskpal/infras/mailer"
	mailerMocks "taskpal/infras/mailer/mocks"
	"taskpal/infras/otel/mocks"
	bookingMocks "taskpal/internal/domains/booking/mocks"
	bookingModel "taskpal/internal/domains/booking/model"
	providerMocks "taskpal/internal/domains/provider/mocks"
	providerModel "taskpal/internal/domains/provider/model"
	userMocks "taskpal/internal/domains/user/mocks"
	userModel "taskpal/internal/domains/user/model"
	"taskpal/internal/jobs"
)

type mailFixture struct {
	bookings  *bookingMocks.MockBooking
	users     *userMocks.MockUser
	providers *providerMocks.MockProvider
	mailer    *mailerMocks.MockMailer
	svc       jobs.BookingMailer
}

func newMailFixture(t *testing.T) mailFixture {
	ctrl := gomock.NewController(t)

	f := mailFixture{
		bookings:  bookingMocks.NewMockBooking(ctrl),
		users:     userMocks.NewMockUser(ctrl),
		providers: providerMocks.NewMockProvider(ctrl),
		mailer:    mailerMocks.NewMockMailer(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Name = "TaskPal"
	cfg.App.FrontendURL = "https://taskpal.example"

	f.svc = jobs.NewBookingMailer(f.bookings, f.users, f.providers, f.mailer, cfg, mocks.NewOtel())

	return f
}

func (f mailFixture) expectParties() {
	business := "Juan Plumbing"

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
		ID:            "b-1",
		ClientID:      "c-1",
		ProviderID:    "p-1",
		ScheduledDate: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}, nil)
	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{
		ID: "c-1", FirstName: "Maria", LastName: "Santos", Email: "maria@example.com",
	}, nil)
	f.providers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(providerModel.Provider{
		ID: "p-1", BusinessName: &business, Email: "juan@example.com",
	}, nil)
}

func TestBookingMailer_HandleEvent(t *testing.T) {
	tests := []struct {
		name        string
		event       kafka.Event
		wantTo      string
		wantSubject string
		wantBody    []string
	}{
		{
			name:        "booking created goes to the provider",
			event:       kafka.Event{Type: kafka.EventBookingCreated, BookingID: "b-1"},
			wantTo:      "juan@example.com",
			wantSubject: "TaskPal: New booking request",
			wantBody:    []string{"Hello Juan Plumbing", "Maria Santos"},
		},
		{
			name: "payment completed sends the client a receipt",
			event: kafka.Event{
				Type:      kafka.EventPaymentCompleted,
				BookingID: "b-1",
				Data:      map[string]any{"amount": 1500.0, "currency": "PHP"},
			},
			wantTo:      "maria@example.com",
			wantSubject: "TaskPal: Payment receipt",
			wantBody:    []string{"PHP 1500.00", "Juan Plumbing"},
		},
		{
			name:        "execution completed invites a review",
			event:       kafka.Event{Type: kafka.EventExecutionCompleted, BookingID: "b-1"},
			wantTo:      "maria@example.com",
			wantSubject: "TaskPal: How did it go?",
			wantBody:    []string{"leaving a review", "https://taskpal.example"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMailFixture(t)
			f.expectParties()

			f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, mail mailer.Mail) error {
				assert.Equal(t, tt.wantTo, mail.To)
				assert.Equal(t, tt.wantSubject, mail.Subject)

				for _, fragment := range tt.wantBody {
					assert.True(t, strings.Contains(mail.Body, fragment), "body should contain %q", fragment)
				}

				return nil
			})

			assert.NoError(t, f.svc.HandleEvent(context.Background(), tt.event))
		})
	}
}

func TestBookingMailer_HandleEvent_Skips(t *testing.T) {
	t.Run("unknown event type", func(t *testing.T) {
		f := newMailFixture(t)

		assert.NoError(t, f.svc.HandleEvent(context.Background(), kafka.Event{Type: "booking.unknown"}))
	})

	t.Run("deleted booking", func(t *testing.T) {
		f := newMailFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

		assert.NoError(t, f.svc.HandleEvent(context.Background(), kafka.Event{Type: kafka.EventBookingCreated, BookingID: "gone"}))
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newMailFixture(t)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, errors.New("db down"))

		assert.Error(t, f.svc.HandleEvent(context.Background(), kafka.Event{Type: kafka.EventBookingCreated, BookingID: "b-1"}))
	})
}

func TestBookingMailer_Remind(t *testing.T) {
	f := newMailFixture(t)
	f.expectParties()

	var recipients []string

	f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(func(_ context.Context, mail mailer.Mail) error {
		recipients = append(recipients, mail.To)
		assert.Equal(t, "TaskPal: Booking reminder", mail.Subject)

		return nil
	})

	assert.NoError(t, f.svc.Remind(context.Background(), "b-1"))
	assert.Equal(t, []string{"maria@example.com", "juan@example.com"}, recipients)
}

