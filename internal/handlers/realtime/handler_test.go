package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"taskpal/config"
	"taskpal/infras/jwt"
	jwtMocks "taskpal/infras/jwt/mocks"
	otelMocks "taskpal/infras/otel/mocks"
	"taskpal/infras/realtime"
	"taskpal/internal/domains/booking/model/dto"
	bookingMocks "taskpal/internal/domains/booking/service/mocks"
	"taskpal/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestHandler(t *testing.T) (Handler, *realtime.Hub, *jwtMocks.MockJWT, *bookingMocks.MockBooking) {
	t.Helper()

	ctrl := gomock.NewController(t)
	hub := realtime.NewHub()
	jwtService := jwtMocks.NewMockJWT(ctrl)
	booking := bookingMocks.NewMockBooking(ctrl)

	cfg := &config.Config{}
	cfg.External.Websocket.AllowedOrigins = []string{"https://app.taskpal.ph"}

	return New(hub, jwtService, booking, cfg, otelMocks.NewOtel()), hub, jwtService, booking
}

func TestHandler_Handle(t *testing.T) {
	room := realtime.BookingRoom("b-1")

	tests := []struct {
		name        string
		joinedFirst bool
		message     string
		setup       func(booking *bookingMocks.MockBooking)
		wantMembers int
	}{
		{
			name:    "join booking room as a party",
			message: `{"action":"join","room":"booking:b-1"}`,
			setup: func(booking *bookingMocks.MockBooking) {
				booking.EXPECT().Get(gomock.Any(), "b-1").Return(dto.BookingResponse{ID: "b-1"}, nil)
			},
			wantMembers: 1,
		},
		{
			name:    "join refused for a stranger",
			message: `{"action":"join","room":"booking:b-1"}`,
			setup: func(booking *bookingMocks.MockBooking) {
				booking.EXPECT().Get(gomock.Any(), "b-1").Return(dto.BookingResponse{}, failure.Forbidden("not a party of this booking"))
			},
			wantMembers: 0,
		},
		{
			name:        "leave booking room",
			joinedFirst: true,
			message:     `{"action":"leave","room":"booking:b-1"}`,
			wantMembers: 0,
		},
		{
			name:        "unknown action keeps membership",
			joinedFirst: true,
			message:     `{"action":"shout","room":"booking:b-1"}`,
			wantMembers: 1,
		},
		{
			name:        "non booking room is rejected",
			message:     `{"action":"join","room":"user:someone-else"}`,
			wantMembers: 0,
		},
		{
			name:        "malformed payload",
			message:     `{"action":`,
			wantMembers: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, hub, _, booking := newTestHandler(t)
			client := realtime.NewClient(nil, "u-1", "client")

			if tt.setup != nil {
				tt.setup(booking)
			}

			if tt.joinedFirst {
				hub.Join(client, room)
			}

			handler.handle(context.Background(), client, []byte(tt.message))

			assert.Equal(t, tt.wantMembers, hub.Members(room))
		})
	}
}

func TestHandler_ConnectRejectsInvalidToken(t *testing.T) {
	handler, hub, jwtService, _ := newTestHandler(t)

	jwtService.EXPECT().
		ValidateToken(gomock.Any(), "bad-token", jwt.AccessToken).
		Return(nil, errors.New("token is expired"))

	req := httptest.NewRequest(http.MethodGet, "/ws?token=bad-token", nil)
	rec := httptest.NewRecorder()

	handler.Connect(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, hub.Members(realtime.RoomAnnouncements))
}

func TestHandler_CheckOrigin(t *testing.T) {
	handler, _, _, _ := newTestHandler(t)

	tests := []struct {
		origin string
		want   bool
	}{
		{origin: "https://app.taskpal.ph", want: true},
		{origin: "", want: true},
		{origin: "https://evil.example", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			assert.Equal(t, tt.want, handler.upgrader.CheckOrigin(req))
		})
	}
}
