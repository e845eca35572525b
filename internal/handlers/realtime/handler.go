package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"taskpal/config"
	"taskpal/infras/jwt"
	"taskpal/infras/otel"
	"taskpal/infras/realtime"
	bookingService "taskpal/internal/domains/booking/service"
	"taskpal/shared/constant"
	"taskpal/shared/failure"
	"taskpal/transport/http/response"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	ActionJoin  = "join"
	ActionLeave = "leave"

	eventError  = "error"
	eventJoined = "room:joined"
	eventLeft   = "room:left"
)

// Message is a client to server frame.
type Message struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

type Handler struct {
	hub      *realtime.Hub
	jwt      jwt.JWT
	booking  bookingService.Booking
	upgrader websocket.Upgrader
	cfg      *config.Config
	otel     otel.Otel
}

func New(hub *realtime.Hub, jwt jwt.JWT, booking bookingService.Booking, cfg *config.Config, otel otel.Otel) Handler {
	allowed := cfg.External.Websocket.AllowedOrigins

	return Handler{
		hub:     hub,
		jwt:     jwt,
		booking: booking,
		cfg:     cfg,
		otel:    otel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				return len(allowed) == 0 || origin == "" || slices.Contains(allowed, origin)
			},
		},
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/ws", handler.Connect)
}

// Connect upgrades the request to a websocket. The access token travels in the
// token query parameter since browsers cannot set headers on upgrade requests.
// @Summary Realtime websocket
// @Tags Realtime
// @Param token query string true "Access token"
// @Success 101
// @Failure 401 {object} response.Error
// @Router /api/ws [get]
func (handler *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Connect")
	defer scope.End()

	claims, err := handler.jwt.ValidateToken(ctx, r.URL.Query().Get(constant.RequestParamToken), jwt.AccessToken)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("rejected realtime connection")

		response.WithError(w, failure.Unauthorized("Invalid token"))

		return
	}

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upgrade realtime connection")

		return
	}

	client := realtime.NewClient(conn, claims.UserID, claims.Role)
	handler.hub.Join(client, realtime.UserRoom(claims.UserID))
	handler.hub.Join(client, realtime.RoomAnnouncements)

	log.Info().Str("user_id", claims.UserID).Str("role", claims.Role).Msg("realtime client connected")

	// The request context ends with the upgrade, so room checks run on a detached one.
	sessionCtx := claims.Context(context.WithoutCancel(ctx))
	pingPeriod := time.Duration(handler.cfg.External.Websocket.PingPeriodSeconds) * time.Second

	go client.WritePump(pingPeriod)

	go func() {
		defer handler.hub.Remove(client)

		client.ReadPump(pingPeriod*2, func(message []byte) {
			handler.handle(sessionCtx, client, message)
		})

		log.Info().Str("user_id", claims.UserID).Msg("realtime client disconnected")
	}()
}

func (handler *Handler) handle(ctx context.Context, client *realtime.Client, message []byte) {
	msg := Message{}

	if err := json.Unmarshal(message, &msg); err != nil {
		handler.reply(client, eventError, "", "malformed message")

		return
	}

	bookingID, ok := realtime.BookingIDFromRoom(msg.Room)
	if !ok {
		handler.reply(client, eventError, msg.Room, "unknown room")

		return
	}

	switch msg.Action {
	case ActionJoin:
		// Get enforces that the caller is a party of the booking or an admin.
		if _, err := handler.booking.Get(ctx, bookingID); err != nil {
			reason := err.Error()
			if failure.HasCode(err, http.StatusInternalServerError) {
				log.Error().Err(err).Str("room", msg.Room).Msg("failed to authorize room join")

				reason = constant.ResponseErrorInternal
			}

			handler.reply(client, eventError, msg.Room, reason)

			return
		}

		handler.hub.Join(client, msg.Room)
		handler.reply(client, eventJoined, msg.Room, nil)
	case ActionLeave:
		handler.hub.Leave(client, msg.Room)
		handler.reply(client, eventLeft, msg.Room, nil)
	default:
		handler.reply(client, eventError, msg.Room, "unknown action")
	}
}

func (handler *Handler) reply(client *realtime.Client, event, room string, data any) {
	payload, err := json.Marshal(realtime.Frame{Event: event, Room: room, Data: data})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal realtime reply")

		return
	}

	client.Send(payload)
}
