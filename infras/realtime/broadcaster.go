package realtime

//go:generate go run go.uber.org/mock/mockgen -source=./broadcaster.go -destination=./mocks/broadcaster_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"taskpal/infras/otel"
	"taskpal/shared/constant"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	pubSubChannel = "taskpal:realtime"
)

// Broadcaster pushes events to every connection in a room across all API instances.
// Emission is fire-and-forget and never fails the caller.
type Broadcaster interface {
	Emit(ctx context.Context, room, event string, data any)
	Run(ctx context.Context)
}

type redisBroadcaster struct {
	client *goRedis.Client
	hub    *Hub
	otel   otel.Otel
}

func NewBroadcaster(client *goRedis.Client, hub *Hub, otel otel.Otel) Broadcaster {
	return &redisBroadcaster{
		client: client,
		hub:    hub,
		otel:   otel,
	}
}

func (b *redisBroadcaster) Emit(ctx context.Context, room, event string, data any) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelRealtimeScopeName, constant.OtelRealtimeScopeName+".Emit")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		"realtime.room":  room,
		"realtime.event": event,
	})

	frame := Frame{Event: event, Room: room, Data: data}

	payload, err := json.Marshal(frame)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("event", event).Msg("failed to marshal realtime event")

		return
	}

	if err = b.client.Publish(context.WithoutCancel(ctx), pubSubChannel, payload).Err(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("event", event).Msg("failed to publish realtime event, delivering locally")

		b.hub.Deliver(frame)
	}
}

// Run relays frames published by any instance to the local hub until ctx is done.
func (b *redisBroadcaster) Run(ctx context.Context) {
	pubsub := b.client.Subscribe(ctx, pubSubChannel)
	defer pubsub.Close()

	log.Info().Str("channel", pubSubChannel).Msg("Realtime relay subscribed")

	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var frame Frame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				log.Error().Err(err).Msg("failed to unmarshal realtime frame")

				continue
			}

			b.hub.Deliver(frame)
		}
	}
}
