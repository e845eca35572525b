package realtime

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	RoomAnnouncements = "announcements"

	roomPrefixBooking = "booking:"
	roomPrefixUser    = "user:"
)

func BookingRoom(bookingID string) string {
	return roomPrefixBooking + bookingID
}

func UserRoom(userID string) string {
	return roomPrefixUser + userID
}

// BookingIDFromRoom reports the booking a room belongs to. Only booking rooms can
// be joined on request.
func BookingIDFromRoom(room string) (string, bool) {
	id, ok := strings.CutPrefix(room, roomPrefixBooking)

	return id, ok && id != ""
}

// Frame is the server to client payload.
type Frame struct {
	Event string `json:"event"`
	Room  string `json:"room"`
	Data  any    `json:"data,omitempty"`
}

// Hub tracks the local connections of this instance and their room memberships.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}

	members[client] = struct{}{}
	client.rooms[room] = struct{}{}
}

func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leave(client, room)
}

func (h *Hub) leave(client *Client, room string) {
	delete(client.rooms, room)

	members, ok := h.rooms[room]
	if !ok {
		return
	}

	delete(members, client)

	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Remove drops the client from every room and closes its send queue.
func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range client.rooms {
		h.leave(client, room)
	}

	client.closeSend()
}

// Deliver queues the frame on every local member of the room. Members whose queue
// is full are dropped.
func (h *Hub) Deliver(frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Error().Err(err).Str("event", frame.Event).Msg("failed to marshal realtime frame")

		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[frame.Room]))
	for client := range h.rooms[frame.Room] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		if !client.enqueue(payload) {
			log.Warn().Str("user_id", client.UserID).Str("room", frame.Room).Msg("realtime client is too slow, disconnecting")

			h.Remove(client)
		}
	}
}

// Members returns the number of local connections in a room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}
