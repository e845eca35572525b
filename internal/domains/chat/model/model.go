package model

import (
	"taskpal/shared/model"
)

const (
	TableName  = "chat_threads"
	EntityName = "chat thread"

	FieldID         = "id"
	FieldBookingID  = "booking_id"
	FieldClientID   = "client_id"
	FieldProviderID = "provider_id"
	FieldChannelID  = "channel_id"
)

// Thread links a booking to the hosted messaging channel of its two parties.
type Thread struct {
	ID         string `db:"id"`
	BookingID  string `db:"booking_id"`
	ClientID   string `db:"client_id"`
	ProviderID string `db:"provider_id"`
	ChannelID  string `db:"channel_id"`
	model.Metadata
}
