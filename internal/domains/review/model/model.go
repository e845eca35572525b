package model

import (
	"taskpal/shared/model"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID         = "id"
	FieldBookingID  = "booking_id"
	FieldProviderID = "provider_id"
	FieldClientID   = "client_id"
	FieldRating     = "rating"
	FieldComment    = "comment"
)

type Review struct {
	ID         string  `db:"id"`
	BookingID  string  `db:"booking_id"`
	ProviderID string  `db:"provider_id"`
	ClientID   string  `db:"client_id"`
	Rating     int     `db:"rating"`
	Comment    *string `db:"comment"`
	model.Metadata
}
