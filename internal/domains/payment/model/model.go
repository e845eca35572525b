package model

import (
	"taskpal/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldClientID      = "client_id"
	FieldProviderID    = "provider_id"
	FieldSessionID     = "session_id"
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldStatus        = "status"
	FieldPaymentIntent = "payment_intent"
)

const (
	StatusPaid = "paid"
)

type Payment struct {
	ID            string  `db:"id"`
	BookingID     string  `db:"booking_id"`
	ClientID      string  `db:"client_id"`
	ProviderID    string  `db:"provider_id"`
	SessionID     string  `db:"session_id"`
	Amount        float64 `db:"amount"`
	Currency      string  `db:"currency"`
	Status        string  `db:"status"`
	PaymentIntent *string `db:"payment_intent"`
	model.Metadata
}
