package model

import (
	"taskpal/shared/model"
	"time"
)

const (
	TableName  = "executions"
	EntityName = "execution"

	FieldID                = "id"
	FieldBookingID         = "booking_id"
	FieldCompletedClient   = "completedclient"
	FieldCompletedProvider = "completedprovider"
	FieldClientNotes       = "client_notes"
	FieldProviderNotes     = "provider_notes"
	FieldCompletedAt       = "completed_at"
)

// Execution tracks the delivery of a paid booking. There is at most one per booking.
type Execution struct {
	ID                string     `db:"id"`
	BookingID         string     `db:"booking_id"`
	CompletedClient   bool       `db:"completedclient"`
	CompletedProvider bool       `db:"completedprovider"`
	ClientNotes       *string    `db:"client_notes"`
	ProviderNotes     *string    `db:"provider_notes"`
	CompletedAt       *time.Time `db:"completed_at"`
	model.Metadata
}

func (e Execution) Completed() bool {
	return e.CompletedClient && e.CompletedProvider
}
