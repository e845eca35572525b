package model

import (
	"taskpal/shared/constant"
	"taskpal/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldClientID         = "client_id"
	FieldProviderID       = "provider_id"
	FieldNotes            = "notes"
	FieldScheduledDate    = "scheduled_date"
	FieldPrice            = "price"
	FieldStatus           = "status"
	FieldSignedByClient   = "agreement_signed_by_client"
	FieldSignedByProvider = "agreement_signed_by_provider"
	FieldAgreementURL     = "agreement_url"
)

const (
	StatusPending     = "Pending"
	StatusNegotiating = "Negotiating"
	StatusConfirmed   = "Confirmed"
	StatusPaid        = "Paid"
	StatusCompleted   = "Completed"
	StatusCancelled   = "Cancelled"
)

type Booking struct {
	ID               string    `db:"id"`
	ClientID         string    `db:"client_id"`
	ProviderID       string    `db:"provider_id"`
	Notes            *string   `db:"notes"`
	ScheduledDate    time.Time `db:"scheduled_date"`
	Price            *float64  `db:"price"`
	Status           string    `db:"status"`
	SignedByClient   bool      `db:"agreement_signed_by_client"`
	SignedByProvider bool      `db:"agreement_signed_by_provider"`
	AgreementURL     *string   `db:"agreement_url"`
	model.Metadata
}

// PartyRole returns RoleClient or RoleProvider when the caller is a party of the
// booking, and an empty string otherwise. Delegates act as the client.
func (b Booking) PartyRole(userID, role string) string {
	switch role {
	case constant.RoleClient, constant.RoleAuthorized:
		if b.ClientID == userID {
			return constant.RoleClient
		}
	case constant.RoleProvider:
		if b.ProviderID == userID {
			return constant.RoleProvider
		}
	}

	return constant.Empty
}

// Counterpart returns the id and role of the other party.
func (b Booking) Counterpart(partyRole string) (id, role string) {
	if partyRole == constant.RoleProvider {
		return b.ClientID, constant.RoleClient
	}

	return b.ProviderID, constant.RoleProvider
}

func (b Booking) FullySigned() bool {
	return b.SignedByClient && b.SignedByProvider
}

// Closed reports whether the price can no longer be negotiated.
func (b Booking) Closed() bool {
	return b.Status == StatusCancelled || b.Status == StatusPaid || b.Status == StatusCompleted
}
