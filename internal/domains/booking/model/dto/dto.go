package dto

import (
	"taskpal/internal/domains/booking/model"
	"taskpal/shared"
	gDto "taskpal/shared/dto"
	gModel "taskpal/shared/model"
	"taskpal/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ClientID      string    `json:"client_id"      validate:"required"`
	ProviderID    string    `json:"provider_id"    validate:"required"`
	Notes         *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
}

func (r *CreateBookingRequest) ToModel(user string) model.Booking {
	return model.Booking{
		ID:            uuid.NewString(),
		ClientID:      r.ClientID,
		ProviderID:    r.ProviderID,
		Notes:         r.Notes,
		ScheduledDate: r.ScheduledDate,
		Status:        model.StatusPending,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

type BookingResponse struct {
	ID               string    `json:"id"`
	ClientID         string    `json:"client_id"`
	ProviderID       string    `json:"provider_id"`
	Notes            *string   `json:"notes,omitempty"`
	ScheduledDate    time.Time `json:"scheduled_date"`
	Price            *float64  `json:"price"`
	Status           string    `json:"status"`
	SignedByClient   bool      `json:"agreement_signed_by_client"`
	SignedByProvider bool      `json:"agreement_signed_by_provider"`
	AgreementURL     *string   `json:"agreement_url,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.ClientID = model.ClientID
	r.ProviderID = model.ProviderID
	r.Notes = model.Notes
	r.ScheduledDate = model.ScheduledDate
	r.Price = model.Price
	r.Status = model.Status
	r.SignedByClient = model.SignedByClient
	r.SignedByProvider = model.SignedByProvider
	r.AgreementURL = model.AgreementURL
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type UpdatePriceRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

type StatusFields struct {
	Status string `db:"status"`
}

type AgreementFields struct {
	AgreementURL string `db:"agreement_url"`
}

type AgreementResponse struct {
	URL string `json:"url"`
}

// PriceUpdatedEvent is pushed to the booking room when a party proposes a price.
type PriceUpdatedEvent struct {
	BookingID  string  `json:"booking_id"`
	Price      float64 `json:"price"`
	ProposedBy string  `json:"proposed_by"`
}

type AgreementSignedEvent struct {
	BookingID        string `json:"booking_id"`
	SignedBy         string `json:"signed_by"`
	SignedByClient   bool   `json:"agreement_signed_by_client"`
	SignedByProvider bool   `json:"agreement_signed_by_provider"`
}

type StatusUpdatedEvent struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}
