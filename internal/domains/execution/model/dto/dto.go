package dto

import (
	"taskpal/internal/domains/execution/model"
	gDto "taskpal/shared/dto"
	gModel "taskpal/shared/model"
	"taskpal/shared/timezone"
	"time"

	"github.com/google/uuid"
)

func NewExecution(bookingID, user string) model.Execution {
	return model.Execution{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Metadata:  gModel.NewMetadata(user, timezone.Now()),
	}
}

type ExecutionResponse struct {
	ID                string     `json:"id"`
	BookingID         string     `json:"booking_id"`
	CompletedClient   bool       `json:"completedclient"`
	CompletedProvider bool       `json:"completedprovider"`
	ClientNotes       *string    `json:"client_notes"`
	ProviderNotes     *string    `json:"provider_notes"`
	CompletedAt       *time.Time `json:"completed_at"`
	gDto.Metadata
}

func (r *ExecutionResponse) FromModel(model model.Execution) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.CompletedClient = model.CompletedClient
	r.CompletedProvider = model.CompletedProvider
	r.ClientNotes = model.ClientNotes
	r.ProviderNotes = model.ProviderNotes
	r.CompletedAt = model.CompletedAt
	r.Metadata.FromModel(model.Metadata)
}

// UpdateFieldRequest carries a boolean for the completion flags and a string for notes.
type UpdateFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

type ExecutionFields struct {
	CompletedClient   *bool      `db:"completedclient"`
	CompletedProvider *bool      `db:"completedprovider"`
	ClientNotes       *string    `db:"client_notes"`
	ProviderNotes     *string    `db:"provider_notes"`
	CompletedAt       *time.Time `db:"completed_at"`
}

type UpdatedEvent struct {
	BookingID string            `json:"booking_id"`
	Field     string            `json:"field"`
	UpdatedBy string            `json:"updated_by"`
	Execution ExecutionResponse `json:"execution"`
}
