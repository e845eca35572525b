package dto

import (
	bookingModel "taskpal/internal/domains/booking/model"
	"taskpal/internal/domains/review/model"
	"taskpal/shared"
	gDto "taskpal/shared/dto"
	gModel "taskpal/shared/model"
	"taskpal/shared/timezone"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	BookingID string  `json:"booking_id"        validate:"required"`
	Rating    int     `json:"rating"            validate:"required,min=1,max=5"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

func (r *CreateReviewRequest) ToModel(booking bookingModel.Booking, user string) model.Review {
	return model.Review{
		ID:         uuid.NewString(),
		BookingID:  booking.ID,
		ProviderID: booking.ProviderID,
		ClientID:   booking.ClientID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Metadata:   gModel.NewMetadata(user, timezone.Now()),
	}
}

type ReviewResponse struct {
	ID         string  `json:"id"`
	BookingID  string  `json:"booking_id"`
	ProviderID string  `json:"provider_id"`
	ClientID   string  `json:"client_id"`
	Rating     int     `json:"rating"`
	Comment    *string `json:"comment,omitempty"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.ProviderID = model.ProviderID
	r.ClientID = model.ClientID
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}
