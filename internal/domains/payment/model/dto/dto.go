package dto

import (
	"math"
	"strings"
	"taskpal/infras/stripe"
	bookingModel "taskpal/internal/domains/booking/model"
	"taskpal/internal/domains/payment/model"
	"taskpal/shared"
	gDto "taskpal/shared/dto"
	gModel "taskpal/shared/model"
	"taskpal/shared/timezone"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
}

type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type VerifyRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// ToMinorUnits converts a decimal price to the smallest currency unit.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// NewPayment records a paid checkout session against its booking.
func NewPayment(booking bookingModel.Booking, session stripe.CheckoutSession, user string) model.Payment {
	payment := model.Payment{
		ID:         uuid.NewString(),
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ProviderID: booking.ProviderID,
		SessionID:  session.ID,
		Amount:     float64(session.AmountTotal) / 100,
		Currency:   strings.ToUpper(session.Currency),
		Status:     model.StatusPaid,
		Metadata:   gModel.NewMetadata(user, timezone.Now()),
	}

	if session.PaymentIntentID != "" {
		payment.PaymentIntent = &session.PaymentIntentID
	}

	return payment
}

type PaymentResponse struct {
	ID            string  `json:"id"`
	BookingID     string  `json:"booking_id"`
	ClientID      string  `json:"client_id"`
	ProviderID    string  `json:"provider_id"`
	SessionID     string  `json:"session_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	PaymentIntent *string `json:"payment_intent,omitempty"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.ClientID = model.ClientID
	r.ProviderID = model.ProviderID
	r.SessionID = model.SessionID
	r.Amount = model.Amount
	r.Currency = model.Currency
	r.Status = model.Status
	r.PaymentIntent = model.PaymentIntent
	r.Metadata.FromModel(model.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}
