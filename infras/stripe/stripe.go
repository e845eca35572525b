package stripe

//go:generate go run go.uber.org/mock/mockgen -source=./stripe.go -destination=./mocks/stripe_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"taskpal/config"
	"taskpal/infras/otel"
	"taskpal/shared/constant"

	"github.com/rs/zerolog/log"
	stripeGo "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const (
	MetadataBookingID  = "booking_id"
	MetadataClientID   = "client_id"
	MetadataProviderID = "provider_id"

	sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"
)

type CheckoutRequest struct {
	BookingID   string
	ClientID    string
	ProviderID  string
	Description string
	// Amount in minor units.
	Amount   int64
	Currency string
	Email    string
}

type CheckoutSession struct {
	ID              string
	URL             string
	Paid            bool
	AmountTotal     int64
	Currency        string
	PaymentIntentID string
	Metadata        map[string]string
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (CheckoutSession, error)
}

type gatewayImpl struct {
	api  *client.API
	cfg  *config.Config
	otel otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Gateway {
	api := &client.API{}
	api.Init(cfg.External.Stripe.SecretKey, nil)

	return &gatewayImpl{
		api:  api,
		cfg:  cfg,
		otel: otel,
	}
}

func (g *gatewayImpl) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (res CheckoutSession, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelPaymentScopeName, constant.OtelPaymentScopeName+".CreateCheckoutSession")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(MetadataBookingID, req.BookingID)

	currency := req.Currency
	if currency == "" {
		currency = g.cfg.External.Stripe.Currency
	}

	params := &stripeGo.CheckoutSessionParams{
		Mode:       stripeGo.String(string(stripeGo.CheckoutSessionModePayment)),
		SuccessURL: stripeGo.String(withSessionID(g.cfg.External.Stripe.SuccessURL)),
		CancelURL:  stripeGo.String(g.cfg.External.Stripe.CancelURL),
		LineItems: []*stripeGo.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeGo.CheckoutSessionLineItemPriceDataParams{
					Currency: stripeGo.String(strings.ToLower(currency)),
					ProductData: &stripeGo.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeGo.String(req.Description),
					},
					UnitAmount: stripeGo.Int64(req.Amount),
				},
				Quantity: stripeGo.Int64(1),
			},
		},
	}

	if req.Email != "" {
		params.CustomerEmail = stripeGo.String(req.Email)
	}

	params.Context = ctx
	params.AddMetadata(MetadataBookingID, req.BookingID)
	params.AddMetadata(MetadataClientID, req.ClientID)
	params.AddMetadata(MetadataProviderID, req.ProviderID)

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		log.Error().Err(err).Str("booking_id", req.BookingID).Msg("failed to create checkout session")

		return res, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return fromSession(session), nil
}

func (g *gatewayImpl) GetCheckoutSession(ctx context.Context, sessionID string) (res CheckoutSession, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelPaymentScopeName, constant.OtelPaymentScopeName+".GetCheckoutSession")
	defer scope.End()
	defer scope.TraceIfError(err)

	params := &stripeGo.CheckoutSessionParams{}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to retrieve checkout session")

		return res, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	return fromSession(session), nil
}

func fromSession(session *stripeGo.CheckoutSession) CheckoutSession {
	res := CheckoutSession{
		ID:          session.ID,
		URL:         session.URL,
		Paid:        session.PaymentStatus == stripeGo.CheckoutSessionPaymentStatusPaid,
		AmountTotal: session.AmountTotal,
		Currency:    string(session.Currency),
		Metadata:    session.Metadata,
	}

	if session.PaymentIntent != nil {
		res.PaymentIntentID = session.PaymentIntent.ID
	}

	return res
}

func withSessionID(successURL string) string {
	if successURL == "" || strings.Contains(successURL, sessionIDPlaceholder) {
		return successURL
	}

	separator := "?"
	if strings.Contains(successURL, "?") {
		separator = "&"
	}

	return successURL + separator + "session_id=" + sessionIDPlaceholder
}
