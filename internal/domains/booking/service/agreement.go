package service

import (
	"context"
	"fmt"
	"strings"
	"taskpal/infras/pdf"
	"taskpal/infras/s3"
	"taskpal/internal/domains/booking/model/dto"
	providerModel "taskpal/internal/domains/provider/model"
	userModel "taskpal/internal/domains/user/model"
	"taskpal/shared"
	"taskpal/shared/constant"
	"taskpal/shared/failure"
	"taskpal/shared/timezone"

	"github.com/rs/zerolog/log"
)

// DownloadAgreement renders the signed agreement, stores it under agreements/<id>.pdf
// and returns its public URL. Each call re-renders so the document reflects the
// current parties' details.
func (s *serviceImpl) DownloadAgreement(ctx context.Context, id string) (res dto.AgreementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DownloadAgreement")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, _, err := s.access(ctx, id, true)
	if err != nil {
		return res, err
	}

	if !booking.FullySigned() || booking.Price == nil {
		return res, failure.BadRequestFromString("agreement is available once both parties have signed") // nolint:wrapcheck
	}

	client, err := s.userRepo.Get(ctx, shared.FilterByID(booking.ClientID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get client")

		return res, fmt.Errorf("failed to get client: %w", err)
	}

	provider, err := s.providerRepo.Get(ctx, shared.FilterByID(booking.ProviderID, providerModel.FieldID, providerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider")

		return res, fmt.Errorf("failed to get provider: %w", err)
	}

	agreement := pdf.Agreement{
		AppName:       s.cfg.App.Name,
		BookingID:     booking.ID,
		Client:        pdf.Party{Name: client.FullName(), Email: client.Email, Phone: client.Phone},
		Provider:      pdf.Party{Name: provider.DisplayName(), Email: provider.Email, Phone: provider.Phone},
		ServiceType:   provider.ServiceType,
		ScheduledDate: booking.ScheduledDate,
		Price:         *booking.Price,
		Currency:      strings.ToUpper(s.cfg.External.Stripe.Currency),
		GeneratedAt:   timezone.Now(),
	}

	if booking.Notes != nil {
		agreement.Notes = *booking.Notes
	}

	document, err := s.renderer.RenderAgreement(ctx, agreement)
	if err != nil {
		log.Error().Err(err).Msg("failed to render agreement")

		return res, fmt.Errorf("failed to render agreement: %w", err)
	}

	res.URL, err = s.s3.UploadFileBytes(ctx, s3.DirectoryAgreements, booking.ID+".pdf", constant.ContentTypePDF, document)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload agreement")

		return res, fmt.Errorf("failed to upload agreement: %w", err)
	}

	if err = s.update(ctx, id, shared.TransformFields(dto.AgreementFields{AgreementURL: res.URL}, shared.ActorFromContext(ctx))); err != nil {
		return res, err
	}

	return res, nil
}
