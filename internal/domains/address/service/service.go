package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"strings"
	"taskpal/config"
	"taskpal/infras/geocoder"
	"taskpal/infras/otel"
	"taskpal/internal/domains/address/model/dto"
	"taskpal/shared/constant"
	"taskpal/shared/failure"

	"github.com/rs/zerolog/log"
)

type Address interface {
	Validate(ctx context.Context, req dto.ValidateAddressRequest) (dto.ValidateAddressResponse, error)
}

type serviceImpl struct {
	geocoder geocoder.Geocoder
	cfg      *config.Config
	otel     otel.Otel
}

func New(geocoder geocoder.Geocoder, cfg *config.Config, otel otel.Otel) Address {
	return &serviceImpl{
		geocoder: geocoder,
		cfg:      cfg,
		otel:     otel,
	}
}

// Validate geocodes the address and reports whether it lies in the served municipality.
// An address without results is reported as invalid rather than as an error.
func (s *serviceImpl) Validate(ctx context.Context, req dto.ValidateAddressRequest) (res dto.ValidateAddressResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Validate")
	defer scope.End()
	defer scope.TraceIfError(err)

	location, err := s.geocoder.Geocode(ctx, req.Address)

	switch {
	case errors.Is(err, geocoder.ErrNoResults):
		return res, nil
	case errors.Is(err, geocoder.ErrMissingAPIKey):
		log.Error().Err(err).Msg("address validation is not configured")

		return res, failure.InternalError(err) // nolint:wrapcheck
	case err != nil:
		log.Error().Err(err).Msg("failed to geocode address")

		return res, failure.InternalError(err) // nolint:wrapcheck
	}

	res.FromLocation(location)
	res.Valid = inMunicipality(location, s.cfg.App.Municipality)

	return res, nil
}

// inMunicipality matches the locality first and falls back to any address component.
// An unset municipality accepts every resolved address.
func inMunicipality(location geocoder.Location, municipality string) bool {
	municipality = strings.TrimSpace(municipality)
	if municipality == constant.Empty {
		return true
	}

	if strings.EqualFold(location.Locality, municipality) {
		return true
	}

	for _, component := range location.Components {
		if strings.EqualFold(component, municipality) {
			return true
		}
	}

	return false
}
