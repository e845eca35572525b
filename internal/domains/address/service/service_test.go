package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"taskpal/config"
	"taskpal/infras/geocoder"
	geocoderMocks "taskpal/infras/geocoder/mocks"
	"taskpal/infras/otel/mocks"
	"taskpal/internal/domains/address/model/dto"
	"taskpal/internal/domains/address/service"
	"taskpal/shared/failure"
)

func TestAddressService_Validate(t *testing.T) {
	makati := geocoder.Location{
		FormattedAddress: "1 Ayala Ave, Makati, Metro Manila, Philippines",
		Latitude:         14.55,
		Longitude:        121.02,
		Locality:         "Makati",
		Components:       []string{"1", "Ayala Ave", "Makati", "Metro Manila", "Philippines"},
	}

	tests := []struct {
		name         string
		municipality string
		location     geocoder.Location
		geocodeErr   error
		wantValid    bool
		wantCode     int
	}{
		{name: "inside municipality", municipality: "makati", location: makati, wantValid: true},
		{name: "outside municipality", municipality: "Taguig", location: makati, wantValid: false},
		{name: "matched by component", municipality: "Metro Manila", location: makati, wantValid: true},
		{name: "no municipality configured", municipality: "", location: makati, wantValid: true},
		{name: "no results", municipality: "Makati", geocodeErr: geocoder.ErrNoResults, wantValid: false},
		{name: "missing api key", municipality: "Makati", geocodeErr: geocoder.ErrMissingAPIKey, wantCode: http.StatusInternalServerError},
		{name: "upstream failure", municipality: "Makati", geocodeErr: errors.New("timeout"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			geo := geocoderMocks.NewMockGeocoder(ctrl)

			cfg := &config.Config{}
			cfg.App.Municipality = tt.municipality

			svc := service.New(geo, cfg, mocks.NewOtel())

			geo.EXPECT().Geocode(gomock.Any(), "1 Ayala Ave").Return(tt.location, tt.geocodeErr)

			res, err := svc.Validate(context.Background(), dto.ValidateAddressRequest{Address: "1 Ayala Ave"})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid)

			if tt.geocodeErr == nil {
				assert.Equal(t, "Makati", res.Municipality)
			}
		})
	}
}
