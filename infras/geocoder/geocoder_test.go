package geocoder_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"taskpal/config"
	"taskpal/infras/geocoder"
	"taskpal/infras/otel/mocks"
	"taskpal/shared/cache"
	cacheMocks "taskpal/shared/cache/mocks"
)

const okResponse = `{
	"status": "OK",
	"results": [{
		"formatted_address": "Ayala Ave, Makati, Metro Manila, Philippines",
		"address_components": [
			{"long_name": "Ayala Avenue", "short_name": "Ayala Ave", "types": ["route"]},
			{"long_name": "Makati", "short_name": "Makati", "types": ["locality", "political"]},
			{"long_name": "Metro Manila", "short_name": "NCR", "types": ["administrative_area_level_2", "political"]},
			{"long_name": "Philippines", "short_name": "PH", "types": ["country", "political"]}
		],
		"geometry": {"location": {"lat": 14.5547, "lng": 121.0244}}
	}]
}`

type geocoderFixture struct {
	cache    *cacheMocks.MockRedisCache
	geocoder geocoder.Geocoder
	requests int
}

func newFixture(t *testing.T, body string) *geocoderFixture {
	t.Helper()

	f := &geocoderFixture{cache: cacheMocks.NewMockRedisCache(gomock.NewController(t))}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests++

		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "Ayala Ave, Makati", r.URL.Query().Get("address"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.External.Google.APIKey = "test-key"
	cfg.External.Google.GeocodeURL = server.URL

	f.geocoder = geocoder.NewWithClient(cfg, f.cache, mocks.NewOtel(), server.Client())

	return f
}

func (f *geocoderFixture) miss() {
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
}

func TestGeocoder_Geocode(t *testing.T) {
	t.Run("ok result is parsed and cached", func(t *testing.T) {
		f := newFixture(t, okResponse)
		f.miss()

		saved := make(chan geocoder.Location, 1)
		f.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any, _ int) error {
				saved <- value.(geocoder.Location)

				return nil
			})

		res, err := f.geocoder.Geocode(context.Background(), " Ayala Ave, Makati ")

		require.NoError(t, err)
		assert.Equal(t, "Ayala Ave, Makati, Metro Manila, Philippines", res.FormattedAddress)
		assert.InDelta(t, 14.5547, res.Latitude, 1e-9)
		assert.InDelta(t, 121.0244, res.Longitude, 1e-9)
		assert.Equal(t, "Makati", res.Locality)
		assert.Equal(t, "Metro Manila", res.Province)
		assert.Equal(t, "Philippines", res.Country)
		assert.Len(t, res.Components, 4)

		select {
		case cached := <-saved:
			assert.Equal(t, res, cached)
		case <-time.After(time.Second):
			t.Fatal("geocode result was not cached")
		}
	})

	t.Run("zero results", func(t *testing.T) {
		f := newFixture(t, `{"status": "ZERO_RESULTS", "results": []}`)
		f.miss()

		_, err := f.geocoder.Geocode(context.Background(), "Ayala Ave, Makati")

		assert.ErrorIs(t, err, geocoder.ErrNoResults)
	})

	t.Run("request denied", func(t *testing.T) {
		f := newFixture(t, `{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`)
		f.miss()

		_, err := f.geocoder.Geocode(context.Background(), "Ayala Ave, Makati")

		require.Error(t, err)
		assert.NotErrorIs(t, err, geocoder.ErrNoResults)
		assert.Contains(t, err.Error(), "REQUEST_DENIED")
		assert.Contains(t, err.Error(), "The provided API key is invalid.")
	})

	t.Run("cache hit skips the api", func(t *testing.T) {
		f := newFixture(t, okResponse)
		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*value.(*geocoder.Location) = geocoder.Location{FormattedAddress: "cached", Locality: "Makati"}

				return nil
			})

		res, err := f.geocoder.Geocode(context.Background(), "Ayala Ave, Makati")

		require.NoError(t, err)
		assert.Equal(t, "cached", res.FormattedAddress)
		assert.Zero(t, f.requests)
	})
}

func TestGeocoder_Geocode_Validation(t *testing.T) {
	t.Run("blank address", func(t *testing.T) {
		f := newFixture(t, okResponse)

		_, err := f.geocoder.Geocode(context.Background(), "   ")

		assert.Error(t, err)
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := &config.Config{}
		g := geocoder.NewWithClient(cfg, cacheMocks.NewMockRedisCache(gomock.NewController(t)), mocks.NewOtel(), http.DefaultClient)

		_, err := g.Geocode(context.Background(), "Ayala Ave, Makati")

		assert.True(t, errors.Is(err, geocoder.ErrMissingAPIKey))
	})
}
