package geocoder

//go:generate go run go.uber.org/mock/mockgen -source=./geocoder.go -destination=./mocks/geocoder_mock.go -package=mocks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"taskpal/config"
	"taskpal/infras/otel"
	"taskpal/shared/cache"
	"taskpal/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyGeocode = "geocode"
	cacheTTLSeconds = 60 * 60 * 24 * 30
	httpTimeout     = 8 * time.Second

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

var (
	ErrMissingAPIKey = errors.New("google api key is not configured")
	ErrNoResults     = errors.New("no results for address")
)

type Location struct {
	FormattedAddress string   `json:"formatted_address"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Locality         string   `json:"locality"`
	Province         string   `json:"province"`
	Country          string   `json:"country"`
	Components       []string `json:"components"`
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (Location, error)
}

type googleGeocoder struct {
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	httpClient *http.Client
}

func New(cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Geocoder {
	return NewWithClient(cfg, cache, otel, &http.Client{Timeout: httpTimeout})
}

func NewWithClient(cfg *config.Config, cache cache.RedisCache, otel otel.Otel, httpClient *http.Client) Geocoder {
	return &googleGeocoder{
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		httpClient: httpClient,
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress  string `json:"formatted_address"`
		AddressComponents []struct {
			LongName  string   `json:"long_name"`
			ShortName string   `json:"short_name"`
			Types     []string `json:"types"`
		} `json:"address_components"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *googleGeocoder) Geocode(ctx context.Context, address string) (res Location, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".Geocode")
	defer scope.End()
	defer scope.TraceIfError(err)

	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return res, errors.New("address is required")
	}

	if g.cfg.External.Google.APIKey == "" {
		return res, ErrMissingAPIKey
	}

	cacheKey := cacheKeyGeocode + constant.Separator + hashKey(strings.ToLower(trimmed))

	if err = g.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	params := url.Values{}
	params.Set("address", trimmed)
	params.Set("key", g.cfg.External.Google.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.External.Google.GeocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		return res, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return res, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return res, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var payload geocodeResponse
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return res, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	switch payload.Status {
	case statusOK:
	case statusZeroResults:
		return res, ErrNoResults
	default:
		return res, fmt.Errorf("geocode failed with status %s: %s", payload.Status, payload.ErrorMessage)
	}

	if len(payload.Results) == 0 {
		return res, ErrNoResults
	}

	result := payload.Results[0]
	res = Location{
		FormattedAddress: result.FormattedAddress,
		Latitude:         result.Geometry.Location.Lat,
		Longitude:        result.Geometry.Location.Lng,
	}

	for _, component := range result.AddressComponents {
		res.Components = append(res.Components, component.LongName)

		for _, kind := range component.Types {
			switch kind {
			case "locality":
				res.Locality = component.LongName
			case "administrative_area_level_2":
				res.Province = component.LongName
			case "country":
				res.Country = component.LongName
			}
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := g.cache.Save(c, cacheKey, res, cacheTTLSeconds); err != nil {
			log.Error().Err(err).Msg("failed to save geocode result to cache")
		}
	}()

	return res, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))

	return hex.EncodeToString(sum[:])
}
