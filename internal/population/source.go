// Package population provides the population-density raster collaborator
// used by the casualty estimator. The engine only depends on the Source
// interface; the HTTP implementation talks to a raster tile/statistics
// service and tolerates transient failures with bounded retries.
package population

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/signalsfoundry/impact-simulator/internal/logging"
)

// Source samples population density (people/km^2) in a neighborhood around
// a coordinate. Implementations return one value per sample point in the
// requested window; callers typically take the maximum to avoid
// under-sampling sparse grids.
type Source interface {
	Sample(ctx context.Context, latDeg, lonDeg, radiusKm float64, window int) ([]float64, error)
}

// HTTPSource queries a remote population-statistics endpoint.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	Log     logging.Logger

	// MaxAttempts bounds the retry loop; 0 means the default.
	MaxAttempts uint
}

const defaultMaxAttempts = 4

type densityResponse struct {
	Densities []float64 `json:"densities"`
}

// NewHTTPSource constructs a source with a sane request timeout.
func NewHTTPSource(baseURL string, log logging.Logger) *HTTPSource {
	if log == nil {
		log = logging.Noop()
	}
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Log:     log,
	}
}

// Sample fetches density samples, retrying transient failures with
// exponential backoff. Context cancellation short-circuits the retry loop
// immediately; a superseded estimate request must not keep hitting the
// raster service.
func (s *HTTPSource) Sample(ctx context.Context, latDeg, lonDeg, radiusKm float64, window int) ([]float64, error) {
	if window < 1 {
		window = 1
	}

	attempts := s.MaxAttempts
	if attempts == 0 {
		attempts = defaultMaxAttempts
	}

	op := func() ([]float64, error) {
		return s.fetch(ctx, latDeg, lonDeg, radiusKm, window)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond

	densities, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(attempts),
	)
	if err != nil {
		return nil, fmt.Errorf("population sample (%.2f, %.2f): %w", latDeg, lonDeg, err)
	}
	return densities, nil
}

func (s *HTTPSource) fetch(ctx context.Context, latDeg, lonDeg, radiusKm float64, window int) ([]float64, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", latDeg))
	q.Set("lon", fmt.Sprintf("%.4f", lonDeg))
	q.Set("radius_km", fmt.Sprintf("%.1f", radiusKm))
	q.Set("window", fmt.Sprintf("%d", window))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("raster service status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var payload densityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Densities) == 0 {
		return nil, fmt.Errorf("raster service returned no samples")
	}
	return payload.Densities, nil
}
