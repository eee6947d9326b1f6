package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"slot-pricing-service/internal/adapters/cache"
	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/ports"
)

// OSRMProvider implements DistanceProvider against an OSRM /route endpoint.
// A persistent distance cache in front of it avoids repeated external calls
// for the same coordinate pair and profile. Safe for concurrent use.
type OSRMProvider struct {
	session *http.Client
	baseURL string
	cache   *cache.SQLDistanceCache // optional
}

func NewOSRMProvider(baseURL string, distanceCache *cache.SQLDistanceCache) (*OSRMProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base URL is empty")
	}
	return &OSRMProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		cache:   distanceCache,
	}, nil
}

type osrmRoute struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

func (o *OSRMProvider) Route(
	ctx context.Context,
	profile ports.Profile,
	from, to domain.Coordinates,
) (ports.DistanceResult, error) {
	if o.cache != nil {
		if r, ok, err := o.cache.Get(ctx, profile, from, to); err != nil {
			log.Warn().Err(err).Msg("distance cache read failed")
		} else if ok {
			return r, nil
		}
	}

	// OSRM expects lon,lat ordering.
	url := fmt.Sprintf(
		"%s/route/v1/%s/%f,%f;%f,%f?overview=false&alternatives=false&steps=false",
		o.baseURL, string(profile), from.Lon, from.Lat, to.Lon, to.Lat,
	)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, url)
	})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("OSRM route request failed: %w", err)
	}
	defer resp.Body.Close()

	var or osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("decode OSRM response: %w", err)
	}
	if or.Code != "Ok" || len(or.Routes) == 0 {
		msg := or.Message
		if msg == "" {
			msg = "no routes"
		}
		return ports.DistanceResult{}, fmt.Errorf("OSRM error: %s", msg)
	}

	result := ports.DistanceResult{
		DistanceMeters:  or.Routes[0].Distance,
		DurationSeconds: or.Routes[0].Duration,
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, profile, from, to, result); err != nil {
			log.Warn().Err(err).Msg("distance cache write failed")
		}
	}

	return result, nil
}
