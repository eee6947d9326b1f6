package geocode

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"slot-pricing-service/internal/adapters/cache"
	"slot-pricing-service/internal/domain"
)

// StubGeocoder resolves addresses to synthetic coordinates scattered around a
// configured city center. Resolution is deterministic: the same canonical
// address always lands on the same point, which is enough for batching tests
// without a real geocoding collaborator.
type StubGeocoder struct {
	CenterLat float64
	CenterLon float64
	SpreadM   float64
	Cache     *cache.SQLGeocodeCache // optional
}

func NewStubGeocoder(centerLat, centerLon float64, c *cache.SQLGeocodeCache) *StubGeocoder {
	return &StubGeocoder{
		CenterLat: centerLat,
		CenterLon: centerLon,
		SpreadM:   2000,
		Cache:     c,
	}
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (g *StubGeocoder) Resolve(ctx context.Context, address string) (domain.Coordinates, string, error) {
	canonical := normalize(address)
	if canonical == "" {
		return domain.Coordinates{}, "", errors.New("resolve address: address must be non-empty")
	}

	if g.Cache != nil {
		if c, ok, err := g.Cache.Get(ctx, canonical); err != nil {
			log.Warn().Err(err).Msg("geocode cache read failed")
		} else if ok {
			return c, canonical, nil
		}
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(canonical)))
	sum := h.Sum64()

	// Two independent 16-bit lanes of the hash drive lat/lon jitter in
	// [-SpreadM, +SpreadM] meters around the center.
	latLane := float64(int64(sum&0xFFFF)-0x8000) / float64(0x8000)
	lonLane := float64(int64((sum>>16)&0xFFFF)-0x8000) / float64(0x8000)

	const metersPerDegLat = 111320.0
	dLat := latLane * g.SpreadM / metersPerDegLat
	dLon := lonLane * g.SpreadM / (metersPerDegLat * math.Cos(g.CenterLat*math.Pi/180.0))

	c := domain.Coordinates{
		Lat: g.CenterLat + dLat,
		Lon: g.CenterLon + dLon,
	}

	if g.Cache != nil {
		if err := g.Cache.Put(ctx, canonical, c); err != nil {
			log.Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	return c, canonical, nil
}
