package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/ports"
)

// AdmissibleStarts enumerates every 30-minute boundary-aligned window start
// in [from, to] that falls inside an availability window. Results are
// chronological and deterministic.
func AdmissibleStarts(from, to time.Time, cfg domain.Settings) []time.Time {
	step := time.Duration(cfg.SlotMinutes) * time.Minute

	// Align up to the next slot boundary.
	start := from.UTC().Truncate(step)
	if start.Before(from) {
		start = start.Add(step)
	}

	starts := make([]time.Time, 0, 64)
	for t := start; !t.After(to); t = t.Add(step) {
		if cfg.Admissible(t) {
			starts = append(starts, t)
		}
	}
	return starts
}

// GenerateSlots prices every admissible window in [from, to] for the target
// location. Pure given its inputs: no randomness, no hidden state.
func GenerateSlots(
	from, to time.Time,
	lat, lon float64,
	stops []domain.ScheduledStop,
	usage map[string]int,
	cfg domain.Settings,
) []domain.Slot {
	starts := AdmissibleStarts(from, to, cfg)

	slots := make([]domain.Slot, 0, len(starts))
	for _, startAt := range starts {
		used := usage[domain.SlotIDFor(startAt)]
		slots = append(slots, ComputeSlot(startAt, lat, lon, stops, used, cfg))
	}

	// Chronological by start, ties broken by slot id.
	slices.SortFunc(slots, func(a, b domain.Slot) int {
		if c := a.StartAt.Compare(b.StartAt); c != 0 {
			return c
		}
		return strings.Compare(a.SlotID, b.SlotID)
	})
	return slots
}

// SlotService lists priced delivery windows. Listings are read-only and run
// fully in parallel across requests; each computation reads one settings
// snapshot and one stop set.
type SlotService struct {
	Stops    ports.StopRepository
	Usage    ports.UsageRepository
	Cache    ports.SlotCache // optional
	Settings *SettingsService
	Horizon  time.Duration
	Now      func() time.Time
}

const slotCacheTTL = 30 * time.Second

// DefaultHorizon bounds the listing range when the caller supplies none.
const DefaultHorizon = 3 * 24 * time.Hour

// ListSlots returns the ordered slots for a location and time range, plus the
// settings snapshot they were priced under. from/to may be zero; defaults are
// now and now+horizon.
func (s *SlotService) ListSlots(
	ctx context.Context,
	lat, lon float64,
	from, to time.Time,
) ([]domain.Slot, domain.Settings, error) {
	cfg := s.Settings.Snapshot()
	now := s.Now().UTC()

	horizon := s.Horizon
	if horizon == 0 {
		horizon = DefaultHorizon
	}
	if from.IsZero() {
		from = now
	}
	if to.IsZero() {
		to = from.Add(horizon)
	}
	from = from.UTC()
	to = to.UTC()
	if to.Before(from) {
		return nil, cfg, fmt.Errorf("list slots: range end %s precedes start %s", to, from)
	}

	// Cache keys embed the pricing epoch, so entries die with every settings
	// update or stop-set change.
	key := fmt.Sprintf("slots:%d:%.4f:%.4f:%d:%d",
		s.Settings.Epoch(), lat, lon, from.Unix(), to.Unix())

	if s.Cache != nil {
		if raw, ok, err := s.Cache.Get(ctx, key); err != nil {
			log.Warn().Err(err).Msg("slot cache read failed")
		} else if ok {
			var cached []domain.Slot
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, cfg, nil
			}
			log.Warn().Err(err).Str("key", key).Msg("slot cache entry unreadable")
		}
	}

	stops, err := s.Stops.ListActiveStops(ctx)
	if err != nil {
		return nil, cfg, fmt.Errorf("list slots: list active stops: %w", err)
	}

	starts := AdmissibleStarts(from, to, cfg)
	slotIDs := make([]string, 0, len(starts))
	for _, t := range starts {
		slotIDs = append(slotIDs, domain.SlotIDFor(t))
	}

	usage, err := s.Usage.UsageFor(ctx, slotIDs)
	if err != nil {
		return nil, cfg, fmt.Errorf("list slots: read slot usage: %w", err)
	}

	slots := GenerateSlots(from, to, lat, lon, stops, usage, cfg)

	if s.Cache != nil {
		if raw, err := json.Marshal(slots); err == nil {
			if err := s.Cache.Set(ctx, key, raw, slotCacheTTL); err != nil {
				log.Warn().Err(err).Msg("slot cache write failed")
			}
		}
	}

	return slots, cfg, nil
}
