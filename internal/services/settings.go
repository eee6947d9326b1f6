package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/ports"
)

// SettingsService serves the process-wide scoring configuration as an
// immutable snapshot. Readers take the whole value once per computation;
// updates persist to the store and then swap the pointer atomically, so no
// reader ever observes a half-updated configuration.
//
// The epoch counter versions everything pricing depends on: it is bumped on
// settings updates, confirmations and reseeds, and cache keys embed it.
type SettingsService struct {
	store ports.SettingsStore
	snap  atomic.Pointer[domain.Settings]
	epoch atomic.Int64
}

func NewSettingsService(store ports.SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Load reads the stored settings document, seeding the given defaults on
// first boot. Must run before the service is used.
func (s *SettingsService) Load(ctx context.Context, defaults domain.Settings) error {
	cfg, ok, err := s.store.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		if err := defaults.Validate(); err != nil {
			return fmt.Errorf("load settings: default document invalid: %w", err)
		}
		if err := s.store.SaveSettings(ctx, defaults); err != nil {
			return fmt.Errorf("load settings: seed defaults: %w", err)
		}
		cfg = defaults
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("load settings: stored document invalid: %w", err)
	}
	s.snap.Store(&cfg)
	return nil
}

// Snapshot returns the current settings value. The returned struct is a copy;
// callers keep using it for the whole computation.
func (s *SettingsService) Snapshot() domain.Settings {
	return *s.snap.Load()
}

// Update validates, persists, and atomically publishes a new settings value.
func (s *SettingsService) Update(ctx context.Context, cfg domain.Settings) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if err := s.store.SaveSettings(ctx, cfg); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	s.snap.Store(&cfg)
	s.epoch.Add(1)
	return nil
}

// Epoch returns the current pricing epoch.
func (s *SettingsService) Epoch() int64 { return s.epoch.Load() }

// BumpEpoch invalidates epoch-keyed caches after a stop-set change.
func (s *SettingsService) BumpEpoch() { s.epoch.Add(1) }
