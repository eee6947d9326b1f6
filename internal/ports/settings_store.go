package ports

import (
	"context"

	"slot-pricing-service/internal/domain"
)

// Port: durable storage for the global settings document.
type SettingsStore interface {
	// LoadSettings returns ok=false when no document has been saved yet.
	LoadSettings(ctx context.Context) (s domain.Settings, ok bool, err error)
	SaveSettings(ctx context.Context, s domain.Settings) error
}

// Port: administrative reset of dynamic state (dev/test only).
type MaintenanceStore interface {
	// Reset clears carts, quotes and orders and zeroes slot usage. With
	// full=true it also deactivates all scheduled stops.
	Reset(ctx context.Context, full bool) error
}
