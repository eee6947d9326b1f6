package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a cart/slot/location/quote lookup miss. Callers wrap it
// with the entity name: fmt.Errorf("cart %q: %w", id, domain.ErrNotFound).
var ErrNotFound = errors.New("not found")

// ErrCapacityExhausted marks a confirmation against a slot whose usage
// already reached its total.
var ErrCapacityExhausted = errors.New("slot capacity exhausted")

// SoloMinUnitsError rejects a quote on a slot with no batching opportunity
// when the cart's unit total is below the configured minimum.
type SoloMinUnitsError struct {
	Required  int
	UnitTotal int
}

func (e *SoloMinUnitsError) Error() string {
	return fmt.Sprintf("solo minimum not met: cart has %d units, %d required", e.UnitTotal, e.Required)
}
