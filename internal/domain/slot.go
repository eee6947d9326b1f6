package domain

import (
	"fmt"
	"strings"
	"time"
)

// SlotCapacity is a point-in-time usage snapshot for a delivery window.
type SlotCapacity struct {
	Total int
	Used  int
}

// Slot is a derived, never-persisted delivery window with computed pricing.
// It is regenerated on every listing request; only its usage counter lives in
// storage, keyed by SlotID.
type Slot struct {
	SlotID                string
	StartAt               time.Time
	EndAt                 time.Time
	Capacity              SlotCapacity
	Score                 float64
	DiscountPct           float64
	BaseDeliveryFeeCents  int
	DiscountCents         int
	FinalDeliveryFeeCents int
	Label                 string
	RequiresSoloMinUnits  bool
	SoloMinUnits          int
}

const slotIDLayout = "20060102T1504"

// SlotIDFor derives the canonical slot identifier from a window start time.
// The id encodes the UTC start minute, so a slot can be recomputed from its
// id alone without trusting any client-supplied snapshot.
func SlotIDFor(startAt time.Time) string {
	return "sl_" + startAt.UTC().Format(slotIDLayout)
}

// ParseSlotID recovers the UTC window start from a slot identifier.
func ParseSlotID(slotID string) (time.Time, error) {
	raw, ok := strings.CutPrefix(slotID, "sl_")
	if !ok {
		return time.Time{}, fmt.Errorf("parse slot id %q: missing sl_ prefix", slotID)
	}
	t, err := time.Parse(slotIDLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slot id %q: %w", slotID, err)
	}
	return t.UTC(), nil
}
