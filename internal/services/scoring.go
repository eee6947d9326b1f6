package services

import (
	"math"
	"time"

	"slot-pricing-service/internal/domain"
)

// Neighbor is one candidate batching stop reduced to the two quantities the
// score depends on: great-circle distance to the target location and the gap
// between the stop's window and the target window.
type Neighbor struct {
	DistanceM float64
	GapMin    float64
}

// FindNeighbors scans active stops and keeps those within radiusM of the
// target location (hard cutoff). The time gap is carried along but never
// filters: temporal distance only decays a neighbor's contribution.
// An empty result is a valid, common outcome and denotes a solo slot.
func FindNeighbors(
	stops []domain.ScheduledStop,
	lat, lon float64,
	windowStart, windowEnd time.Time,
	radiusM float64,
) []Neighbor {
	neighbors := make([]Neighbor, 0, len(stops))
	for _, s := range stops {
		if !s.Active {
			continue
		}
		dist := domain.HaversineM(lat, lon, s.Lat, s.Lon)
		if dist > radiusM {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			DistanceM: dist,
			GapMin:    s.WindowGapMinutes(windowStart, windowEnd),
		})
	}
	return neighbors
}

// Score sums per-neighbor weights exp(-d/d0) * exp(-gap/t0). It is zero with
// no neighbors and unbounded above.
func Score(neighbors []Neighbor, cfg domain.Settings) float64 {
	d0, t0 := cfg.DecayConstants()
	score := 0.0
	for _, n := range neighbors {
		score += math.Exp(-n.DistanceM/d0) * math.Exp(-n.GapMin/t0)
	}
	return score
}

// DiscountFromScore maps a batching score onto the saturating curve
// maxDiscount * (1 - exp(-k*score)): zero at score 0, approaching maxDiscount
// as the score grows. The result is clamped to [0, maxDiscount] against
// floating-point drift.
func DiscountFromScore(score float64, cfg domain.Settings) float64 {
	if score <= 0 {
		return 0
	}
	pct := cfg.MaxDiscount * (1 - math.Exp(-cfg.K*score))
	if pct < 0 {
		return 0
	}
	if pct > cfg.MaxDiscount {
		return cfg.MaxDiscount
	}
	return pct
}

// LabelForDiscount assigns the presentation hint for a discount percentage.
// Thresholds come from settings; the label is never authoritative for pricing.
func LabelForDiscount(pct float64, cfg domain.Settings) string {
	switch {
	case pct >= cfg.BestDealPct:
		return "Best deal"
	case pct >= cfg.GoodDealPct:
		return "Good deal"
	default:
		return "Standard"
	}
}

// ClampFee applies the discount and clamps to the minimum delivery fee.
// The returned discount is the applied discount (base - final), so
// base = final + discount holds even when the clamp binds.
func ClampFee(baseFeeCents int, pct float64, minFeeCents int) (finalFeeCents, discountCents int) {
	raw := int(math.Round(float64(baseFeeCents) * pct))
	final := baseFeeCents - raw
	if final < minFeeCents {
		final = minFeeCents
	}
	return final, baseFeeCents - final
}

// ComputeSlot prices one delivery window for a target location against the
// current stop set. It is the single pricing path shared by slot listing,
// quote creation and the debug endpoint, so a slot can never appear eligible
// at listing time yet price differently at quote time under unchanged inputs.
func ComputeSlot(
	startAt time.Time,
	lat, lon float64,
	stops []domain.ScheduledStop,
	used int,
	cfg domain.Settings,
) domain.Slot {
	endAt := startAt.Add(time.Duration(cfg.SlotMinutes) * time.Minute)

	neighbors := FindNeighbors(stops, lat, lon, startAt, endAt, cfg.RadiusM)
	score := Score(neighbors, cfg)
	pct := DiscountFromScore(score, cfg)
	final, discount := ClampFee(cfg.BaseDeliveryFeeCents, pct, cfg.MinDeliveryFeeCents)

	return domain.Slot{
		SlotID:                domain.SlotIDFor(startAt),
		StartAt:               startAt,
		EndAt:                 endAt,
		Capacity:              domain.SlotCapacity{Total: cfg.SlotCapacityTotal, Used: used},
		Score:                 score,
		DiscountPct:           pct,
		BaseDeliveryFeeCents:  cfg.BaseDeliveryFeeCents,
		DiscountCents:         discount,
		FinalDeliveryFeeCents: final,
		Label:                 LabelForDiscount(pct, cfg),
		RequiresSoloMinUnits:  score < cfg.SMin,
		SoloMinUnits:          cfg.MinSoloUnits,
	}
}
