package dto

import (
	"time"

	"slot-pricing-service/internal/domain"
)

type SlotCapacity struct {
	Total int `json:"total"`
	Used  int `json:"used"`
}

type SlotResponse struct {
	SlotID                string       `json:"slotId"`
	StartAt               time.Time    `json:"startAt"`
	EndAt                 time.Time    `json:"endAt"`
	BaseDeliveryFeeCents  int          `json:"baseDeliveryFeeCents"`
	DiscountPct           float64      `json:"discountPct"`
	DiscountCents         int          `json:"discountCents"`
	FinalDeliveryFeeCents int          `json:"finalDeliveryFeeCents"`
	Label                 string       `json:"label"`
	Capacity              SlotCapacity `json:"capacity"`
	RequiresSoloMinUnits  bool         `json:"requiresSoloMinUnits"`
	SoloMinUnits          int          `json:"soloMinUnits"`
}

type SlotsResponse struct {
	ComputedAt time.Time       `json:"computedAt"`
	Params     domain.Settings `json:"params"`
	Slots      []SlotResponse  `json:"slots"`
}

// FromSlot rounds the discount percentage for presentation; pricing fields
// are already integers.
func FromSlot(s domain.Slot) SlotResponse {
	return SlotResponse{
		SlotID:                s.SlotID,
		StartAt:               s.StartAt,
		EndAt:                 s.EndAt,
		BaseDeliveryFeeCents:  s.BaseDeliveryFeeCents,
		DiscountPct:           roundPct(s.DiscountPct),
		DiscountCents:         s.DiscountCents,
		FinalDeliveryFeeCents: s.FinalDeliveryFeeCents,
		Label:                 s.Label,
		Capacity:              SlotCapacity{Total: s.Capacity.Total, Used: s.Capacity.Used},
		RequiresSoloMinUnits:  s.RequiresSoloMinUnits,
		SoloMinUnits:          s.SoloMinUnits,
	}
}

func roundPct(pct float64) float64 {
	return float64(int(pct*10000+0.5)) / 10000
}
