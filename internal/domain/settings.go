package domain

import (
	"fmt"
	"time"
)

// DeliveryType selects the decay profile of the courier fleet.
type DeliveryType string

const (
	DeliveryCar        DeliveryType = "car"
	DeliveryMotorcycle DeliveryType = "motorcycle"
	DeliveryBicycle    DeliveryType = "bicycle"
)

// AvailabilityWindow is a recurring weekly span during which delivery
// windows may start. Days use ISO numbering (1=Mon .. 7=Sun). StartTime and
// EndTime are "HH:MM" times of day; the start boundary is inclusive and the
// end boundary exclusive.
type AvailabilityWindow struct {
	DaysOfWeek []int  `json:"daysOfWeek"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// Contains reports whether t (interpreted in UTC) falls inside the window.
func (w AvailabilityWindow) Contains(t time.Time) bool {
	t = t.UTC()
	day := int(t.Weekday())
	if day == 0 {
		day = 7 // ISO: Sunday is 7
	}

	found := false
	for _, d := range w.DaysOfWeek {
		if d == day {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	startMin, err := parseTimeOfDay(w.StartTime)
	if err != nil {
		return false
	}
	endMin, err := parseTimeOfDay(w.EndTime)
	if err != nil {
		return false
	}

	tod := t.Hour()*60 + t.Minute()
	return tod >= startMin && tod < endMin
}

func (w AvailabilityWindow) validate() error {
	if len(w.DaysOfWeek) == 0 {
		return fmt.Errorf("availability window: daysOfWeek must not be empty")
	}
	for _, d := range w.DaysOfWeek {
		if d < 1 || d > 7 {
			return fmt.Errorf("availability window: day %d out of range 1..7", d)
		}
	}
	start, err := parseTimeOfDay(w.StartTime)
	if err != nil {
		return fmt.Errorf("availability window: %w", err)
	}
	end, err := parseTimeOfDay(w.EndTime)
	if err != nil {
		return fmt.Errorf("availability window: %w", err)
	}
	if start >= end {
		return fmt.Errorf("availability window: startTime %q must precede endTime %q", w.StartTime, w.EndTime)
	}
	return nil
}

func parseTimeOfDay(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return h*60 + m, nil
}

// Settings is the process-wide scoring and availability configuration.
// Computations always read one immutable snapshot; updates replace the whole
// value atomically (see services.SettingsService).
type Settings struct {
	RadiusM              float64              `json:"radiusM"`
	T0Min                float64              `json:"t0Min"`
	D0M                  float64              `json:"d0M"`
	MaxDiscount          float64              `json:"maxDiscount"`
	K                    float64              `json:"k"`
	SMin                 float64              `json:"sMin"`
	MinSoloUnits         int                  `json:"minSoloUnits"`
	BaseDeliveryFeeCents int                  `json:"baseDeliveryFeeCents"`
	MinDeliveryFeeCents  int                  `json:"minDeliveryFeeCents"`
	SlotMinutes          int                  `json:"slotMinutes"`
	SlotCapacityTotal    int                  `json:"slotCapacityTotal"`
	BestDealPct          float64              `json:"bestDealPct"`
	GoodDealPct          float64              `json:"goodDealPct"`
	DeliveryType         DeliveryType         `json:"deliveryType"`
	Availability         []AvailabilityWindow `json:"availability"`
}

// DefaultSettings mirrors the seed configuration shipped with the service.
func DefaultSettings() Settings {
	return Settings{
		RadiusM:              3000,
		T0Min:                30,
		D0M:                  800,
		MaxDiscount:          0.20,
		K:                    1.0,
		SMin:                 0.05,
		MinSoloUnits:         6,
		BaseDeliveryFeeCents: 450,
		MinDeliveryFeeCents:  300,
		SlotMinutes:          30,
		SlotCapacityTotal:    12,
		BestDealPct:          0.15,
		GoodDealPct:          0.05,
		DeliveryType:         DeliveryMotorcycle,
		Availability: []AvailabilityWindow{
			{DaysOfWeek: []int{1, 2, 3, 4, 5}, StartTime: "12:00", EndTime: "20:00"},
			{DaysOfWeek: []int{6, 7}, StartTime: "10:00", EndTime: "18:00"},
		},
	}
}

// DecayConstants returns the effective distance/time decay for the configured
// delivery type. Cars tolerate distance better; bicycles are more sensitive
// to both distance and time.
func (s Settings) DecayConstants() (d0 float64, t0 float64) {
	switch s.DeliveryType {
	case DeliveryCar:
		return s.D0M * 1.4, s.T0Min
	case DeliveryBicycle:
		return s.D0M * 0.7, s.T0Min * 0.8
	default:
		return s.D0M, s.T0Min
	}
}

// Validate rejects settings that would make pricing undefined.
func (s Settings) Validate() error {
	if s.RadiusM <= 0 {
		return fmt.Errorf("settings: radiusM must be positive")
	}
	if s.T0Min <= 0 || s.D0M <= 0 {
		return fmt.Errorf("settings: decay constants must be positive")
	}
	if s.MaxDiscount < 0 || s.MaxDiscount > 1 {
		return fmt.Errorf("settings: maxDiscount must be within [0, 1]")
	}
	if s.K <= 0 {
		return fmt.Errorf("settings: k must be positive")
	}
	if s.SMin < 0 {
		return fmt.Errorf("settings: sMin must not be negative")
	}
	if s.MinSoloUnits < 0 {
		return fmt.Errorf("settings: minSoloUnits must not be negative")
	}
	if s.BaseDeliveryFeeCents < 0 || s.MinDeliveryFeeCents < 0 {
		return fmt.Errorf("settings: delivery fees must not be negative")
	}
	if s.MinDeliveryFeeCents > s.BaseDeliveryFeeCents {
		return fmt.Errorf("settings: minDeliveryFeeCents must not exceed baseDeliveryFeeCents")
	}
	if s.SlotMinutes != 30 {
		return fmt.Errorf("settings: slotMinutes must be 30")
	}
	if s.SlotCapacityTotal < 1 {
		return fmt.Errorf("settings: slotCapacityTotal must be at least 1")
	}
	if s.BestDealPct < s.GoodDealPct {
		return fmt.Errorf("settings: bestDealPct must not be below goodDealPct")
	}
	switch s.DeliveryType {
	case DeliveryCar, DeliveryMotorcycle, DeliveryBicycle:
	default:
		return fmt.Errorf("settings: unknown deliveryType %q", s.DeliveryType)
	}
	if len(s.Availability) == 0 {
		return fmt.Errorf("settings: at least one availability window is required")
	}
	for _, w := range s.Availability {
		if err := w.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Admissible reports whether a slot start falls inside any availability window.
func (s Settings) Admissible(startAt time.Time) bool {
	for _, w := range s.Availability {
		if w.Contains(startAt) {
			return true
		}
	}
	return false
}
