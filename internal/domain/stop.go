package domain

import "time"

// ScheduledStop is an already-committed delivery visit used as a batching
// neighbor when pricing new slots. Stops are immutable once created and are
// deactivated, never deleted, so neighbor counts stay live-consistent.
type ScheduledStop struct {
	StopID  string
	OrderID string // empty for synthetic/seeded stops
	Lat     float64
	Lon     float64
	StartAt time.Time
	EndAt   time.Time
	Active  bool
}

// WindowGapMinutes returns the absolute gap in minutes between the stop's
// window and the [start, end) target window. Overlapping windows have gap 0.
func (s ScheduledStop) WindowGapMinutes(start, end time.Time) float64 {
	if s.EndAt.Before(start) {
		return start.Sub(s.EndAt).Minutes()
	}
	if s.StartAt.After(end) {
		return s.StartAt.Sub(end).Minutes()
	}
	return 0
}
