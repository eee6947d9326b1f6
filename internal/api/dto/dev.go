package dto

type TravelDurations struct {
	Car        float64 `json:"car"`
	Motorcycle float64 `json:"motorcycle"`
	Bicycle    float64 `json:"bicycle"`
}

type TravelEstimateResponse struct {
	FromLat          float64         `json:"fromLat"`
	FromLon          float64         `json:"fromLon"`
	ToLat            float64         `json:"toLat"`
	ToLon            float64         `json:"toLon"`
	DistanceMeters   float64         `json:"distanceMeters"`
	DurationsSeconds TravelDurations `json:"durationsSeconds"`
	Provider         string          `json:"provider"`
}

type MockDataRequest struct {
	CenterLat float64 `json:"centerLat"`
	CenterLon float64 `json:"centerLon"`
	Density   string  `json:"density"`
}

type MockDataResponse struct {
	CreatedStops []string `json:"createdStops"`
	Count        int      `json:"count"`
}

type ResetResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

type DebugNeighbor struct {
	DistanceM float64 `json:"distM"`
	GapMin    float64 `json:"gapMin"`
}

type DebugNeighborsResponse struct {
	SlotID              string          `json:"slotId"`
	NeighborsWithin     []DebugNeighbor `json:"neighborsWithinRadius"`
	Score               float64         `json:"score"`
	ExpectedDiscountPct float64         `json:"expectedDiscountPct"`
	RadiusM             float64         `json:"radiusM"`
	T0Min               float64         `json:"t0Min"`
}
