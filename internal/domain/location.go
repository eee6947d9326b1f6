package domain

// Location is a resolved delivery address.
type Location struct {
	LocationID string
	Lat        float64
	Lon        float64
	Address    string
}
