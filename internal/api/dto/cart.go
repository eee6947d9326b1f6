package dto

type CartItemIn struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

type CreateCartRequest struct {
	Items []CartItemIn `json:"items"`
}

type CartSummaryResponse struct {
	CartID        string       `json:"cartId"`
	SubtotalCents int          `json:"subtotalCents"`
	Items         []CartItemIn `json:"items"`
}

type ResolveLocationRequest struct {
	Address string `json:"address"`
}

type LocationResponse struct {
	LocationID string  `json:"locationId"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Address    string  `json:"address"`
}
