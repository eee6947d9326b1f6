package dto

import "time"

type QuoteRequest struct {
	CartID     string `json:"cartId"`
	SlotID     string `json:"slotId"`
	LocationID string `json:"locationId"`
}

type QuoteAmounts struct {
	SubtotalCents    int `json:"subtotalCents"`
	DeliveryFeeCents int `json:"deliveryFeeCents"`
	DiscountCents    int `json:"discountCents"`
	TotalCents       int `json:"totalCents"`
}

type QuoteResponse struct {
	QuoteID     string       `json:"quoteId"`
	LockedUntil time.Time    `json:"lockedUntil"`
	State       string       `json:"state"`
	Amounts     QuoteAmounts `json:"amounts"`
}

type PaymentCreateRequest struct {
	QuoteID string `json:"quoteId"`
}

type PaymentCreateResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Status          string `json:"status"`
}

type WebhookRequest struct {
	Event   string `json:"event"`
	QuoteID string `json:"quoteId"`
}

type WebhookResponse struct {
	Status string `json:"status"`
}
