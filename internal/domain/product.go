package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Variant is the purchasable unit referenced by cart lines.
type Variant struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	SKU        string    `json:"sku"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"priceCents"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"createdAt"`
}
