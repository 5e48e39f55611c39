// Package cartsync keeps a local, UI-facing copy of a remote shopping cart in
// step with the cart API: mutations apply a local projection first and are
// reconciled against the server's authoritative response.
package cartsync

import "fmt"

// Money is a decimal amount string paired with a currency code. No arithmetic
// crosses currency codes.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Line is one variant-and-quantity entry within a cart.
type Line struct {
	ID        string `json:"id"`
	VariantID string `json:"variantId"`
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unitPrice"`
	Cost      Money  `json:"cost"`
}

type Cost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
}

// Cart mirrors the remote cart resource.
type Cart struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Cost          Cost   `json:"cost"`
	Lines         []Line `json:"lines"`
}

// UserError is a field-level error reported by the cart API.
type UserError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the discriminated failure result of a cart API call: either an
// HTTP-level rejection or a payload carrying user errors.
type APIError struct {
	Status int
	Errors []UserError
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("cart api: status %d: %s", e.Status, e.Errors[0].Message)
	}
	return fmt.Sprintf("cart api: status %d", e.Status)
}

// NotFound reports whether the remote rejected the request because the cart or
// line does not exist (expired carts resolve here).
func (e *APIError) NotFound() bool {
	return e.Status == 404
}
