package order

import (
	"time"

	"github.com/shopfront/backend-shopfront/internal/pricing"
)

// Status values for an order lifecycle. Assembly always starts at pending.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Item is one purchased line, priced at assembly time.
type Item struct {
	ProductID string        `json:"productId"`
	Title     string        `json:"title"`
	Qty       int           `json:"qty"`
	UnitPrice pricing.Money `json:"unitPrice"`
}

// Order is a fully assembled order record.
type Order struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	UserID     string          `json:"userId"`
	Status     string          `json:"status"`
	Items      []Item          `json:"items"`
	Subtotal   pricing.Money   `json:"subtotal"`
	Discount   pricing.Money   `json:"discount"`
	Shipping   pricing.Money   `json:"shipping"`
	Total      pricing.Money   `json:"total"`
	Currency   string          `json:"currency"`
	PromoCode  string          `json:"promoCode,omitempty"`
	ShippingTo ShippingAddress `json:"shippingTo"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ShippingAddress is the destination snapshot embedded in the order.
type ShippingAddress struct {
	Name    string `json:"name"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	Region  string `json:"region,omitempty"`
	Postal  string `json:"postal"`
	Country string `json:"country"`
}
