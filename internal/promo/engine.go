package promo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopfront/backend-shopfront/internal/pricing"
)

// ErrInvalidCode is returned when the requested code matches no active
// rule. An inactive rule with a matching code is treated identically to a
// nonexistent one.
var ErrInvalidCode = errors.New("invalid promo code")

// MinSubtotalError indicates the cart subtotal is below the rule's floor.
// The message interpolates the configured minimum so the storefront can
// surface it verbatim.
type MinSubtotalError struct {
	Code     string
	Required pricing.Money
}

func (e *MinSubtotalError) Error() string {
	return fmt.Sprintf("promo code %s requires at least %s subtotal", e.Code, pricing.FormatUSD(e.Required))
}

// Application is the outcome of applying a promo code. ShippingOverride is
// nil only on the "no code given" path, meaning the caller keeps its own
// baseline shipping; any non-nil value, including zero, replaces it.
type Application struct {
	Discount         pricing.Money
	ShippingOverride *pricing.Money
	Code             string
}

// Apply evaluates a promo code against a subtotal, a baseline shipping fee,
// and the normalized rule set. It is a pure function: identical inputs
// always yield identical output.
func Apply(subtotal, shipping pricing.Money, code string, rules []Rule) (Application, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return Application{}, nil
	}

	var rule *Rule
	for i := range rules {
		if rules[i].Active && rules[i].Code == normalized {
			rule = &rules[i]
			break
		}
	}
	if rule == nil {
		return Application{}, ErrInvalidCode
	}

	if rule.MinSubtotal > 0 && subtotal < rule.MinSubtotal {
		return Application{}, &MinSubtotalError{Code: rule.Code, Required: rule.MinSubtotal}
	}

	if rule.Type == TypeFreeShipping {
		// Free shipping zeroes the fee outright, regardless of the
		// caller's baseline.
		override := pricing.Money(0)
		return Application{ShippingOverride: &override, Code: rule.Code}, nil
	}

	var raw pricing.Money
	switch rule.Type {
	case TypePercent:
		raw = pricing.Money(math.Round(float64(subtotal) * rule.Value / 100))
	case TypeFixed:
		raw = pricing.Money(math.Round(rule.Value))
	}

	discount := raw
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	if rule.MaxDiscount > 0 && discount > rule.MaxDiscount {
		discount = rule.MaxDiscount
	}

	override := shipping
	return Application{Discount: discount, ShippingOverride: &override, Code: rule.Code}, nil
}
