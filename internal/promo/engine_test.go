package promo

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopfront/backend-shopfront/internal/pricing"
)

func rulesFixture() []Rule {
	return []Rule{
		{Code: "CD10", Active: true, Type: TypePercent, Value: 10, MinSubtotal: 1000},
		{Code: "SAVE5", Active: true, Type: TypeFixed, Value: 500, MinSubtotal: 2000},
		{Code: "FREESHIP", Active: true, Type: TypeFreeShipping},
		{Code: "EXPIRED", Active: false, Type: TypePercent, Value: 50},
		{Code: "CAPPED", Active: true, Type: TypePercent, Value: 50, MaxDiscount: 700},
	}
}

func TestApplyEmptyCodeIsNotAnError(t *testing.T) {
	for _, code := range []string{"", "   ", "\t"} {
		app, err := Apply(3000, 500, code, rulesFixture())
		if err != nil {
			t.Fatalf("empty code %q must not error, got %v", code, err)
		}
		if app.Discount != 0 || app.ShippingOverride != nil || app.Code != "" {
			t.Fatalf("empty code %q must be a no-op, got %+v", code, app)
		}
	}
}

func TestApplyPercent(t *testing.T) {
	app, err := Apply(3000, 500, "cd10", rulesFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Discount != 300 {
		t.Fatalf("expected 300 discount, got %d", app.Discount)
	}
	if app.ShippingOverride == nil || *app.ShippingOverride != 500 {
		t.Fatalf("percent rule must pass baseline shipping through, got %v", app.ShippingOverride)
	}
	if app.Code != "CD10" {
		t.Fatalf("expected normalized code CD10, got %q", app.Code)
	}
}

func TestApplyFixedClampedToSubtotal(t *testing.T) {
	rules := []Rule{{Code: "BIG", Active: true, Type: TypeFixed, Value: 9900}}
	app, err := Apply(800, 500, "BIG", rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Discount != 800 {
		t.Fatalf("fixed discount must clamp to subtotal, got %d", app.Discount)
	}
}

func TestApplyMaxDiscountCap(t *testing.T) {
	app, err := Apply(10_000, 500, "CAPPED", rulesFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 50% of 10000 is 5000, capped at 700.
	if app.Discount != 700 {
		t.Fatalf("expected capped discount 700, got %d", app.Discount)
	}
}

func TestApplyZeroMaxDiscountMeansUncapped(t *testing.T) {
	app, err := Apply(100_000, 500, "CD10", rulesFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Discount != 10_000 {
		t.Fatalf("maxDiscount 0 must not cap, got %d", app.Discount)
	}
}

func TestApplyFreeShippingZeroesBaseline(t *testing.T) {
	for _, baseline := range []pricing.Money{0, 500, 1250} {
		app, err := Apply(5000, baseline, "FREESHIP", rulesFixture())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if app.Discount != 0 {
			t.Fatalf("free shipping yields no discount, got %d", app.Discount)
		}
		if app.ShippingOverride == nil || *app.ShippingOverride != 0 {
			t.Fatalf("free shipping must override to exactly 0, got %v", app.ShippingOverride)
		}
	}
}

func TestApplyUnknownCode(t *testing.T) {
	_, err := Apply(3000, 500, "NOPE", rulesFixture())
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestApplyInactiveCodeBehavesLikeUnknown(t *testing.T) {
	_, err := Apply(3000, 500, "EXPIRED", rulesFixture())
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("inactive code must look nonexistent, got %v", err)
	}
}

func TestApplyMinSubtotalGate(t *testing.T) {
	_, err := Apply(800, 500, "SAVE5", rulesFixture())
	var minErr *MinSubtotalError
	if !errors.As(err, &minErr) {
		t.Fatalf("expected MinSubtotalError, got %v", err)
	}
	if minErr.Required != 2000 {
		t.Fatalf("expected required 2000, got %d", minErr.Required)
	}
	if !strings.Contains(minErr.Error(), "$20") {
		t.Fatalf("message must interpolate the floor, got %q", minErr.Error())
	}
}

func TestApplyDiscountNeverNegativeNorAboveSubtotal(t *testing.T) {
	rules := rulesFixture()
	subtotals := []pricing.Money{0, 1, 999, 1000, 2000, 50_000}
	for _, s := range subtotals {
		for _, code := range []string{"CD10", "SAVE5", "CAPPED"} {
			app, err := Apply(s, 500, code, rules)
			if err != nil {
				continue
			}
			if app.Discount < 0 || app.Discount > s {
				t.Fatalf("code %s at subtotal %d: discount %d out of range", code, s, app.Discount)
			}
		}
	}
}

func TestApplyIsPure(t *testing.T) {
	rules := rulesFixture()
	first, err1 := Apply(3000, 500, "CD10", rules)
	second, err2 := Apply(3000, 500, "CD10", rules)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v %v", err1, err2)
	}
	if first.Discount != second.Discount || first.Code != second.Code ||
		*first.ShippingOverride != *second.ShippingOverride {
		t.Fatalf("identical inputs must yield identical output: %+v vs %+v", first, second)
	}
}
