package pricing

import "testing"

func TestSubtotalSkipsNonPositiveQty(t *testing.T) {
	items := []Item{
		{Qty: 2, UnitPrice: 1500},
		{Qty: 0, UnitPrice: 9999},
		{Qty: -3, UnitPrice: 100},
		{Qty: 1, UnitPrice: 250},
	}
	if got := Subtotal(items); got != 3250 {
		t.Fatalf("expected subtotal 3250, got %d", got)
	}
}

func TestShippingFee(t *testing.T) {
	if got := ShippingFee(0, 500); got != 0 {
		t.Fatalf("empty order must ship free, got %d", got)
	}
	if got := ShippingFee(100, 500); got != 500 {
		t.Fatalf("expected flat rate 500, got %d", got)
	}
	if got := ShippingFee(100, -1); got != 0 {
		t.Fatalf("negative flat rate must clamp to 0, got %d", got)
	}
}

func TestComputeClampsDiscount(t *testing.T) {
	items := []Item{{Qty: 1, UnitPrice: 800}}
	s := Compute(items, 5000, 500)
	if s.Discount != 800 {
		t.Fatalf("discount must not exceed subtotal, got %d", s.Discount)
	}
	if s.Total != 500 {
		t.Fatalf("expected total 500, got %d", s.Total)
	}

	s = Compute(items, -100, 500)
	if s.Discount != 0 {
		t.Fatalf("negative discount must clamp to 0, got %d", s.Discount)
	}
	if s.Total != 1300 {
		t.Fatalf("expected total 1300, got %d", s.Total)
	}
}
