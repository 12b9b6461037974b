package config

import (
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://localhost/shopfront",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "test-secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ShippingFlatRateCents != 500 {
		t.Fatalf("expected flat rate 500, got %d", cfg.ShippingFlatRateCents)
	}
	if cfg.OrderNumberPrefix != "SF-" || cfg.OrderNumberPadding != 6 {
		t.Fatalf("unexpected order number defaults: %q %d", cfg.OrderNumberPrefix, cfg.OrderNumberPadding)
	}
	if cfg.PromoRulesKey != "promo:rules" {
		t.Fatalf("unexpected promo rules key %q", cfg.PromoRulesKey)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("unexpected access TTL %v", cfg.AccessTokenTTL)
	}
	if cfg.HTTPAddr() != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr())
	}
}

func TestLoadRequiresCoreSettings(t *testing.T) {
	for _, missing := range []string{"DATABASE_URL", "REDIS_URL", "JWT_SECRET"} {
		env := baseEnv()
		env[missing] = ""
		if _, err := LoadForTests(env); err == nil {
			t.Fatalf("expected error when %s is missing", missing)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["SHIPPING_FLAT_RATE_CENTS"] = "750"
	env["ORDER_NUMBER_PREFIX"] = "ORD-"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example"
	cfg, err := LoadForTests(env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ShippingFlatRateCents != 750 {
		t.Fatalf("expected 750, got %d", cfg.ShippingFlatRateCents)
	}
	if cfg.OrderNumberPrefix != "ORD-" {
		t.Fatalf("expected ORD-, got %q", cfg.OrderNumberPrefix)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
}
