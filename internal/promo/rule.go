package promo

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopfront/backend-shopfront/internal/pricing"
)

// Discount kinds supported by promo rules.
const (
	TypePercent      = "percent"
	TypeFixed        = "fixed"
	TypeFreeShipping = "free_shipping"
)

// Rule is a normalized promo rule as evaluated by the engine. Codes are
// stored upper-cased; exactly one rule exists per code in the store.
type Rule struct {
	Code        string        `json:"code" validate:"required,min=2,max=32"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Active      bool          `json:"active"`
	Type        string        `json:"type" validate:"oneof=percent fixed free_shipping"`
	Value       float64       `json:"value" validate:"gte=0"`
	MinSubtotal pricing.Money `json:"minSubtotal" validate:"gte=0"`
	MaxDiscount pricing.Money `json:"maxDiscount" validate:"gte=0"`
	CreatedAt   string        `json:"createdAt,omitempty"`
	UpdatedAt   string        `json:"updatedAt,omitempty"`
}

// DecodeRules parses a raw JSON payload from the rule store into the
// loosely-typed record list expected by Normalize. A payload that is not a
// JSON array yields no records.
func DecodeRules(raw []byte) []any {
	if len(raw) == 0 {
		return nil
	}
	var records []any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil
	}
	return records
}

// Normalize converts arbitrary stored records into well-typed rules.
// Records that are not objects or lack a usable code are dropped; every
// other field is coerced to a safe default rather than failing, so
// malformed data written by an earlier schema degrades to a percent-0 rule
// instead of taking the storefront down.
func Normalize(records []any) []Rule {
	rules := make([]Rule, 0, len(records))
	for _, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(coerceString(obj["code"])))
		if code == "" {
			continue
		}
		rules = append(rules, Rule{
			Code:        code,
			Label:       strings.TrimSpace(coerceString(obj["label"])),
			Description: strings.TrimSpace(coerceString(obj["description"])),
			Active:      coerceBool(obj["active"], true),
			Type:        normalizeType(coerceString(obj["type"])),
			Value:       coerceAmount(obj["value"]),
			MinSubtotal: pricing.Money(math.Round(coerceAmount(obj["minSubtotal"]))),
			MaxDiscount: pricing.Money(math.Round(coerceAmount(obj["maxDiscount"]))),
			CreatedAt:   strings.TrimSpace(coerceString(obj["createdAt"])),
			UpdatedAt:   strings.TrimSpace(coerceString(obj["updatedAt"])),
		})
	}
	return rules
}

func normalizeType(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case TypeFixed:
		return TypeFixed
	case TypeFreeShipping:
		return TypeFreeShipping
	default:
		// Unrecognized kinds degrade to percent; with a zero value that is
		// a no-op discount rather than a hard failure.
		return TypePercent
	}
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// coerceAmount yields a finite, non-negative number, falling back to 0.
func coerceAmount(v any) float64 {
	var n float64
	switch value := v.(type) {
	case float64:
		n = value
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		n = parsed
	case bool, nil:
		return 0
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0
	}
	return n
}

func coerceBool(v any, fallback bool) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
		return fallback
	default:
		return fallback
	}
}
