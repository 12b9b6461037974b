package promo

import "testing"

func TestNormalizeDropsUnusableRecords(t *testing.T) {
	records := []any{
		"not an object",
		42.0,
		nil,
		map[string]any{"label": "no code"},
		map[string]any{"code": "   "},
		map[string]any{"code": "keep10", "type": "percent", "value": 10.0},
	}
	rules := Normalize(records)
	if len(rules) != 1 {
		t.Fatalf("expected 1 surviving rule, got %d", len(rules))
	}
	if rules[0].Code != "KEEP10" {
		t.Fatalf("code must be upper-cased, got %q", rules[0].Code)
	}
}

func TestNormalizeCoercesFields(t *testing.T) {
	records := []any{map[string]any{
		"code":        " mix ",
		"label":       "  Label  ",
		"type":        "BOGUS",
		"value":       "12.5",
		"minSubtotal": "oops",
		"maxDiscount": -300.0,
		"active":      "nope?",
	}}
	rules := Normalize(records)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	r := rules[0]
	if r.Code != "MIX" || r.Label != "Label" {
		t.Fatalf("text fields not trimmed: %+v", r)
	}
	if r.Type != TypePercent {
		t.Fatalf("unrecognized type must default to percent, got %q", r.Type)
	}
	if r.Value != 12.5 {
		t.Fatalf("numeric string must coerce, got %v", r.Value)
	}
	if r.MinSubtotal != 0 || r.MaxDiscount != 0 {
		t.Fatalf("bad numbers must fall back to 0: %+v", r)
	}
	if !r.Active {
		t.Fatalf("unparseable active must default to true")
	}
}

func TestNormalizeActiveDefaultsTrueWhenAbsent(t *testing.T) {
	rules := Normalize([]any{map[string]any{"code": "X1"}})
	if len(rules) != 1 || !rules[0].Active {
		t.Fatalf("active must default to true, got %+v", rules)
	}
}

func TestDecodeRulesRejectsNonArray(t *testing.T) {
	if got := DecodeRules([]byte(`{"code":"A"}`)); got != nil {
		t.Fatalf("non-array payload must yield nil, got %v", got)
	}
	if got := DecodeRules([]byte(`not json`)); got != nil {
		t.Fatalf("garbage payload must yield nil, got %v", got)
	}
	if got := DecodeRules(nil); got != nil {
		t.Fatalf("empty payload must yield nil, got %v", got)
	}
}

func TestWithDefaultsSubstitution(t *testing.T) {
	rules := WithDefaults(nil)
	if len(rules) != len(DefaultRules) {
		t.Fatalf("empty set must substitute defaults, got %d rules", len(rules))
	}
	own := []Rule{{Code: "OWN", Active: true, Type: TypePercent, Value: 5}}
	if got := WithDefaults(own); len(got) != 1 || got[0].Code != "OWN" {
		t.Fatalf("non-empty set must pass through, got %v", got)
	}
}
