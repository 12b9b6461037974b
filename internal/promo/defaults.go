package promo

// DefaultRules is substituted whenever the rule store holds no usable
// records, so the storefront always has at least one active code
// regardless of admin configuration state.
var DefaultRules = []Rule{
	{
		Code:        "WELCOME10",
		Label:       "Welcome 10%",
		Description: "10% off your first order.",
		Active:      true,
		Type:        TypePercent,
		Value:       10,
	},
	{
		Code:        "FREESHIP50",
		Label:       "Free shipping over $50",
		Description: "Free shipping on orders of $50 or more.",
		Active:      true,
		Type:        TypeFreeShipping,
		MinSubtotal: 5000,
	},
}

// WithDefaults returns the provided rules, or a copy of DefaultRules when
// none survive normalization.
func WithDefaults(rules []Rule) []Rule {
	if len(rules) > 0 {
		return rules
	}
	out := make([]Rule, len(DefaultRules))
	copy(out, DefaultRules)
	return out
}
