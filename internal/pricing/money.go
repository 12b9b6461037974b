package pricing

import "fmt"

// FormatUSD renders a cent amount as a dollar string, e.g. 2050 -> "$20.50".
// Used for user-facing validation messages.
func FormatUSD(m Money) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	if m%100 == 0 {
		return fmt.Sprintf("%s$%d", sign, m/100)
	}
	return fmt.Sprintf("%s$%d.%02d", sign, m/100, m%100)
}
