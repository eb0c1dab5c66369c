// Package cli provides formatting and rendering helpers for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatEC formats an embodied carbon amount in kgCO2e, switching to tonnes
// from 10,000 kg upwards.
func FormatEC(kg float64) string {
	if math.Abs(kg) >= 10_000 {
		return fmt.Sprintf("%.1f t", kg/1000)
	}
	return FormatNumber(int64(math.Round(kg))) + " kg"
}

// FormatIntensity formats kgCO2e per square metre.
func FormatIntensity(v float64) string {
	return fmt.Sprintf("%.0f kg/m²", v)
}

// FormatShare formats part as a percentage of total.
func FormatShare(part, total float64) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", part/total*100)
}
