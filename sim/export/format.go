package export

import (
	"strconv"
	"strings"
)

// formatDecimal prints v with at most places fractional digits and no
// trailing zeros, so 0.5 prints as "0.5" and 0 as "0".
func formatDecimal(v float64, places int) string {
	s := strconv.FormatFloat(v, 'f', places, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}
