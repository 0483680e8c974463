package interval

import (
	"math"
	"strconv"
)

// formatBound renders a single bound with enough precision to round-trip,
// spelling out the infinities the way the problem-file pretty-printer
// expects (§6 round-trip property).
func formatBound(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "+oo"
	case math.IsInf(x, -1):
		return "-oo"
	default:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
}
