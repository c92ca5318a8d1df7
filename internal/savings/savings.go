// Package savings derives human-readable size-reduction facts from byte
// counts. Pure functions, used for upload result reporting only.
package savings

import (
	"fmt"
	"math"
	"strconv"
)

// PercentSaved returns the rounded percentage reduction from original to
// optimized. Zero original yields 0. The result is deliberately not clamped:
// optimized larger than original gives a negative percentage.
func PercentSaved(original, optimized int64) int {
	if original == 0 {
		return 0
	}
	return int(math.Round(100 * float64(original-optimized) / float64(original)))
}

var units = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes renders n with binary (1024-based) units and at most two
// decimal digits, trailing zeros trimmed: 1536 -> "1.5 KB".
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 Bytes"
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + units[i]
}

// Describe renders the standard "saved X% (A -> B)" line used by upload
// notifications.
func Describe(original, optimized int64) string {
	return fmt.Sprintf("saved %d%% (%s → %s)",
		PercentSaved(original, optimized), FormatBytes(original), FormatBytes(optimized))
}
