package domain

import (
	"fmt"
	"math"
)

// PercentSaved returns the savings as a whole percentage of the original
// length. ok is false for empty input, where no percentage is shown.
func PercentSaved(r CompressionResult) (pct int, ok bool) {
	if r.OriginalLength == 0 {
		return 0, false
	}
	return int(math.Round(float64(r.CharactersSaved) / float64(r.OriginalLength) * 100)), true
}

// SavingsSummary renders the savings line shown next to a compressed message,
// e.g. "Saved 8 characters (16%)".
func SavingsSummary(r CompressionResult) string {
	pct, ok := PercentSaved(r)
	if !ok {
		return fmt.Sprintf("Saved %d characters", r.CharactersSaved)
	}
	return fmt.Sprintf("Saved %d characters (%d%%)", r.CharactersSaved, pct)
}
