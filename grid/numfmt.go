package grid

import (
	"math"
	"strconv"
)

// Amounts are stored as integers scaled by 10000 so that money and
// quantity arithmetic never accumulates binary-fraction drift.
const numScale = 10000

// NumForSave converts a display value to its scaled storage integer.
func NumForSave(v float64) int64 {
	return int64(math.Round(v * numScale))
}

// NumForRead renders a scaled storage integer at the given precision.
func NumForRead(iv int64, dots int) string {
	return strconv.FormatFloat(float64(iv)/numScale, 'f', dots, 64)
}

// numFromText parses a display text into a scaled integer. Unparsable
// text counts as zero.
func numFromText(text string) int64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return NumForSave(v)
}

// formatAt reformats a display text at the given precision, or returns
// the zero rendering when the text does not parse.
func formatAt(text string, dots int) (string, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return strconv.FormatFloat(0, 'f', dots, 64), false
	}
	return strconv.FormatFloat(v, 'f', dots, 64), true
}
