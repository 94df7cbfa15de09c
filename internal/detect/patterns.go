package detect

import (
	"math"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
)

// Guard pattern run lengths, alternating bar/space widths in modules.
//
// B S B S B S B S
// 11111111 0 1 0 1 0 1 000
var startPattern = []int{8, 1, 1, 1, 1, 1, 1, 3}

// 11111111 0 1 0 1 0 1 000, scanned right to left.
var startPatternReverse = []int{3, 1, 1, 1, 1, 1, 1, 8}

// 1111111 0 1 000 1 0 1 00 1
var stopPattern = []int{7, 1, 1, 3, 1, 1, 1, 2, 1}

// 1111111 0 1 000 1 0 1 00 1, scanned right to left.
var stopPatternReverse = []int{1, 2, 1, 1, 1, 3, 1, 1, 7}

const (
	// maxAvgVariance is the accept threshold for the average per-pattern
	// variance, 0.42 in 8-bit fixed point.
	maxAvgVariance = (1 << variancePrecision) * 42 / 100
	// maxIndividualVariance is the most any single counter may deviate from
	// its scaled expectation, 0.8 in 8-bit fixed point.
	maxIndividualVariance = (1 << variancePrecision) * 8 / 10

	// variancePrecision is the number of fractional bits used by the
	// fixed-point variance arithmetic.
	variancePrecision = 8

	// varianceRejected signals that a counter set cannot match the pattern.
	varianceRejected = math.MaxInt32
)

// findGuardPattern scans the given row for a bar/space run-length pattern.
// column is the x position to start at, width the number of pixels to scan,
// and whiteFirst the color the scan assumes it starts on. counters is a
// caller-owned scratch buffer with the same length as pattern. On success it
// returns the start (inclusive) and end (exclusive) pixel offsets of the
// match.
func findGuardPattern(m *bitmap.BitMatrix, column, row, width int, whiteFirst bool,
	pattern []int, counters []int,
) (start, end int, ok bool) {
	for i := range counters {
		counters[i] = 0
	}
	patternLength := len(pattern)
	isWhite := whiteFirst

	counterPosition := 0
	patternStart := column
	for x := column; x < column+width; x++ {
		pixel := m.Get(x, row)
		if pixel != isWhite {
			counters[counterPosition]++
			continue
		}
		if counterPosition == patternLength-1 {
			if patternMatchVariance(counters, pattern, maxIndividualVariance) < maxAvgVariance {
				return patternStart, x, true
			}
			// Slide the window: drop the oldest bar/space pair and shift.
			patternStart += counters[0] + counters[1]
			copy(counters, counters[2:])
			counters[patternLength-2] = 0
			counters[patternLength-1] = 0
			counterPosition--
		} else {
			counterPosition++
		}
		counters[counterPosition] = 1
		isWhite = !isWhite
	}
	return 0, 0, false
}

// patternMatchVariance scores how closely observed run-length counters match
// a target pattern. The result is the total absolute deviation from the
// expected proportions divided by the total observed length, scaled by 256;
// 0 is a perfect match. It returns varianceRejected when the observed total
// is below the unscaled pattern length (insufficient resolution) or when any
// single counter deviates by more than maxIndividual.
func patternMatchVariance(counters, pattern []int, maxIndividual int) int {
	total := 0
	patternLength := 0
	for i := range counters {
		total += counters[i]
		patternLength += pattern[i]
	}
	if total < patternLength {
		return varianceRejected
	}

	// Fixed-point arithmetic: scale up so intermediate values keep enough
	// significant digits.
	unitBarWidth := (total << variancePrecision) / patternLength
	maxIndividual = (maxIndividual * unitBarWidth) >> variancePrecision

	totalVariance := 0
	for i := range counters {
		counter := counters[i] << variancePrecision
		scaledPattern := pattern[i] * unitBarWidth
		variance := counter - scaledPattern
		if variance < 0 {
			variance = -variance
		}
		if variance > maxIndividual {
			return varianceRejected
		}
		totalVariance += variance
	}
	return totalVariance / total
}
