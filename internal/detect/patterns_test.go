package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
)

func TestVarianceThresholds(t *testing.T) {
	// The integer arithmetic must land on the truncated fixed-point values
	// 0.42*256 and 0.8*256 round to.
	scale := float64(int(1) << variancePrecision)
	assert.Equal(t, int(scale*0.42), maxAvgVariance)
	assert.Equal(t, int(scale*0.8), maxIndividualVariance)
	assert.Equal(t, 107, maxAvgVariance)
	assert.Equal(t, 204, maxIndividualVariance)
}

func TestPatternMatchVariance_PerfectMatch(t *testing.T) {
	for _, scale := range []int{1, 2, 3, 7} {
		counters := make([]int, len(startPattern))
		for i, p := range startPattern {
			counters[i] = p * scale
		}
		assert.Equal(t, 0, patternMatchVariance(counters, startPattern, maxIndividualVariance),
			"scale %d", scale)
	}
}

func TestPatternMatchVariance_InsufficientResolution(t *testing.T) {
	// Total observed length below the unscaled pattern length cannot match.
	counters := []int{4, 1, 1, 1, 1, 1, 1, 1}
	assert.Equal(t, varianceRejected, patternMatchVariance(counters, startPattern, maxIndividualVariance))
}

func TestPatternMatchVariance_IndividualExceeded(t *testing.T) {
	// One counter far off its expectation rejects the whole set even though
	// the total length is plausible.
	counters := []int{1, 8, 2, 2, 2, 2, 2, 15}
	assert.Equal(t, varianceRejected, patternMatchVariance(counters, startPattern, maxIndividualVariance))
}

func TestPatternMatchVariance_SmallDeviation(t *testing.T) {
	counters := make([]int, len(startPattern))
	for i, p := range startPattern {
		counters[i] = p * 4
	}
	counters[2]++ // one pixel of noise

	v := patternMatchVariance(counters, startPattern, maxIndividualVariance)
	assert.Greater(t, v, 0)
	assert.Less(t, v, maxAvgVariance)
}

// renderRuns builds a single-row bitmap from alternating run lengths,
// beginning with whiteLead white pixels and then a black run.
func renderRuns(t *testing.T, whiteLead int, runs []int, whiteTail int) *bitmap.BitMatrix {
	t.Helper()
	width := whiteLead + whiteTail
	for _, r := range runs {
		width += r
	}
	m, err := bitmap.New(width, 1)
	require.NoError(t, err)
	x := whiteLead
	black := true
	for _, r := range runs {
		for i := 0; i < r; i++ {
			if black {
				m.Set(x, 0)
			}
			x++
		}
		black = !black
	}
	return m
}

func scaleRuns(runs []int, scale int) []int {
	out := make([]int, len(runs))
	for i, r := range runs {
		out[i] = r * scale
	}
	return out
}

func TestFindGuardPattern_StartPattern(t *testing.T) {
	const scale = 3
	const lead = 11
	m := renderRuns(t, lead, scaleRuns(startPattern, scale), 9)

	counters := make([]int, len(startPattern))
	start, end, ok := findGuardPattern(m, 0, 0, m.Width(), false, startPattern, counters)
	require.True(t, ok)
	assert.Equal(t, lead, start)
	assert.Equal(t, lead+17*scale, end)
}

func TestFindGuardPattern_SlidesPastNoise(t *testing.T) {
	// A few unrelated bars before the real pattern exercise the window slide.
	const scale = 2
	runs := append([]int{2, 3, 5, 4}, scaleRuns(startPattern, scale)...)
	m := renderRuns(t, 6, runs, 8)

	counters := make([]int, len(startPattern))
	start, end, ok := findGuardPattern(m, 0, 0, m.Width(), false, startPattern, counters)
	require.True(t, ok)
	assert.Equal(t, 6+2+3+5+4, start)
	assert.Equal(t, start+17*scale, end)
}

func TestFindGuardPattern_NotPresent(t *testing.T) {
	m := renderRuns(t, 5, []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 4}, 5)

	counters := make([]int, len(startPattern))
	_, _, ok := findGuardPattern(m, 0, 0, m.Width(), false, startPattern, counters)
	assert.False(t, ok)
}

func TestFindGuardPattern_ReversedWhiteFirst(t *testing.T) {
	// The reversed start pattern begins with its 3-module space, so a black
	// bar must precede it for the space run to be delimited.
	const scale = 3
	runs := append([]int{2}, scaleRuns(startPatternReverse, scale)...)
	m := renderRuns(t, 7, runs, 6)

	counters := make([]int, len(startPatternReverse))
	start, end, ok := findGuardPattern(m, 0, 0, m.Width(), true, startPatternReverse, counters)
	require.True(t, ok)
	assert.Equal(t, 9, start)
	assert.Equal(t, 9+17*scale, end)
}

func TestFindGuardPattern_StopPattern(t *testing.T) {
	const scale = 4
	const lead = 13
	m := renderRuns(t, lead, scaleRuns(stopPattern, scale), 10)

	counters := make([]int, len(stopPattern))
	start, end, ok := findGuardPattern(m, 0, 0, m.Width(), false, stopPattern, counters)
	require.True(t, ok)
	assert.Equal(t, lead, start)
	assert.Equal(t, lead+18*scale, end)
}
