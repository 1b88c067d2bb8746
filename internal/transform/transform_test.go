package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelta(t *testing.T) {
	cum := []float64{1, 3, 6, 10, 15}
	d := Delta(cum)

	require.Len(t, d, len(cum))
	assert.True(t, math.IsNaN(d[0]), "first delta must be absent")
	for k := 1; k < len(cum); k++ {
		assert.Equal(t, cum[k]-cum[k-1], d[k], "delta at %d", k)
	}

	assert.Empty(t, Delta(nil))
	single := Delta([]float64{42})
	require.Len(t, single, 1)
	assert.True(t, math.IsNaN(single[0]))
}

func TestRolling(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	r := Rolling(values, 7)

	require.Len(t, r, len(values))
	for k := 0; k < 6; k++ {
		assert.True(t, math.IsNaN(r[k]), "position %d should be absent", k)
	}
	assert.InDelta(t, 4.0, r[6], 1e-9)
	assert.InDelta(t, 5.0, r[7], 1e-9)
	assert.InDelta(t, 6.0, r[8], 1e-9)
}

func TestRollingSkipsWindowsWithGaps(t *testing.T) {
	nan := math.NaN()
	values := []float64{1, 1, nan, 2, 2, 2, 4}
	r := Rolling(values, 3)

	assert.True(t, math.IsNaN(r[1]))
	assert.True(t, math.IsNaN(r[2]))
	assert.True(t, math.IsNaN(r[3]))
	assert.True(t, math.IsNaN(r[4]))
	assert.InDelta(t, 2.0, r[5], 1e-9)
	assert.InDelta(t, 8.0/3, r[6], 1e-9)
}

func TestRollingInvalidWindow(t *testing.T) {
	for _, w := range []int{0, -1} {
		r := Rolling([]float64{1, 2, 3}, w)
		for _, v := range r {
			assert.True(t, math.IsNaN(v))
		}
	}
}

func TestRollingWindowLongerThanSeries(t *testing.T) {
	values := []float64{5, 6, 7}
	r := Rolling(values, 7)

	require.Len(t, r, 3)
	for _, v := range r {
		assert.True(t, math.IsNaN(v))
	}
	assert.Equal(t, []float64{5, 6, 7}, values, "input must not be modified")
	assert.Empty(t, Rolling(nil, 7))
}

// Ten cumulative readings: deltas exist from the second day, so the first
// full 7-day window ends on the eighth day.
func TestRollingDeltaTenDays(t *testing.T) {
	a := []float64{1, 3, 6, 10, 15, 21, 28, 36, 45, 55}
	r := RollingDelta(a, DefaultWindow)

	for k := 0; k < 7; k++ {
		assert.False(t, Defined(r[k]), "day %d should be absent", k+1)
	}

	d := Delta(a)
	for k := 7; k < len(a); k++ {
		sum := 0.0
		for j := k - 6; j <= k; j++ {
			sum += d[j]
		}
		assert.InDelta(t, sum/7, r[k], 1e-9, "day %d", k+1)
	}
	assert.Equal(t, a[9]-a[8], d[9])
}

func TestLast(t *testing.T) {
	v := []float64{1, 2, 3, 4}
	assert.Equal(t, []float64{3, 4}, Last(v, 2))
	assert.Equal(t, v, Last(v, 10))
	assert.Empty(t, Last(v, 0))
}
