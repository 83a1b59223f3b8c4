package lpf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteadyState(t *testing.T) {
	f := New(1234, 64)

	// A freshly primed filter is already at steady state.
	assert.Equal(t, uint32(1234), f.Calc(1234))

	// Feeding a constant input keeps it there, and after depth samples the
	// running sum must be exactly depth*v.
	f = New(0, 64)
	var out uint32
	for i := 0; i < 64; i++ {
		out = f.Calc(500)
	}
	assert.Equal(t, uint32(500), out)
	assert.Equal(t, uint32(64*500), f.sum)
}

func TestMatchesTrueMean(t *testing.T) {
	const depth = 16
	rng := rand.New(rand.NewSource(1))

	f := New(0, depth)
	var window []uint32
	for i := 0; i < depth; i++ {
		window = append(window, 0)
	}

	for i := 0; i < 500; i++ {
		s := uint32(rng.Intn(16384))
		window = append(window[1:], s)
		var sum uint32
		for _, v := range window {
			sum += v
		}
		want := sum / depth
		require.Equal(t, want, f.Calc(s), "sample %d", i)
	}
}

func TestDepthClamp(t *testing.T) {
	f := New(7, 4096)
	assert.Equal(t, uint32(MaxDepth), f.Depth())
	assert.Equal(t, uint32(7), f.Calc(7))

	f = New(7, 0)
	assert.Equal(t, uint32(1), f.Depth())
	// Depth-1 filter passes samples straight through.
	assert.Equal(t, uint32(42), f.Calc(42))
	assert.Equal(t, uint32(13), f.Calc(13))
}

func TestNoiseDegenerateDepth(t *testing.T) {
	f := New(9999, 1)
	f.Calc(12)
	f.Calc(16000)
	assert.Equal(t, int32(0), f.Noise())
}

func TestNoiseConstantInputIsZero(t *testing.T) {
	f := New(300, 64)
	for i := 0; i < 200; i++ {
		f.Calc(300)
	}
	assert.Equal(t, int32(0), f.Noise())
}

func TestNoiseKnownSpread(t *testing.T) {
	// Alternate 100/300 over depth 4: mean 200, each deviation 100,
	// sum of squares 40000, /(4-1)=13333, isqrt -> 115.
	f := New(0, 4)
	for _, v := range []uint32{100, 300, 100, 300} {
		f.Calc(v)
	}
	assert.Equal(t, int32(Isqrt(40000/3)), f.Noise())
}

func TestIsqrt(t *testing.T) {
	for _, s := range []uint32{0, 1, 2, 3, 4, 10, 99, 100, 1023, 1024, 65535, 1 << 20} {
		got := Isqrt(s)
		// The fixed iteration count can leave the result one above the
		// true floor (it oscillates for inputs just below a square), so
		// accept floor or floor+1.
		floor := uint32(math.Sqrt(float64(s)))
		assert.GreaterOrEqual(t, got, floor, "s=%d", s)
		assert.LessOrEqual(t, got, floor+1, "s=%d", s)
	}
}

func TestFiltersAreIndependent(t *testing.T) {
	a := New(100, 8)
	b := New(200, 8)
	a.Calc(0)
	assert.Equal(t, uint32(200), b.Calc(200))
}

func TestMedian(t *testing.T) {
	var m Median
	m.Calc(10)
	m.Calc(30)
	assert.Equal(t, int32(20), m.Calc(20))
	// A single glitch is rejected.
	assert.Equal(t, int32(30), m.Calc(16000))
	assert.Equal(t, int32(31), m.Calc(31))
}
