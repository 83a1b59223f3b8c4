// Package lpf implements the moving-sum FIR low-pass filters used to smooth
// the raw distance-sensor codes, plus the noise (standard deviation)
// diagnostic that goes with them.
package lpf

// MaxDepth is the largest supported filter depth.
const MaxDepth = 512

// LowPass is a depth-point averaging filter over a fixed-capacity ring
// buffer.  The running sum is maintained incrementally (add newest, subtract
// oldest) so Calc is O(1) and safe to call at the full 2 kHz sampling rate.
type LowPass struct {
	depth  uint32
	sum    uint32 // sum of the last depth samples
	cursor uint32 // index of the most recent sample
	hist   [MaxDepth]uint32
}

// New returns a filter primed with depth copies of seed, so the first output
// is already at steady state rather than ramping up from zero.  depth is
// clamped to [1, MaxDepth].
func New(seed uint32, depth uint32) *LowPass {
	if depth > MaxDepth {
		depth = MaxDepth
	}
	if depth < 1 {
		depth = 1
	}
	f := &LowPass{
		depth:  depth,
		cursor: depth - 1,
		sum:    depth * seed,
	}
	for i := uint32(0); i < depth; i++ {
		f.hist[i] = seed
	}
	return f
}

// Depth returns the filter length.
func (f *LowPass) Depth() uint32 {
	return f.depth
}

// Calc feeds one new sample into the filter and returns the current
// depth-point average, truncated to an integer.
// y(n) = (x(n)+x(n-1)+...+x(n-depth+1))/depth
func (f *LowPass) Calc(sample uint32) uint32 {
	if f.cursor == 0 {
		f.cursor = f.depth - 1 // wrap
	} else {
		f.cursor--
	}
	f.sum = f.sum + sample - f.hist[f.cursor] // subtract oldest, add newest
	f.hist[f.cursor] = sample
	return f.sum / f.depth
}

// Noise returns the standard deviation of the current history, a measure of
// sensor noise.  Diagnostic only, not in the control path.  Returns 0 when
// the depth is too small for a deviation to mean anything.
func (f *LowPass) Noise() int32 {
	if f.depth < 2 {
		return 0
	}
	var sum int32
	for i := uint32(0); i < f.depth; i++ {
		sum += int32(f.hist[i])
	}
	mean := sum / int32(f.depth) // DC component
	sum = 0
	for i := uint32(0); i < f.depth; i++ {
		d := int32(f.hist[i]) - mean
		sum += d * d // total energy in the AC part
	}
	return int32(Isqrt(uint32(sum / (int32(f.depth) - 1))))
}

// Isqrt computes the integer square root of s by Newton's method.  The
// iteration count is fixed (no convergence check) so the execution time is
// deterministic; 16 rounds is enough for any 32-bit input.  The result can be
// one above the true floor for inputs just under a perfect square; callers
// treat it as a noise figure, not an exact root.
func Isqrt(s uint32) uint32 {
	if s == 0 {
		// The guess would decay to zero and the update would divide by it.
		return 0
	}
	t := s/10 + 1 // initial guess
	for n := 16; n > 0; n-- {
		t = ((t*t + s) / t) / 2
	}
	return t
}

// Median is a 3-wide median filter, useful for knocking single-sample
// glitches off a signal before averaging.
type Median struct {
	u1, u2, u3 int32
}

// Calc shifts in newdata and returns the median of the last three inputs.
func (m *Median) Calc(newdata int32) int32 {
	m.u3 = m.u2
	m.u2 = m.u1
	m.u1 = newdata
	u1, u2, u3 := m.u1, m.u2, m.u3
	var result int32
	if u1 > u2 {
		if u2 > u3 {
			result = u2 // u1>u2>u3
		} else if u1 > u3 {
			result = u3 // u1>u3>u2
		} else {
			result = u1 // u3>u1>u2
		}
	} else {
		if u3 > u2 {
			result = u2 // u3>u2>u1
		} else if u1 > u3 {
			result = u1 // u2>u1>u3
		} else {
			result = u3 // u2>u3>u1
		}
	}
	return result
}
