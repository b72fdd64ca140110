// Package seeded provides the two linear congruential generators used to pick
// template variants. Both evaluate their recurrence in float64 so that the
// stream matches content produced by earlier browser-side encoders exactly;
// switching to integer arithmetic changes the product rounding for most
// states and therefore which variant a date maps to.
package seeded

import "math"

const (
	briefMultiplier = 1103515245
	briefIncrement  = 12345
	briefMask       = 0x7fffffff

	pulseMultiplier = 1664525
	pulseIncrement  = 1013904223
	pulseModulus    = 1 << 32
)

// Source is a reproducible stream of values in [0,1)
type Source interface {
	Float64() float64
}

// Intn maps the next value of src onto [0,n) with floor(v*n)
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(math.Floor(src.Float64() * float64(n)))
	// BriefRand can return exactly 1
	if i >= n {
		i = n - 1
	}
	return i
}

// BriefRand is the daily brief generator:
// state = (state*1103515245 + 12345) mod 2^31, output state/(2^31-1).
type BriefRand struct {
	state int64
}

// NewBriefRand creates brief generator seeded with seed
func NewBriefRand(seed int64) *BriefRand {
	return &BriefRand{state: seed}
}

// Float64 advances the state and returns it scaled to [0,1]
func (r *BriefRand) Float64() float64 {
	// The explicit conversion keeps the product rounded on its own (no FMA).
	p := float64(float64(r.state)*briefMultiplier) + briefIncrement
	r.state = int64(math.Mod(p, 1<<32)) & briefMask
	return float64(r.state) / briefMask
}

// Intn returns floor(Float64()*n)
func (r *BriefRand) Intn(n int) int {
	return Intn(r, n)
}

// PulseRand is the market pulse generator:
// state = (state*1664525 + 1013904223) mod 2^32, output state/2^32.
type PulseRand struct {
	state float64
}

// NewPulseRand creates pulse generator seeded with seed
func NewPulseRand(seed int64) *PulseRand {
	return &PulseRand{state: float64(seed)}
}

// Float64 advances the state and returns it scaled to [0,1)
func (r *PulseRand) Float64() float64 {
	p := float64(r.state*pulseMultiplier) + pulseIncrement
	r.state = math.Mod(p, pulseModulus)
	return r.state / pulseModulus
}

// Intn returns floor(Float64()*n)
func (r *PulseRand) Intn(n int) int {
	return Intn(r, n)
}
