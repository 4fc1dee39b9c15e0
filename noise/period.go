package noise

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrInvalidPeriod is returned when a requested period is 1 or negative.
var ErrInvalidPeriod = errors.New("period must be 0 or greater than 1")

// Period caches the per-axis multipliers used by the periodic evaluators.
// An axis with a zero multiplier does not wrap. The zero value is NoPeriod.
//
// Wrapping is exact for every int32 lattice coordinate and every accepted
// period, so f(x) == f(x+P) holds wherever cell + seed*SeedPrime and its
// shifted counterpart both stay inside int32.
type Period struct {
	x, y, z axis
}

// axis holds the fast modulo state for one dimension.
type axis struct {
	m    uint64 // ceil(2^64 / p), 0 = no wrap
	p    uint32
	bias uint32 // 2^32 mod p, corrects negative coordinates
}

// NoPeriod disables wrapping on every axis.
var NoPeriod = Period{}

// NewPeriod builds a Period for 2D evaluation. Pass 0 to leave an axis unwrapped.
func NewPeriod(xPeriod, yPeriod int32) (Period, error) {
	return NewPeriod3D(xPeriod, yPeriod, 0)
}

// NewPeriod3D builds a Period for 3D evaluation. Pass 0 to leave an axis unwrapped.
func NewPeriod3D(xPeriod, yPeriod, zPeriod int32) (Period, error) {
	var p Period
	var err error
	if p.x, err = newAxis(xPeriod); err != nil {
		return NoPeriod, fmt.Errorf("x axis: %w", err)
	}
	if p.y, err = newAxis(yPeriod); err != nil {
		return NoPeriod, fmt.Errorf("y axis: %w", err)
	}
	if p.z, err = newAxis(zPeriod); err != nil {
		return NoPeriod, fmt.Errorf("z axis: %w", err)
	}
	return p, nil
}

func newAxis(period int32) (axis, error) {
	if period == 0 {
		return axis{}, nil
	}
	if period <= 1 {
		return axis{}, fmt.Errorf("period %d: %w", period, ErrInvalidPeriod)
	}
	return axis{
		m:    periodFactor(uint32(period)),
		p:    uint32(period),
		bias: uint32((1 << 32) % uint64(period)),
	}, nil
}

// periodFactor returns floor((2^64-1)/period) + 1.
func periodFactor(period uint32) uint64 {
	return math.MaxUint64/uint64(period) + 1
}

// XPeriod returns the x period, or 0 if x does not wrap.
func (p Period) XPeriod() int32 { return int32(p.x.p) }

// YPeriod returns the y period, or 0 if y does not wrap.
func (p Period) YPeriod() int32 { return int32(p.y.p) }

// ZPeriod returns the z period, or 0 if z does not wrap.
func (p Period) ZPeriod() int32 { return int32(p.z.p) }

// IsNull reports whether no axis wraps.
func (p Period) IsNull() bool {
	return p.x.m == 0 && p.y.m == 0 && p.z.m == 0
}

// String implements fmt.Stringer.
func (p Period) String() string {
	return fmt.Sprintf("Period(%d, %d, %d)", p.XPeriod(), p.YPeriod(), p.ZPeriod())
}

// reduce returns i mod p in [0, p). The multiply-high step is exact for any
// uint32 input; a negative i reads as i + 2^32, which bias undoes.
func (a axis) reduce(i int32) uint32 {
	hi, _ := bits.Mul64(a.m*uint64(uint32(i)), uint64(a.p))
	r := uint32(hi)
	if i < 0 {
		r += a.p - a.bias
		if r >= a.p {
			r -= a.p
		}
	}
	return r
}

// wrap returns the wrapped lattice index for i and i+1.
// An axis without a period leaves the coordinate as is.
func wrap(i int32, a axis) (lo, hi int32) {
	if a.m == 0 {
		return i, i + 1
	}
	r := a.reduce(i)
	next := r + 1
	if next == a.p {
		next = 0
	}
	return int32(r), int32(next)
}

// wrap3 returns the wrapped lattice index for i-1, i and i+1.
func wrap3(i int32, a axis) (lo, mid, hi int32) {
	if a.m == 0 {
		return i - 1, i, i + 1
	}
	r := a.reduce(i)
	prev, next := r-1, r+1
	if r == 0 {
		prev = a.p - 1
	}
	if next == a.p {
		next = 0
	}
	return int32(prev), int32(r), int32(next)
}
