// Package bignum implements arbitrary-precision signed integer arithmetic,
// the sole runtime value type of the IL (spec §3, C1).
package bignum

import (
	"errors"
	"math/bits"
)

// MaxLimbs bounds the magnitude of any value the package will produce,
// guarding against unbounded allocation from pathological programs
// (e.g. repeated squaring in a tight loop with no other termination check).
const MaxLimbs = 1_000_000

var (
	// ErrTooLarge indicates a value would exceed MaxLimbs.
	ErrTooLarge = errors.New("bignum: value too large")
	// ErrDivByZero indicates division or remainder by zero.
	ErrDivByZero = errors.New("bignum: division by zero")
	// ErrNegativeShift indicates a shift instruction with a negative amount.
	ErrNegativeShift = errors.New("bignum: negative shift amount")
	// ErrParse indicates malformed integer literal text.
	ErrParse = errors.New("bignum: invalid integer literal")
)

// Int is an arbitrary-precision signed integer.
//
// Limbs hold the magnitude in base 2^32, little-endian (Limbs[0] is least
// significant). Canonical zero is Neg=false with a nil/empty Limbs slice;
// no other invariant on Neg is implied when the magnitude is zero.
type Int struct {
	Neg   bool
	Limbs []uint32
}

// Zero is the additive identity.
func Zero() Int { return Int{} }

// One is the multiplicative identity.
func One() Int { return FromInt64(1) }

// FromInt64 converts a machine int64 to Int.
func FromInt64(v int64) Int {
	if v == 0 {
		return Int{}
	}
	if v > 0 {
		return Int{Limbs: fromUint64(uint64(v))}
	}
	mag := uint64(-(v + 1)) + 1 // avoids overflow at math.MinInt64
	return Int{Neg: true, Limbs: fromUint64(mag)}
}

func fromUint64(v uint64) []uint32 {
	if v == 0 {
		return nil
	}
	lo := uint32(v)
	hi := uint32(v >> 32)
	if hi == 0 {
		return []uint32{lo}
	}
	return []uint32{lo, hi}
}

// IsZero reports whether the value is zero.
func (i Int) IsZero() bool {
	return len(trim(i.Limbs)) == 0
}

// Sign returns -1, 0, or 1.
func (i Int) Sign() int {
	if i.IsZero() {
		return 0
	}
	if i.Neg {
		return -1
	}
	return 1
}

// Negate returns -i.
func (i Int) Negate() Int {
	if i.IsZero() {
		return Int{}
	}
	return Int{Neg: !i.Neg, Limbs: trim(i.Limbs)}
}

// Cmp returns -1, 0, or 1 as i<j, i==j, i>j.
func (i Int) Cmp(j Int) int {
	ia, ja := trim(i.Limbs), trim(j.Limbs)
	switch {
	case len(ia) == 0 && len(ja) == 0:
		return 0
	case i.Neg != j.Neg:
		if i.Neg {
			return -1
		}
		return 1
	default:
		c := cmpLimbs(ia, ja)
		if i.Neg {
			return -c
		}
		return c
	}
}

// Int64 returns the value as an int64, and false if it does not fit.
func (i Int) Int64() (int64, bool) {
	mag, ok := magnitudeUint64(trim(i.Limbs))
	if !ok {
		return 0, false
	}
	const maxPos = uint64(1)<<63 - 1
	if !i.Neg {
		if mag > maxPos {
			return 0, false
		}
		return int64(mag), true
	}
	if mag > maxPos+1 {
		return 0, false
	}
	if mag == maxPos+1 {
		return -1 << 63, true
	}
	return -int64(mag), true
}

func magnitudeUint64(limbs []uint32) (uint64, bool) {
	switch len(limbs) {
	case 0:
		return 0, true
	case 1:
		return uint64(limbs[0]), true
	case 2:
		return uint64(limbs[0]) | uint64(limbs[1])<<32, true
	default:
		return 0, false
	}
}

func trim(limbs []uint32) []uint32 {
	for len(limbs) > 0 && limbs[len(limbs)-1] == 0 {
		limbs = limbs[:len(limbs)-1]
	}
	if len(limbs) == 0 {
		return nil
	}
	return limbs
}

func bitLen(limbs []uint32) int {
	limbs = trim(limbs)
	if len(limbs) == 0 {
		return 0
	}
	top := limbs[len(limbs)-1]
	return (len(limbs)-1)*32 + (32 - bits.LeadingZeros32(top))
}

func cmpLimbs(a, b []uint32) int {
	a, b = trim(a), trim(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
