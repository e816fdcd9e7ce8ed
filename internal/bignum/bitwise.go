package bignum

// Bitwise operators on Int apply two's-complement semantics over a
// width just wide enough to hold both operands, matching what the
// IL's &, |, ^, <<, >> instructions expect of negative operands.

// And returns a&b.
func And(a, b Int) (Int, error) { return bitOp(a, b, func(x, y []uint32) []uint32 { return andLimbs(x, y) }) }

// Or returns a|b.
func Or(a, b Int) (Int, error) { return bitOp(a, b, orLimbs) }

// Xor returns a^b.
func Xor(a, b Int) (Int, error) { return bitOp(a, b, xorLimbs) }

// Shl returns a<<n. n must be non-negative.
func Shl(a Int, n int) (Int, error) {
	if n < 0 {
		return Int{}, ErrNegativeShift
	}
	if n == 0 || a.IsZero() {
		return normalize(a.Neg, a.Limbs), nil
	}
	shifted, err := limbsShl(a.Limbs, n)
	if err != nil {
		return Int{}, err
	}
	return normalize(a.Neg, shifted), nil
}

// Shr returns a>>n, arithmetic (sign-extending) per spec §3. n must be
// non-negative.
func Shr(a Int, n int) (Int, error) {
	if n < 0 {
		return Int{}, ErrNegativeShift
	}
	if n == 0 || a.IsZero() {
		return normalize(a.Neg, a.Limbs), nil
	}
	if !a.Neg {
		return normalize(false, limbsShr(a.Limbs, n)), nil
	}
	// Arithmetic shift of a negative value rounds toward negative
	// infinity: -(ceil(mag / 2^n)) == -((mag + 2^n - 1) >> n).
	if n >= bitLen(a.Limbs) {
		return FromInt64(-1), nil
	}
	pow2, err := limbsShl([]uint32{1}, n)
	if err != nil {
		return Int{}, err
	}
	bias := limbsSub(pow2, []uint32{1})
	biased, err := limbsAdd(a.Limbs, bias)
	if err != nil {
		return Int{}, err
	}
	return normalize(true, limbsShr(biased, n)), nil
}

func bitOp(a, b Int, op func(x, y []uint32) []uint32) (Int, error) {
	if a.IsZero() && b.IsZero() {
		return Int{}, nil
	}
	width := maxInt(bitLen(a.Limbs), bitLen(b.Limbs)) + 1
	pow2, err := limbsShl([]uint32{1}, width)
	if err != nil {
		return Int{}, err
	}
	repA, err := twosComplement(a.Limbs, a.Neg, pow2)
	if err != nil {
		return Int{}, err
	}
	repB, err := twosComplement(b.Limbs, b.Neg, pow2)
	if err != nil {
		return Int{}, err
	}
	res := op(repA, repB)
	if !bitSet(res, width-1) {
		return normalize(false, res), nil
	}
	return normalize(true, limbsSub(pow2, res)), nil
}

func twosComplement(mag []uint32, neg bool, pow2 []uint32) ([]uint32, error) {
	if !neg || len(trim(mag)) == 0 {
		return mag, nil
	}
	return limbsSub(pow2, mag), nil
}

func bitSet(limbs []uint32, bit int) bool {
	word, off := bit/32, bit%32
	if word < 0 || word >= len(limbs) {
		return false
	}
	return limbs[word]&(1<<uint(off)) != 0
}

func andLimbs(a, b []uint32) []uint32 {
	n := minInt(len(a), len(b))
	if n == 0 {
		return nil
	}
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] & b[i]
	}
	return trim(out)
}

func orLimbs(a, b []uint32) []uint32  { return combine(a, b, func(x, y uint32) uint32 { return x | y }) }
func xorLimbs(a, b []uint32) []uint32 { return combine(a, b, func(x, y uint32) uint32 { return x ^ y }) }

func combine(a, b []uint32, f func(uint32, uint32) uint32) []uint32 {
	n := maxInt(len(a), len(b))
	if n == 0 {
		return nil
	}
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		var av, bv uint32
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		out[i] = f(av, bv)
	}
	return trim(out)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
