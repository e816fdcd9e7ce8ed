package bignum

// Add returns a+b.
func Add(a, b Int) (Int, error) {
	if a.Neg == b.Neg {
		sum, err := limbsAdd(a.Limbs, b.Limbs)
		if err != nil {
			return Int{}, err
		}
		return normalize(a.Neg, sum), nil
	}
	switch cmpLimbs(a.Limbs, b.Limbs) {
	case 0:
		return Int{}, nil
	case 1:
		return normalize(a.Neg, limbsSub(a.Limbs, b.Limbs)), nil
	default:
		return normalize(b.Neg, limbsSub(b.Limbs, a.Limbs)), nil
	}
}

// Sub returns a-b.
func Sub(a, b Int) (Int, error) {
	return Add(a, b.Negate())
}

// Mul returns a*b.
func Mul(a, b Int) (Int, error) {
	prod, err := limbsMul(a.Limbs, b.Limbs)
	if err != nil {
		return Int{}, err
	}
	return normalize(a.Neg != b.Neg, prod), nil
}

// DivMod returns the quotient and remainder of a/b using truncated
// (toward-zero) division: a == (a/b)*b + a%b, with a%b taking the sign
// of the dividend. Spec §3.
func DivMod(a, b Int) (q, r Int, err error) {
	if b.IsZero() {
		return Int{}, Int{}, ErrDivByZero
	}
	if a.IsZero() {
		return Int{}, Int{}, nil
	}
	qMag, rMag, err := limbsDivMod(a.Limbs, b.Limbs)
	if err != nil {
		return Int{}, Int{}, err
	}
	return normalize(a.Neg != b.Neg, qMag), normalize(a.Neg, rMag), nil
}

func normalize(neg bool, limbs []uint32) Int {
	limbs = trim(limbs)
	if len(limbs) == 0 {
		return Int{}
	}
	return Int{Neg: neg, Limbs: limbs}
}
