package int256

// addModLimbs returns (a + b) mod m for unsigned a, b and non-zero m. The
// 257-bit sum is reduced without losing the carry.
func addModLimbs(a, b, m Limbs) Limbs {
	if CmpLimbs(a, m) < 0 && CmpLimbs(b, m) < 0 {
		// a+b < 2m, so a single conditional subtraction suffices. When the
		// addition carried, the wrapped subtraction lands on the true value.
		s, carry := AddLimbs(a, b)
		if carry != 0 || CmpLimbs(s, m) >= 0 {
			s, _ = SubLimbs(s, m)
		}
		return s
	}
	s, carry := AddLimbs(a, b)
	return reduceWide([8]uint64{s[0], s[1], s[2], s[3], carry}, m)
}

// mulModLimbs returns (a * b) mod m from the full 512-bit product.
func mulModLimbs(a, b, m Limbs) Limbs {
	return reduceWide(MulWide(a, b), m)
}

// expLimbs returns base^exp mod 2^256 by left-to-right binary
// exponentiation.
func expLimbs(base, exp Limbs) Limbs {
	result := Limbs{1}
	for i := bitLen(exp) - 1; i >= 0; i-- {
		result = mulLow(result, result)
		if bit(exp, i) {
			result = mulLow(result, base)
		}
	}
	return result
}

// expModLimbs returns base^exp mod m for non-zero m, reducing after every
// squaring and multiplication so intermediates never exceed 512 bits.
func expModLimbs(base, exp, m Limbs) Limbs {
	if m == (Limbs{1}) {
		return Limbs{}
	}
	_, b, _ := DivModLimbs(base, m)
	result := Limbs{1}
	for i := bitLen(exp) - 1; i >= 0; i-- {
		result = mulModLimbs(result, result, m)
		if bit(exp, i) {
			result = mulModLimbs(result, b, m)
		}
	}
	return result
}

// signedSum computes the exact sum of two sign-magnitude values. The
// magnitude may need 257 bits, so the carry is returned separately.
func signedSum(aNeg bool, a Limbs, bNeg bool, b Limbs) (neg bool, mag Limbs, carry uint64) {
	if aNeg == bNeg {
		mag, carry = AddLimbs(a, b)
		return aNeg, mag, carry
	}
	switch CmpLimbs(a, b) {
	case 1:
		mag, _ = SubLimbs(a, b)
		return aNeg, mag, 0
	case -1:
		mag, _ = SubLimbs(b, a)
		return bNeg, mag, 0
	}
	return false, Limbs{}, 0
}

// applySign returns the two's complement of mag when neg is set.
func applySign(neg bool, mag Limbs) Limbs {
	if neg && !isZero(mag) {
		return negLimbs(mag)
	}
	return mag
}
