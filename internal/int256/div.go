package int256

import (
	"math/bits"

	apperrors "github.com/agbru/wideint/internal/errors"
)

// DivModLimbs divides u by d as unsigned values and returns the floor
// quotient and the remainder, satisfying u = q*d + r with 0 <= r < d.
// Division by zero returns a DomainError wrapping ErrDivisionByZero.
func DivModLimbs(u, d Limbs) (q, r Limbs, err error) {
	if isZero(d) {
		return Limbs{}, Limbs{}, apperrors.NewDomainError("DivMod", apperrors.ErrDivisionByZero)
	}
	switch CmpLimbs(u, d) {
	case -1:
		return Limbs{}, u, nil
	case 0:
		return Limbs{1}, Limbs{}, nil
	}
	if u[1]|u[2]|u[3] == 0 {
		// Both operands fit a machine word.
		return Limbs{u[0] / d[0]}, Limbs{u[0] % d[0]}, nil
	}
	var quot [4]uint64
	r = udivrem(quot[:], u[:], d)
	return Limbs(quot), r, nil
}

// reduceWide returns x mod m for a 512-bit x. m must be non-zero.
func reduceWide(x [8]uint64, m Limbs) Limbs {
	if x[4]|x[5]|x[6]|x[7] == 0 {
		_, r, _ := DivModLimbs(Limbs{x[0], x[1], x[2], x[3]}, m)
		return r
	}
	var quot [8]uint64
	return udivrem(quot[:], x[:], m)
}

// udivrem divides u by d, writes the quotient into quot and returns the
// remainder. It requires d != 0 and that u has at least as many significant
// words as d; quot must hold len(u) words.
func udivrem(quot, u []uint64, d Limbs) Limbs {
	dLen := 0
	for i := len(d) - 1; i >= 0; i-- {
		if d[i] != 0 {
			dLen = i + 1
			break
		}
	}

	// Normalize so the divisor's top word has its high bit set.
	shift := uint(bits.LeadingZeros64(d[dLen-1]))

	var dnStorage Limbs
	dn := dnStorage[:dLen]
	for i := dLen - 1; i > 0; i-- {
		dn[i] = (d[i] << shift) | (d[i-1] >> (64 - shift))
	}
	dn[0] = d[0] << shift

	uLen := 0
	for i := len(u) - 1; i >= 0; i-- {
		if u[i] != 0 {
			uLen = i + 1
			break
		}
	}

	var unStorage [9]uint64
	un := unStorage[:uLen+1]
	un[uLen] = u[uLen-1] >> (64 - shift)
	for i := uLen - 1; i > 0; i-- {
		un[i] = (u[i] << shift) | (u[i-1] >> (64 - shift))
	}
	un[0] = u[0] << shift

	if dLen == 1 {
		r := udivremBy1(quot, un, dn[0])
		return Limbs{r >> shift}
	}

	udivremKnuth(quot, un, dn)

	var rem Limbs
	for i := 0; i < dLen-1; i++ {
		rem[i] = (un[i] >> shift) | (un[i+1] << (64 - shift))
	}
	rem[dLen-1] = un[dLen-1] >> shift
	return rem
}

// udivremBy1 divides u by the normalized single word d and returns the
// remainder.
func udivremBy1(quot, u []uint64, d uint64) uint64 {
	rec := reciprocal2by1(d)
	rem := u[len(u)-1]
	for j := len(u) - 2; j >= 0; j-- {
		quot[j], rem = udivrem2by1(rem, u[j], d, rec)
	}
	return rem
}

// udivremKnuth implements Knuth's Algorithm D for a normalized divisor of at
// least two words. The remainder is left in the low words of u.
func udivremKnuth(quot, u, d []uint64) {
	dh := d[len(d)-1]
	dl := d[len(d)-2]
	reciprocal := reciprocal2by1(dh)

	for j := len(u) - len(d) - 1; j >= 0; j-- {
		u2 := u[j+len(d)]
		u1 := u[j+len(d)-1]
		u0 := u[j+len(d)-2]

		var qhat, rhat uint64
		if u2 >= dh {
			// The estimate would overflow a word; start from the largest digit
			// and let the add-back step correct it.
			qhat = ^uint64(0)
		} else {
			qhat, rhat = udivrem2by1(u2, u1, dh, reciprocal)
			ph, pl := bits.Mul64(qhat, dl)
			if ph > rhat || (ph == rhat && pl > u0) {
				qhat--
			}
		}

		borrow := subMulTo(u[j:], d, qhat)
		u[j+len(d)] = u2 - borrow
		if u2 < borrow {
			// qhat was one too large.
			qhat--
			u[j+len(d)] += addTo(u[j:], d)
		}

		quot[j] = qhat
	}
}

// subMulTo computes x -= y * multiplier over len(y) words and returns the
// final borrow.
func subMulTo(x, y []uint64, multiplier uint64) uint64 {
	var borrow uint64
	for i := 0; i < len(y); i++ {
		s, carry1 := bits.Sub64(x[i], borrow, 0)
		ph, pl := bits.Mul64(y[i], multiplier)
		t, carry2 := bits.Sub64(s, pl, 0)
		x[i] = t
		borrow = ph + carry1 + carry2
	}
	return borrow
}

// addTo computes x += y over len(y) words and returns the final carry.
func addTo(x, y []uint64) uint64 {
	var carry uint64
	for i := 0; i < len(y); i++ {
		x[i], carry = bits.Add64(x[i], y[i], carry)
	}
	return carry
}

// reciprocal2by1 computes floor((2^128 - 1) / d) - 2^64 for a normalized d.
func reciprocal2by1(d uint64) uint64 {
	reciprocal, _ := bits.Div64(^d, ^uint64(0), d)
	return reciprocal
}

// udivrem2by1 divides the two-word value uh:ul by the normalized d using a
// precomputed reciprocal. It requires uh < d.
func udivrem2by1(uh, ul, d, reciprocal uint64) (quot, rem uint64) {
	qh, ql := bits.Mul64(reciprocal, uh)
	ql, carry := bits.Add64(ql, ul, 0)
	qh, _ = bits.Add64(qh, uh, carry)
	qh++

	r := ul - qh*d

	if r > ql {
		qh--
		r += d
	}

	if r >= d {
		qh++
		r -= d
	}

	return qh, r
}

// divWord divides x by the single word d (d != 0) and returns the quotient
// and remainder.
func divWord(x Limbs, d uint64) (Limbs, uint64) {
	var q Limbs
	var r uint64
	for i := 3; i >= 0; i-- {
		q[i], r = bits.Div64(r, x[i], d)
	}
	return q, r
}
