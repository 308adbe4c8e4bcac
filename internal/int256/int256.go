package int256

import (
	"math/big"

	apperrors "github.com/agbru/wideint/internal/errors"
)

// Int256 is a signed 256-bit integer in two's complement, covering
// [-2^255, 2^255). It shares its storage with Uint256; the sign is bit 255.
// Add, Subtract, Multiply and LeftShift are bit-identical to the unsigned
// operations. Division, modular reduction, right shift and comparison are
// sign-aware.
type Int256 Limbs

// NewInt256 returns x sign-extended to 256 bits.
func NewInt256(x int64) Int256 {
	return Int256(signExtend(x))
}

// Limbs returns the raw little-endian storage.
func (x Int256) Limbs() Limbs { return Limbs(x) }

// Unsigned reinterprets the bit pattern as an unsigned value.
func (x Int256) Unsigned() Uint256 { return Uint256(x) }

func (Int256) Zero() Int256 { return Int256{} }
func (Int256) One() Int256  { return Int256{1} }

// Min returns -2^255.
func (Int256) Min() Int256 { return Int256{0, 0, 0, 1 << 63} }

// Max returns 2^255 - 1.
func (Int256) Max() Int256 {
	return Int256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0) >> 1}
}

// FromBig reduces b to 32-byte two's complement.
func (Int256) FromBig(b *big.Int) Int256 {
	z, _ := Int256FromBig(b)
	return z
}

func (Int256) FromInt64(x int64) Int256 { return NewInt256(x) }

func (x Int256) IsZero() bool     { return isZero(Limbs(x)) }
func (x Int256) IsOne() bool      { return x == Int256{1} }
func (x Int256) IsNegative() bool { return isNegative(Limbs(x)) }

// Sign returns -1, 0 or +1 depending on the sign of x.
func (x Int256) Sign() int {
	switch {
	case x.IsNegative():
		return -1
	case x.IsZero():
		return 0
	}
	return 1
}

// Neg returns -x. The negation of Min wraps to Min.
func (x Int256) Neg() Int256 { return Int256(negLimbs(Limbs(x))) }

// Abs returns the magnitude of x as an unsigned value, so |Min| = 2^255 is
// representable.
func (x Int256) Abs() Uint256 { return Uint256(absLimbs(Limbs(x))) }

func (x Int256) Not() Int256 { return Int256(notLimbs(Limbs(x))) }

func (x Int256) Add(y Int256) Int256 {
	z, _ := AddLimbs(Limbs(x), Limbs(y))
	return Int256(z)
}

func (x Int256) Subtract(y Int256) Int256 {
	z, _ := SubLimbs(Limbs(x), Limbs(y))
	return Int256(z)
}

func (x Int256) Multiply(y Int256) Int256 {
	return Int256(mulLow(Limbs(x), Limbs(y)))
}

// Divide returns x / y truncated toward zero. Min / -1 overflows the signed
// range and wraps to Min.
func (x Int256) Divide(y Int256) (Int256, error) {
	if y.IsZero() {
		return Int256{}, apperrors.NewDomainError("Divide", apperrors.ErrDivisionByZero)
	}
	q, _, _ := DivModLimbs(absLimbs(Limbs(x)), absLimbs(Limbs(y)))
	return Int256(applySign(x.IsNegative() != y.IsNegative(), q)), nil
}

// Mod returns the truncated remainder of x / y, which carries the sign of x.
func (x Int256) Mod(y Int256) (Int256, error) {
	if y.IsZero() {
		return Int256{}, apperrors.NewDomainError("Mod", apperrors.ErrDivisionByZero)
	}
	_, r, _ := DivModLimbs(absLimbs(Limbs(x)), absLimbs(Limbs(y)))
	return Int256(applySign(x.IsNegative(), r)), nil
}

// AddMod returns (x + y) rem m, where the sum is the exact mathematical sum
// and the remainder takes its sign. The sign of m is ignored.
func (x Int256) AddMod(y, m Int256) (Int256, error) {
	if m.IsZero() {
		return Int256{}, apperrors.NewDomainError("AddMod", apperrors.ErrDivisionByZero)
	}
	neg, mag, carry := signedSum(x.IsNegative(), absLimbs(Limbs(x)), y.IsNegative(), absLimbs(Limbs(y)))
	r := reduceWide([8]uint64{mag[0], mag[1], mag[2], mag[3], carry}, absLimbs(Limbs(m)))
	return Int256(applySign(neg, r)), nil
}

// SubtractMod returns (x - y) rem m with the same sign rules as AddMod.
func (x Int256) SubtractMod(y, m Int256) (Int256, error) {
	if m.IsZero() {
		return Int256{}, apperrors.NewDomainError("SubtractMod", apperrors.ErrDivisionByZero)
	}
	// Negating y in sign-magnitude form keeps |Min| exact.
	yNeg := !y.IsNegative() && !y.IsZero()
	neg, mag, carry := signedSum(x.IsNegative(), absLimbs(Limbs(x)), yNeg, absLimbs(Limbs(y)))
	r := reduceWide([8]uint64{mag[0], mag[1], mag[2], mag[3], carry}, absLimbs(Limbs(m)))
	return Int256(applySign(neg, r)), nil
}

// MultiplyMod returns (x * y) rem m over the exact 512-bit product. The
// remainder is negative when exactly one operand is negative.
func (x Int256) MultiplyMod(y, m Int256) (Int256, error) {
	if m.IsZero() {
		return Int256{}, apperrors.NewDomainError("MultiplyMod", apperrors.ErrDivisionByZero)
	}
	r := mulModLimbs(absLimbs(Limbs(x)), absLimbs(Limbs(y)), absLimbs(Limbs(m)))
	return Int256(applySign(x.IsNegative() != y.IsNegative(), r)), nil
}

// Exp returns x^n mod 2^256 read as two's complement. n must not be negative.
func (x Int256) Exp(n Int256) (Int256, error) {
	if n.IsNegative() {
		return Int256{}, apperrors.NewDomainError("Exp", apperrors.ErrNegativeExponent)
	}
	return Int256(expLimbs(Limbs(x), Limbs(n))), nil
}

// ExpMod returns x^y rem m. The magnitude is |x|^y mod |m| and the result is
// negative when x is negative, y is odd and the magnitude is non-zero.
func (x Int256) ExpMod(y, m Int256) (Int256, error) {
	if y.IsNegative() {
		return Int256{}, apperrors.NewDomainError("ExpMod", apperrors.ErrNegativeExponent)
	}
	if m.IsZero() {
		return Int256{}, apperrors.NewDomainError("ExpMod", apperrors.ErrDivisionByZero)
	}
	r := expModLimbs(absLimbs(Limbs(x)), Limbs(y), absLimbs(Limbs(m)))
	return Int256(applySign(x.IsNegative() && y[0]&1 == 1, r)), nil
}

// LeftShift returns x << n on the raw bit pattern.
func (x Int256) LeftShift(n int) (Int256, error) {
	if n < 0 {
		return Int256{}, apperrors.NewDomainError("LeftShift", apperrors.ErrNegativeShift)
	}
	return Int256(ShlLimbs(Limbs(x), uint(n))), nil
}

// RightShift returns the arithmetic shift x >> n. Shifts of 256 or more
// yield 0 for non-negative x and -1 for negative x.
func (x Int256) RightShift(n int) (Int256, error) {
	if n < 0 {
		return Int256{}, apperrors.NewDomainError("RightShift", apperrors.ErrNegativeShift)
	}
	return Int256(sarLimbs(Limbs(x), uint(n))), nil
}

// Cmp compares x and y as signed values and returns -1, 0 or +1.
func (x Int256) Cmp(y Int256) int {
	xn, yn := x.IsNegative(), y.IsNegative()
	switch {
	case xn && !yn:
		return -1
	case !xn && yn:
		return 1
	}
	// Same sign: two's complement order matches unsigned order.
	return CmpLimbs(Limbs(x), Limbs(y))
}

// ToBig returns the signed value of x as a new big.Int.
func (x Int256) ToBig() *big.Int {
	b := limbsToBig(absLimbs(Limbs(x)))
	if x.IsNegative() {
		b.Neg(b)
	}
	return b
}

// String returns the decimal representation of x with a leading '-' for
// negative values.
func (x Int256) String() string {
	s := decimalString(absLimbs(Limbs(x)))
	if x.IsNegative() {
		return "-" + s
	}
	return s
}

// Hex returns the 0x-prefixed hexadecimal magnitude with a leading '-' for
// negative values.
func (x Int256) Hex() string {
	s := hexString(absLimbs(Limbs(x)))
	if x.IsNegative() {
		return "-" + s
	}
	return s
}
