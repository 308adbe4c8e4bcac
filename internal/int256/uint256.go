package int256

import (
	"math/big"

	apperrors "github.com/agbru/wideint/internal/errors"
)

// Uint256 is an unsigned 256-bit integer in [0, 2^256). Arithmetic wraps
// modulo 2^256. Values are immutable; every operation returns a new value.
type Uint256 Limbs

// NewUint256 returns x zero-extended to 256 bits.
func NewUint256(x uint64) Uint256 {
	return Uint256{x}
}

// FromLimbs wraps raw limbs as an unsigned value.
func FromLimbs(l Limbs) Uint256 {
	return Uint256(l)
}

// Limbs returns the raw little-endian storage.
func (x Uint256) Limbs() Limbs { return Limbs(x) }

// Signed reinterprets the bit pattern as a two's complement value.
func (x Uint256) Signed() Int256 { return Int256(x) }

func (Uint256) Zero() Uint256 { return Uint256{} }
func (Uint256) One() Uint256  { return Uint256{1} }
func (Uint256) Min() Uint256  { return Uint256{} }

// Max returns 2^256 - 1.
func (Uint256) Max() Uint256 {
	return Uint256{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
}

// FromBig reduces b modulo 2^256. It is the method form of Uint256FromBig
// without the range report.
func (Uint256) FromBig(b *big.Int) Uint256 {
	z, _ := Uint256FromBig(b)
	return z
}

// FromInt64 sign-extends x and reads the result as unsigned, so -1 maps to Max.
func (Uint256) FromInt64(x int64) Uint256 {
	return Uint256(signExtend(x))
}

func (x Uint256) IsZero() bool { return isZero(Limbs(x)) }
func (x Uint256) IsOne() bool  { return x == Uint256{1} }

// Add returns x + y mod 2^256.
func (x Uint256) Add(y Uint256) Uint256 {
	z, _ := AddLimbs(Limbs(x), Limbs(y))
	return Uint256(z)
}

// AddOverflow returns x + y mod 2^256 and whether the sum wrapped.
func (x Uint256) AddOverflow(y Uint256) (Uint256, bool) {
	z, carry := AddLimbs(Limbs(x), Limbs(y))
	return Uint256(z), carry != 0
}

// Subtract returns x - y mod 2^256.
func (x Uint256) Subtract(y Uint256) Uint256 {
	z, _ := SubLimbs(Limbs(x), Limbs(y))
	return Uint256(z)
}

// SubOverflow returns x - y mod 2^256 and whether the difference wrapped.
func (x Uint256) SubOverflow(y Uint256) (Uint256, bool) {
	z, borrow := SubLimbs(Limbs(x), Limbs(y))
	return Uint256(z), borrow != 0
}

// Multiply returns the low 256 bits of x * y.
func (x Uint256) Multiply(y Uint256) Uint256 {
	return Uint256(mulLow(Limbs(x), Limbs(y)))
}

// Divide returns floor(x / y).
func (x Uint256) Divide(y Uint256) (Uint256, error) {
	if y.IsZero() {
		return Uint256{}, apperrors.NewDomainError("Divide", apperrors.ErrDivisionByZero)
	}
	q, _, _ := DivModLimbs(Limbs(x), Limbs(y))
	return Uint256(q), nil
}

// Mod returns x mod y.
func (x Uint256) Mod(y Uint256) (Uint256, error) {
	if y.IsZero() {
		return Uint256{}, apperrors.NewDomainError("Mod", apperrors.ErrDivisionByZero)
	}
	_, r, _ := DivModLimbs(Limbs(x), Limbs(y))
	return Uint256(r), nil
}

// DivMod returns the quotient and remainder of x / y in one division.
func (x Uint256) DivMod(y Uint256) (q, r Uint256, err error) {
	if y.IsZero() {
		return Uint256{}, Uint256{}, apperrors.NewDomainError("DivMod", apperrors.ErrDivisionByZero)
	}
	ql, rl, _ := DivModLimbs(Limbs(x), Limbs(y))
	return Uint256(ql), Uint256(rl), nil
}

// AddMod returns (x + y) mod m, computed on the full 257-bit sum.
func (x Uint256) AddMod(y, m Uint256) (Uint256, error) {
	if m.IsZero() {
		return Uint256{}, apperrors.NewDomainError("AddMod", apperrors.ErrDivisionByZero)
	}
	return Uint256(addModLimbs(Limbs(x), Limbs(y), Limbs(m))), nil
}

// MultiplyMod returns (x * y) mod m, computed on the full 512-bit product.
func (x Uint256) MultiplyMod(y, m Uint256) (Uint256, error) {
	if m.IsZero() {
		return Uint256{}, apperrors.NewDomainError("MultiplyMod", apperrors.ErrDivisionByZero)
	}
	return Uint256(mulModLimbs(Limbs(x), Limbs(y), Limbs(m))), nil
}

// Exp returns x^n mod 2^256. The error is always nil for unsigned exponents;
// it exists so both integer types share one signature.
func (x Uint256) Exp(n Uint256) (Uint256, error) {
	return Uint256(expLimbs(Limbs(x), Limbs(n))), nil
}

// ExpMod returns x^y mod m. A modulus of one yields zero.
func (x Uint256) ExpMod(y, m Uint256) (Uint256, error) {
	if m.IsZero() {
		return Uint256{}, apperrors.NewDomainError("ExpMod", apperrors.ErrDivisionByZero)
	}
	return Uint256(expModLimbs(Limbs(x), Limbs(y), Limbs(m))), nil
}

// LeftShift returns x << n. Shifts of 256 or more yield zero.
func (x Uint256) LeftShift(n int) (Uint256, error) {
	if n < 0 {
		return Uint256{}, apperrors.NewDomainError("LeftShift", apperrors.ErrNegativeShift)
	}
	return Uint256(ShlLimbs(Limbs(x), uint(n))), nil
}

// RightShift returns the logical shift x >> n. Shifts of 256 or more yield
// zero.
func (x Uint256) RightShift(n int) (Uint256, error) {
	if n < 0 {
		return Uint256{}, apperrors.NewDomainError("RightShift", apperrors.ErrNegativeShift)
	}
	return Uint256(ShrLimbs(Limbs(x), uint(n))), nil
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Uint256) Cmp(y Uint256) int {
	return CmpLimbs(Limbs(x), Limbs(y))
}

// Neg returns the two's complement 0 - x mod 2^256.
func (x Uint256) Neg() Uint256 { return Uint256(negLimbs(Limbs(x))) }

func (x Uint256) Not() Uint256          { return Uint256(notLimbs(Limbs(x))) }
func (x Uint256) And(y Uint256) Uint256 { return Uint256(andLimbs(Limbs(x), Limbs(y))) }
func (x Uint256) Or(y Uint256) Uint256  { return Uint256(orLimbs(Limbs(x), Limbs(y))) }
func (x Uint256) Xor(y Uint256) Uint256 { return Uint256(xorLimbs(Limbs(x), Limbs(y))) }

// BitLen returns the minimum number of bits needed to represent x.
func (x Uint256) BitLen() int { return bitLen(Limbs(x)) }

// IsUint64 reports whether x fits in a uint64.
func (x Uint256) IsUint64() bool { return x[1]|x[2]|x[3] == 0 }

// Uint64 returns the low 64 bits of x.
func (x Uint256) Uint64() uint64 { return x[0] }

// ToBig returns x as a new big.Int.
func (x Uint256) ToBig() *big.Int {
	return limbsToBig(Limbs(x))
}

// String returns the decimal representation of x without sign or leading
// zeros.
func (x Uint256) String() string {
	return decimalString(Limbs(x))
}

// Hex returns x as a 0x-prefixed lowercase hexadecimal string without
// leading zeros.
func (x Uint256) Hex() string {
	return hexString(Limbs(x))
}
