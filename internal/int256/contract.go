package int256

import "math/big"

// Integer is the arithmetic contract shared by Uint256 and Int256. Generic
// code written against Integer[T] runs unchanged on either type; the
// constructors (Zero, FromBig, FromInt64 ...) are value methods so they can
// be called on the zero value of T.
//
// SubtractMod is not part of the contract: it is only defined for Int256.
type Integer[T any] interface {
	Add(y T) T
	Subtract(y T) T
	Multiply(y T) T
	Divide(y T) (T, error)
	Mod(y T) (T, error)
	AddMod(y, m T) (T, error)
	MultiplyMod(y, m T) (T, error)
	Exp(n T) (T, error)
	ExpMod(y, m T) (T, error)
	LeftShift(n int) (T, error)
	RightShift(n int) (T, error)
	Cmp(y T) int
	Neg() T
	Not() T

	IsZero() bool
	IsOne() bool
	ToBig() *big.Int
	String() string
	Hex() string

	Zero() T
	One() T
	Min() T
	Max() T
	FromBig(b *big.Int) T
	FromInt64(x int64) T
}

var (
	_ Integer[Uint256] = Uint256{}
	_ Integer[Int256]  = Int256{}
)
