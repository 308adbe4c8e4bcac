package int256

import (
	"math/big"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
)

// Arbitrary-precision reference semantics used by the property and
// differential tests.

var (
	two256    = new(big.Int).Lsh(big.NewInt(1), 256)
	two255    = new(big.Int).Lsh(big.NewInt(1), 255)
	maxUint   = new(big.Int).Sub(two256, big.NewInt(1))
	minSigned = new(big.Int).Neg(two255)
)

// wrapU reduces x into [0, 2^256).
func wrapU(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, two256)
}

// wrapS reduces x into [-2^255, 2^255) as 32-byte two's complement.
func wrapS(x *big.Int) *big.Int {
	r := wrapU(x)
	if r.Cmp(two255) >= 0 {
		r.Sub(r, two256)
	}
	return r
}

// remT is the truncated remainder of x by |m|; it carries the sign of x.
func remT(x, m *big.Int) *big.Int {
	return new(big.Int).Rem(x, new(big.Int).Abs(m))
}

// modPowSigned mirrors arbitrary-precision ModPow: |a|^b mod |m| with the sign
// of a^b.
func modPowSigned(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Exp(new(big.Int).Abs(a), b, new(big.Int).Abs(m))
	if a.Sign() < 0 && b.Bit(0) == 1 {
		r.Neg(r)
	}
	return r
}

// genLimb favours boundary words so carries and borrows are exercised far
// more often than uniform sampling would.
func genLimb() gopter.Gen {
	return gen.Weighted([]gen.WeightedGen{
		{Weight: 6, Gen: gen.UInt64()},
		{Weight: 2, Gen: gen.Const(uint64(0))},
		{Weight: 2, Gen: gen.Const(^uint64(0))},
		{Weight: 1, Gen: gen.UInt64Range(0, 16)},
		{Weight: 1, Gen: gen.Const(uint64(1) << 63)},
	})
}

func limbsFromWords(w []uint64) Limbs {
	var l Limbs
	copy(l[:], w)
	return l
}

// genUint256 generates unsigned values with a mix of widths.
func genUint256() gopter.Gen {
	return gen.SliceOfN(4, genLimb()).Map(func(w []uint64) Uint256 {
		return Uint256(limbsFromWords(w))
	})
}

// genInt256 generates signed values over the full two's complement range.
func genInt256() gopter.Gen {
	return gen.SliceOfN(4, genLimb()).Map(func(w []uint64) Int256 {
		return Int256(limbsFromWords(w))
	})
}

// genNonZeroUint256 generates unsigned values that are valid divisors.
func genNonZeroUint256() gopter.Gen {
	return genUint256().SuchThat(func(x Uint256) bool { return !x.IsZero() })
}

func genNonZeroInt256() gopter.Gen {
	return genInt256().SuchThat(func(x Int256) bool { return !x.IsZero() })
}
