package oracle

import (
	"math/big"
	"strconv"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
)

// BigOracle evaluates requests with math/big. Every operation is computed
// exactly and then reduced: wrapping results modulo 2^256, modular results
// as the truncated remainder of the exact value by |m|, and exponentiation
// with the sign of the exact power.
type BigOracle struct{}

// NewBigOracle returns the math/big reference.
func NewBigOracle() BigOracle { return BigOracle{} }

// Name implements Oracle.
func (BigOracle) Name() string { return "big" }

// Supports implements Oracle. Every registered operation is supported.
func (BigOracle) Supports(op string, signed bool) bool {
	o, err := defaultRegistry.Lookup(op)
	return err == nil && o.Supports(signed)
}

// Eval implements Oracle.
func (BigOracle) Eval(req calc.Request) (string, error) {
	in, err := resolve(req)
	if err != nil {
		return "", err
	}
	if in.op.Name == "cmp" {
		return strconv.Itoa(in.vals[0].Cmp(in.vals[1])), nil
	}
	z, err := evalBig(in)
	if err != nil {
		return "", err
	}
	return z.String(), nil
}

// evalBig returns the reduced result of a resolved request.
func evalBig(in operands) (*big.Int, error) {
	x := in.vals
	s := in.signed
	z := new(big.Int)
	switch in.op.Name {
	case "add":
		return wrap(z.Add(x[0], x[1]), s), nil
	case "sub":
		return wrap(z.Sub(x[0], x[1]), s), nil
	case "mul":
		return wrap(z.Mul(x[0], x[1]), s), nil
	case "div":
		if x[1].Sign() == 0 {
			return nil, domainErr(in.op.Name, apperrors.ErrDivisionByZero)
		}
		return wrap(z.Quo(x[0], x[1]), s), nil
	case "mod":
		if x[1].Sign() == 0 {
			return nil, domainErr(in.op.Name, apperrors.ErrDivisionByZero)
		}
		return z.Rem(x[0], x[1]), nil
	case "addmod", "submod", "mulmod":
		if x[2].Sign() == 0 {
			return nil, domainErr(in.op.Name, apperrors.ErrDivisionByZero)
		}
		switch in.op.Name {
		case "addmod":
			z.Add(x[0], x[1])
		case "submod":
			z.Sub(x[0], x[1])
		default:
			z.Mul(x[0], x[1])
		}
		return z.Rem(z, x[2]), nil
	case "exp":
		if x[1].Sign() < 0 {
			return nil, domainErr(in.op.Name, apperrors.ErrNegativeExponent)
		}
		return wrap(signedPow(x[0], x[1], two256), s), nil
	case "expmod":
		if x[1].Sign() < 0 {
			return nil, domainErr(in.op.Name, apperrors.ErrNegativeExponent)
		}
		if x[2].Sign() == 0 {
			return nil, domainErr(in.op.Name, apperrors.ErrDivisionByZero)
		}
		return signedPow(x[0], x[1], new(big.Int).Abs(x[2])), nil
	case "shl":
		if in.shift < 0 {
			return nil, domainErr(in.op.Name, apperrors.ErrNegativeShift)
		}
		return wrap(z.Lsh(x[0], clampShift(in.shift)), s), nil
	case "shr":
		if in.shift < 0 {
			return nil, domainErr(in.op.Name, apperrors.ErrNegativeShift)
		}
		// Rsh floors, which is the arithmetic shift for negative values.
		return z.Rsh(x[0], clampShift(in.shift)), nil
	case "not":
		return wrap(z.Not(x[0]), s), nil
	case "neg":
		return wrap(z.Neg(x[0]), s), nil
	}
	return nil, apperrors.ValidationError{Field: "op", Message: "no reference for " + in.op.Name}
}

// signedPow returns sign(a^n) * (|a|^n mod m) for m > 0. A zero result is
// never negative.
func signedPow(a, n, m *big.Int) *big.Int {
	z := new(big.Int).Exp(new(big.Int).Abs(a), n, m)
	if a.Sign() < 0 && n.Bit(0) == 1 {
		z.Neg(z)
	}
	return z
}

// clampShift bounds n to 256; every larger shift of a 256-bit value has
// the same result.
func clampShift(n int) uint {
	if n > 256 {
		return 256
	}
	return uint(n)
}
