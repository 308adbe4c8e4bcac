//go:build gmp

package oracle

import (
	"math/big"

	"github.com/ncw/gmp"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
)

func init() {
	Register("gmp", func() Oracle { return NewGMPOracle() })
}

// GMPOracle evaluates the arithmetic core of each request with libgmp
// through github.com/ncw/gmp. Shifts, comparisons and bitwise operations
// have no multiplication or division to check and are delegated to
// BigOracle.
type GMPOracle struct {
	fallback BigOracle
}

// NewGMPOracle returns the libgmp reference. Building it requires cgo and
// the gmp build tag.
func NewGMPOracle() GMPOracle { return GMPOracle{} }

// Name implements Oracle.
func (GMPOracle) Name() string { return "gmp" }

// Supports implements Oracle.
func (g GMPOracle) Supports(op string, signed bool) bool {
	return g.fallback.Supports(op, signed)
}

// Eval implements Oracle.
func (g GMPOracle) Eval(req calc.Request) (string, error) {
	in, err := resolve(req)
	if err != nil {
		return "", err
	}
	x := make([]*gmp.Int, len(in.vals))
	for i, v := range in.vals {
		x[i], _ = new(gmp.Int).SetString(v.String(), 10)
	}
	name := in.op.Name
	z := new(gmp.Int)

	switch name {
	case "add":
		z.Add(x[0], x[1])
	case "sub":
		z.Sub(x[0], x[1])
	case "mul":
		z.Mul(x[0], x[1])
	case "div", "mod":
		if in.vals[1].Sign() == 0 {
			return "", domainErr(name, apperrors.ErrDivisionByZero)
		}
		if name == "div" {
			z.Quo(x[0], x[1])
		} else {
			z.Rem(x[0], x[1])
		}
	case "addmod", "submod", "mulmod":
		if in.vals[2].Sign() == 0 {
			return "", domainErr(name, apperrors.ErrDivisionByZero)
		}
		switch name {
		case "addmod":
			z.Add(x[0], x[1])
		case "submod":
			z.Sub(x[0], x[1])
		default:
			z.Mul(x[0], x[1])
		}
		z.Rem(z, x[2])
	case "exp", "expmod":
		if in.vals[1].Sign() < 0 {
			return "", domainErr(name, apperrors.ErrNegativeExponent)
		}
		m := new(gmp.Int).Lsh(gmp.NewInt(1), 256)
		if name == "expmod" {
			if in.vals[2].Sign() == 0 {
				return "", domainErr(name, apperrors.ErrDivisionByZero)
			}
			m.Abs(x[2])
		}
		z.Exp(new(gmp.Int).Abs(x[0]), x[1], m)
		if in.vals[0].Sign() < 0 && in.vals[1].Bit(0) == 1 {
			z.Neg(z)
		}
	default:
		return g.fallback.Eval(req)
	}

	r, _ := new(big.Int).SetString(z.String(), 10)
	switch name {
	case "add", "sub", "mul", "div", "exp":
		wrap(r, in.signed)
	}
	return r.String(), nil
}
