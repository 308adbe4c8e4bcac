// Package oracle provides reference implementations of the engine
// operations. The verification runner evaluates random requests with both
// the engine and an Oracle and reports every disagreement; the golden vector
// generator writes Oracle results to disk.
package oracle

import (
	"math/big"
	"slices"
	"strings"
	"sync"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
)

// Oracle computes the expected result of a request independently of the
// engine. Results use the engine's decimal rendering, and failures carry the
// same apperrors sentinels so they can be compared with errors.Is.
type Oracle interface {
	// Name is the identifier accepted by -oracle.
	Name() string
	// Supports reports whether the oracle can evaluate op for the given
	// signedness. Callers skip unsupported combinations.
	Supports(op string, signed bool) bool
	// Eval returns the decimal result of req.
	Eval(req calc.Request) (string, error)
}

// Factory creates an Oracle.
type Factory func() Oracle

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes an oracle available under name. Build-tagged backends call
// it from init.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Available lists the registered oracle names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New returns the oracle registered under name.
func New(name string) (Oracle, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, apperrors.NewConfigError("unknown oracle %q (available: %s)", name, strings.Join(Available(), ", "))
	}
	return f(), nil
}

func init() {
	Register("big", func() Oracle { return NewBigOracle() })
	Register("holiman", func() Oracle { return NewHolimanOracle() })
}

var (
	two256 = new(big.Int).Lsh(big.NewInt(1), 256)
	two255 = new(big.Int).Lsh(big.NewInt(1), 255)
)

// wrap reduces x modulo 2^256 into the unsigned range, or the two's
// complement signed range when signed is set. x is modified.
func wrap(x *big.Int, signed bool) *big.Int {
	x.Mod(x, two256)
	if signed && x.Cmp(two255) >= 0 {
		x.Sub(x, two256)
	}
	return x
}

// parseBig reads an optionally signed decimal or 0x hexadecimal operand.
// Leading zeros are decimal, never octal.
func parseBig(field, s string) (*big.Int, error) {
	digits := s
	neg := false
	if digits != "" && (digits[0] == '-' || digits[0] == '+') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}
	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	if digits == "" || digits[0] == '+' || digits[0] == '-' || strings.Contains(digits, "_") {
		return nil, apperrors.ValidationError{Field: field, Message: "invalid number " + s}
	}
	b, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, apperrors.ValidationError{Field: field, Message: "invalid number " + s}
	}
	if neg {
		b.Neg(b)
	}
	return b, nil
}

// operands is a request resolved against the operation registry.
type operands struct {
	op     calc.Op
	signed bool
	vals   []*big.Int
	shift  int
}

var defaultRegistry = calc.DefaultRegistry()

// resolve canonicalizes the operation name, checks arity and range, and
// parses every operand. Shift amounts are parsed as machine ints.
func resolve(req calc.Request) (operands, error) {
	op, err := defaultRegistry.Lookup(req.Op)
	if err != nil {
		return operands{}, err
	}
	if !op.Supports(req.Signed) {
		return operands{}, apperrors.ValidationError{Field: "op", Message: op.Name + " is only defined for signed operands"}
	}
	if len(req.Args) != op.Arity {
		return operands{}, apperrors.ValidationError{Field: "args", Message: "wrong operand count for " + op.Name}
	}
	out := operands{op: op, signed: req.Signed}
	for i, a := range req.Args {
		v, err := parseBig(req.Kind(), a)
		if err != nil {
			return operands{}, err
		}
		if op.ShiftAmount && i == op.Arity-1 {
			if !v.IsInt64() || v.Int64() != int64(int(v.Int64())) {
				return operands{}, apperrors.ValidationError{Field: "shift", Message: "shift amount out of range " + a}
			}
			out.shift = int(v.Int64())
			continue
		}
		if !inRange(v, req.Signed) {
			return operands{}, apperrors.ValidationError{Field: req.Kind(), Message: "value " + a + " is out of range"}
		}
		out.vals = append(out.vals, v)
	}
	return out, nil
}

func inRange(v *big.Int, signed bool) bool {
	if signed {
		return v.Cmp(new(big.Int).Neg(two255)) >= 0 && v.Cmp(two255) < 0
	}
	return v.Sign() >= 0 && v.Cmp(two256) < 0
}

func domainErr(op string, cause error) error {
	return apperrors.NewDomainError(op, cause)
}
