package calc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/int256"
)

// Request is a single evaluation, independent of the operand type.
type Request struct {
	Op     string   `json:"op"`
	Signed bool     `json:"signed"`
	Args   []string `json:"args"`
}

// Kind returns "i256" or "u256".
func (r Request) Kind() string {
	if r.Signed {
		return "i256"
	}
	return "u256"
}

// String renders the request the way ParseRequest reads it.
func (r Request) String() string {
	return strings.TrimSpace(r.Kind() + " " + r.Op + " " + strings.Join(r.Args, " "))
}

// Result is the outcome of one evaluation.
type Result struct {
	Request Request
	// Value is the decimal result; for cmp it is "-1", "0" or "1".
	Value string
	// Hex is the hexadecimal result, empty for cmp.
	Hex      string
	Duration time.Duration
	Err      error
}

// signedOnly is satisfied by Int256.
type signedOnly[T any] interface {
	SubtractMod(y, m T) (T, error)
}

// Parse parses a decimal or 0x hexadecimal operand into T.
func Parse[T int256.Integer[T]](s string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case int256.Int256:
		v, err := int256.ParseInt256(s)
		return any(v).(T), err
	case int256.Uint256:
		v, err := int256.ParseUint256(s)
		return any(v).(T), err
	default:
		panic(fmt.Sprintf("calc: unsupported operand type %T", zero))
	}
}

func parseShift(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, apperrors.ValidationError{Field: "shift", Message: "invalid shift amount " + quote(s)}
	}
	return n, nil
}

// prepare resolves opName and parses args into operands of type T. Argument
// count and operand syntax are validated here, before the engine is called.
func prepare[T int256.Integer[T]](reg *Registry, opName string, args []string) (Op, []T, int, error) {
	var zero T
	_, signed := any(zero).(int256.Int256)

	op, err := reg.Lookup(opName)
	if err != nil {
		return Op{}, nil, 0, err
	}
	if !op.Supports(signed) {
		return op, nil, 0, apperrors.ValidationError{Field: "op", Message: op.Name + " is only defined for signed operands"}
	}
	if len(args) != op.Arity {
		return op, nil, 0, apperrors.ValidationError{
			Field:   "args",
			Message: op.Name + " takes " + strconv.Itoa(op.Arity) + " operands, got " + strconv.Itoa(len(args)),
		}
	}

	operands := make([]T, 0, op.Arity)
	shift := 0
	for i, a := range args {
		if op.ShiftAmount && i == op.Arity-1 {
			if shift, err = parseShift(a); err != nil {
				return op, nil, 0, err
			}
			continue
		}
		v, err := Parse[T](a)
		if err != nil {
			return op, nil, 0, err
		}
		operands = append(operands, v)
	}
	return op, operands, shift, nil
}

// Evaluate runs op on args with operands of type T. Engine domain errors are
// returned unchanged in Result.Err.
func Evaluate[T int256.Integer[T]](reg *Registry, opName string, args []string) Result {
	var zero T
	_, signed := any(zero).(int256.Int256)
	res := Result{Request: Request{Op: opName, Signed: signed, Args: args}}

	op, operands, shift, err := prepare[T](reg, opName, args)
	if op.Name != "" {
		res.Request.Op = op.Name
	}
	if err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	value, cmp, err := apply(op.Name, operands, shift)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	if op.Name == "cmp" {
		res.Value = strconv.Itoa(cmp)
		return res
	}
	res.Value = value.String()
	res.Hex = value.Hex()
	return res
}

// Prepared is a request whose operands are already parsed, so running it
// measures the engine alone.
type Prepared struct {
	Request Request
	run     func() error
}

// Run executes the operation once and returns its domain error, if any.
func (p Prepared) Run() error { return p.run() }

// Prepare parses req for repeated execution.
func Prepare(reg *Registry, req Request) (Prepared, error) {
	if req.Signed {
		return prepared[int256.Int256](reg, req)
	}
	return prepared[int256.Uint256](reg, req)
}

func prepared[T int256.Integer[T]](reg *Registry, req Request) (Prepared, error) {
	op, operands, shift, err := prepare[T](reg, req.Op, req.Args)
	if err != nil {
		return Prepared{}, err
	}
	req.Op = op.Name
	return Prepared{
		Request: req,
		run: func() error {
			_, _, err := apply(op.Name, operands, shift)
			return err
		},
	}, nil
}

// apply dispatches name through the arithmetic contract. cmp reports its
// result in the int return.
func apply[T int256.Integer[T]](name string, x []T, shift int) (T, int, error) {
	var zero T
	switch name {
	case "add":
		return x[0].Add(x[1]), 0, nil
	case "sub":
		return x[0].Subtract(x[1]), 0, nil
	case "mul":
		return x[0].Multiply(x[1]), 0, nil
	case "div":
		v, err := x[0].Divide(x[1])
		return v, 0, err
	case "mod":
		v, err := x[0].Mod(x[1])
		return v, 0, err
	case "addmod":
		v, err := x[0].AddMod(x[1], x[2])
		return v, 0, err
	case "submod":
		s, ok := any(x[0]).(signedOnly[T])
		if !ok {
			return zero, 0, apperrors.ValidationError{Field: "op", Message: "submod is only defined for signed operands"}
		}
		v, err := s.SubtractMod(x[1], x[2])
		return v, 0, err
	case "mulmod":
		v, err := x[0].MultiplyMod(x[1], x[2])
		return v, 0, err
	case "exp":
		v, err := x[0].Exp(x[1])
		return v, 0, err
	case "expmod":
		v, err := x[0].ExpMod(x[1], x[2])
		return v, 0, err
	case "shl":
		v, err := x[0].LeftShift(shift)
		return v, 0, err
	case "shr":
		v, err := x[0].RightShift(shift)
		return v, 0, err
	case "cmp":
		return zero, x[0].Cmp(x[1]), nil
	case "not":
		return x[0].Not(), 0, nil
	case "neg":
		return x[0].Neg(), 0, nil
	}
	return zero, 0, apperrors.ValidationError{Field: "op", Message: "no evaluator for " + quote(name)}
}

// Eval evaluates req with the type its Signed flag selects.
func Eval(reg *Registry, req Request) Result {
	if req.Signed {
		return Evaluate[int256.Int256](reg, req.Op, req.Args)
	}
	return Evaluate[int256.Uint256](reg, req.Op, req.Args)
}

// ParseRequest reads "[u256|i256] <op> <operand>..." from a line. The
// optional leading type tag overrides signed.
func ParseRequest(line string, signed bool) (Request, error) {
	fields := strings.Fields(line)
	if len(fields) > 0 {
		switch strings.ToLower(fields[0]) {
		case "i256", "int256", "signed":
			signed = true
			fields = fields[1:]
		case "u256", "uint256", "unsigned":
			signed = false
			fields = fields[1:]
		}
	}
	if len(fields) == 0 {
		return Request{}, apperrors.ValidationError{Field: "op", Message: "missing operation"}
	}
	return Request{Op: fields[0], Signed: signed, Args: fields[1:]}, nil
}

func quote(s string) string { return strconv.Quote(s) }
