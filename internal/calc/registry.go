package calc

import (
	"slices"
	"strings"

	apperrors "github.com/agbru/wideint/internal/errors"
)

// Op describes one evaluable operation.
type Op struct {
	// Name is the canonical lowercase name ("addmod").
	Name string
	// Aliases are accepted in place of Name ("+" for "add").
	Aliases []string
	// Arity is the number of operands the operation takes.
	Arity int
	// SignedOnly marks operations the unsigned type does not define.
	SignedOnly bool
	// ShiftAmount marks operations whose last operand is a machine int.
	ShiftAmount bool
	// Usage is a one-line description shown by help screens and /v1/ops.
	Usage string
}

// Registry holds the set of operations known to the evaluator.
type Registry struct {
	ops   map[string]Op
	alias map[string]string
	names []string
}

// NewRegistry builds a registry from ops. Later entries with a duplicate name
// or alias replace earlier ones.
func NewRegistry(ops ...Op) *Registry {
	r := &Registry{
		ops:   make(map[string]Op, len(ops)),
		alias: make(map[string]string),
	}
	for _, op := range ops {
		if _, exists := r.ops[op.Name]; !exists {
			r.names = append(r.names, op.Name)
		}
		r.ops[op.Name] = op
		for _, a := range op.Aliases {
			r.alias[a] = op.Name
		}
	}
	slices.Sort(r.names)
	return r
}

// Lookup resolves a name or alias, case-insensitively.
func (r *Registry) Lookup(name string) (Op, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.alias[key]; ok {
		key = canonical
	}
	op, ok := r.ops[key]
	if !ok {
		return Op{}, apperrors.ValidationError{Field: "op", Message: "unknown operation " + quote(name)}
	}
	return op, nil
}

// List returns the canonical operation names in sorted order.
func (r *Registry) List() []string {
	return slices.Clone(r.names)
}

// Ops returns every operation, sorted by name.
func (r *Registry) Ops() []Op {
	out := make([]Op, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.ops[n])
	}
	return out
}

// Supports reports whether op can be evaluated with the given signedness.
func (op Op) Supports(signed bool) bool {
	return signed || !op.SignedOnly
}

// DefaultRegistry returns the registry of every engine operation.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Op{Name: "add", Aliases: []string{"+"}, Arity: 2, Usage: "a + b mod 2^256"},
		Op{Name: "sub", Aliases: []string{"-", "subtract"}, Arity: 2, Usage: "a - b mod 2^256"},
		Op{Name: "mul", Aliases: []string{"*", "multiply"}, Arity: 2, Usage: "a * b mod 2^256"},
		Op{Name: "div", Aliases: []string{"/", "divide"}, Arity: 2, Usage: "a / b, truncated"},
		Op{Name: "mod", Aliases: []string{"%"}, Arity: 2, Usage: "a mod b (sign of a when signed)"},
		Op{Name: "addmod", Arity: 3, Usage: "(a + b) mod m, without intermediate wrap"},
		Op{Name: "submod", Arity: 3, SignedOnly: true, Usage: "(a - b) mod m, without intermediate wrap"},
		Op{Name: "mulmod", Arity: 3, Usage: "(a * b) mod m, without intermediate wrap"},
		Op{Name: "exp", Aliases: []string{"**", "pow"}, Arity: 2, Usage: "a ^ n mod 2^256"},
		Op{Name: "expmod", Aliases: []string{"modpow"}, Arity: 3, Usage: "a ^ n mod m"},
		Op{Name: "shl", Aliases: []string{"<<"}, Arity: 2, ShiftAmount: true, Usage: "a << n"},
		Op{Name: "shr", Aliases: []string{">>"}, Arity: 2, ShiftAmount: true, Usage: "a >> n (arithmetic when signed)"},
		Op{Name: "cmp", Arity: 2, Usage: "-1, 0 or 1"},
		Op{Name: "not", Aliases: []string{"~"}, Arity: 1, Usage: "bitwise complement"},
		Op{Name: "neg", Arity: 1, Usage: "two's complement negation"},
	)
}
