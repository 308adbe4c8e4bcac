package orchestration

import (
	"math/big"
	"math/rand/v2"
	"strconv"

	"github.com/agbru/wideint/internal/calc"
)

var (
	bigOne = big.NewInt(1)
	two256 = new(big.Int).Lsh(bigOne, 256)
	two255 = new(big.Int).Lsh(bigOne, 255)
)

// Generator draws random requests for the differential verification. Values
// cluster on the cases where fixed-width code tends to break: zero and one,
// limb boundaries, the extremes of each type and operands of mixed length.
type Generator struct {
	r *rand.Rand
}

// NewGenerator returns a generator whose sequence is fully determined by
// seed and stream.
func NewGenerator(seed int64, stream uint64) *Generator {
	return &Generator{r: rand.New(rand.NewPCG(uint64(seed), stream))}
}

// Operand returns a decimal operand in the range of the selected type.
func (g *Generator) Operand(signed bool) string {
	return g.operand(signed).String()
}

func (g *Generator) operand(signed bool) *big.Int {
	b := new(big.Int)
	switch k := g.r.IntN(10); {
	case k == 0:
		b.SetInt64(int64(g.r.IntN(5)) - 2)
	case k <= 2:
		// 2^n + d around a limb boundary or the sign bit.
		n := []uint{63, 64, 127, 128, 191, 192, 255}[g.r.IntN(7)]
		b.Lsh(bigOne, n)
		b.Add(b, big.NewInt(int64(g.r.IntN(3))-1))
	case k == 3:
		b.SetUint64(g.r.Uint64())
	default:
		words := 1 + g.r.IntN(4)
		for range words {
			b.Lsh(b, 64)
			b.Or(b, new(big.Int).SetUint64(g.r.Uint64()))
		}
	}
	b.Mod(b, two256)
	if signed && b.Cmp(two255) >= 0 {
		b.Sub(b, two256)
	}
	return b
}

// Request draws a request for op. Shift amounts span [-1, 300); exponents of
// signed requests are occasionally negative.
func (g *Generator) Request(op calc.Op, signed bool) calc.Request {
	args := make([]string, op.Arity)
	for i := range args {
		args[i] = g.Operand(signed)
	}
	switch {
	case op.ShiftAmount:
		args[op.Arity-1] = strconv.Itoa(g.r.IntN(301) - 1)
	case op.Name == "exp" || op.Name == "expmod":
		// Full-width exponents make every case a modular reduction of a
		// wrapped power; small ones keep results away from zero.
		if g.r.IntN(2) == 0 {
			e := g.r.IntN(600)
			if signed && g.r.IntN(20) == 0 {
				e = -e - 1
			}
			args[1] = strconv.Itoa(e)
		}
	}
	return calc.Request{Op: op.Name, Signed: signed, Args: args}
}
