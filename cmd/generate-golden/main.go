// Command generate-golden writes the golden vectors checked by the calc
// package tests. Expected values come from the math/big oracle, so the file
// pins the engine to an implementation that shares none of its code.
//
// Usage:
//
//	go run ./cmd/generate-golden -out internal/calc/testdata/golden.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/logging"
	"github.com/agbru/wideint/internal/oracle"
	"github.com/agbru/wideint/internal/orchestration"
)

type goldenVector struct {
	Op     string   `json:"op"`
	Signed bool     `json:"signed"`
	Args   []string `json:"args"`
	Want   string   `json:"want,omitempty"`
	Error  string   `json:"error,omitempty"`
}

type goldenSet struct {
	Vectors []goldenVector `json:"vectors"`
}

const (
	maxU256 = "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	maxI256 = "57896044618658097711785492504343953926634992332820282019728792003956564819967"
	minI256 = "-57896044618658097711785492504343953926634992332820282019728792003956564819968"
)

var (
	unsignedEdges = []string{"0", "1", "2", "18446744073709551615", "18446744073709551616", maxU256}
	signedEdges   = []string{"0", "1", "-1", "-18446744073709551616", maxI256, minI256}
	shiftAmounts  = []string{"-1", "0", "1", "63", "64", "65", "127", "128", "191", "192", "255", "256", "300"}
)

var sentinels = []error{
	apperrors.ErrDivisionByZero,
	apperrors.ErrNegativeShift,
	apperrors.ErrNegativeExponent,
}

func edges(signed bool) []string {
	if signed {
		return signedEdges
	}
	return unsignedEdges
}

// edgeRequests pairs every edge operand for unary and binary operations.
// Ternary operations take the modulus from the edge list in rotation so the
// count stays linear in the pairs.
func edgeRequests(op calc.Op, signed bool) []calc.Request {
	e := edges(signed)
	var reqs []calc.Request
	switch {
	case op.ShiftAmount:
		for _, x := range e {
			for _, n := range shiftAmounts {
				reqs = append(reqs, calc.Request{Op: op.Name, Signed: signed, Args: []string{x, n}})
			}
		}
	case op.Arity == 1:
		for _, x := range e {
			reqs = append(reqs, calc.Request{Op: op.Name, Signed: signed, Args: []string{x}})
		}
	case op.Arity == 2:
		for _, x := range e {
			for _, y := range e {
				reqs = append(reqs, calc.Request{Op: op.Name, Signed: signed, Args: []string{x, y}})
			}
		}
	default:
		for i, x := range e {
			for j, y := range e {
				m := e[(i+j)%len(e)]
				reqs = append(reqs, calc.Request{Op: op.Name, Signed: signed, Args: []string{x, y, m}})
			}
		}
	}
	return reqs
}

// buildVectors evaluates the edge requests and random requests per
// operation and type with ref.
func buildVectors(reg *calc.Registry, ref oracle.Oracle, seed int64, random int) ([]goldenVector, error) {
	var vectors []goldenVector
	stream := uint64(0)
	for _, signed := range []bool{false, true} {
		for _, op := range reg.Ops() {
			if !op.Supports(signed) || !ref.Supports(op.Name, signed) {
				continue
			}
			reqs := edgeRequests(op, signed)
			gen := orchestration.NewGenerator(seed, stream)
			stream++
			for range random {
				reqs = append(reqs, gen.Request(op, signed))
			}
			for _, req := range reqs {
				v, err := vectorFor(ref, req)
				if err != nil {
					return nil, err
				}
				vectors = append(vectors, v)
			}
		}
	}
	return vectors, nil
}

func vectorFor(ref oracle.Oracle, req calc.Request) (goldenVector, error) {
	v := goldenVector{Op: req.Op, Signed: req.Signed, Args: req.Args}
	want, err := ref.Eval(req)
	if err == nil {
		v.Want = want
		return v, nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			v.Error = s.Error()
			return v, nil
		}
	}
	return v, fmt.Errorf("%s: %w", req, err)
}

func writeGolden(w io.Writer, vectors []goldenVector) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(goldenSet{Vectors: vectors})
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("generate-golden", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", filepath.Join("internal", "calc", "testdata", "golden.json"), "Output file.")
	seed := fs.Int64("seed", 20240229, "Seed of the random vectors.")
	random := fs.Int("random", 8, "Random vectors per operation and type.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *random < 0 {
		return apperrors.NewConfigError("random must not be negative, got %d", *random)
	}

	logger := logging.NewLogger(stderr, "generate-golden")
	vectors, err := buildVectors(calc.DefaultRegistry(), oracle.NewBigOracle(), *seed, *random)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()
	if err := writeGolden(f, vectors); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	logger.Info("golden vectors written", logging.String("path", *out), logging.Int("vectors", len(vectors)))
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "generate-golden:", err)
		os.Exit(apperrors.ExitCodeFor(err))
	}
}
