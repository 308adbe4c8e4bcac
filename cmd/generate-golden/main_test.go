package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/int256"
	"github.com/agbru/wideint/internal/oracle"
)

func TestEdgeRequests_Shapes(t *testing.T) {
	reg := calc.DefaultRegistry()
	for _, op := range reg.Ops() {
		for _, signed := range []bool{false, true} {
			reqs := edgeRequests(op, signed)
			if len(reqs) == 0 {
				t.Errorf("%s: no edge requests", op.Name)
				continue
			}
			for _, req := range reqs {
				if len(req.Args) != op.Arity {
					t.Fatalf("%s: %d args, want %d", req, len(req.Args), op.Arity)
				}
				if req.Signed != signed || req.Op != op.Name {
					t.Fatalf("%s: request does not match op %s signed=%v", req, op.Name, signed)
				}
			}
		}
	}
}

func TestEdgeRequests_InRange(t *testing.T) {
	for _, s := range unsignedEdges {
		if _, err := calc.Parse[int256.Uint256](s); err != nil {
			t.Errorf("unsigned edge %s: %v", s, err)
		}
	}
	for _, s := range signedEdges {
		if _, err := calc.Parse[int256.Int256](s); err != nil {
			t.Errorf("signed edge %s: %v", s, err)
		}
	}
}

func TestBuildVectors(t *testing.T) {
	reg := calc.DefaultRegistry()
	vectors, err := buildVectors(reg, oracle.NewBigOracle(), 1, 3)
	if err != nil {
		t.Fatalf("buildVectors: %v", err)
	}

	seen := make(map[string]bool)
	classes := make(map[string]bool)
	for _, v := range vectors {
		seen[v.Op] = true
		if (v.Want == "") == (v.Error == "") {
			t.Fatalf("vector %s %v must carry exactly one of want and error", v.Op, v.Args)
		}
		if v.Error != "" {
			classes[v.Error] = true
		}
	}
	for _, name := range reg.List() {
		if !seen[name] {
			t.Errorf("no vector for %q", name)
		}
	}
	for _, s := range sentinels {
		if !classes[s.Error()] {
			t.Errorf("no vector exercises %q", s)
		}
	}

	again, err := buildVectors(reg, oracle.NewBigOracle(), 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(vectors) {
		t.Fatalf("rebuild produced %d vectors, want %d", len(again), len(vectors))
	}
	for i := range vectors {
		if !slices.Equal(vectors[i].Args, again[i].Args) || vectors[i].Want != again[i].Want {
			t.Fatalf("vector %d differs between runs with the same seed", i)
		}
	}
}

// TestBuildVectors_AgreeWithEngine checks a freshly generated set against
// the engine the same way the calc golden test does.
func TestBuildVectors_AgreeWithEngine(t *testing.T) {
	reg := calc.DefaultRegistry()
	vectors, err := buildVectors(reg, oracle.NewBigOracle(), 99, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vectors {
		res := calc.Eval(reg, calc.Request{Op: v.Op, Signed: v.Signed, Args: v.Args})
		if v.Error != "" {
			if res.Err == nil || apperrors.ExitCodeFor(res.Err) != apperrors.ExitErrorDomain {
				t.Errorf("%s: err = %v, want %s", res.Request, res.Err, v.Error)
			}
			continue
		}
		if res.Err != nil || res.Value != v.Want {
			t.Errorf("%s: got %q (%v), want %s", res.Request, res.Value, res.Err, v.Want)
		}
	}
}

func TestRun_WritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "golden.json")
	var stderr bytes.Buffer
	if err := run([]string{"-out", out, "-random", "1", "-seed", "5"}, &stderr); err != nil {
		t.Fatalf("run: %v\n%s", err, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var set goldenSet
	if err := json.Unmarshal(data, &set); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(set.Vectors) == 0 {
		t.Error("golden file holds no vectors")
	}
	if !bytes.Contains(stderr.Bytes(), []byte("golden vectors written")) {
		t.Errorf("missing log line, stderr: %s", stderr.String())
	}
}

func TestRun_BadFlags(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{"-random", "-2"}, &stderr)
	if apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
		t.Errorf("negative -random: err = %v, want a config error", err)
	}
	if err := run([]string{"-nope"}, &stderr); err == nil {
		t.Error("unknown flag should fail")
	}
}
