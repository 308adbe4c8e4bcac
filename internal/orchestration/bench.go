package orchestration

import (
	"context"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/metrics"
)

// BenchResult is the measurement of one operation and type.
type BenchResult struct {
	Op          string
	Signed      bool
	Rounds      int
	NsPerOp     float64
	AllocsPerOp float64
	BytesPerOp  float64
	Err         error
}

// benchOperands are full-width operands, so every operation runs its
// multi-limb path. The modulus is odd and wider than 192 bits.
var benchOperands = struct{ unsigned, signed [3]string }{
	unsigned: [3]string{
		"0xf3a1c2e4b5d6978899aabbccddeeff00112233445566778899aabbccddeeff01",
		"0x0123456789abcdef0fedcba9876543210123456789abcdef0fedcba987654321",
		"0xd0e1f2a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f",
	},
	signed: [3]string{
		"-0x73a1c2e4b5d6978899aabbccddeeff00112233445566778899aabbccddeeff01",
		"0x0123456789abcdef0fedcba9876543210123456789abcdef0fedcba987654321",
		"-0x50e1f2a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f",
	},
}

// benchRequest builds the measured request for op.
func benchRequest(op calc.Op, signed bool) calc.Request {
	src := benchOperands.unsigned
	if signed {
		src = benchOperands.signed
	}
	args := make([]string, op.Arity)
	copy(args, src[:op.Arity])
	switch {
	case op.ShiftAmount:
		args[op.Arity-1] = "77"
	case op.Name == "exp" || op.Name == "expmod":
		// A full-width positive exponent: 256 squarings.
		args[1] = benchOperands.unsigned[1]
	}
	return calc.Request{Op: op.Name, Signed: signed, Args: args}
}

// RunBenchmark measures every op for both types, rounds times each, in
// sequence so the measurements do not compete for cores. Allocation counts
// come from runtime memory snapshots taken around each measurement.
func RunBenchmark(ctx context.Context, reg *calc.Registry, ops []calc.Op, rounds int, progressReporter ProgressReporter, out io.Writer) []BenchResult {
	type job struct {
		op     calc.Op
		signed bool
	}
	var jobs []job
	for _, signed := range []bool{false, true} {
		for _, op := range ops {
			if op.Supports(signed) {
				jobs = append(jobs, job{op, signed})
			}
		}
	}

	progressChan := make(chan ProgressUpdate, ProgressBufferMultiplier)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, 1, out)

	collector := metrics.NewMemoryCollector()
	results := make([]BenchResult, 0, len(jobs))
	for i, j := range jobs {
		if err := ctx.Err(); err != nil {
			results = append(results, BenchResult{Op: j.op.Name, Signed: j.signed, Err: err})
			continue
		}
		results = append(results, measure(ctx, reg, benchRequest(j.op, j.signed), rounds, collector))
		sendProgress(progressChan, 0, float64(i+1)/float64(len(jobs)))
	}

	close(progressChan)
	displayWg.Wait()
	return results
}

func measure(ctx context.Context, reg *calc.Registry, req calc.Request, rounds int, collector *metrics.MemoryCollector) BenchResult {
	res := BenchResult{Op: req.Op, Signed: req.Signed}
	p, err := calc.Prepare(reg, req)
	if err != nil {
		res.Err = err
		return res
	}
	res.Op = p.Request.Op
	if err := p.Run(); err != nil {
		res.Err = err
		return res
	}

	runtime.GC()
	before := collector.Snapshot()
	start := time.Now()
	n := 0
	for n < rounds {
		// Check for cancellation every 1024 rounds.
		if n&1023 == 0 && ctx.Err() != nil {
			break
		}
		_ = p.Run()
		n++
	}
	elapsed := time.Since(start)
	delta := collector.Snapshot().Since(before)

	res.Rounds = n
	if n > 0 {
		res.NsPerOp = float64(elapsed.Nanoseconds()) / float64(n)
	}
	res.AllocsPerOp, res.BytesPerOp = delta.PerOp(n)
	if n < rounds {
		res.Err = ctx.Err()
	}
	return res
}
