package orchestration

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
)

func TestReadRequests(t *testing.T) {
	t.Parallel()
	input := `# comment
add 1 2

i256 div -7 2
u256 shl 1 255
   mul 3 4   
`
	reqs, err := ReadRequests(strings.NewReader(input), false)
	require.NoError(t, err)
	require.Len(t, reqs, 4)

	assert.Equal(t, calc.Request{Op: "add", Args: []string{"1", "2"}}, reqs[0])
	assert.Equal(t, calc.Request{Op: "div", Signed: true, Args: []string{"-7", "2"}}, reqs[1])
	assert.Equal(t, calc.Request{Op: "shl", Args: []string{"1", "255"}}, reqs[2])
	assert.Equal(t, "mul", reqs[3].Op)
}

func TestReadRequests_DefaultSigned(t *testing.T) {
	t.Parallel()
	reqs, err := ReadRequests(strings.NewReader("neg 5\nu256 neg 5\n"), true)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.True(t, reqs[0].Signed)
	assert.False(t, reqs[1].Signed)
}

func TestReadRequests_TagWithoutOp(t *testing.T) {
	t.Parallel()
	_, err := ReadRequests(strings.NewReader("add 1 2\ni256\n"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	var ve apperrors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestExecuteBatch_PreservesOrder(t *testing.T) {
	t.Parallel()
	reg := calc.DefaultRegistry()
	reqs := []calc.Request{
		{Op: "add", Args: []string{"1", "2"}},
		{Op: "div", Signed: true, Args: []string{"-7", "2"}},
		{Op: "+", Args: []string{"40", "2"}},
		{Op: "div", Args: []string{"1", "0"}},
		{Op: "mod", Signed: true, Args: []string{"-7", "3"}},
	}

	results := ExecuteBatch(context.Background(), reg, reqs, 3, NullProgressReporter{}, io.Discard)
	require.Len(t, results, len(reqs))

	assert.Equal(t, "3", results[0].Value)
	assert.Equal(t, "-3", results[1].Value)
	assert.Equal(t, "42", results[2].Value)
	assert.Equal(t, "add", results[2].Request.Op)
	assert.ErrorIs(t, results[3].Err, apperrors.ErrDivisionByZero)
	assert.Equal(t, "-1", results[4].Value)
}

func TestExecuteBatch_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := ExecuteBatch(ctx, calc.DefaultRegistry(), manyRequests(10), 2, NullProgressReporter{}, io.Discard)
	require.Len(t, results, 10)
	for i, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled, "result %d", i)
	}
}

func TestExecuteBatch_Empty(t *testing.T) {
	t.Parallel()
	results := ExecuteBatch(context.Background(), calc.DefaultRegistry(), nil, 0, NullProgressReporter{}, io.Discard)
	assert.Empty(t, results)
}

func TestSummarizeBatch(t *testing.T) {
	t.Parallel()
	first := apperrors.NewDomainError("div", apperrors.ErrDivisionByZero)
	results := []calc.Result{
		{Value: "1"},
		{Err: first},
		{Value: "2"},
		{Err: apperrors.NewDomainError("shl", apperrors.ErrNegativeShift)},
	}
	s := SummarizeBatch(results)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, first, s.FirstError)
}

type recordingPresenter struct {
	batches int
}

func (p *recordingPresenter) PresentResult(calc.Result, PresentationOptions, io.Writer) {}
func (p *recordingPresenter) PresentBatch([]calc.Result, PresentationOptions, io.Writer) {
	p.batches++
}
func (p *recordingPresenter) PresentVerification(VerifyReport, io.Writer) {}
func (p *recordingPresenter) PresentBenchmark([]BenchResult, io.Writer)   {}

func TestAnalyzeBatchResults(t *testing.T) {
	t.Parallel()
	p := &recordingPresenter{}

	code := AnalyzeBatchResults([]calc.Result{{Value: "1"}}, PresentationOptions{}, p, io.Discard)
	assert.Equal(t, apperrors.ExitSuccess, code)

	failed := []calc.Result{{Value: "1"}, {Err: apperrors.NewDomainError("div", apperrors.ErrDivisionByZero)}}
	code = AnalyzeBatchResults(failed, PresentationOptions{}, p, io.Discard)
	assert.Equal(t, apperrors.ExitErrorDomain, code)
	assert.Equal(t, 2, p.batches)
}
