package orchestration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/wideint/internal/calc"
)

func opNames(ops []calc.Op) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}

func TestOpsToRun(t *testing.T) {
	t.Parallel()
	reg := calc.DefaultRegistry()

	tests := []struct {
		selection string
		want      []string
	}{
		{"mulmod,add", []string{"add", "mulmod"}},
		{"+, *, +", []string{"add", "mul"}},
		{"EXP,pow", []string{"exp"}},
		{"shl,", []string{"shl"}},
	}
	for _, tt := range tests {
		t.Run(tt.selection, func(t *testing.T) {
			t.Parallel()
			ops, err := OpsToRun(reg, tt.selection)
			require.NoError(t, err)
			assert.Equal(t, tt.want, opNames(ops))
		})
	}
}

func TestOpsToRun_All(t *testing.T) {
	t.Parallel()
	reg := calc.DefaultRegistry()
	for _, sel := range []string{"", "all", " ALL "} {
		ops, err := OpsToRun(reg, sel)
		require.NoError(t, err)
		assert.Equal(t, reg.List(), opNames(ops), "selection %q", sel)
	}
}

func TestOpsToRun_Unknown(t *testing.T) {
	t.Parallel()
	_, err := OpsToRun(calc.DefaultRegistry(), "add,frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frobnicate")
}
