package orchestration

import (
	"strings"

	"github.com/agbru/wideint/internal/calc"
)

// OpsToRun resolves a comma-separated selection ("all", "add,mulmod", "+,*")
// against the registry. Operations are returned in registry order without
// duplicates, so runs are reproducible whatever the selection order.
func OpsToRun(reg *calc.Registry, selection string) ([]calc.Op, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" || strings.EqualFold(selection, "all") {
		return reg.Ops(), nil
	}
	wanted := make(map[string]bool)
	for _, name := range strings.Split(selection, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		op, err := reg.Lookup(name)
		if err != nil {
			return nil, err
		}
		wanted[op.Name] = true
	}
	var ops []calc.Op
	for _, op := range reg.Ops() {
		if wanted[op.Name] {
			ops = append(ops, op)
		}
	}
	return ops, nil
}
