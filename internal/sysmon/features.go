package sysmon

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Features reports the instruction set extensions that speed up 64-bit
// multi-word arithmetic.
type Features struct {
	Arch string
	BMI2 bool // MULX
	ADX  bool // ADCX/ADOX carry chains
	AVX2 bool
}

// CPUFeatures probes the running processor.
func CPUFeatures() Features {
	return Features{
		Arch: runtime.GOARCH,
		BMI2: cpu.X86.HasBMI2,
		ADX:  cpu.X86.HasADX,
		AVX2: cpu.X86.HasAVX2,
	}
}

// String lists the detected extensions, e.g. "amd64 bmi2 adx avx2".
func (f Features) String() string {
	parts := []string{f.Arch}
	if f.BMI2 {
		parts = append(parts, "bmi2")
	}
	if f.ADX {
		parts = append(parts, "adx")
	}
	if f.AVX2 {
		parts = append(parts, "avx2")
	}
	if len(parts) == 1 {
		parts = append(parts, "(no extensions)")
	}
	return strings.Join(parts, " ")
}
