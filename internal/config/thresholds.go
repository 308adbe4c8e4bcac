package config

import "runtime"

// Worker resolution chain (highest priority first):
//   1. CLI flag (--workers)
//   2. Environment variable (WIDEINT_WORKERS)
//   3. Hardware estimation (this file)

// ApplyAdaptiveDefaults fills the settings left at their zero default with
// values derived from the hardware. User-specified values are preserved.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers()
	}
	return cfg
}

// EstimateOptimalWorkers returns a worker count for batch and verification
// runs. Engine calls are CPU bound and allocation free, so one worker per
// core saturates the machine; a small cap keeps the progress channel and the
// result slice contention low on very large hosts.
func EstimateOptimalWorkers() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 1:
		return 1
	case numCPU <= 32:
		return numCPU
	default:
		return 32
	}
}

// DefaultWorkers reads WIDEINT_WORKERS, falling back to the hardware
// estimate. The TUI uses it when no worker count was configured.
func DefaultWorkers() int {
	if n := getEnvInt("WORKERS", 0); n > 0 {
		return n
	}
	return EstimateOptimalWorkers()
}
