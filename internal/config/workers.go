package config

import "runtime"

// Worker count resolution (highest priority first):
//   1. -workers
//   2. CASSELS_WORKERS
//   3. EstimateWorkers

// ApplyAdaptiveWorkers fills in Workers from the hardware when it was left
// at zero.
func ApplyAdaptiveWorkers(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateWorkers()
	}
	return cfg
}

// EstimateWorkers returns one worker per usable CPU, honoring a lowered
// GOMAXPROCS.
func EstimateWorkers() int {
	n := runtime.NumCPU()
	if p := runtime.GOMAXPROCS(0); p < n {
		n = p
	}
	if n < 1 {
		n = 1
	}
	return n
}
