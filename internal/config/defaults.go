package config

import "runtime"

// Resolution chain for every setting (highest priority first):
//   1. CLI flags
//   2. Environment variables (GCTRACE_*)
//   3. Defaults (this file and the flag definitions)

// maxDefaultJobs caps the default concurrency. Inputs are read from disk and
// parsed line by line, so more workers than this rarely helps.
const maxDefaultJobs = 8

// DefaultJobs returns the default number of concurrently parsed inputs,
// derived from the number of logical CPUs.
func DefaultJobs() int {
	return min(max(runtime.NumCPU(), 1), maxDefaultJobs)
}
