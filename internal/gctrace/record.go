package gctrace

// MarkPhase is the index of the concurrent mark phase in a five-phase CPU
// breakdown. Only the mark phase may carry an assist/background/idle split.
const MarkPhase = 3

// HeapMinimum is the goal heap size assigned to the first cycle of a trace.
const HeapMinimum = 4 << 20

// Record is one parsed GC cycle. Times are in seconds and heap sizes in bytes.
type Record struct {
	// N is the cycle number.
	N int
	// End is the wall-clock time at which the cycle finished, relative to
	// program start.
	End float64
	// Start is End minus the sum of all clock phases.
	Start float64
	// Util is the percentage of CPU time spent in GC since program start.
	Util int
	// Forced reports whether the cycle was triggered by runtime.GC.
	Forced bool

	// Clocks holds the wall-clock duration of every phase. Even indices are
	// stop-the-world phases, odd indices are concurrent phases.
	Clocks    []float64
	ClocksSTW []float64
	ClocksCon []float64

	// CPUs holds the CPU time of every phase summed across processors. The
	// mark phase entry is assist plus background time.
	CPUs    []float64
	CPUsSTW []float64
	CPUsCon []float64

	// MarkPhase is the index into CPUs of the mark phase. It is 1 for
	// three-phase CPU fields and MarkPhase otherwise.
	MarkPhase     int
	CPUAssist     float64
	CPUBackground float64
	CPUIdle       float64

	// HeapTrigger is the heap size when the cycle started.
	HeapTrigger uint64
	// HeapPeak is the heap size when marking completed.
	HeapPeak uint64
	// HeapMarked is the live heap left after the cycle.
	HeapMarked uint64

	GOMAXPROCS int

	// HeapGoal is the computed goal heap size. It is only meaningful when
	// HasGoal is set, that is when the trace was parsed with WithGOGC.
	HeapGoal uint64
	HasGoal  bool

	// ReportedGoal, Stacks and Globals are printed by newer runtimes and
	// are only filled when HasReported is set (Modern dialect).
	ReportedGoal uint64
	Stacks       uint64
	Globals      uint64
	HasReported  bool
}

// STWTime returns the total stop-the-world wall-clock time of the cycle.
func (r Record) STWTime() float64 {
	return sum(r.ClocksSTW)
}

// Duration returns the wall-clock time between Start and End.
func (r Record) Duration() float64 {
	return sum(r.Clocks)
}

func sum(vs []float64) float64 {
	var s float64
	for _, v := range vs {
		s += v
	}
	return s
}

// evenOdd splits vs into its even-indexed and odd-indexed elements.
func evenOdd(vs []float64) (even, odd []float64) {
	even = make([]float64, 0, (len(vs)+1)/2)
	odd = make([]float64, 0, len(vs)/2)
	for i, v := range vs {
		if i%2 == 0 {
			even = append(even, v)
		} else {
			odd = append(odd, v)
		}
	}
	return even, odd
}
