package gctrace_test

import (
	"fmt"
	"strings"

	"github.com/agbru/gctrace/internal/gctrace"
)

func ExampleParse() {
	trace := "gc #1 @0.014s 0%: 0.015+0.36+0.017 ms clock, 0.015+0.11/0.095/0.21+0.017 ms cpu, 4->4->3 MB, 8 P\n" +
		"unrelated output\n" +
		"gc #2 @0.020s 1%: 0.010+0.40+0.020 ms clock, 0.020+0.12/0.10/0.30+0.020 ms cpu, 5->6->4 MB, 8 P\n"

	for rec := range gctrace.Parse(strings.Lines(trace), gctrace.WithGOGC(100)) {
		fmt.Printf("gc %d: %d -> %d -> %d bytes, goal %d\n",
			rec.N, rec.HeapTrigger, rec.HeapPeak, rec.HeapMarked, rec.HeapGoal)
	}
	// Output:
	// gc 1: 4194304 -> 4194304 -> 3145728 bytes, goal 4194304
	// gc 2: 5242880 -> 6291456 -> 4194304 bytes, goal 6291456
}

func ExampleReader() {
	r := gctrace.NewReader(strings.NewReader(
		"gc 7 @3.5s 2%: 0.1+1.2+0.05 ms clock, 0.4+0.3/1.1/2.0+0.2 ms cpu, 10->12->6 MB, 12 MB goal, 0 MB stacks, 0 MB globals, 4 P (forced)\n",
	), gctrace.WithDialect(gctrace.Modern), gctrace.WithForced())

	for rec := range r.All() {
		fmt.Println(rec.N, rec.Forced, rec.ReportedGoal, rec.GOMAXPROCS)
	}
	if err := r.Err(); err != nil {
		fmt.Println("read error:", err)
	}
	// Output:
	// 7 true 12582912 4
}
