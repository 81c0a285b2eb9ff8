// Package gctrace parses the runtime's GC trace output (GODEBUG=gctrace=1)
// into structured records suitable for offline analysis.
//
// Each trace line of the form
//
//	gc #1 @0.014s 0%: 0.015+0.36+0.017 ms clock, 0.015+0.11/0.095/0.21+0.017 ms cpu, 4->4->3 MB, 8 P
//
// becomes one [Record]. Lines that do not match the grammar (headers, blank
// lines, program output interleaved in the same stream) are skipped without
// error. Records are produced lazily, in input order, through [Parse] or a
// [Reader].
//
// When a growth percentage is supplied with [WithGOGC], every record also
// carries the goal heap size the pacer would have computed from the previous
// cycle's marked heap. Forced cycles are omitted unless [WithForced] is given,
// but they still advance the goal computation.
package gctrace
