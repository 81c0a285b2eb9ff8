package pipeline

import "github.com/agbru/gctrace/internal/gctrace"

// fanout forwards parse events to several observers.
type fanout []gctrace.Observer

func (f fanout) LineSkipped(line string) {
	for _, o := range f {
		o.LineSkipped(line)
	}
}

func (f fanout) RecordParsed(rec gctrace.Record) {
	for _, o := range f {
		o.RecordParsed(rec)
	}
}

func (f fanout) ForcedOmitted(rec gctrace.Record) {
	for _, o := range f {
		o.ForcedOmitted(rec)
	}
}

// tally counts events for a Result.
type tally struct {
	lines, skipped, omitted int
}

func (t *tally) LineSkipped(string) {
	t.lines++
	t.skipped++
}

func (t *tally) RecordParsed(gctrace.Record) { t.lines++ }

func (t *tally) ForcedOmitted(gctrace.Record) {
	t.lines++
	t.omitted++
}
