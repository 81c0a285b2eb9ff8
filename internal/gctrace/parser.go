package gctrace

import (
	"iter"
	"math"
)

// Observer receives parse events synchronously while a sequence is being
// iterated. Implementations must not retain the Clocks or CPUs slices past
// the call if they intend to mutate them.
type Observer interface {
	// LineSkipped is called for every line that does not match the grammar.
	LineSkipped(line string)
	// RecordParsed is called for every record about to be yielded.
	RecordParsed(rec Record)
	// ForcedOmitted is called for forced cycles dropped by the filter.
	ForcedOmitted(rec Record)
}

type nopObserver struct{}

func (nopObserver) LineSkipped(string)   {}
func (nopObserver) RecordParsed(Record)  {}
func (nopObserver) ForcedOmitted(Record) {}

// Option configures a parse.
type Option func(*options)

type options struct {
	gogc          float64
	hasGOGC       bool
	includeForced bool
	dialect       Dialect
	observer      Observer
}

// WithGOGC enables goal heap computation using percent as the target heap
// growth over the previous cycle's marked heap.
func WithGOGC(percent float64) Option {
	return func(o *options) {
		o.gogc = percent
		o.hasGOGC = true
	}
}

// WithForced includes forced cycles in the output.
func WithForced() Option {
	return func(o *options) { o.includeForced = true }
}

// WithDialect selects the line grammar. The default is Classic.
func WithDialect(d Dialect) Option {
	return func(o *options) { o.dialect = d }
}

// WithObserver registers an observer for parse events. A nil observer is
// ignored.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func newOptions(opts []Option) options {
	o := options{dialect: Classic, observer: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// goalTracker carries the previous cycle's marked heap between lines.
type goalTracker struct {
	gogc     float64
	prev     uint64
	havePrev bool
}

// next returns the goal for a cycle and records its marked heap for the
// following one.
func (g *goalTracker) next(marked uint64) uint64 {
	goal := uint64(HeapMinimum)
	if g.havePrev {
		v := math.Floor(float64(g.prev) * (1 + g.gogc/100))
		if v < 0 {
			v = 0
		}
		goal = uint64(v)
	}
	g.prev = marked
	g.havePrev = true
	return goal
}

// Parse returns the records for every matching line in lines, in order.
//
// Each iteration of the returned sequence starts a fresh parse: goal state
// is private to that iteration. The sequence can be re-iterated only if
// lines can.
func Parse(lines iter.Seq[string], opts ...Option) iter.Seq[Record] {
	o := newOptions(opts)
	return func(yield func(Record) bool) {
		goals := goalTracker{gogc: o.gogc}
		for line := range lines {
			rec, ok := o.dialect.ParseLine(line)
			if !ok {
				o.observer.LineSkipped(line)
				continue
			}
			// Forced cycles advance the goal state even when omitted.
			if o.hasGOGC {
				rec.HeapGoal = goals.next(rec.HeapMarked)
				rec.HasGoal = true
			}
			if rec.Forced && !o.includeForced {
				o.observer.ForcedOmitted(rec)
				continue
			}
			o.observer.RecordParsed(rec)
			if !yield(rec) {
				return
			}
		}
	}
}
