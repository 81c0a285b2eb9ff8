package logging

import (
	"unicode/utf8"

	"github.com/agbru/gctrace/internal/gctrace"
)

// ParseObserver reports parser activity for one input source through a
// Logger. Skipped lines and omitted forced cycles are logged at debug level.
type ParseObserver struct {
	logger  Logger
	source  string
	skipped int
}

var _ gctrace.Observer = (*ParseObserver)(nil)

// NewParseObserver returns an observer that tags every entry with source.
func NewParseObserver(logger Logger, source string) *ParseObserver {
	return &ParseObserver{logger: logger, source: source}
}

// LineSkipped logs the first few non-matching lines, then stays quiet.
func (o *ParseObserver) LineSkipped(line string) {
	o.skipped++
	if o.skipped > maxLoggedSkips {
		return
	}
	o.logger.Debug("skipping non-trace line",
		String("source", o.source), String("line", truncate(line, 120)))
	if o.skipped == maxLoggedSkips {
		o.logger.Debug("further skipped lines not logged", String("source", o.source))
	}
}

// RecordParsed is a no-op; records are reported in bulk by the caller.
func (o *ParseObserver) RecordParsed(gctrace.Record) {}

// ForcedOmitted logs the forced cycle being dropped.
func (o *ParseObserver) ForcedOmitted(rec gctrace.Record) {
	o.logger.Debug("omitting forced cycle",
		String("source", o.source), Int("cycle", rec.N))
}

const maxLoggedSkips = 10

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
