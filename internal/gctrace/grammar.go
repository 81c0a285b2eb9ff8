package gctrace

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect selects the trace line grammar.
type Dialect int

const (
	// Classic matches "gc #N ... MB, N P" lines.
	Classic Dialect = iota
	// Modern also matches "gc N" lines and the goal, stacks and globals
	// segments printed by newer runtimes.
	Modern
)

var dialectNames = map[Dialect]string{
	Classic: "classic",
	Modern:  "modern",
}

func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// ParseDialect returns the dialect with the given name.
func ParseDialect(name string) (Dialect, error) {
	for d, n := range dialectNames {
		if strings.EqualFold(n, name) {
			return d, nil
		}
	}
	return Classic, fmt.Errorf("unknown trace dialect %q (accepted values: classic, modern)", name)
}

// Dialects lists the names of all supported dialects.
func Dialects() []string {
	return []string{Classic.String(), Modern.String()}
}

const (
	cyclePrefix = `(?P<n>[0-9]+) @(?P<end>[0-9.]+)s (?P<util>[0-9]+)%: ` +
		`(?P<clocks>[+0-9.]+) ms clock, ` +
		`(?P<cpus>[+/0-9.]+) ms cpu, ` +
		`(?P<ht>[0-9]+)->(?P<ha>[0-9]+)->(?P<hm>[0-9]+) MB`
	procsSuffix = `, (?P<procs>[0-9]+) P`
)

var (
	classicLine = regexp.MustCompile(`^gc #` + cyclePrefix + procsSuffix)
	modernLine  = regexp.MustCompile(`^gc #?` + cyclePrefix +
		`(?:, (?P<goal>[0-9]+) MB goal)?` +
		`(?:, (?P<stacks>[0-9]+) MB stacks)?` +
		`(?:, (?P<globals>[0-9]+) MB globals)?` +
		procsSuffix)
)

const forcedMarker = "(forced)"

func (d Dialect) pattern() *regexp.Regexp {
	if d == Modern {
		return modernLine
	}
	return classicLine
}

// ParseLine parses a single trace line. It reports false when the line does
// not match the dialect's grammar. The returned record never carries a heap
// goal since goals depend on the preceding cycles.
func (d Dialect) ParseLine(line string) (Record, bool) {
	re := d.pattern()
	m := re.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}
	group := func(name string) string {
		if i := re.SubexpIndex(name); i >= 0 {
			return m[i]
		}
		return ""
	}

	var rec Record
	var ok bool
	if rec.N, ok = parseInt(group("n")); !ok {
		return Record{}, false
	}
	if rec.End, ok = parseSeconds(group("end")); !ok {
		return Record{}, false
	}
	if rec.Util, ok = parseInt(group("util")); !ok {
		return Record{}, false
	}
	if !rec.setClocks(group("clocks")) || !rec.setCPUs(group("cpus")) {
		return Record{}, false
	}
	if rec.HeapTrigger, ok = parseMegabytes(group("ht")); !ok {
		return Record{}, false
	}
	if rec.HeapPeak, ok = parseMegabytes(group("ha")); !ok {
		return Record{}, false
	}
	if rec.HeapMarked, ok = parseMegabytes(group("hm")); !ok {
		return Record{}, false
	}
	if rec.GOMAXPROCS, ok = parseInt(group("procs")); !ok {
		return Record{}, false
	}
	if d == Modern && !rec.setReported(group("goal"), group("stacks"), group("globals")) {
		return Record{}, false
	}
	rec.Forced = strings.Contains(line, forcedMarker)
	rec.Start = rec.End - sum(rec.Clocks)
	return rec, true
}

// ParseLine parses a single line with the Classic grammar.
func ParseLine(line string) (Record, bool) {
	return Classic.ParseLine(line)
}

func (r *Record) setClocks(field string) bool {
	phases := strings.Split(field, "+")
	clocks := make([]float64, len(phases))
	for i, ph := range phases {
		v, ok := parseMillis(ph)
		if !ok {
			return false
		}
		clocks[i] = v
	}
	r.Clocks = clocks
	r.ClocksSTW, r.ClocksCon = evenOdd(clocks)
	return true
}

func (r *Record) setCPUs(field string) bool {
	phases := strings.Split(field, "+")
	cpus := make([]float64, len(phases))
	r.MarkPhase = markPhaseIndex(len(phases))
	for i, ph := range phases {
		if i != r.MarkPhase {
			v, ok := parseMillis(ph)
			if !ok {
				return false
			}
			cpus[i] = v
			continue
		}
		if !strings.Contains(ph, "/") {
			v, ok := parseMillis(ph)
			if !ok {
				return false
			}
			cpus[i] = v
			r.CPUBackground = v
			continue
		}
		parts := strings.Split(ph, "/")
		if len(parts) != 3 {
			return false
		}
		var ms [3]float64
		for j, p := range parts {
			n, ok := parseNumber(p)
			if !ok {
				return false
			}
			ms[j] = n.float()
		}
		r.CPUAssist = ms[0] / 1e3
		r.CPUBackground = ms[1] / 1e3
		r.CPUIdle = ms[2] / 1e3
		cpus[i] = (ms[0] + ms[1]) / 1e3
	}
	r.CPUs = cpus
	r.CPUsSTW, r.CPUsCon = evenOdd(cpus)
	return true
}

// markPhaseIndex returns the index of the mark phase in a CPU field with n
// phases. Five-phase fields put it at MarkPhase; the three-phase layout of
// later runtimes (sweep termination, mark, mark termination) puts it at 1.
func markPhaseIndex(n int) int {
	if n == 3 {
		return 1
	}
	return MarkPhase
}

func (r *Record) setReported(goal, stacks, globals string) bool {
	if goal == "" && stacks == "" && globals == "" {
		return true
	}
	for _, f := range []struct {
		raw string
		dst *uint64
	}{{goal, &r.ReportedGoal}, {stacks, &r.Stacks}, {globals, &r.Globals}} {
		if f.raw == "" {
			continue
		}
		v, ok := parseMegabytes(f.raw)
		if !ok {
			return false
		}
		*f.dst = v
	}
	r.HasReported = true
	return true
}
