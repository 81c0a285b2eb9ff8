// # Naming Conventions
//
//   - Write* functions and RecordWriter implementations write to an
//     [io.Writer] and return any write error.
//   - Format* functions return a string without performing I/O.
//   - Open* functions acquire an output destination on the filesystem.

package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agbru/gctrace/internal/config"
	apperrors "github.com/agbru/gctrace/internal/errors"
	"github.com/agbru/gctrace/internal/format"
	"github.com/agbru/gctrace/internal/gctrace"
	"github.com/agbru/gctrace/internal/pipeline"
	"github.com/agbru/gctrace/internal/ui"
)

// RecordWriter renders parse results in one output format.
type RecordWriter interface {
	WriteResults(w io.Writer, results []pipeline.Result) error
}

// NewRecordWriter returns the writer for the named format.
func NewRecordWriter(name string) (RecordWriter, error) {
	switch name {
	case config.FormatCSV:
		return csvWriter{}, nil
	case config.FormatJSON:
		return jsonWriter{}, nil
	case config.FormatNDJSON:
		return ndjsonWriter{}, nil
	case config.FormatTable:
		return tableWriter{}, nil
	default:
		return nil, apperrors.NewConfigError("unknown output format %q (accepted values: %s)",
			name, strings.Join(config.Formats, ", "))
	}
}

// OpenOutput returns the destination for results: stdout when path is
// empty, otherwise a newly created file (parent directories included).
// The returned close function must be called once writing is done.
func OpenOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, apperrors.OutputError{Path: path, Cause: err}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, apperrors.OutputError{Path: path, Cause: err}
	}
	return f, func() error {
		if err := f.Close(); err != nil {
			return apperrors.OutputError{Path: path, Cause: err}
		}
		return nil
	}, nil
}

// columns tracks which optional columns appear in tabular output.
type columns struct {
	goal     bool
	reported bool
}

func columnsFor(results []pipeline.Result) columns {
	var c columns
	for _, res := range results {
		for _, rec := range res.Records {
			c.goal = c.goal || rec.HasGoal
			c.reported = c.reported || rec.HasReported
		}
	}
	return c
}

// csvWriter writes one row per record with the classic field names as the
// header. List fields are joined with "+" as in the trace itself.
type csvWriter struct{}

func (csvWriter) WriteResults(w io.Writer, results []pipeline.Result) error {
	cols := columnsFor(results)
	header := []string{"source", "n", "start", "end", "util", "forced",
		"clocks", "clocksSTW", "clocksCon", "cpus", "cpusSTW", "cpusCon",
		"markPhase", "cpu_assist", "cpu_bg", "cpu_idle", "H_T", "H_a", "H_m"}
	if cols.goal {
		header = append(header, "H_g")
	}
	header = append(header, "gomaxprocs")
	if cols.reported {
		header = append(header, "goal", "stacks", "globals")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return apperrors.OutputError{Cause: err}
	}
	for _, res := range results {
		for _, r := range res.Records {
			row := []string{
				res.Source,
				strconv.Itoa(r.N),
				FormatFloat(r.Start),
				FormatFloat(r.End),
				strconv.Itoa(r.Util),
				strconv.FormatBool(r.Forced),
				FormatList(r.Clocks),
				FormatList(r.ClocksSTW),
				FormatList(r.ClocksCon),
				FormatList(r.CPUs),
				FormatList(r.CPUsSTW),
				FormatList(r.CPUsCon),
				strconv.Itoa(r.MarkPhase),
				FormatFloat(r.CPUAssist),
				FormatFloat(r.CPUBackground),
				FormatFloat(r.CPUIdle),
				strconv.FormatUint(r.HeapTrigger, 10),
				strconv.FormatUint(r.HeapPeak, 10),
				strconv.FormatUint(r.HeapMarked, 10),
			}
			if cols.goal {
				row = append(row, optionalUint(r.HeapGoal, r.HasGoal))
			}
			row = append(row, strconv.Itoa(r.GOMAXPROCS))
			if cols.reported {
				row = append(row,
					optionalUint(r.ReportedGoal, r.HasReported),
					optionalUint(r.Stacks, r.HasReported),
					optionalUint(r.Globals, r.HasReported))
			}
			if err := cw.Write(row); err != nil {
				return apperrors.OutputError{Cause: err}
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.OutputError{Cause: err}
	}
	return nil
}

// FormatFloat renders a float in its shortest exact decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatList joins values with "+".
func FormatList(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = FormatFloat(v)
	}
	return strings.Join(parts, "+")
}

func optionalUint(v uint64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatUint(v, 10)
}

// jsonRecord is the wire form of a record, keyed by the classic field names.
type jsonRecord struct {
	Source        string    `json:"source"`
	N             int       `json:"n"`
	Start         float64   `json:"start"`
	End           float64   `json:"end"`
	Util          int       `json:"util"`
	Forced        bool      `json:"forced"`
	Clocks        []float64 `json:"clocks"`
	ClocksSTW     []float64 `json:"clocksSTW"`
	ClocksCon     []float64 `json:"clocksCon"`
	CPUs          []float64 `json:"cpus"`
	CPUsSTW       []float64 `json:"cpusSTW"`
	CPUsCon       []float64 `json:"cpusCon"`
	MarkPhase     int       `json:"markPhase"`
	CPUAssist     float64   `json:"cpu_assist"`
	CPUBackground float64   `json:"cpu_bg"`
	CPUIdle       float64   `json:"cpu_idle"`
	HeapTrigger   uint64    `json:"H_T"`
	HeapPeak      uint64    `json:"H_a"`
	HeapMarked    uint64    `json:"H_m"`
	HeapGoal      *uint64   `json:"H_g,omitempty"`
	GOMAXPROCS    int       `json:"gomaxprocs"`
	ReportedGoal  *uint64   `json:"goal,omitempty"`
	Stacks        *uint64   `json:"stacks,omitempty"`
	Globals       *uint64   `json:"globals,omitempty"`
}

func toJSON(source string, r gctrace.Record) jsonRecord {
	jr := jsonRecord{
		Source:        source,
		N:             r.N,
		Start:         r.Start,
		End:           r.End,
		Util:          r.Util,
		Forced:        r.Forced,
		Clocks:        r.Clocks,
		ClocksSTW:     r.ClocksSTW,
		ClocksCon:     r.ClocksCon,
		CPUs:          r.CPUs,
		CPUsSTW:       r.CPUsSTW,
		CPUsCon:       r.CPUsCon,
		MarkPhase:     r.MarkPhase,
		CPUAssist:     r.CPUAssist,
		CPUBackground: r.CPUBackground,
		CPUIdle:       r.CPUIdle,
		HeapTrigger:   r.HeapTrigger,
		HeapPeak:      r.HeapPeak,
		HeapMarked:    r.HeapMarked,
		GOMAXPROCS:    r.GOMAXPROCS,
	}
	if r.HasGoal {
		jr.HeapGoal = &r.HeapGoal
	}
	if r.HasReported {
		jr.ReportedGoal, jr.Stacks, jr.Globals = &r.ReportedGoal, &r.Stacks, &r.Globals
	}
	return jr
}

// jsonWriter writes all records as one indented JSON array.
type jsonWriter struct{}

func (jsonWriter) WriteResults(w io.Writer, results []pipeline.Result) error {
	out := make([]jsonRecord, 0)
	for _, res := range results {
		for _, r := range res.Records {
			out = append(out, toJSON(res.Source, r))
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return apperrors.OutputError{Cause: err}
	}
	return nil
}

// ndjsonWriter writes one compact JSON object per line.
type ndjsonWriter struct{}

func (ndjsonWriter) WriteResults(w io.Writer, results []pipeline.Result) error {
	enc := json.NewEncoder(w)
	for _, res := range results {
		for _, r := range res.Records {
			if err := enc.Encode(toJSON(res.Source, r)); err != nil {
				return apperrors.OutputError{Cause: err}
			}
		}
	}
	return nil
}

// tableWriter renders a human-oriented summary table. Heap sizes use binary
// units and times are scaled to a readable unit.
type tableWriter struct{}

func (tableWriter) WriteResults(w io.Writer, results []pipeline.Result) error {
	cols := columnsFor(results)
	multi := len(results) > 1

	var headers []string
	if multi {
		headers = append(headers, "source")
	}
	headers = append(headers, "gc", "end", "util", "STW", "mark assist", "H_T", "H_a", "H_m")
	if cols.goal {
		headers = append(headers, "H_g")
	}
	headers = append(headers, "P", "forced")

	var (
		rows   [][]string
		forced = map[int]bool{}
		total  int
		skip   int
	)
	for _, res := range results {
		skip += res.Skipped
		for _, r := range res.Records {
			var row []string
			if multi {
				row = append(row, res.Source)
			}
			row = append(row,
				strconv.Itoa(r.N),
				format.FormatSeconds(r.End),
				strconv.Itoa(r.Util)+"%",
				format.FormatSeconds(r.STWTime()),
				format.FormatSeconds(r.CPUAssist),
				format.FormatBytes(r.HeapTrigger),
				format.FormatBytes(r.HeapPeak),
				format.FormatBytes(r.HeapMarked),
			)
			if cols.goal {
				row = append(row, format.FormatBytes(r.HeapGoal))
			}
			mark := ""
			if r.Forced {
				mark = "yes"
				forced[len(rows)] = true
			}
			row = append(row, strconv.Itoa(r.GOMAXPROCS), mark)
			rows = append(rows, row)
			total++
		}
	}

	styles := ui.GetTableStyles()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.Header
			case forced[row]:
				return styles.Forced
			default:
				return styles.Cell
			}
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return apperrors.OutputError{Cause: err}
	}
	if _, err := fmt.Fprintln(w, tableFooter(total, skip)); err != nil {
		return apperrors.OutputError{Cause: err}
	}
	return nil
}

// tableFooter summarizes a table. Skipped lines are highlighted since they
// usually mean the input mixes program output with the trace.
func tableFooter(cycles, skipped int) string {
	skipColor := ui.ColorDim()
	if skipped > 0 {
		skipColor = ui.ColorYellow()
	}
	return fmt.Sprintf("%s%s %s%s, %s%s skipped %s%s",
		ui.ColorBold(), format.FormatCount(int64(cycles)), plural(cycles, "cycle", "cycles"), ui.ColorReset(),
		skipColor, format.FormatCount(int64(skipped)), plural(skipped, "line", "lines"), ui.ColorReset())
}
