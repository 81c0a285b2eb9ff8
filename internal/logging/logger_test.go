package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// decodeEntries parses JSON log lines written by NewLogger.
func decodeEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for line := range strings.Lines(buf.String()) {
		var e map[string]any
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestNewLogger_ComponentAndTimestamp(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewLogger(&buf, "pipeline").Info("parsed trace", String("source", "gc.log"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	for key, want := range map[string]any{
		"level":     "info",
		"message":   "parsed trace",
		"component": "pipeline",
		"source":    "gc.log",
	} {
		if e[key] != want {
			t.Errorf("%s = %v, want %v", key, e[key], want)
		}
	}
	if _, ok := e["time"]; !ok {
		t.Error("entry should carry a timestamp")
	}
}

func TestApplyFields_Types(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Debug("cycle",
		Uint64("heap_peak", math.MaxUint64),
		Float64("util", 0.25),
		Int("cycle", 7),
		Field{Key: "forced", Value: true},
		Field{Key: "offset", Value: int64(-3)},
		Field{Key: "clocks", Value: []float64{0.001, 0.002}},
		Field{Key: "cause", Value: errors.New("short read")},
	)

	line := buf.String()
	// Uint64 must not go through float64, which would round the value.
	if !strings.Contains(line, `"heap_peak":18446744073709551615`) {
		t.Errorf("uint64 field lost precision: %s", line)
	}
	for _, want := range []string{
		`"util":0.25`,
		`"cycle":7`,
		`"forced":true`,
		`"offset":-3`,
		`"clocks":[0.001,0.002]`,
		`"cause":"short read"`,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("missing %s in %s", want, line)
		}
	}
}

func TestZerologAdapter_ErrorAndPrint(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(&buf, "app")

	logger.Error("writing records failed", errors.New("disk full"), String("output", "out.csv"))
	logger.Printf("%d inputs", 3)
	logger.Println("done", 2)

	entries := decodeEntries(t, &buf)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0]["level"] != "error" || entries[0]["error"] != "disk full" || entries[0]["output"] != "out.csv" {
		t.Errorf("error entry = %v", entries[0])
	}
	if entries[1]["message"] != "3 inputs" || entries[1]["level"] != "info" {
		t.Errorf("Printf entry = %v", entries[1])
	}
	if entries[2]["message"] != "done 2" {
		t.Errorf("Println entry = %v", entries[2])
	}
}

func TestNewConsoleLogger_Levels(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level zerolog.Level
		want  []string
		drop  []string
	}{
		{zerolog.DebugLevel, []string{"debug entry", "info entry", "warn entry"}, nil},
		{zerolog.InfoLevel, []string{"info entry", "warn entry"}, []string{"debug entry"}},
		{zerolog.WarnLevel, []string{"warn entry"}, []string{"debug entry", "info entry"}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := NewConsoleLogger(&buf, "gctrace", tt.level, true)
			logger.Debug("debug entry")
			logger.Info("info entry")
			logger.Warn("warn entry")

			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.drop {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestNewConsoleLogger_NoColor(t *testing.T) {
	// zerolog also honors NO_COLOR.
	t.Setenv("NO_COLOR", "")

	var plain, colored bytes.Buffer
	NewConsoleLogger(&plain, "gctrace", zerolog.InfoLevel, true).Warn("no records", Int("inputs", 2))
	NewConsoleLogger(&colored, "gctrace", zerolog.InfoLevel, false).Warn("no records", Int("inputs", 2))

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("noColor output contains escape codes: %q", plain.String())
	}
	if !strings.Contains(plain.String(), "inputs=2") {
		t.Errorf("console output should render fields as key=value: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escape codes: %q", colored.String())
	}
}

func TestStdLoggerAdapter_Levels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewStdLoggerAdapter(log.New(&buf, "", 0), zerolog.WarnLevel)

	logger.Debug("skipping line")
	logger.Info("parsed traces", Int("inputs", 1))
	logger.Printf("ignored %d", 1)
	logger.Println("ignored")
	logger.Warn("no GC trace lines found", String("source", "stdin"))
	logger.Error("parsing failed", errors.New("file does not exist"), String("path", "a.log"))

	want := "[WARN] no GC trace lines found source=stdin\n" +
		"[ERROR] parsing failed: file does not exist path=a.log\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestStdLoggerAdapter_DebugAndDisabled(t *testing.T) {
	t.Parallel()
	var debug, off bytes.Buffer
	NewStdLoggerAdapter(log.New(&debug, "", 0), zerolog.DebugLevel).Debug("omitting forced cycle", Int("cycle", 4))
	quiet := NewStdLoggerAdapter(log.New(&off, "", 0), zerolog.Disabled)
	quiet.Error("boom", errors.New("x"))
	quiet.Println("x")

	if got := debug.String(); got != "[DEBUG] omitting forced cycle cycle=4\n" {
		t.Errorf("debug output = %q", got)
	}
	if off.Len() != 0 {
		t.Errorf("disabled logger wrote %q", off.String())
	}
}

func TestLoggerImplementations(t *testing.T) {
	t.Parallel()
	var _ Logger = (*ZerologAdapter)(nil)
	var _ Logger = (*StdLoggerAdapter)(nil)
	if NewDefaultLogger() == nil {
		t.Error("NewDefaultLogger() returned nil")
	}
}
