package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/agbru/gctrace/internal/errors"
	"github.com/agbru/gctrace/internal/logging"
)

const trace = "GC forced\n" +
	"gc #1 @0.014s 0%: 0.015+0.36+0.017 ms clock, 0.015+0.11/0.095/0.21+0.017 ms cpu, 4->4->3 MB, 8 P\n" +
	"gc #2 @0.020s 1%: 0.010+0.40+0.020 ms clock, 0.020+0.12/0.10/0.30+0.020 ms cpu, 5->6->4 MB, 8 P (forced)\n" +
	"gc #3 @0.031s 1%: 0.010+0.40+0.020 ms clock, 0.020+0.12/0.10/0.30+0.020 ms cpu, 7->7->2 MB, 8 P\n"

func writeTrace(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	a, err := New(append([]string{"gctrace"}, args...), &errBuf,
		WithLogger(logging.NewLogger(&errBuf, "test")),
		WithStdin(strings.NewReader(trace)))
	if err != nil {
		t.Fatalf("New() error = %v (stderr: %s)", err, errBuf.String())
	}
	return a, &errBuf
}

func TestRun_CSVFromFile(t *testing.T) {
	path := writeTrace(t, "gc.log", trace)
	a, _ := newTestApp(t, "--gogc", "100", path)

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want 0", code)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d CSV lines, want header + 2 (forced omitted):\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "H_g") {
		t.Errorf("header should include H_g: %s", lines[0])
	}
	// The forced cycle advanced the goal: 2 * 4 MiB.
	if !strings.Contains(lines[2], ",8388608,") {
		t.Errorf("third cycle should have goal 8388608: %s", lines[2])
	}
}

func TestRun_StdinJSONWithForced(t *testing.T) {
	a, _ := newTestApp(t, "--forced", "-f", "ndjson")

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want 0", code)
	}
	got := strings.Count(out.String(), "\n")
	if got != 3 {
		t.Errorf("got %d NDJSON lines, want 3", got)
	}
	if !strings.Contains(out.String(), `"source":"stdin"`) {
		t.Errorf("records should be tagged with stdin: %s", out.String())
	}
}

func TestRun_OutputAndMetricsFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeTrace(t, "gc.log", trace)
	outPath := filepath.Join(dir, "out", "records.json")
	metricsPath := filepath.Join(dir, "gctrace.prom")
	a, _ := newTestApp(t, "-o", outPath, "--format", "json", "--metrics-file", metricsPath, path)

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want 0", code)
	}
	if out.Len() != 0 {
		t.Errorf("stdout should be empty when -o is set, got %q", out.String())
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "[") {
		t.Errorf("output file is not a JSON array: %s", data)
	}
	prom, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatal(err)
	}
	want := `gctrace_forced_omitted_total{source="` + path + `"} 1`
	if !strings.Contains(string(prom), want) {
		t.Errorf("metrics file missing %q:\n%s", want, prom)
	}
}

func TestRun_MissingInput(t *testing.T) {
	a, errBuf := newTestApp(t, filepath.Join(t.TempDir(), "missing.log"))

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitErrorInput {
		t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorInput)
	}
	if !strings.Contains(errBuf.String(), "parsing failed") {
		t.Errorf("error not logged: %s", errBuf.String())
	}
}

func TestRun_UnwritableOutput(t *testing.T) {
	blocker := writeTrace(t, "file", "")
	a, _ := newTestApp(t, "-o", filepath.Join(blocker, "out.csv"))

	if code := a.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorOutput {
		t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorOutput)
	}
}

func TestRun_Canceled(t *testing.T) {
	a, errBuf := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := a.Run(ctx, &bytes.Buffer{}); code != apperrors.ExitErrorCanceled {
		t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
	if !strings.Contains(errBuf.String(), "interrupted") {
		t.Errorf("cancellation not logged: %s", errBuf.String())
	}
}

func TestRun_NoRecordsWarns(t *testing.T) {
	var errBuf bytes.Buffer
	a, err := New([]string{"gctrace"}, &errBuf,
		WithLogger(logging.NewLogger(&errBuf, "test")),
		WithStdin(strings.NewReader("hello\nworld\n")))
	if err != nil {
		t.Fatal(err)
	}
	if code := a.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d", code)
	}
	if !strings.Contains(errBuf.String(), "no GC trace lines found") {
		t.Errorf("expected a warning about empty input: %s", errBuf.String())
	}
}

func TestRun_PlainLogsWhenNotTerminal(t *testing.T) {
	path := writeTrace(t, "gc.log", trace)
	tests := []struct {
		name    string
		args    []string
		summary bool
	}{
		{"default", []string{path}, true},
		{"quiet", []string{"-q", path}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBuf bytes.Buffer
			a, err := New(append([]string{"gctrace"}, tt.args...), &errBuf)
			if err != nil {
				t.Fatal(err)
			}
			if code := a.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitSuccess {
				t.Fatalf("Run() = %d (stderr: %s)", code, errBuf.String())
			}
			if _, ok := a.Logger.(*logging.StdLoggerAdapter); !ok {
				t.Fatalf("Logger = %T, want plain logger for a buffer", a.Logger)
			}
			logged := strings.Contains(errBuf.String(), "[INFO] parsed traces")
			if logged != tt.summary {
				t.Errorf("summary logged = %v, want %v:\n%s", logged, tt.summary, errBuf.String())
			}
			if tt.summary && !strings.Contains(errBuf.String(), "parse_time=") {
				t.Errorf("summary should carry the parse time: %s", errBuf.String())
			}
		})
	}
}

func TestRun_Completion(t *testing.T) {
	a, _ := newTestApp(t, "--completion", "fish")
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d", code)
	}
	if !strings.Contains(out.String(), "complete -c gctrace") {
		t.Errorf("unexpected completion output: %s", out.String())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		help     bool
		wantCode int
	}{
		{"help", []string{"--help"}, true, 0},
		{"unknown flag", []string{"--frobnicate"}, false, apperrors.ExitErrorConfig},
		{"bad value", []string{"--jobs", "many"}, false, apperrors.ExitErrorConfig},
		{"invalid format", []string{"--format", "xml"}, false, apperrors.ExitErrorConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBuf bytes.Buffer
			_, err := New(append([]string{"gctrace"}, tt.args...), &errBuf)
			if err == nil {
				t.Fatal("New() should fail")
			}
			if IsHelpError(err) != tt.help {
				t.Errorf("IsHelpError() = %v, want %v", IsHelpError(err), tt.help)
			}
			if !tt.help && apperrors.ExitCodeFor(err) != tt.wantCode {
				t.Errorf("exit code = %d, want %d", apperrors.ExitCodeFor(err), tt.wantCode)
			}
		})
	}
	if IsHelpError(errors.New("other")) {
		t.Error("plain errors are not help errors")
	}
}

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-V"}, true},
		{[]string{"a.log", "-version"}, true},
		{[]string{"-v"}, false},
		{[]string{"--", "--version"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.HasPrefix(buf.String(), "gctrace ") {
		t.Errorf("PrintVersion() = %q", buf.String())
	}
}
