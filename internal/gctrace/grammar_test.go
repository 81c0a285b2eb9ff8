package gctrace

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const modernLine5 = "gc 5 @2.013s 1%: 0.010+0.94+0.006 ms clock, 0.080+0.28/0.82/0.71+0.050 ms cpu, 3->4->1 MB, 4 MB goal, 0 MB stacks, 1 MB globals, 8 P"

func TestModernDialect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		line         string
		classic      bool
		hasReported  bool
		reportedGoal uint64
		globals      uint64
	}{
		{
			name:         "modern line with goal stacks and globals",
			line:         modernLine5,
			hasReported:  true,
			reportedGoal: 4 << 20,
			globals:      1 << 20,
		},
		{
			name:         "goal segment only",
			line:         "gc 6 @2.1s 1%: 0.01+0.9+0.01 ms clock, 0.08+0.2/0.8/0.7+0.05 ms cpu, 3->4->1 MB, 5 MB goal, 8 P",
			hasReported:  true,
			reportedGoal: 5 << 20,
		},
		{
			name:    "classic line",
			line:    exampleLine,
			classic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, ok := Modern.ParseLine(tt.line)
			if !ok {
				t.Fatalf("Modern.ParseLine(%q) did not match", tt.line)
			}
			if rec.HasReported != tt.hasReported {
				t.Errorf("HasReported = %v, want %v", rec.HasReported, tt.hasReported)
			}
			if rec.ReportedGoal != tt.reportedGoal {
				t.Errorf("ReportedGoal = %d, want %d", rec.ReportedGoal, tt.reportedGoal)
			}
			if rec.Globals != tt.globals {
				t.Errorf("Globals = %d, want %d", rec.Globals, tt.globals)
			}
			if _, ok := Classic.ParseLine(tt.line); ok != tt.classic {
				t.Errorf("Classic.ParseLine matched = %v, want %v", ok, tt.classic)
			}
		})
	}
}

func TestModernDialect_MarkBreakdown(t *testing.T) {
	t.Parallel()
	rec, ok := Modern.ParseLine(modernLine5)
	if !ok {
		t.Fatal("no match")
	}
	if rec.MarkPhase != 1 {
		t.Errorf("MarkPhase = %d, want 1", rec.MarkPhase)
	}
	want := []float64{0.00008, (0.28 + 0.82) / 1e3, 0.00005}
	if diff := cmp.Diff(want, rec.CPUs, approx); diff != "" {
		t.Errorf("CPUs (-want +got):\n%s", diff)
	}
}

func TestParseDialect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{in: "classic", want: Classic},
		{in: "Modern", want: Modern},
		{in: "MODERN", want: Modern},
		{in: "go1.5", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDialect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDialect(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := Dialect(9).String(); got != "Dialect(9)" {
		t.Errorf("Dialect(9).String() = %q", got)
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in    string
		isInt bool
		value float64
		ok    bool
	}{
		{in: "42", isInt: true, value: 42, ok: true},
		{in: "0.5", value: 0.5, ok: true},
		{in: "1e3", value: 1000, ok: true},
		{in: "", ok: false},
		{in: "1/2", ok: false},
		{in: "1.2.3", ok: false},
	}
	for _, tt := range tests {
		n, ok := parseNumber(tt.in)
		if ok != tt.ok {
			t.Errorf("parseNumber(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if n.isInt != tt.isInt || n.float() != tt.value {
			t.Errorf("parseNumber(%q) = %+v, want isInt=%v value=%v", tt.in, n, tt.isInt, tt.value)
		}
	}

	if _, ok := parseMegabytes("1.5"); ok {
		t.Error("parseMegabytes should reject non-integer sizes")
	}
}

func TestParseMegabytes_Overflow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{in: "17592186044415", want: 17592186044415 << 20, ok: true},
		{in: "17592186044416", ok: false},
		{in: "99999999999999", ok: false},
	}
	for _, tt := range tests {
		got, ok := parseMegabytes(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseMegabytes(%q) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	line := "gc #1 @0.014s 0%: 0.015+0.36+0.017 ms clock, 0.015+0.11/0.095/0.21+0.017 ms cpu, 99999999999999->1->1 MB, 8 P"
	if rec, ok := Classic.ParseLine(line); ok {
		t.Errorf("oversized heap should not match, got HeapTrigger=%d", rec.HeapTrigger)
	}
}
