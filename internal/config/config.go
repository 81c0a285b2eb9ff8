// Package config parses the gctrace command line and environment into an
// AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	apperrors "github.com/agbru/gctrace/internal/errors"
	"github.com/agbru/gctrace/internal/gctrace"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "GCTRACE_"

// StdinPath names standard input in the list of inputs.
const StdinPath = "-"

// GOGCOff disables goal heap computation.
const GOGCOff = "off"

// Output formats.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
	FormatTable  = "table"
)

// Themes lists the accepted --theme values.
var Themes = []string{"dark", "light"}

// Formats lists the supported output formats.
var Formats = []string{FormatCSV, FormatJSON, FormatNDJSON, FormatTable}

// AppConfig holds the resolved configuration of a gctrace run.
type AppConfig struct {
	// Inputs are the trace files to parse, in order. "-" is standard input.
	Inputs []string
	// GOGC is the raw --gogc value: a percentage or "off".
	GOGC string
	// IncludeForced keeps forced cycles in the output.
	IncludeForced bool
	// Dialect is the trace grammar name.
	Dialect string
	// Format is the output format.
	Format string
	// OutputFile receives the records; empty means standard output.
	OutputFile string
	// Jobs bounds how many inputs are parsed concurrently.
	Jobs int
	// MetricsFile receives Prometheus text-format parse metrics when set.
	MetricsFile string
	Quiet       bool
	Verbose     bool
	NoColor     bool
	// Theme names the color scheme: "dark" or "light".
	Theme string
	// Completion, when set, prints a shell completion script and exits.
	Completion string
}

// GrowthPercent returns the parsed --gogc value and whether goal computation
// is enabled.
func (c AppConfig) GrowthPercent() (float64, bool) {
	if c.GOGC == "" || strings.EqualFold(c.GOGC, GOGCOff) {
		return 0, false
	}
	v, err := strconv.ParseFloat(c.GOGC, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ToParseOptions converts the configuration into parser options.
func (c AppConfig) ToParseOptions() []gctrace.Option {
	var opts []gctrace.Option
	if pct, ok := c.GrowthPercent(); ok {
		opts = append(opts, gctrace.WithGOGC(pct))
	}
	if c.IncludeForced {
		opts = append(opts, gctrace.WithForced())
	}
	if d, err := gctrace.ParseDialect(c.Dialect); err == nil {
		opts = append(opts, gctrace.WithDialect(d))
	}
	return opts
}

// Validate checks the configuration for semantic errors.
func (c AppConfig) Validate() error {
	if c.GOGC != "" && !strings.EqualFold(c.GOGC, GOGCOff) {
		v, err := strconv.ParseFloat(c.GOGC, 64)
		if err != nil || v < 0 {
			return apperrors.ValidationError{Field: "gogc", Message: fmt.Sprintf("%q is not a non-negative number or %q", c.GOGC, GOGCOff)}
		}
	}
	if _, err := gctrace.ParseDialect(c.Dialect); err != nil {
		return apperrors.ValidationError{Field: "dialect", Message: err.Error()}
	}
	if !slices.Contains(Formats, c.Format) {
		return apperrors.ValidationError{Field: "format", Message: fmt.Sprintf("unsupported format %q (accepted values: %s)", c.Format, strings.Join(Formats, ", "))}
	}
	if slices.Index(c.Inputs, StdinPath) != slices.LastIndex(c.Inputs, StdinPath) {
		return apperrors.ValidationError{Field: "inputs", Message: fmt.Sprintf("standard input (%q) can be read only once", StdinPath)}
	}
	if c.Jobs < 1 {
		return apperrors.ValidationError{Field: "jobs", Message: "must be at least 1"}
	}
	if !slices.Contains(Themes, c.Theme) {
		return apperrors.ValidationError{Field: "theme", Message: fmt.Sprintf("unsupported theme %q (accepted values: %s)", c.Theme, strings.Join(Themes, ", "))}
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	if c.Completion != "" && !slices.Contains(CompletionShells, c.Completion) {
		return apperrors.ValidationError{Field: "completion", Message: fmt.Sprintf("unsupported shell %q (accepted values: %s)", c.Completion, strings.Join(CompletionShells, ", "))}
	}
	return nil
}

// CompletionShells lists the shells --completion can target.
var CompletionShells = []string{"bash", "zsh", "fish", "powershell"}

// ParseConfig parses command-line arguments and environment overrides.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The arguments, without the program name.
//   - errWriter: Receives usage and flag errors.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp for -h/--help, otherwise a ConfigError or ValidationError.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	config := AppConfig{}
	fs.StringVar(&config.GOGC, "gogc", GOGCOff, "Growth percentage used to compute goal heap sizes, or \"off\".")
	fs.BoolVar(&config.IncludeForced, "forced", false, "Include forced (runtime.GC) cycles in the output.")
	fs.StringVar(&config.Dialect, "dialect", gctrace.Classic.String(), "Trace grammar: "+strings.Join(gctrace.Dialects(), ", ")+".")
	fs.StringVar(&config.Format, "format", FormatCSV, "Output format: "+strings.Join(Formats, ", ")+".")
	fs.StringVar(&config.Format, "f", FormatCSV, "Output format (shorthand).")
	fs.StringVar(&config.OutputFile, "output", "", "Write records to this file instead of standard output.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file (shorthand).")
	fs.IntVar(&config.Jobs, "jobs", DefaultJobs(), "Number of input files parsed concurrently.")
	fs.IntVar(&config.Jobs, "j", DefaultJobs(), "Concurrent inputs (shorthand).")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus parse metrics to this file.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Suppress progress and informational logs.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Log skipped lines and omitted cycles.")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (NO_COLOR is also honored).")
	fs.StringVar(&config.Theme, "theme", Themes[0], "Color scheme: "+strings.Join(Themes, ", ")+".")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for bash, zsh, fish or powershell.")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] [trace-file ...]\n\n", programName)
		fmt.Fprintf(fs.Output(), "Parses GODEBUG=gctrace=1 output into structured records.\n")
		fmt.Fprintf(fs.Output(), "Reads standard input when no file is given.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Inputs = fs.Args()
	if len(config.Inputs) == 0 {
		config.Inputs = []string{StdinPath}
	}
	config.Format = strings.ToLower(config.Format)

	if err := config.Validate(); err != nil {
		fmt.Fprintf(errWriter, "Configuration error: %v\n", err)
		return AppConfig{}, err
	}
	return config, nil
}
