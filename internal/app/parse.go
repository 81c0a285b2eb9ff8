package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/agbru/gctrace/internal/cli"
	apperrors "github.com/agbru/gctrace/internal/errors"
	"github.com/agbru/gctrace/internal/format"
	"github.com/agbru/gctrace/internal/logging"
	"github.com/agbru/gctrace/internal/metrics"
	"github.com/agbru/gctrace/internal/pipeline"
)

// runParse parses every input, writes the records and, when requested, the
// metrics file.
func (a *Application) runParse(ctx context.Context, out io.Writer) int {
	writer, err := cli.NewRecordWriter(a.Config.Format)
	if err != nil {
		return a.fail("invalid output format", err)
	}

	sources := pipeline.FileSources(a.Config.Inputs, a.Stdin)
	var m *metrics.ParseMetrics
	if a.Config.MetricsFile != "" {
		m = metrics.NewParseMetrics()
	}

	progress := cli.NewProgressDisplay(a.ErrWriter, !a.Config.Quiet && cli.IsTerminal(a.ErrWriter))
	progress.Start(len(sources))
	results, err := pipeline.Run(ctx, sources, pipeline.Options{
		Jobs:     a.Config.Jobs,
		Parse:    a.Config.ToParseOptions(),
		Logger:   a.Logger,
		Metrics:  m,
		Progress: progress.Update,
	})
	progress.Stop()
	if err != nil {
		return a.fail("parsing failed", err)
	}

	dest, closeOutput, err := cli.OpenOutput(a.Config.OutputFile, out)
	if err != nil {
		return a.fail("cannot open output", err)
	}
	err = writer.WriteResults(dest, results)
	if closeErr := closeOutput(); err == nil {
		err = closeErr
	}
	if err != nil {
		return a.fail("writing records failed", withPath(err, a.Config.OutputFile))
	}

	if m != nil {
		if err := m.WriteTextfile(a.Config.MetricsFile); err != nil {
			return a.fail("writing metrics failed", apperrors.OutputError{
				Path:  a.Config.MetricsFile,
				Cause: apperrors.WrapError(err, "exporting %d sources", len(results)),
			})
		}
	}

	a.logSummary(results)
	return apperrors.ExitSuccess
}

func (a *Application) logSummary(results []pipeline.Result) {
	var (
		records, skipped, omitted int
		elapsed                   time.Duration
	)
	for _, r := range results {
		records += len(r.Records)
		skipped += r.Skipped
		omitted += r.Omitted
		elapsed += r.Duration
	}
	a.Logger.Info("parsed traces",
		logging.Int("inputs", len(results)),
		logging.String("records", format.FormatCount(int64(records))),
		logging.Int("skipped_lines", skipped),
		logging.Int("forced_omitted", omitted),
		logging.String("parse_time", format.FormatDuration(elapsed)))
	if records == 0 {
		a.Logger.Warn("no GC trace lines found; was the program run with GODEBUG=gctrace=1?")
	}
}

// fail logs err and maps it to an exit code.
func (a *Application) fail(msg string, err error) int {
	code := apperrors.ExitCodeFor(err)
	if code == apperrors.ExitErrorCanceled {
		a.Logger.Warn("interrupted")
		return code
	}
	a.Logger.Error(msg, err)
	return code
}

// withPath fills in the output path on errors raised by the writers, which
// only know the io.Writer.
func withPath(err error, path string) error {
	var outErr apperrors.OutputError
	if path != "" && errors.As(err, &outErr) && outErr.Path == "" {
		outErr.Path = path
		return outErr
	}
	return err
}
