package pipeline

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/gctrace/internal/errors"
	"github.com/agbru/gctrace/internal/format"
	"github.com/agbru/gctrace/internal/gctrace"
	"github.com/agbru/gctrace/internal/logging"
	"github.com/agbru/gctrace/internal/metrics"
)

const tracerName = "gctrace/pipeline"

// Result holds the records parsed from one Source.
type Result struct {
	Source  string
	Records []gctrace.Record
	// Lines is the number of lines read, Skipped those that did not match
	// and Omitted the forced cycles dropped by the filter.
	Lines    int
	Skipped  int
	Omitted  int
	Duration time.Duration
}

// ProgressFunc is called after each source finishes. Calls are serialized.
type ProgressFunc func(done, total int, source string)

// Options configures Run.
type Options struct {
	// Jobs bounds how many sources are parsed at once. Values below 1 mean 1.
	Jobs int
	// Parse holds the parser options applied to every source.
	Parse []gctrace.Option
	// Logger receives per-source debug output. Nil disables logging.
	Logger logging.Logger
	// Metrics, when set, counts parser events per source.
	Metrics *metrics.ParseMetrics
	// Progress, when set, is notified as sources complete.
	Progress ProgressFunc
}

// Run parses every source and returns one Result per source, in the order
// given. The first failing source cancels the others and its error is
// returned.
func Run(ctx context.Context, sources []Source, opts Options) ([]Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Jobs, 1))

	results := make([]Result, len(sources))
	tracer := otel.Tracer(tracerName)

	var mu sync.Mutex
	done := 0

	for i, src := range sources {
		g.Go(func() error {
			res, err := parseSource(ctx, tracer, src, opts)
			if err != nil {
				return err
			}
			results[i] = res
			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(sources), src.Name)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseSource(ctx context.Context, tracer trace.Tracer, src Source, opts Options) (res Result, err error) {
	ctx, span := tracer.Start(ctx, "pipeline.parse",
		trace.WithAttributes(attribute.String("gctrace.source", src.Name)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return Result{}, apperrors.WrapError(err, "parsing %s", src.Name)
	}

	rc, err := src.open()
	if err != nil {
		return Result{}, apperrors.InputError{Path: src.Name, Cause: err}
	}
	defer rc.Close()

	t := &tally{}
	observers := fanout{t}
	if opts.Logger != nil {
		observers = append(observers, logging.NewParseObserver(opts.Logger, src.Name))
	}
	if opts.Metrics != nil {
		observers = append(observers, opts.Metrics.Observer(src.Name))
	}
	parseOpts := append(opts.Parse[:len(opts.Parse):len(opts.Parse)], gctrace.WithObserver(observers))

	start := time.Now()
	r := gctrace.NewReader(rc, parseOpts...)
	var records []gctrace.Record
	for rec := range r.All() {
		if err := ctx.Err(); err != nil {
			return Result{}, apperrors.WrapError(err, "parsing %s", src.Name)
		}
		records = append(records, rec)
	}
	if err := r.Err(); err != nil {
		return Result{}, apperrors.InputError{Path: src.Name, Cause: err}
	}
	elapsed := time.Since(start)

	if opts.Metrics != nil {
		opts.Metrics.ObserveDuration(src.Name, elapsed)
	}
	if opts.Logger != nil {
		opts.Logger.Debug("parsed trace",
			logging.String("source", src.Name),
			logging.Int("records", len(records)),
			logging.Int("skipped", t.skipped),
			logging.Int("forced_omitted", t.omitted),
			logging.String("elapsed", format.FormatDuration(elapsed)))
	}
	span.SetAttributes(attribute.Int("gctrace.records", len(records)))

	return Result{
		Source:   src.Name,
		Records:  records,
		Lines:    t.lines,
		Skipped:  t.skipped,
		Omitted:  t.omitted,
		Duration: elapsed,
	}, nil
}

// Records flattens results into a single slice, preserving order.
func Records(results []Result) []gctrace.Record {
	n := 0
	for _, r := range results {
		n += len(r.Records)
	}
	all := make([]gctrace.Record, 0, n)
	for _, r := range results {
		all = append(all, r.Records...)
	}
	return all
}
