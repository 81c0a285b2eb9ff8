//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"

	"github.com/agbru/gctrace/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the spinner.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 20
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// It defines the essential controls for a spinner: starting, stopping, and
// updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() {
	rs.s.Start()
}

func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix takes the spinner lock since the animation goroutine reads
// the suffix concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// IsTerminal reports whether w is a terminal (including Cygwin/MSYS ptys).
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ProgressDisplay shows a spinner with a completion bar while trace files
// are being parsed. A disabled display does nothing, so callers need not
// check whether progress output is wanted.
type ProgressDisplay struct {
	mu      sync.Mutex
	s       Spinner
	started bool
}

// NewProgressDisplay returns a display writing to out. When enabled is
// false the display is inert.
func NewProgressDisplay(out io.Writer, enabled bool) *ProgressDisplay {
	if !enabled {
		return &ProgressDisplay{}
	}
	return &ProgressDisplay{s: newSpinner(spinner.WithWriter(out))}
}

// Start shows the spinner for total inputs.
func (p *ProgressDisplay) Start(total int) {
	if p.s == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.UpdateSuffix(fmt.Sprintf(" parsing %d %s...", total, plural(total, "trace", "traces")))
	p.s.Start()
	p.started = true
}

// Update reports that done of total inputs are finished, the latest being
// source. Its signature matches pipeline.ProgressFunc.
func (p *ProgressDisplay) Update(done, total int, source string) {
	if p.s == nil || total <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.UpdateSuffix(fmt.Sprintf(" %s%s%s %d/%d %s",
		ui.ColorGreen(), progressBar(float64(done)/float64(total), ProgressBarWidth), ui.ColorReset(),
		done, total, source))
}

// Stop removes the spinner. It is safe to call more than once.
func (p *ProgressDisplay) Stop() {
	if p.s == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		p.s.Stop()
		p.started = false
	}
}

// progressBar generates a string representing a textual progress bar.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := range length {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
