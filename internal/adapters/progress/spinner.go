package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// SpinnerProgress renders pipeline stages as a spinner line that turns into
// a check mark once the next stage starts
type SpinnerProgress struct {
	out          io.Writer
	spinner      *spinner.Spinner
	animate      bool
	currentStage string
	currentMsg   string
	stageStart   time.Time
}

// NewSpinnerProgress creates a spinner sink writing to out. Without animation
// every stage is printed as a plain line.
func NewSpinnerProgress(out io.Writer, animate bool) *SpinnerProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgress{
		out:     out,
		spinner: s,
		animate: animate,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgress) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.currentStage {
		r.completeCurrentStage()
	}

	if !event.Spinner {
		r.stop()
		color.New(color.FgGreen).Fprintf(r.out, "✓ %s\n", event.Message)
		r.currentStage = ""
		return
	}

	r.currentStage = event.Stage
	r.currentMsg = event.Message
	r.stageStart = time.Now()

	if !r.animate {
		fmt.Fprintf(r.out, "● %s\n", event.Message)
		return
	}
	r.spinner.Suffix = " " + event.Message
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerProgress) Info(message string) {
	r.withSpinnerPaused(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerProgress) Error(message string) {
	r.withSpinnerPaused(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// Stop halts the spinner without marking the stage complete
func (r *SpinnerProgress) Stop() {
	r.stop()
	r.currentStage = ""
}

// completeCurrentStage marks the running stage done with its duration
func (r *SpinnerProgress) completeCurrentStage() {
	if r.currentStage == "" {
		return
	}
	r.stop()
	elapsed := time.Since(r.stageStart).Round(time.Millisecond)
	fmt.Fprintf(r.out, "%s %s %s\n",
		color.GreenString("✓"), r.currentMsg, color.New(color.Faint).Sprintf("(%s)", elapsed))
	r.currentStage = ""
}

func (r *SpinnerProgress) withSpinnerPaused(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fn()
	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgress) stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Ensure SpinnerProgress implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgress)(nil)
