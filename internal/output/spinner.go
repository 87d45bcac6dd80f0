package output

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner provides a simple interface for showing progress
type Spinner struct {
	spinner *spinner.Spinner
	mode    Mode
	message string
	writer  io.Writer
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(w io.Writer, message string, mode Mode) *Spinner {
	s := &Spinner{
		mode:    mode,
		message: message,
		writer:  w,
	}

	if mode == ModeInteractive {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.spinner.Suffix = " " + message
		s.spinner.Writer = w
		_ = s.spinner.Color("blue", "bold")
	}

	return s
}

// Start starts the spinner
func (s *Spinner) Start() {
	if s.spinner != nil {
		s.spinner.Start()
		return
	}
	fmt.Fprintf(s.writer, "⏳ %s...\n", s.message)
}

// Stop stops the spinner
func (s *Spinner) Stop() {
	if s.spinner != nil {
		s.spinner.Stop()
	}
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(message string) {
	s.Stop()
	fmt.Fprintf(s.writer, "✓ %s\n", message)
}

// Fail stops the spinner and shows a failure message
func (s *Spinner) Fail(message string) {
	s.Stop()
	fmt.Fprintf(s.writer, "✗ %s\n", message)
}
