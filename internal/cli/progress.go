package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Progress shows a spinner while a long-running step is in progress.
// A quiet Progress prints nothing.
type Progress struct {
	s *spinner.Spinner
}

// StartProgress starts a spinner with message on w unless quiet is set.
func StartProgress(w io.Writer, message string, quiet bool) *Progress {
	if quiet {
		return &Progress{}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	s.Start()
	return &Progress{s: s}
}

// Stop stops the spinner. It is safe to call more than once.
func (p *Progress) Stop() {
	if p.s == nil {
		return
	}
	p.s.Stop()
}
