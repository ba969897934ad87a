package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ui prints status lines for one command. The spinner only runs when stderr
// is a terminal so piped output stays clean.
type ui struct {
	out     io.Writer
	errOut  io.Writer
	spinner *spinner.Spinner
	quiet   bool
}

func newUI(noColor, quiet bool) *ui {
	if noColor {
		color.NoColor = true
	}
	u := &ui{out: os.Stdout, errOut: os.Stderr, quiet: quiet}
	if !quiet && isatty.IsTerminal(os.Stderr.Fd()) {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Writer = os.Stderr
		u.spinner = s
	}
	return u
}

func (u *ui) start(message string) {
	if u.spinner == nil {
		return
	}
	u.spinner.Suffix = " " + message
	u.spinner.Start()
}

func (u *ui) stop() {
	if u.spinner != nil {
		u.spinner.Stop()
	}
}

func (u *ui) success(format string, args ...interface{}) {
	u.stop()
	if u.quiet {
		return
	}
	color.New(color.FgGreen).Fprintf(u.out, "✓ %s\n", fmt.Sprintf(format, args...))
}

func (u *ui) warning(format string, args ...interface{}) {
	if u.quiet {
		return
	}
	color.New(color.FgYellow).Fprintf(u.errOut, "⚠ %s\n", fmt.Sprintf(format, args...))
}

func (u *ui) fail(format string, args ...interface{}) {
	u.stop()
	color.New(color.FgRed).Fprintf(u.errOut, "✗ %s\n", fmt.Sprintf(format, args...))
}
