// Package main provides UI utilities for the nelson-engine CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// UI provides user-friendly output utilities. In JSON mode all decorative
// output is suppressed so stdout stays machine-readable.
type UI struct {
	jsonMode bool
}

// NewUI creates a new UI instance.
func NewUI(jsonMode bool) *UI {
	return &UI{jsonMode: jsonMode}
}

// Success prints a success message.
func (ui *UI) Success(format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	color.New(color.FgGreen).Printf("✓ %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (ui *UI) Error(format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (ui *UI) Warning(format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	color.New(color.FgYellow).Printf("⚠ %s\n", fmt.Sprintf(format, args...))
}

// Info prints an informational message.
func (ui *UI) Info(format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	fmt.Printf("%s\n", fmt.Sprintf(format, args...))
}

// Field prints an aligned name/value summary line.
func (ui *UI) Field(name string, format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	fmt.Printf("  %-18s %s\n", name+":", fmt.Sprintf(format, args...))
}

// Spinner starts an indeterminate spinner with the given message. The
// returned func stops it. In JSON mode it is a no-op.
func (ui *UI) Spinner(message string) func() {
	if ui.jsonMode {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = os.Stderr
	s.Start()
	return s.Stop
}

// ProgressBar creates a determinate progress bar, or nil in JSON mode.
func (ui *UI) ProgressBar(total int, description string) *progressbar.ProgressBar {
	if ui.jsonMode {
		return nil
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
}
