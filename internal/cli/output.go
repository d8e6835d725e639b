// Package cli provides terminal output helpers for the rxreturn CLI:
// colored status lines, a loading spinner, and table rendering.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// Spinner shows progress while a network call is in flight.
type Spinner struct {
	frames   []string
	current  int
	prefix   string
	mu       sync.Mutex
	writer   io.Writer
	active   bool
	colorize bool
	done     chan bool
}

// NewSpinner creates a new spinner with the given prefix text.
func NewSpinner(prefix string) *Spinner {
	return &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		prefix:   prefix,
		writer:   os.Stdout,
		colorize: isTerminal(),
		done:     make(chan bool),
	}
}

// Start starts the spinner.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				if !s.active {
					s.mu.Unlock()
					return
				}
				s.render()
				s.current = (s.current + 1) % len(s.frames)
				s.mu.Unlock()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}

	s.active = false
	close(s.done)

	fmt.Fprint(s.writer, "\r"+strings.Repeat(" ", 80)+"\r")
}

// Success stops the spinner and shows a success message.
func (s *Spinner) Success(message string) {
	s.Stop()
	Success(message)
}

// Error stops the spinner and shows an error message.
func (s *Spinner) Error(message string) {
	s.Stop()
	Error(message)
}

func (s *Spinner) render() {
	frame := s.frames[s.current]
	if s.colorize {
		frame = ColorCyan + frame + ColorReset
	}
	fmt.Fprintf(s.writer, "\r%s %s", frame, s.prefix)
}

// Colorize returns a colored string when stdout is a terminal.
func Colorize(text string, color string) string {
	if !isTerminal() {
		return text
	}
	return color + text + ColorReset
}

// Success prints a success message.
func Success(message string) {
	if isTerminal() {
		fmt.Printf("%s✓%s %s\n", ColorGreen, ColorReset, message)
	} else {
		fmt.Printf("✓ %s\n", message)
	}
}

// Error prints an error message.
func Error(message string) {
	if isTerminal() {
		fmt.Printf("%s✗%s %s\n", ColorRed, ColorReset, message)
	} else {
		fmt.Printf("✗ %s\n", message)
	}
}

// Warning prints a warning message.
func Warning(message string) {
	if isTerminal() {
		fmt.Printf("%s⚠%s %s\n", ColorYellow, ColorReset, message)
	} else {
		fmt.Printf("⚠ %s\n", message)
	}
}

// Info prints an info message.
func Info(message string) {
	if isTerminal() {
		fmt.Printf("%sℹ%s %s\n", ColorBlue, ColorReset, message)
	} else {
		fmt.Printf("ℹ %s\n", message)
	}
}

// Table renders rows as an aligned table with a bold header.
func Table(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, Colorize(strings.Join(header, "\t"), ColorBold))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
