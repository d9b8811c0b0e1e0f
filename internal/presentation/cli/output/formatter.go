// Package output renders ghostd command results: plain text with optional
// ANSI color for humans, JSON for scripts and the --output json flag.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Format selects how a command renders its result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Formatter writes command output in the selected format. Safe for
// concurrent use; the run command reports from signal and engine
// goroutines at once.
type Formatter struct {
	mu     sync.Mutex
	writer io.Writer
	format Format
	color  bool
}

// Option configures a Formatter.
type Option func(*Formatter)

// NewFormatter creates a Formatter writing colored text to stdout unless
// options say otherwise.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		writer: os.Stdout,
		format: FormatText,
		color:  true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithWriter redirects output, used by tests to capture it.
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) { f.writer = w }
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(f *Formatter) { f.format = format }
}

// WithColor enables or disables ANSI color.
func WithColor(enabled bool) Option {
	return func(f *Formatter) { f.color = enabled }
}

// Format returns the selected output format.
func (f *Formatter) Format() Format {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.format
}

// Println writes one formatted line.
func (f *Formatter) Println(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := fmt.Fprintf(f.writer, format+"\n", args...)
	return err
}

// colorize wraps text in the given color when color is enabled.
func (f *Formatter) colorize(text string, c Color) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.color {
		return text
	}
	return string(c) + text + string(ColorReset)
}

// Success prints a green checkmarked line.
func (f *Formatter) Success(format string, args ...any) error {
	return f.Println("%s", f.colorize("✓ "+fmt.Sprintf(format, args...), ColorGreen))
}

// Error prints a red crossed line.
func (f *Formatter) Error(format string, args ...any) error {
	return f.Println("%s", f.colorize("✗ "+fmt.Sprintf(format, args...), ColorRed))
}

// Warning prints a yellow warning line.
func (f *Formatter) Warning(format string, args ...any) error {
	return f.Println("%s", f.colorize("⚠ "+fmt.Sprintf(format, args...), ColorYellow))
}

// Info prints a blue informational line.
func (f *Formatter) Info(format string, args ...any) error {
	return f.Println("%s", f.colorize("ℹ "+fmt.Sprintf(format, args...), ColorBlue))
}

// Bold returns text styled bold.
func (f *Formatter) Bold(text string) string {
	return f.colorize(text, ColorBold)
}

// Dim returns text styled dim.
func (f *Formatter) Dim(text string) string {
	return f.colorize(text, ColorDim)
}

// Header prints a bold section title with an underline the same width.
func (f *Formatter) Header(title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.color {
		fmt.Fprintf(f.writer, "%s%s%s\n", ColorBold, title, ColorReset)
	} else {
		fmt.Fprintln(f.writer, title)
	}
	fmt.Fprintln(f.writer, strings.Repeat("─", len(title)))
	return nil
}

// Item prints an indented "key: value" line with the key dimmed.
func (f *Formatter) Item(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.color {
		_, err := fmt.Fprintf(f.writer, "  %s%s%s: %s\n", ColorDim, key, ColorReset, value)
		return err
	}
	_, err := fmt.Fprintf(f.writer, "  %s: %s\n", key, value)
	return err
}

// TableColumn names one table column.
type TableColumn struct {
	Header string
}

// TableData is a header row plus data rows, rendered left-aligned with
// columns sized to their widest cell.
type TableData struct {
	Columns []TableColumn
	Rows    [][]string
}

// Table prints data as a column-aligned table with a separator under the
// header row.
func (f *Formatter) Table(data TableData) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(data.Columns) == 0 {
		return nil
	}

	widths := make([]int, len(data.Columns))
	for i, col := range data.Columns {
		widths[i] = len(col.Header)
	}
	for _, row := range data.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var header, separator strings.Builder
	for i, col := range data.Columns {
		header.WriteString(pad(col.Header, widths[i]))
		separator.WriteString(strings.Repeat("-", widths[i]))
		if i < len(data.Columns)-1 {
			header.WriteString("  ")
			separator.WriteString("  ")
		}
	}

	var err error
	if f.color {
		_, err = fmt.Fprintf(f.writer, "%s%s%s\n", ColorBold, header.String(), ColorReset)
	} else {
		_, err = fmt.Fprintln(f.writer, header.String())
	}
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintln(f.writer, separator.String()); err != nil {
		return err
	}

	for _, row := range data.Rows {
		var line strings.Builder
		for i, cell := range row {
			if i >= len(data.Columns) {
				break
			}
			line.WriteString(pad(cell, widths[i]))
			if i < len(data.Columns)-1 {
				line.WriteString("  ")
			}
		}
		if _, err = fmt.Fprintln(f.writer, line.String()); err != nil {
			return err
		}
	}
	return nil
}

func pad(text string, width int) string {
	if len(text) >= width {
		return text
	}
	return text + strings.Repeat(" ", width-len(text))
}

// JSON prints data as indented JSON.
func (f *Formatter) JSON(data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Spinner is the in-place progress indicator shown while a command waits
// on the store.
type Spinner struct {
	mu       sync.Mutex
	frames   []string
	index    int
	message  string
	writer   io.Writer
	interval time.Duration
	running  bool
	quit     chan struct{}
	exited   chan struct{}
}

// SpinnerOption configures a Spinner.
type SpinnerOption func(*Spinner)

// NewSpinner creates a spinner that animates message on stdout.
func NewSpinner(message string, opts ...SpinnerOption) *Spinner {
	s := &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message:  message,
		writer:   os.Stdout,
		interval: 80 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithSpinnerWriter redirects the spinner, used by tests.
func WithSpinnerWriter(w io.Writer) SpinnerOption {
	return func(s *Spinner) { s.writer = w }
}

// WithSpinnerInterval overrides the frame interval.
func WithSpinnerInterval(d time.Duration) SpinnerOption {
	return func(s *Spinner) { s.interval = d }
}

// Start begins animating. Starting a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.quit = make(chan struct{})
	s.exited = make(chan struct{})
	s.mu.Unlock()

	go s.animate()
}

// Stop halts the animation and clears the line. It waits for the
// animation goroutine so the caller can print immediately after.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.quit)
	exited := s.exited
	s.mu.Unlock()

	<-exited
	_, _ = fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+2))
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.exited)

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := s.frames[s.index]
			s.index = (s.index + 1) % len(s.frames)
			message := s.message
			s.mu.Unlock()
			_, _ = fmt.Fprintf(s.writer, "\r%s %s", frame, message)
		}
	}
}
