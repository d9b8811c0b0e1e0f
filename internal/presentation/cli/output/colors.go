package output

import "os"

// Color is an ANSI escape sequence.
type Color string

const (
	ColorReset  Color = "\033[0m"
	ColorRed    Color = "\033[31m"
	ColorGreen  Color = "\033[32m"
	ColorYellow Color = "\033[33m"
	ColorBlue   Color = "\033[34m"
	ColorBold   Color = "\033[1m"
	ColorDim    Color = "\033[2m"
)

// colorsEnabled caches the detection result for the process lifetime.
var colorsEnabled *bool

// IsColorSupported reports whether stdout can take ANSI color. NO_COLOR
// and FORCE_COLOR override terminal detection, in that order.
func IsColorSupported() bool {
	if colorsEnabled != nil {
		return *colorsEnabled
	}
	enabled := detectColorSupport()
	colorsEnabled = &enabled
	return enabled
}

func detectColorSupport() bool {
	// https://no-color.org/: any value disables color.
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if _, exists := os.LookupEnv("FORCE_COLOR"); exists {
		return true
	}

	stat, err := os.Stdout.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice == 0 {
		return false
	}

	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// ResetColorDetection drops the cached result so the next call re-reads
// the environment. Tests use this around t.Setenv.
func ResetColorDetection() {
	colorsEnabled = nil
}
