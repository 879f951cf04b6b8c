package proxy

import "fmt"

// ANSI styles used for proxy-originated output.
const (
	Reset       = "\033[0m"
	Bold        = "\033[1m"
	Red         = "\033[31m"
	Green       = "\033[32m"
	Yellow      = "\033[33m"
	Cyan        = "\033[36m"
	BrightBlack = "\033[90m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
//
// Postcondition: Returns text wrapped with the color code and Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
func Colorf(color, format string, args ...any) string {
	return color + fmt.Sprintf(format, args...) + Reset
}

// noticeLine renders a proxy notice so the player can tell it from game text.
func noticeLine(msg string) string {
	return Colorize(Cyan, "[mudproxy] ") + msg
}

// errorLine renders a failed proxy command.
func errorLine(msg string) string {
	return Colorize(Red, "[mudproxy] ") + msg
}
