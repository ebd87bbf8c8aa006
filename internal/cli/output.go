// Package cli holds the colored console helpers shared by the operator
// commands.
package cli

import (
	"fmt"
	"os"
)

// ANSI color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// Success prints msg in green
func Success(msg string) {
	fmt.Printf("%s%s%s\n", ColorGreen, msg, ColorReset)
}

// Error prints msg in red on stderr
func Error(msg string) {
	fmt.Fprintf(os.Stderr, "%s%s%s\n", ColorRed, msg, ColorReset)
}

// Info prints msg in cyan
func Info(msg string) {
	fmt.Printf("%s%s%s\n", ColorCyan, msg, ColorReset)
}

// Warning prints msg in yellow
func Warning(msg string) {
	fmt.Printf("%s%s%s\n", ColorYellow, msg, ColorReset)
}

// Fatal prints msg as an error and exits with status 1
func Fatal(msg string) {
	Error(msg)
	os.Exit(1)
}
