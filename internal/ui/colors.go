// Package ui provides terminal output helpers for the CLI: colors, tables,
// spinners and prompts.
package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Out and ErrOut receive every printed line. Tests may replace them.
var (
	Out    io.Writer = color.Output
	ErrOut io.Writer = color.Error
)

// Color functions for styled output
var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
)

// headerWidth is the inner width of the Header box.
const headerWidth = 62

func mark(w io.Writer, symbol, msg string) {
	fmt.Fprintf(w, "%s %s\n", symbol, msg)
}

// Success prints a success message with a green checkmark.
func Success(msg string) {
	mark(Out, Green("✓"), msg)
}

// Successf prints a formatted success message.
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message with a yellow warning symbol.
func Warning(msg string) {
	mark(Out, Yellow("⚠"), msg)
}

// Warningf prints a formatted warning message.
func Warningf(format string, args ...interface{}) {
	Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message with a red X on ErrOut.
func Error(msg string) {
	mark(ErrOut, Red("✗"), msg)
}

// Info prints an info message with a blue arrow.
func Info(msg string) {
	mark(Out, Blue("→"), msg)
}

// Infof prints a formatted info message.
func Infof(format string, args ...interface{}) {
	Info(fmt.Sprintf(format, args...))
}

// Header prints a boxed title.
func Header(title string) {
	padding := headerWidth - utf8.RuneCountInString(title) - 2
	if padding < 0 {
		padding = 0
	}

	fmt.Fprintln(Out)
	fmt.Fprintln(Out, Cyan("╔"+strings.Repeat("═", headerWidth)+"╗"))
	fmt.Fprintf(Out, "%s  %s%s%s\n", Cyan("║"), Bold(title), strings.Repeat(" ", padding), Cyan("║"))
	fmt.Fprintln(Out, Cyan("╚"+strings.Repeat("═", headerWidth)+"╝"))
	fmt.Fprintln(Out)
}

// SubHeader prints a section title.
func SubHeader(title string) {
	fmt.Fprintf(Out, "\n%s %s\n", Cyan("─────"), Bold(title))
}

// KeyValue prints an aligned key-value pair.
func KeyValue(key, value string) {
	fmt.Fprintf(Out, "  %-18s %s\n", Dim(key+":"), value)
}

// NewLine prints a blank line.
func NewLine() {
	fmt.Fprintln(Out)
}
