package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
	symWarn  = "⚠"
)

var (
	forceColor   bool
	disableColor bool
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// colorOn reports whether escapes should be written to w. Only terminals
// get color unless forced; plain themes never do.
func colorOn(w io.Writer) bool {
	if disableColor || current.Plain {
		return false
	}
	if forceColor {
		return true
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func paint(w io.Writer, color, s string) string {
	if color == "" || !colorOn(w) {
		return s
	}
	return color + s + reset
}

// C colors s for stdout, where panels are printed.
func C(color, s string) string { return paint(os.Stdout, color, s) }

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, paint(w, current.Success, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, paint(w, current.Error, symCross+" "+msg)) }
func Warn(w io.Writer, msg string) { fmt.Fprintln(w, paint(w, current.Pending, symWarn+" "+msg)) }
