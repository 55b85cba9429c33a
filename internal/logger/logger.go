// Package logger configures the process-wide structured logger used by the
// gosh command.
package logger

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Init configures the default charmbracelet logger for CLI use. Debug
// enables debug-level records with caller sites; noColor forces the ASCII
// color profile for plain output.
func Init(debug, noColor bool) {
	log.SetOutput(os.Stderr)
	log.SetPrefix("gosh")
	log.SetTimeFormat(time.Kitchen)

	if noColor {
		log.SetColorProfile(termenv.Ascii)
	} else {
		log.SetColorProfile(termenv.ColorProfile())
	}

	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// Logf exposes the default logger's debug level as a printf-style function,
// suitable for wiring into the shell's trace hooks.
func Logf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}
