package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// cliLogger adapts charmbracelet/log to the scfind.Logger interface, so
// the library stays free of any concrete logging dependency.
type cliLogger struct {
	l *log.Logger
}

func newCLILogger(verbose bool) *cliLogger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "scfind",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return &cliLogger{l: l}
}

func (c *cliLogger) Warnf(format string, args ...any) {
	c.l.Warn(fmt.Sprintf(format, args...))
}

func (c *cliLogger) Infof(format string, args ...any) {
	c.l.Info(fmt.Sprintf(format, args...))
}
