package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/narrate/utils"
)

// setupLog keeps logging silent unless NARRATE_LOGFILE names a file to
// append debug logs to. The TUI owns the terminal, so nothing is written to
// stderr by default.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	logFile := os.Getenv("NARRATE_LOGFILE")
	if logFile == "" {
		return func() error { return nil }, nil
	}
	logFile = utils.ExpandPath(logFile)

	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:gosec
		return nil, err
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetReportTimestamp(true)
	return f.Close, nil
}
