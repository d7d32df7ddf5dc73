package demo

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging returns a logger writing to stdout and to logFile. If
// logFile is empty, a timestamped filename is generated. The returned
// function closes the file.
func SetupLogging(logFile string) (logger.Logger, func() error, error) {
	if logFile == "" {
		logFile = "demo_log_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %w", err)
	}
	return logger.New(io.MultiWriter(os.Stdout, file)).Named("demo"), file.Close, nil
}

// Usage is the help text of the demo competition tool.
const Usage = `Unicycle Score Board Demo
=========================

Runs a generated competition against a running score board: registration,
reconcile, score entry for every cohort, results and the starting list.
Every saved row and every cohort result is checked against the scoring rules.

Usage:
  go run ./cmd/demo-competition [options]

Examples:
  # 40 riders against a local server
  go run ./cmd/demo-competition -password secret

  # reproducible run with 5% out of range scores and the starting list as CSV
  go run ./cmd/demo-competition -password secret -seed 7 -invalid-rate 0.05 -output out/start.csv

Options:
`
