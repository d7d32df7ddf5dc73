package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/demo"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/pkg/logger"
)

// Default configuration constants.
const (
	defaultRiders      = 40
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 5 * time.Minute
	defaultInvalidRate = 0.02
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8050", "Base URL of the service")
		password    = flag.String("password", os.Getenv("UNICYCLE_JURY_PASSWORD"), "Jury password (default $UNICYCLE_JURY_PASSWORD)")
		riders      = flag.Int("riders", defaultRiders, "Number of riders to register")
		seed        = flag.Int64("seed", 0, "Generator seed, 0 picks one")
		invalidRate = flag.Float64("invalid-rate", defaultInvalidRate, "Share of T/P cells submitted out of range")
		day         = flag.String("day", "2025-05-01", "Competition day (YYYY-MM-DD)")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Write the starting list CSV to this file")
		logFile     = flag.String("log", "", "Log file (default: demo_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Log every cohort and result")
	)
	flag.Usage = func() {
		_, _ = os.Stderr.WriteString(demo.Usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	competitionDay, err := time.Parse(model.DateLayout, *day)
	if err != nil {
		os.Stderr.WriteString("invalid -day: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, closeLog, err := demo.SetupLogging(*logFile)
	if err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &demo.Config{
		BaseURL:        *baseURL,
		JuryPassword:   *password,
		Riders:         *riders,
		Seed:           *seed,
		InvalidRate:    *invalidRate,
		Timeout:        *timeout,
		CompetitionDay: competitionDay,
		OutputFile:     *outputFile,
		Verbose:        *verbose,
	}

	if _, err := demo.Run(ctx, config, log); err != nil {
		log.Error(ctx, "demo failed", logger.Error(err))
		cancel()
		_ = closeLog()
		os.Exit(1)
	}
}
