// Package main provides the CLI entry point for the payslip test data generator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"payslip-studio/payslip-tools/internal/config"
	"payslip-studio/payslip-tools/internal/logging"
	"payslip-studio/payslip-tools/internal/report"
	"payslip-studio/payslip-tools/internal/scheduler"
	"payslip-studio/payslip-tools/internal/synth"
	"payslip-studio/payslip-tools/pkg/storage"
)

// Version information (populated at build time)
var (
	version   = "dev"
	buildTime = "unknown"
)

// CLI flags
var (
	configPath   string
	employees    int
	months       int
	outputDir    string
	seed         uint64
	manifestPath string
	schedule     string
	logLevel     string
	showVersion  bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "Path to a JSON configuration file")
	flag.IntVar(&employees, "employees", 5, "Number of employees")
	flag.IntVar(&months, "months", 3, "Number of months per employee")
	flag.StringVar(&outputDir, "output", "test_data", "Output directory or s3://bucket/prefix")
	flag.Uint64Var(&seed, "seed", 0, "Random seed (0 picks a random seed)")
	flag.StringVar(&manifestPath, "manifest", "", "Write a manifest of the generated files (.csv or .xlsx)")
	flag.StringVar(&schedule, "schedule", "", "Run repeatedly on a cron schedule")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = printUsage
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `payslip-testdata - Generate payslip test data

USAGE:
    payslip-testdata [options]

DESCRIPTION:
    Generates fake German payroll records for a number of employees, one JSON
    file per employee and month under employee_<n>/ in the output directory.
    All money figures are derived from one base salary per employee with a
    small salary variation per month.

OPTIONS:
    -employees <n>        Number of employees (default: 5)
    -months <n>           Number of months per employee (default: 3)
    -output <target>      Output directory or s3://bucket/prefix (default: test_data)
    -seed <n>             Random seed for reproducible data (default: random)
    -manifest <path>      Write a manifest (.csv or .xlsx)
    -config <path>        JSON configuration file
    -schedule <spec>      Run on a cron schedule until interrupted
    -log-level <level>    debug, info, warn or error
    -version              Show version information

EXAMPLES:
    payslip-testdata -employees 2 -months 12
    payslip-testdata -seed 42 -output fixtures -manifest fixtures/manifest.csv
`)
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("payslip-testdata %s (built %s)\n", version, buildTime)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	defer logger.Sync()

	tc := cfg.Testdata
	sink, err := storage.Open(ctx, tc.OutputDir, cfg.S3, logger)
	if err != nil {
		logger.Error("Failed to open output", zap.String("output", tc.OutputDir), zap.Error(err))
		return 1
	}

	generator := synth.NewGenerator(gofakeit.New(tc.Seed), logger)

	batch := func(ctx context.Context) error {
		logger.Info("Generating test data",
			zap.Int("employees", tc.Employees),
			zap.Int("months", tc.Months))

		dataset, err := generator.Generate(ctx, sink, synth.Options{
			Employees: tc.Employees,
			Months:    tc.Months,
		})
		if err != nil {
			return err
		}

		if tc.ManifestPath != "" {
			if err := report.Write(tc.ManifestPath, synth.ManifestColumns, dataset.ManifestRows()); err != nil {
				return err
			}
			logger.Info("Manifest written", zap.String("path", tc.ManifestPath))
		}

		logger.Info("Done! Generated employee datasets",
			zap.Int("employees", len(dataset.Files)),
			zap.Int("months", tc.Months),
			zap.String("output", tc.OutputDir))
		return nil
	}

	if tc.Schedule != "" {
		manager := scheduler.NewManager(logger, scheduler.DefaultConfig())
		if err := manager.Add(tc.Schedule, "payslip-testdata", batch); err != nil {
			logger.Error("Invalid schedule", zap.Error(err))
			return 2
		}
		if err := manager.Run(ctx); err != nil {
			logger.Error("Scheduler stopped", zap.Error(err))
			return 1
		}
		return 0
	}

	if err := batch(ctx); err != nil {
		logger.Error("Test data generation failed", zap.Error(err))
		return 1
	}
	return 0
}

// loadConfig reads the configuration and applies the flags given on the
// command line on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "employees":
			cfg.Testdata.Employees = employees
		case "months":
			cfg.Testdata.Months = months
		case "output":
			cfg.Testdata.OutputDir = outputDir
		case "seed":
			cfg.Testdata.Seed = seed
		case "manifest":
			cfg.Testdata.ManifestPath = manifestPath
		case "schedule":
			cfg.Testdata.Schedule = schedule
		case "log-level":
			cfg.Logging.Level = logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
