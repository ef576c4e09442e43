// Package main provides the CLI entry point for the payslip renderer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"payslip-studio/payslip-tools/internal/config"
	"payslip-studio/payslip-tools/internal/logging"
	"payslip-studio/payslip-tools/internal/render"
	"payslip-studio/payslip-tools/internal/report"
	"payslip-studio/payslip-tools/internal/scheduler"
	"payslip-studio/payslip-tools/pkg/storage"
)

// Version information (populated at build time)
var (
	version   = "dev"
	buildTime = "unknown"
)

// CLI flags
var (
	configPath  string
	inputDir    string
	outputDir   string
	reportPath  string
	schedule    string
	strict      bool
	logLevel    string
	showVersion bool
)

var errFailedFiles = errors.New("some payslips could not be rendered")

func init() {
	flag.StringVar(&configPath, "config", "", "Path to a JSON configuration file")
	flag.StringVar(&inputDir, "input", "", "Input directory with JSON files")
	flag.StringVar(&outputDir, "output", "", "Output directory or s3://bucket/prefix for PDFs (default: same as input)")
	flag.StringVar(&reportPath, "report", "", "Write a run report (.csv or .xlsx)")
	flag.StringVar(&schedule, "schedule", "", "Run repeatedly on a cron schedule (e.g. \"0 6 * * *\", \"@every 1h\")")
	flag.BoolVar(&strict, "strict", false, "Exit with status 1 when any file failed")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = printUsage
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `payslip-render - Generate PDF payslips from JSON data

USAGE:
    payslip-render [options]

DESCRIPTION:
    Walks the input directory recursively and renders every *payslip_*.json file
    into an A4 PDF payslip with the same base name. Files that cannot be read,
    parsed or filled are reported and skipped; the rest of the batch continues.

OPTIONS:
    -input <dir>          Input directory with JSON files (default: test_data)
    -output <target>      Output directory or s3://bucket/prefix (default: same as input)
    -config <path>        JSON configuration file
    -report <path>        Write a run report (.csv or .xlsx)
    -schedule <spec>      Run on a cron schedule until interrupted
    -strict               Exit with status 1 when any file failed
    -log-level <level>    debug, info, warn or error
    -version              Show version information

EXAMPLES:
    payslip-render -input test_data
    payslip-render -input test_data -output pdfs -report pdfs/run.xlsx
    payslip-render -input test_data -output s3://payslips/2025 -schedule "@every 1h"
`)
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("payslip-render %s (built %s)\n", version, buildTime)
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

	target := cfg.Render.OutputDir
	if target == "" {
		target = cfg.Render.InputDir
	}

	sink, err := storage.Open(ctx, target, cfg.S3, logger)
	if err != nil {
		logger.Error("Failed to open output", zap.String("output", target), zap.Error(err))
		return 1
	}

	options := render.DefaultPDFOptions()
	options.TrailingPageBreak = cfg.Render.TrailingPageBreak
	options.Author = cfg.Render.Author
	service := render.NewService(render.NewPDFGenerator(options), logger)

	batch := func(ctx context.Context) error {
		logger.Info("Generating PDFs from JSON files", zap.String("input", cfg.Render.InputDir))

		summary, err := service.Run(ctx, render.RunOptions{
			InputDir: cfg.Render.InputDir,
			Sink:     sink,
		})
		if err != nil {
			return err
		}

		if cfg.Render.ReportPath != "" {
			if err := report.Write(cfg.Render.ReportPath, render.ReportColumns, summary.ReportRows()); err != nil {
				return err
			}
			logger.Info("Run report written", zap.String("path", cfg.Render.ReportPath))
		}

		logger.Info("Done!", zap.String("run_id", summary.RunID.String()))
		if cfg.Render.Strict && summary.Failed > 0 {
			return fmt.Errorf("%w: %d of %d", errFailedFiles, summary.Failed, summary.Processed)
		}
		return nil
	}

	if cfg.Render.Schedule != "" {
		manager := scheduler.NewManager(logger, scheduler.DefaultConfig())
		if err := manager.Add(cfg.Render.Schedule, "payslip-render", batch); err != nil {
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
		logger.Error("PDF generation failed", zap.Error(err))
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
		case "input":
			cfg.Render.InputDir = inputDir
		case "output":
			cfg.Render.OutputDir = outputDir
		case "report":
			cfg.Render.ReportPath = reportPath
		case "schedule":
			cfg.Render.Schedule = schedule
		case "strict":
			cfg.Render.Strict = strict
		case "log-level":
			cfg.Logging.Level = logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
