package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"payslip-studio/payslip-tools/internal/money"
	"payslip-studio/payslip-tools/internal/payslip"
	"payslip-studio/payslip-tools/pkg/storage"
)

// Result is the outcome for one input file.
type Result struct {
	Source  string
	Output  string
	Failure *payslip.Failure
}

// Summary describes one batch run.
type Summary struct {
	RunID          uuid.UUID
	StartedAt      time.Time
	FinishedAt     time.Time
	Processed      int
	Succeeded      int
	Failed         int
	FailuresByKind map[payslip.FailureKind]int
	// PayoutTotal sums auszahlungsbetrag over the rendered payslips.
	PayoutTotal decimal.Decimal
	Results     []Result
}

// ReportColumns are the headers of the rows returned by ReportRows.
var ReportColumns = []string{"source", "output", "status", "kind", "message"}

// ReportRows flattens the per-file results for the report writers.
func (s *Summary) ReportRows() [][]interface{} {
	rows := make([][]interface{}, 0, len(s.Results))
	for _, r := range s.Results {
		status, kind, message := "ok", "", ""
		if r.Failure != nil {
			status = "failed"
			kind = string(r.Failure.Kind)
			message = r.Failure.Err.Error()
		}
		rows = append(rows, []interface{}{r.Source, r.Output, status, kind, message})
	}
	return rows
}

// RunOptions selects the input tree and where the PDFs go.
type RunOptions struct {
	InputDir string
	Sink     storage.Sink
}

// Service renders every payslip document below a directory.
type Service struct {
	generator *PDFGenerator
	logger    *zap.Logger
}

// NewService creates a new renderer service
func NewService(generator *PDFGenerator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		generator: generator,
		logger:    logger,
	}
}

// Discover lists the payslip documents below root in lexical walk order.
// Symlinks to regular files are included. Entries below root that cannot
// be read are logged and skipped; only a failure to read root itself is
// returned.
func Discover(root string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &walker{root: root, logger: logger}
	if err := filepath.WalkDir(root, w.visit); err != nil {
		return nil, err
	}
	return w.files, nil
}

func isPayslipFile(name string) bool {
	return strings.HasSuffix(name, ".json") && strings.Contains(name, "payslip_")
}

type walker struct {
	root   string
	logger *zap.Logger
	files  []string
}

func (w *walker) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		if path == w.root {
			return err
		}
		w.logger.Warn("Skipping unreadable entry", zap.String("path", path), zap.Error(err))
		if d != nil && d.IsDir() {
			return fs.SkipDir
		}
		return nil
	}

	if d.IsDir() || !isPayslipFile(d.Name()) {
		return nil
	}

	switch {
	case d.Type().IsRegular():
		w.files = append(w.files, path)
	case d.Type()&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil {
			w.logger.Warn("Skipping broken link", zap.String("path", path), zap.Error(err))
			return nil
		}
		if info.Mode().IsRegular() {
			w.files = append(w.files, path)
		}
	}
	return nil
}

// OutputKey maps a source file to its slash separated key below the output
// root: the path relative to the input dir with a .pdf extension.
func OutputKey(inputDir, source string) (string, error) {
	rel, err := filepath.Rel(inputDir, source)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)) + ".pdf"), nil
}

// Run renders every discovered document. A file that fails is recorded in
// the summary and the batch moves on; only problems that make the whole
// batch impossible are returned as an error.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	if opts.Sink == nil {
		return nil, errors.New("no output sink configured")
	}
	info, err := os.Stat(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", opts.InputDir)
	}

	files, err := Discover(opts.InputDir, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", opts.InputDir, err)
	}

	summary := &Summary{
		RunID:          uuid.New(),
		StartedAt:      time.Now(),
		FailuresByKind: make(map[payslip.FailureKind]int, len(payslip.Kinds)),
		PayoutTotal:    decimal.Zero,
		Results:        make([]Result, 0, len(files)),
	}
	logger := s.logger.With(zap.String("run_id", summary.RunID.String()))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = time.Now()
			return summary, err
		}

		result, payout := s.renderFile(ctx, opts, file)
		summary.Results = append(summary.Results, result)
		summary.Processed++

		if result.Failure != nil {
			summary.Failed++
			summary.FailuresByKind[result.Failure.Kind]++
			logger.Error("Error processing file",
				zap.String("file", file),
				zap.String("kind", string(result.Failure.Kind)),
				zap.Error(result.Failure.Err))
			continue
		}

		summary.Succeeded++
		if payout != nil {
			summary.PayoutTotal = summary.PayoutTotal.Add(money.FromFloat(*payout))
		}
		logger.Info("Generated PDF",
			zap.String("source", file),
			zap.String("output", result.Output))
	}

	summary.FinishedAt = time.Now()
	logger.Info("PDF generation complete",
		zap.Int("processed", summary.Processed),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.String("payout_total", money.FormatDecimal(summary.PayoutTotal)))

	return summary, nil
}

func (s *Service) renderFile(ctx context.Context, opts RunOptions, file string) (Result, *float64) {
	result := Result{Source: file}
	fail := func(kind payslip.FailureKind, err error) (Result, *float64) {
		result.Failure = payslip.NewFailure(kind, file, err)
		return result, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fail(payslip.KindIO, err)
	}

	doc, err := payslip.Decode(data)
	if err != nil {
		return fail(payslip.KindParse, err)
	}

	layout, err := BuildLayout(doc)
	if err != nil {
		return fail(payslip.KindField, err)
	}

	pdf, err := s.generator.Render(layout)
	if err != nil {
		return fail(payslip.KindIO, err)
	}

	key, err := OutputKey(opts.InputDir, file)
	if err != nil {
		return fail(payslip.KindIO, err)
	}

	location, err := opts.Sink.Put(ctx, key, pdf, storage.ContentTypePDF)
	if err != nil {
		return fail(payslip.KindIO, err)
	}

	result.Output = location
	return result, layout.Payout
}
