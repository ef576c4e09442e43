package synth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"payslip-studio/payslip-tools/internal/money"
	"payslip-studio/payslip-tools/internal/payslip"
	"payslip-studio/payslip-tools/pkg/storage"
)

const maxVariation = 100

// Options controls the size of a generated dataset.
type Options struct {
	Employees int
	Months    int
}

func (o Options) Validate() error {
	if o.Employees < 0 {
		return fmt.Errorf("employees must not be negative, got %d", o.Employees)
	}
	if o.Months < 0 {
		return fmt.Errorf("months must not be negative, got %d", o.Months)
	}
	return nil
}

// ManifestEntry describes one generated payslip file.
type ManifestEntry struct {
	Employee    int
	Month       int
	Name        string
	File        string
	BaseAmount  float64
	NetEarnings float64
	Payout      float64
}

// Dataset is the result of one generation run.
type Dataset struct {
	// Files holds the written locations, one slice per employee in month order.
	Files   [][]string
	Entries []ManifestEntry
}

// ManifestColumns are the headers of the rows returned by ManifestRows.
var ManifestColumns = []string{"employee", "month", "name", "file", "betrag", "netto_verdienst", "auszahlungsbetrag"}

// ManifestRows flattens the entries for the report writers.
func (d *Dataset) ManifestRows() [][]interface{} {
	rows := make([][]interface{}, 0, len(d.Entries))
	for _, e := range d.Entries {
		rows = append(rows, []interface{}{
			e.Employee, e.Month, e.Name, e.File, e.BaseAmount, e.NetEarnings, e.Payout,
		})
	}
	return rows
}

// Generator writes fake payslip datasets.
type Generator struct {
	faker  *gofakeit.Faker
	now    func() time.Time
	logger *zap.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock replaces time.Now as the reference for birth and entry dates.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a generator drawing all randomness from faker.
func NewGenerator(faker *gofakeit.Faker, logger *zap.Logger, opts ...GeneratorOption) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		faker:  faker,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate writes opts.Employees × opts.Months payslip records to sink, one
// directory per employee.
func (g *Generator) Generate(ctx context.Context, sink storage.Sink, opts Options) (*Dataset, error) {
	if g.faker == nil {
		return nil, errors.New("generator has no faker")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	dataset := &Dataset{
		Files:   make([][]string, 0, opts.Employees),
		Entries: make([]ManifestEntry, 0, opts.Employees*opts.Months),
	}

	now := g.now()
	for n := 1; n <= opts.Employees; n++ {
		if err := ctx.Err(); err != nil {
			return dataset, err
		}

		profile, err := NewProfile(g.faker, now)
		if err != nil {
			return dataset, fmt.Errorf("failed to create employee %d: %w", n, err)
		}

		files := make([]string, 0, opts.Months)
		for month := 1; month <= opts.Months; month++ {
			variation := money.Round(decimal.NewFromFloat(g.faker.Float64Range(-maxVariation, maxVariation)))
			record := DeriveMonth(profile, month, variation)

			data, err := payslip.Marshal(&record)
			if err != nil {
				return dataset, fmt.Errorf("failed to encode payslip for employee %d month %d: %w", n, month, err)
			}

			key := fmt.Sprintf("employee_%d/%s", n, fileName(profile.Employee.Name, month))
			location, err := sink.Put(ctx, key, data, storage.ContentTypeJSON)
			if err != nil {
				return dataset, fmt.Errorf("failed to store %s: %w", key, err)
			}

			files = append(files, location)
			dataset.Entries = append(dataset.Entries, ManifestEntry{
				Employee:    n,
				Month:       month,
				Name:        profile.Employee.Name,
				File:        location,
				BaseAmount:  record.Earnings.BaseAmount,
				NetEarnings: record.TaxSocial.NetEarnings,
				Payout:      record.Payment.Payout,
			})
		}

		dataset.Files = append(dataset.Files, files)
		g.logger.Info("Generated payslips for employee",
			zap.Int("employee", n),
			zap.String("name", profile.Employee.Name),
			zap.Int("payslips", opts.Months))
	}

	return dataset, nil
}
