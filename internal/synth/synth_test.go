package synth

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"payslip-studio/payslip-tools/internal/payslip"
	"payslip-studio/payslip-tools/pkg/storage"
)

var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestDerive_ReferenceSalary(t *testing.T) {
	fin := Derive(decimal.NewFromInt(5000))

	assert.Equal(t, 5000.0, fin.Earnings.BaseAmount)
	assert.Equal(t, 5041.50, fin.Earnings.GrossTotal)
	assert.Equal(t, 5002.50, fin.TaxSocial.TaxGross)
	assert.Equal(t, 590.30, fin.TaxSocial.IncomeTax)
	assert.Equal(t, fin.TaxSocial.IncomeTax, fin.TaxSocial.TaxDeductions)
	assert.Equal(t, 4593.50, fin.TaxSocial.KVGross)
	assert.Equal(t, 5002.50, fin.TaxSocial.RVGross)
	assert.Equal(t, 5002.50, fin.TaxSocial.AVGross)
	assert.Equal(t, 4593.50, fin.TaxSocial.PVGross)
	assert.Equal(t, 378.96, fin.TaxSocial.KVContribution)
	assert.Equal(t, 465.23, fin.TaxSocial.RVContribution)
	assert.Equal(t, 65.03, fin.TaxSocial.AVContribution)
	assert.Equal(t, 82.68, fin.TaxSocial.PVContribution)
	assert.Equal(t, 991.90, fin.TaxSocial.SocialDeductions)
	assert.Equal(t, 3459.30, fin.TaxSocial.NetEarnings)
	assert.Equal(t, 3409.56, fin.Payout)

	assert.Equal(t, 60498.0, fin.Yearly.GrossTotal)
	assert.Equal(t, 7083.60, fin.Yearly.IncomeTax)
	assert.Equal(t, 60030.0, fin.Yearly.SocialGross)
	assert.Equal(t, 0.60, fin.Yearly.SolidarityTax)
	assert.Equal(t, 0.0, fin.Yearly.ChurchTax)
}

func TestDerive_NetAndPayoutInvariants(t *testing.T) {
	for _, base := range []string{"2000", "3000.01", "4567.89", "7999.99", "8000"} {
		t.Run(base, func(t *testing.T) {
			fin := Derive(decimal.RequireFromString(base))
			ts := fin.TaxSocial

			social := decimal.NewFromFloat(ts.KVContribution).
				Add(decimal.NewFromFloat(ts.RVContribution)).
				Add(decimal.NewFromFloat(ts.AVContribution)).
				Add(decimal.NewFromFloat(ts.PVContribution))
			net := decimal.NewFromFloat(fin.Earnings.GrossTotal).
				Sub(decimal.NewFromFloat(ts.IncomeTax)).
				Sub(social)

			assert.True(t, social.Equal(decimal.NewFromFloat(ts.SocialDeductions)))
			assert.True(t, net.Equal(decimal.NewFromFloat(ts.NetEarnings)))
			assert.True(t, net.Sub(decimal.RequireFromString("49.74")).Equal(decimal.NewFromFloat(fin.Payout)))
		})
	}
}

func TestMonthSalary(t *testing.T) {
	assert.Equal(t, "5012.35", MonthSalary(decimal.NewFromInt(5000), decimal.RequireFromString("12.345")).StringFixed(2))
	assert.Equal(t, "2000", MonthSalary(decimal.NewFromInt(2050), decimal.NewFromInt(-100)).String())
}

func TestDeriveMonth(t *testing.T) {
	profile, err := NewProfile(gofakeit.New(7), fixedNow)
	require.NoError(t, err)

	t.Run("zero variation reuses base financials", func(t *testing.T) {
		rec := DeriveMonth(profile, 4, decimal.Zero)

		assert.Equal(t, profile.Base.Earnings, rec.Earnings)
		assert.Equal(t, profile.Base.TaxSocial, rec.TaxSocial)
		assert.Equal(t, profile.Base.Yearly, rec.Yearly)
		assert.Equal(t, profile.Base.Payout, rec.Payment.Payout)
		assert.Equal(t, "04 / 2025", rec.Details.PayPeriod)
		assert.Equal(t, "31.04.2025", rec.Details.PayrollDate)
	})

	t.Run("variation recomputes financials only", func(t *testing.T) {
		rec := DeriveMonth(profile, 2, decimal.RequireFromString("-42.17"))

		want := Derive(profile.BaseSalary.Sub(decimal.RequireFromString("42.17")))
		assert.Equal(t, want.Earnings, rec.Earnings)
		assert.Equal(t, want.TaxSocial, rec.TaxSocial)
		assert.Equal(t, want.Payout, rec.Payment.Payout)
		assert.Equal(t, profile.Employee, rec.Employee)
		assert.Equal(t, profile.Bank.IBAN, rec.Payment.IBAN)
		assert.Equal(t, 1.05, rec.Payment.EmployerSocialShare)
		assert.Equal(t, "6,57", rec.Adjustments.GroupAccidentInsurance)
	})
}

func TestNewProfile_FieldShapes(t *testing.T) {
	f := gofakeit.New(99)
	for i := 0; i < 50; i++ {
		p, err := NewProfile(f, fixedNow)
		require.NoError(t, err)

		e := p.Employee
		assert.Contains(t, []payslip.Gender{payslip.GenderMale, payslip.GenderFemale}, e.Gender)
		assert.Regexp(t, `^22\d{6}$`, e.PersonnelNumber)
		assert.Regexp(t, `^7\d{10}$`, e.TaxID)
		assert.Regexp(t, `^\d{8}\p{Lu}\d{3}$`, e.SocialInsuranceNo)
		assert.Regexp(t, `^[1-6]$`, e.TaxClass)
		assert.Regexp(t, `^\d{2}\.\d{2}\.\d{4}$`, e.EntryDate)
		assert.Regexp(t, `^\d\.\d{2} %$`, e.KVRate)
		assert.Equal(t, "9.30 %", e.RVRate)
		assert.Regexp(t, `^1\.\d{2} %$`, e.AVRate)
		assert.Regexp(t, `^1\.\d{4} %$`, e.PVRate)
		assert.Equal(t, "1111", e.ContributionGroup)
		assert.GreaterOrEqual(t, e.VacationDays, 24)
		assert.LessOrEqual(t, e.VacationDays, 30)
		assert.Contains(t, healthInsurers, e.HealthInsurer)

		birth, err := time.Parse("2006-01-02", e.BirthDate)
		require.NoError(t, err)
		assert.True(t, birth.After(fixedNow.AddDate(-66, 0, 0)))
		assert.False(t, birth.After(fixedNow.AddDate(-20, 0, 0)))

		assert.Regexp(t, `^SV\d{6}$`, p.Employer.CostCenter)
		assert.Regexp(t, `^.+ \d+, \d{5} .+$`, e.Address)
		assert.True(t, strings.HasSuffix(p.Bank.Name, " Bank"))
		assert.Equal(t, "DE", p.Bank.IBAN[:2])
		assert.Equal(t, p.Bank.RoutingCode+p.Bank.AccountNumber, p.Bank.IBAN[4:])
		assert.True(t, ValidIBAN(p.Bank.IBAN), p.Bank.IBAN)

		assert.True(t, p.BaseSalary.GreaterThanOrEqual(decimal.NewFromInt(minBaseSalary)))
		assert.True(t, p.BaseSalary.LessThanOrEqual(decimal.NewFromInt(maxBaseSalary)))
	}
}

func TestGermanIBAN(t *testing.T) {
	assert.Equal(t, "DE89370400440532013000", GermanIBAN("37040044", "0532013000"))
	assert.True(t, ValidIBAN("DE89 3704 0044 0532 0130 00"))
	assert.False(t, ValidIBAN("DE88370400440532013000"))
	assert.False(t, ValidIBAN("DE"))
}

func TestGenerate_WritesOneFilePerEmployeeMonth(t *testing.T) {
	root := t.TempDir()
	sink, err := storage.NewFileSink(root, zap.NewNop())
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	gen := NewGenerator(gofakeit.New(42), zap.New(core), WithClock(fixedClock))
	dataset, err := gen.Generate(context.Background(), sink, Options{Employees: 2, Months: 3})
	require.NoError(t, err)

	generated := logs.FilterMessage("Generated payslips for employee").All()
	require.Len(t, generated, 2)
	assert.EqualValues(t, 2, generated[1].ContextMap()["employee"])
	assert.EqualValues(t, 3, generated[1].ContextMap()["payslips"])
	assert.Equal(t, dataset.Entries[3].Name, generated[1].ContextMap()["name"])

	require.Len(t, dataset.Files, 2)
	assert.Len(t, dataset.Entries, 6)
	assert.Len(t, dataset.ManifestRows(), 6)

	for i, files := range dataset.Files {
		require.Len(t, files, 3)
		for m, file := range files {
			assert.Equal(t, filepath.Join(root, "employee_"+string(rune('1'+i))), filepath.Dir(file))
			assert.Regexp(t, `^payslip_\S+_0`+string(rune('1'+m))+`_2025\.json$`, filepath.Base(file))

			data, err := os.ReadFile(file)
			require.NoError(t, err)
			assert.False(t, strings.HasSuffix(string(data), "\n"))

			doc, err := payslip.Decode(data)
			require.NoError(t, err)
			fields := doc.Fields()
			assert.NotEmpty(t, fields.Text(payslip.GroupPayment, "Kto"))
			require.NoError(t, fields.Err())
		}
	}

	dirs, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, dirs, 2)
}

func TestGenerate_DeterministicWithSeed(t *testing.T) {
	run := func() map[string]string {
		root := t.TempDir()
		sink, err := storage.NewFileSink(root, nil)
		require.NoError(t, err)

		gen := NewGenerator(gofakeit.New(1234), nil, WithClock(fixedClock))
		_, err = gen.Generate(context.Background(), sink, Options{Employees: 3, Months: 2})
		require.NoError(t, err)

		out := map[string]string{}
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, _ := filepath.Rel(root, path)
			data, err := os.ReadFile(path)
			out[rel] = string(data)
			return err
		})
		require.NoError(t, err)
		return out
	}

	first := run()
	assert.Len(t, first, 6)
	assert.Equal(t, first, run())
}

func TestGenerate_InvalidOptions(t *testing.T) {
	sink, err := storage.NewFileSink(t.TempDir(), nil)
	require.NoError(t, err)

	gen := NewGenerator(gofakeit.New(1), nil)
	_, err = gen.Generate(context.Background(), sink, Options{Employees: -1, Months: 3})
	assert.Error(t, err)
}

func TestGenerate_StopsOnCancelledContext(t *testing.T) {
	sink, err := storage.NewFileSink(t.TempDir(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dataset, err := NewGenerator(gofakeit.New(1), nil).Generate(ctx, sink, Options{Employees: 2, Months: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dataset.Files)
}
