package synth

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"payslip-studio/payslip-tools/internal/money"
	"payslip-studio/payslip-tools/internal/payslip"
)

const (
	minBaseSalary = 3000
	maxBaseSalary = 8000

	contributionGroup = "1111"
	pensionRate       = "9.30 %"
)

// Bank holds an employee's payout account.
type Bank struct {
	Name          string
	IBAN          string
	RoutingCode   string
	AccountNumber string
}

// Profile is everything about one employee that stays fixed across months.
type Profile struct {
	Employer   payslip.Employer
	Employee   payslip.Employee
	Bank       Bank
	BaseSalary decimal.Decimal
	Base       Financials
}

// NewProfile draws a complete employee profile from f. Dates are relative to now.
func NewProfile(f *gofakeit.Faker, now time.Time) (Profile, error) {
	employee, err := newEmployee(f, now)
	if err != nil {
		return Profile{}, err
	}

	base := money.Round(decimal.NewFromFloat(f.Float64Range(minBaseSalary, maxBaseSalary)))

	return Profile{
		Employer: payslip.Employer{
			Name:       companyName(f),
			Address:    streetAddress(f),
			CostCenter: "SV" + f.Numerify("######"),
		},
		Employee:   employee,
		Bank:       newBank(f),
		BaseSalary: base,
		Base:       Derive(base),
	}, nil
}

func newEmployee(f *gofakeit.Faker, now time.Time) (payslip.Employee, error) {
	choice, err := f.Weighted(
		[]any{payslip.GenderMale, payslip.GenderFemale},
		[]float32{60, 40},
	)
	if err != nil {
		return payslip.Employee{}, fmt.Errorf("failed to pick gender: %w", err)
	}
	gender := choice.(payslip.Gender)

	firstNames := maleFirstNames
	if gender == payslip.GenderFemale {
		firstNames = femaleFirstNames
	}
	lastName := f.RandomString(lastNames)

	birthDate := f.DateRange(now.AddDate(-66, 0, 1), now.AddDate(-20, 0, 0))
	entryDate := f.DateRange(now.AddDate(-10, 0, 0), now)

	return payslip.Employee{
		Gender:            gender,
		Name:              f.RandomString(firstNames) + " " + lastName,
		Address:           streetAddress(f),
		PersonnelNumber:   "22" + f.Numerify("######"),
		BirthDate:         birthDate.Format("2006-01-02"),
		TaxClass:          fmt.Sprint(f.Number(1, 6)),
		EntryDate:         entryDate.Format("02.01.2006"),
		VacationDays:      f.Number(24, 30),
		SocialInsuranceNo: f.Numerify("########") + initial(lastName) + f.Numerify("###"),
		HealthInsurer:     f.RandomString(healthInsurers),
		ContributionGroup: contributionGroup,
		TaxID:             "7" + f.Numerify("##########"),
		KVRate:            fmt.Sprintf("%.2f %%", f.Float64Range(7.8, 8.5)),
		RVRate:            pensionRate,
		AVRate:            fmt.Sprintf("%.2f %%", f.Float64Range(1.2, 1.3)),
		PVRate:            fmt.Sprintf("%.4f %%", f.Float64Range(1.7, 1.9)),
	}, nil
}

func newBank(f *gofakeit.Faker) Bank {
	routing := f.Numerify("########")
	account := f.Numerify("##########")
	return Bank{
		Name:          companyName(f) + " Bank",
		IBAN:          GermanIBAN(routing, account),
		RoutingCode:   routing,
		AccountNumber: account,
	}
}

func companyName(f *gofakeit.Faker) string {
	if f.Bool() {
		return f.RandomString(lastNames) + " " + f.RandomString(companySuffixes)
	}
	return f.RandomString(lastNames) + " " + f.RandomString(lastNames) + " " + f.RandomString(companySuffixes)
}

// streetAddress renders "Hauptstraße 12, 10115 Berlin".
func streetAddress(f *gofakeit.Faker) string {
	c := cities[f.Number(0, len(cities)-1)]
	return fmt.Sprintf("%s %d, %s%s %s",
		f.RandomString(streetNames), f.Number(1, 199), c.postcode, f.Numerify("###"), c.name)
}

func initial(name string) string {
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return ""
}

// fileName is the base name of a payslip file for the given month.
func fileName(employeeName string, month int) string {
	return fmt.Sprintf("payslip_%s_%02d_%d.json", strings.ReplaceAll(employeeName, " ", "_"), month, payYear)
}
