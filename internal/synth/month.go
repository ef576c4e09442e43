package synth

import (
	"fmt"

	"github.com/shopspring/decimal"

	"payslip-studio/payslip-tools/internal/money"
	"payslip-studio/payslip-tools/internal/payslip"
)

const payYear = 2025

var minimumSalary = decimal.NewFromInt(2000)

// MonthSalary applies a monthly variation to the base salary, never going
// below the minimum salary.
func MonthSalary(base, variation decimal.Decimal) decimal.Decimal {
	return decimal.Max(minimumSalary, money.Round(base.Add(variation)))
}

// DeriveMonth builds the record for one month of a profile. A zero variation
// reuses the profile's base financials unchanged; any other variation
// recomputes them from the varied salary.
func DeriveMonth(p Profile, month int, variation decimal.Decimal) payslip.Record {
	fin := p.Base
	if !variation.IsZero() {
		fin = Derive(MonthSalary(p.BaseSalary, variation))
	}

	return payslip.Record{
		Employer: p.Employer,
		Employee: p.Employee,
		Details: payslip.Details{
			Title:       payslipTitle,
			PayPeriod:   fmt.Sprintf("%02d / %d", month, payYear),
			PayrollDate: fmt.Sprintf("31.%02d.%d", month, payYear),
		},
		Earnings:  fin.Earnings,
		TaxSocial: fin.TaxSocial,
		Adjustments: payslip.Adjustments{
			GroupAccidentInsurance: groupAccidentInsurance,
		},
		Yearly: fin.Yearly,
		Payment: payslip.Payment{
			EmployerSocialShare: employerSocialShare,
			Payout:              fin.Payout,
			BankName:            p.Bank.Name,
			IBAN:                p.Bank.IBAN,
			RoutingCode:         p.Bank.RoutingCode,
			AccountNumber:       p.Bank.AccountNumber,
		},
	}
}
