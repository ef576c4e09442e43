package synth

import (
	"github.com/shopspring/decimal"

	"payslip-studio/payslip-tools/internal/money"
	"payslip-studio/payslip-tools/internal/payslip"
)

// Simplified payroll factors. Every derived amount is rounded to cents
// right after its own formula and consumers use the rounded value.
var (
	grossFactor   = decimal.RequireFromString("1.0083")
	taxGrossRate  = decimal.RequireFromString("1.0005")
	incomeTaxRate = decimal.RequireFromString("0.118")
	kvGrossRate   = decimal.RequireFromString("0.9187")

	kvRate = decimal.RequireFromString("0.0825")
	rvRate = decimal.RequireFromString("0.093")
	avRate = decimal.RequireFromString("0.013")
	pvRate = decimal.RequireFromString("0.018")

	// GWV KV Zusatz, Gruppenunfallversicherung and BENEFITS-Pass
	additionalDeductions = decimal.RequireFromString("49.74")
	monthsPerYear        = decimal.NewFromInt(12)
)

const (
	wageType               = "Grundgehalt"
	wageLabel              = "Monatsgehalt"
	payslipTitle           = "Lohnabrechnung"
	groupAccidentInsurance = "6,57"
	employerSocialShare    = 1.05
	solidarityTax          = 0.60
)

// Financials are the salary dependent parts of a payslip.
type Financials struct {
	Earnings  payslip.Earnings
	TaxSocial payslip.TaxSocial
	Yearly    payslip.Yearly
	Payout    float64
}

// Derive computes all salary dependent figures from the monthly base salary.
func Derive(baseSalary decimal.Decimal) Financials {
	base := money.Round(baseSalary)

	grossTotal := money.Round(base.Mul(grossFactor))
	taxGross := money.Round(base.Mul(taxGrossRate))
	incomeTax := money.Round(taxGross.Mul(incomeTaxRate))

	kvGross := money.Round(base.Mul(kvGrossRate))
	rvGross := taxGross
	avGross := taxGross
	pvGross := kvGross

	kv := money.Round(kvGross.Mul(kvRate))
	rv := money.Round(rvGross.Mul(rvRate))
	av := money.Round(avGross.Mul(avRate))
	pv := money.Round(pvGross.Mul(pvRate))
	social := money.Round(kv.Add(rv).Add(av).Add(pv))

	net := money.Round(grossTotal.Sub(incomeTax).Sub(social))
	payout := money.Round(net.Sub(additionalDeductions))

	yearly := func(d decimal.Decimal) float64 {
		return money.Float(money.Round(d.Mul(monthsPerYear)))
	}

	return Financials{
		Earnings: payslip.Earnings{
			WageType:   wageType,
			WageLabel:  wageLabel,
			BaseAmount: money.Float(base),
			GrossTotal: money.Float(grossTotal),
		},
		TaxSocial: payslip.TaxSocial{
			TaxGross:         money.Float(taxGross),
			TaxDeductions:    money.Float(incomeTax),
			IncomeTax:        money.Float(incomeTax),
			KVGross:          money.Float(kvGross),
			RVGross:          money.Float(rvGross),
			AVGross:          money.Float(avGross),
			PVGross:          money.Float(pvGross),
			KVContribution:   money.Float(kv),
			RVContribution:   money.Float(rv),
			AVContribution:   money.Float(av),
			PVContribution:   money.Float(pv),
			SocialDeductions: money.Float(social),
			NetEarnings:      money.Float(net),
		},
		Yearly: payslip.Yearly{
			GrossTotal:      yearly(grossTotal),
			TaxGross:        yearly(taxGross),
			IncomeTax:       yearly(incomeTax),
			ChurchTax:       0,
			SolidarityTax:   solidarityTax,
			TaxFreeBenefits: 0,
			SocialGross:     yearly(rvGross),
			KVContribution:  yearly(kv),
			RVContribution:  yearly(rv),
			AVContribution:  yearly(av),
			PVContribution:  yearly(pv),
		},
		Payout: money.Float(payout),
	}
}
