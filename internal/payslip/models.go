package payslip

// Group keys of a payslip record. They are the wire contract between the
// synthesizer and the renderer.
const (
	GroupEmployer    = "arbeitgeber"
	GroupEmployee    = "arbeitnehmer"
	GroupDetails     = "abrechnungsdetails"
	GroupEarnings    = "verdienst"
	GroupTaxSocial   = "steuern_sozialversicherung"
	GroupAdjustments = "be_und_abzuege"
	GroupYearly      = "jahresübersicht"
	GroupPayment     = "zahlungsdetails"
)

type Gender string

const (
	GenderMale   Gender = "Herr"
	GenderFemale Gender = "Frau"
)

// Record is one employee's payslip for one pay period.
// Field order follows the JSON key order of the written documents.
type Record struct {
	Employer    Employer    `json:"arbeitgeber"`
	Employee    Employee    `json:"arbeitnehmer"`
	Details     Details     `json:"abrechnungsdetails"`
	Earnings    Earnings    `json:"verdienst"`
	TaxSocial   TaxSocial   `json:"steuern_sozialversicherung"`
	Adjustments Adjustments `json:"be_und_abzuege"`
	Yearly      Yearly      `json:"jahresübersicht"`
	Payment     Payment     `json:"zahlungsdetails"`
}

type Employer struct {
	Name       string `json:"unternehmen"`
	Address    string `json:"unternehmen_adresse"`
	CostCenter string `json:"kostenstelle"`
}

type Employee struct {
	Gender            Gender `json:"gender"`
	Name              string `json:"name"`
	Address           string `json:"adresse"`
	PersonnelNumber   string `json:"personal_nummer"`
	BirthDate         string `json:"geburtsdatum"`
	TaxClass          string `json:"steuerklasse"`
	EntryDate         string `json:"eintrittsdatum"`
	VacationDays      int    `json:"urlaubstage"`
	SocialInsuranceNo string `json:"sv_nummer"`
	HealthInsurer     string `json:"krankenkasse"`
	ContributionGroup string `json:"beitragsgruppenschluessel"`
	TaxID             string `json:"steuer_id"`
	KVRate            string `json:"kv_prozentsatz"`
	RVRate            string `json:"rv_prozentsatz"`
	AVRate            string `json:"av_prozentsatz"`
	PVRate            string `json:"pv_prozentsatz"`
}

type Details struct {
	Title       string `json:"title"`
	PayPeriod   string `json:"pay_period"`
	PayrollDate string `json:"payroll_date"`
}

type Earnings struct {
	WageType   string  `json:"lohn_art"`
	WageLabel  string  `json:"lohn_bezeichnung"`
	BaseAmount float64 `json:"betrag"`
	GrossTotal float64 `json:"gesamt_brutto"`
}

type TaxSocial struct {
	TaxGross         float64 `json:"steuer_brutto"`
	TaxDeductions    float64 `json:"steuerrechtliche_abzüge"`
	IncomeTax        float64 `json:"lohnsteuer"`
	KVGross          float64 `json:"kv_brutto"`
	RVGross          float64 `json:"rv_brutto"`
	AVGross          float64 `json:"av_brutto"`
	PVGross          float64 `json:"pv_brutto"`
	KVContribution   float64 `json:"kv_beitrag"`
	RVContribution   float64 `json:"rv_beitrag"`
	AVContribution   float64 `json:"av_beitrag"`
	PVContribution   float64 `json:"pv_beitrag"`
	SocialDeductions float64 `json:"sv_rechtliche_abzüge"`
	NetEarnings      float64 `json:"netto_verdienst"`
}

type Adjustments struct {
	GroupAccidentInsurance string `json:"gruppenunfallversicherung"`
}

type Yearly struct {
	GrossTotal      float64 `json:"gesamt_jahres_brutto"`
	TaxGross        float64 `json:"gesamt_steuer_brutto"`
	IncomeTax       float64 `json:"lohnsteuer"`
	ChurchTax       float64 `json:"kirchensteuer"`
	SolidarityTax   float64 `json:"solidaritätszuschlag"`
	TaxFreeBenefits float64 `json:"steuerfreie_bezüge"`
	SocialGross     float64 `json:"sv_brutto"`
	KVContribution  float64 `json:"kv_beitrag"`
	RVContribution  float64 `json:"rv_beitrag"`
	AVContribution  float64 `json:"av_beitrag"`
	PVContribution  float64 `json:"pv_beitrag"`
}

type Payment struct {
	EmployerSocialShare float64 `json:"sv_ag_anteil"`
	Payout              float64 `json:"auszahlungsbetrag"`
	BankName            string  `json:"bank_employee"`
	IBAN                string  `json:"iban_employee"`
	RoutingCode         string  `json:"bankleitzahl"`
	AccountNumber       string  `json:"Kto"`
}
