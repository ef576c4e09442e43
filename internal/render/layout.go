// Package render turns payslip documents into printable PDF payslips.
package render

import (
	"strings"

	"payslip-studio/payslip-tools/internal/money"
	"payslip-studio/payslip-tools/internal/payslip"
)

// Text styles of the header block, in points.
const (
	sizeMicro  = 6.0
	sizeNormal = 8.0
)

// Line is one line of the header-left block. Gap adds vertical space in
// millimetres before the line.
type Line struct {
	Text string
	Bold bool
	Size float64
	Gap  float64
}

// RowKind decides how a Lohnart table row is styled.
type RowKind int

const (
	RowItem RowKind = iota
	RowHeader
	RowSection
)

// LohnartColumns is the number of columns of the Lohnart table.
const LohnartColumns = 7

// Row is one row of the Lohnart table.
type Row struct {
	Kind  RowKind
	Cells [LohnartColumns]string
}

// Layout is a fully filled payslip template, independent of the PDF backend.
type Layout struct {
	Title        string
	HeaderLeft   []Line
	PersonalData [][4]string
	Lohnart      []Row
	Footer       [][]string

	// Payout is the transferred amount, nil when the record has none.
	Payout *float64
}

const (
	periodSeparator   = " / "
	periodReplacement = ".12.2025 bis 31."
)

// PeriodLine renders the "für den Zeitraum" line by splicing the pay period
// string. The splice is textual: "03 / 2025" yields "03.12.2025 bis 31.2025.2025".
func PeriodLine(payPeriod string) string {
	return "für den Zeitraum vom " + strings.ReplaceAll(payPeriod, periodSeparator, periodReplacement) + ".2025"
}

// MonthLine renders the "im Monat" line.
func MonthLine(payPeriod, payrollDate string) string {
	return "im Monat " + payPeriod + " " + payrollDate + " Seite 1/1"
}

var footer = [][]string{
	{
		"Wenn du Fragen zu deiner Verdienstabrechnung hast, dann nutze bitte das HR Serviceportal. Dies findest du im Self-Service-Portal in",
		"Confluence unter 'Viel genutzt'- Human Resources.",
	},
	{
		"Bescheinigung gemäß § 108 Absatz 3 Satz 1 Gewerbeordnung. Bitte sorgfältig aufbewahren.",
		"Kennzeichen: (E)inmalzahlung, (L)ohnsteuer-, (S)V-pflichtig, (G)esamtbrutto",
	},
}

// BuildLayout fills the payslip template from doc. A missing or mistyped
// field is reported as a *payslip.FieldError naming its path.
func BuildLayout(doc *payslip.Document) (*Layout, error) {
	f := doc.Fields()

	layout := &Layout{
		Title:        "ENTGELTABRECHNUNG",
		HeaderLeft:   headerLeft(f),
		PersonalData: personalData(f),
		Lohnart:      lohnart(f),
		Footer:       footer,
		Payout:       f.Amount(payslip.GroupPayment, "auszahlungsbetrag"),
	}
	if err := f.Err(); err != nil {
		return nil, err
	}
	return layout, nil
}

func headerLeft(f *payslip.FieldReader) []Line {
	period := f.Text(payslip.GroupDetails, "pay_period")
	payrollDate := f.Text(payslip.GroupDetails, "payroll_date")

	return []Line{
		{Text: "ENTGELTABRECHNUNG", Bold: true, Size: sizeNormal},
		{Text: PeriodLine(period), Size: sizeMicro},
		{Text: MonthLine(period, payrollDate), Size: sizeMicro},
		{Text: f.Text(payslip.GroupEmployer, "unternehmen"), Bold: true, Size: sizeNormal, Gap: 1},
		{Text: f.Text(payslip.GroupEmployer, "unternehmen_adresse"), Size: sizeMicro},
		{Text: f.Text(payslip.GroupEmployee, "gender"), Bold: true, Size: sizeNormal, Gap: 2},
		{Text: f.Text(payslip.GroupEmployee, "name"), Size: sizeNormal},
		{Text: f.Text(payslip.GroupEmployee, "adresse"), Size: sizeMicro},
	}
}

// personalData is the 11×4 grid on the right of the header. Row 0 is a
// title spanning all columns; odd rows and row 0 are shaded labels.
func personalData(f *payslip.FieldReader) [][4]string {
	emp := func(key string) string { return f.Text(payslip.GroupEmployee, key) }

	return [][4]string{
		{"Persönliche / Organisatorische Daten", "", "", ""},
		{"Personalnummer", "Kostenstelle", "Tarifgruppe/-sufe", "Beschäftigungsgrad"},
		{emp("personal_nummer"), f.Text(payslip.GroupEmployer, "kostenstelle"), "OT /", "100,00"},
		{"Geburtsdatum", "Eintritt", "Austritt", "Steuer-ID"},
		{emp("geburtsdatum"), emp("eintrittsdatum"), "", emp("steuer_id")},
		{"Steuerklasse", "Faktor", "Kinderfreibeträge", "Konfession AN/EG"},
		{emp("steuerklasse"), "0,0", "", "-- /"},
		{"KV-Prozentsatz", "RV-Prozentsatz", "AV-Prozentsatz", "PV-Prozentsatz"},
		{emp("kv_prozentsatz"), emp("rv_prozentsatz"), emp("av_prozentsatz"), emp("pv_prozentsatz")},
		{"Krankenkasse", "Bgrs", "RV-Nummer", ""},
		{emp("krankenkasse"), emp("beitragsgruppenschluessel"), emp("sv_nummer"), ""},
	}
}

// ShadedPersonalRows are the shaded rows of the personal data grid.
var ShadedPersonalRows = map[int]bool{0: true, 1: true, 3: true, 5: true, 7: true, 9: true}

func lohnart(f *payslip.FieldReader) []Row {
	cur := func(group, key string) string { return money.FormatCurrency(f.Amount(group, key)) }
	earn := func(key string) string { return cur(payslip.GroupEarnings, key) }
	tax := func(key string) string { return cur(payslip.GroupTaxSocial, key) }
	pay := func(key string) string { return cur(payslip.GroupPayment, key) }

	item := func(cells ...string) Row {
		r := Row{Kind: RowItem}
		copy(r.Cells[:], cells)
		return r
	}
	section := func(cells ...string) Row {
		r := item(cells...)
		r.Kind = RowSection
		return r
	}
	deduction := func(label, key string) Row {
		v := tax(key) + "-"
		return item(label, "", v, "", "", v, "")
	}
	socialGross := func(label, key string) Row {
		v := tax(key)
		return item(label, "", v, "", v, "", v)
	}

	gross := earn("gesamt_brutto")
	taxGross := tax("steuer_brutto")
	svShare := pay("sv_ag_anteil")

	rows := []Row{
		{Kind: RowHeader, Cells: [LohnartColumns]string{"Lohnart", "", "", "", "", "Betrag", "Jahreswert"}},
		section("Basisbezüge:", "Kenn.", "Anzahl", "Betrag/E", "Zusatz"),
		item("1005 "+f.Text(payslip.GroupEarnings, "lohn_bezeichnung"), "LSG", "1", "", "", earn("betrag"), gross),
		item("Zusätze:"),
		item("2301 GWV KV Zusatz MA", "LSG", "", "", "", "3,17"),
		item("2GUV Gruppenunfallversicherung", "", "", "6,57", "", "6,57", "6,57"),
		item("2072 SB 88 BENEFITS-Pass", "LSG", "", "", "", "40,00"),

		section("Bruttoentgelt:", "", "Lfd.Bez:", "Ein.Bez:", "Summe:"),
		item("Z10E Gesamtbrutto", "", "", "", "", gross, gross),
		item("ZSBS Steuerbrutto", "", taxGross, "", "", taxGross, taxGross),
		item("ZSTG Pausch ST-Brutto AG", "", "", "", "", "0,00", "0,00"),
		socialGross("ZKBS SV-Brutto KV/PV", "kv_brutto"),
		socialGross("ZRBS SV-Brutto RV", "rv_brutto"),
		socialGross("ZRBS SV-Brutto AV", "av_brutto"),

		section("Gesetzliche Abzüge:"),
		deduction("ZLSS Lohnsteuer", "lohnsteuer"),
		deduction("ZKVS Krankenversicherung", "kv_beitrag"),
		deduction("ZRVS Rentenversicherung", "rv_beitrag"),
		deduction("ZAVS Arbeitslosenversicherung", "av_beitrag"),
		deduction("ZPVS Pflegeversicherung", "pv_beitrag"),

		section("Netto:", "", "", "", "", tax("netto_verdienst")),
		item("Gesetzliches Netto"),

		section("Be- und Abzüge:"),
		item("2301 GWV KV Zusatz MA", "", "", "", "", "3,17-"),
		item("ZGUV Gruppenunfallversicherung", "", "", "", "", "6,57-"),
		item("2072 SB 88 BENEFITS-Pass", "", "", "", "", "40,00-"),
		item("/408 LSt pausch AG", "", "", "", "", svShare, svShare),

		section("Zahlungen:"),
		item("/559 Überweisung", "", "", "", "", pay("auszahlungsbetrag")+" EUR"),
		item(f.Text(payslip.GroupPayment, "bank_employee"),
			"BLZ: "+f.Text(payslip.GroupPayment, "bankleitzahl"), "",
			"Kto: "+f.Text(payslip.GroupPayment, "Kto")),
		item("", f.Text(payslip.GroupPayment, "iban_employee")),
	}
	return rows
}
