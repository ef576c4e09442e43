package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ptMM converts typographic points to millimetres.
const ptMM = 25.4 / 72

// Lohnart and personal data column widths in millimetres.
var (
	personalColumnWidths = [4]float64{20, 20, 20, 30}
	lohnartColumnWidths  = [LohnartColumns]float64{50, 15, 15, 20, 15, 25, 25}
)

// PDFGenerator renders filled payslip layouts to PDF
type PDFGenerator struct {
	options PDFOptions
}

// PDFOptions configures PDF generation
type PDFOptions struct {
	PageSize     string     `json:"page_size"`
	Orientation  string     `json:"orientation"` // portrait, landscape
	Title        string     `json:"title"`
	Author       string     `json:"author,omitempty"`
	Creator      string     `json:"creator,omitempty"`
	FontFamily   string     `json:"font_family"`
	ShadeColor   PDFColor   `json:"shade_color"`
	Margins      PDFMargins `json:"margins"`
	HeaderHeight float64    `json:"header_height"`
	// TrailingPageBreak ends every payslip with an explicit page break,
	// which leaves an empty last page.
	TrailingPageBreak bool `json:"trailing_page_break"`
	// CreationDate is stamped into the document info; zero means now.
	CreationDate time.Time `json:"-"`
}

// PDFColor represents an RGB color
type PDFColor struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// PDFMargins represents page margins in millimetres
type PDFMargins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// DefaultPDFOptions returns default PDF options
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageSize:          "A4",
		Orientation:       "portrait",
		Title:             "Entgeltabrechnung",
		Creator:           "payslip-render",
		FontFamily:        "Helvetica",
		ShadeColor:        PDFColor{R: 211, G: 211, B: 211},
		HeaderHeight:      55,
		TrailingPageBreak: true,
		Margins: PDFMargins{
			Left:   15,
			Right:  15,
			Top:    10,
			Bottom: 5,
		},
	}
}

// NewPDFGenerator creates a new PDF generator
func NewPDFGenerator(options PDFOptions) *PDFGenerator {
	return &PDFGenerator{options: options}
}

// Options returns the options the generator was created with.
func (g *PDFGenerator) Options() PDFOptions {
	return g.options
}

// Render encodes layout as a PDF document.
func (g *PDFGenerator) Render(layout *Layout) ([]byte, error) {
	pdf, err := g.Document(layout)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Document lays out the payslip on a fresh gofpdf document without
// encoding it.
func (g *PDFGenerator) Document(layout *Layout) (*gofpdf.Fpdf, error) {
	if layout == nil {
		return nil, fmt.Errorf("nothing to render")
	}

	orientation := "P"
	if g.options.Orientation == "landscape" {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "mm", g.options.PageSize, "")
	pdf.SetMargins(g.options.Margins.Left, g.options.Margins.Top, g.options.Margins.Right)
	pdf.SetAutoPageBreak(true, g.options.Margins.Bottom)
	pdf.SetTitle(g.options.Title, true)
	pdf.SetAuthor(g.options.Author, true)
	pdf.SetCreator(g.options.Creator, true)
	if !g.options.CreationDate.IsZero() {
		pdf.SetCreationDate(g.options.CreationDate)
	}

	p := &page{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		options: g.options,
	}

	pdf.AddPage()
	y := g.options.Margins.Top + 5

	headerWidth := 200.0
	x := p.centeredX(headerWidth)
	p.headerLeft(layout.HeaderLeft, x, y)
	p.personalData(layout.PersonalData, x+headerWidth/2, y)

	y += g.options.HeaderHeight + 10*ptMM + 11
	y = p.lohnart(layout.Lohnart, y)

	y += 10
	for i, paragraph := range layout.Footer {
		if i > 0 {
			y += 5
		}
		y = p.centeredParagraph(paragraph, y)
	}

	if g.options.TrailingPageBreak {
		pdf.AddPage()
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to lay out PDF: %w", err)
	}
	return pdf, nil
}

type page struct {
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	options PDFOptions
}

func (p *page) centeredX(width float64) float64 {
	pageWidth, _ := p.pdf.GetPageSize()
	available := pageWidth - p.options.Margins.Left - p.options.Margins.Right
	return p.options.Margins.Left + (available-width)/2
}

func (p *page) shade() {
	c := p.options.ShadeColor
	p.pdf.SetFillColor(c.R, c.G, c.B)
}

func (p *page) font(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	p.pdf.SetFont(p.options.FontFamily, style, size)
}

// headerLeft writes the title, period and address lines.
func (p *page) headerLeft(lines []Line, x, y float64) {
	const (
		width   = 100.0
		padding = 8 * ptMM
	)
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.SetCellMargin(6 * ptMM)

	y += 5 * ptMM
	for _, l := range lines {
		if l.Gap > 0 {
			y += l.Gap + padding
		}
		h := (l.Size + 1) * ptMM
		p.font(l.Bold, l.Size)
		p.pdf.SetXY(x, y+3*ptMM)
		p.pdf.CellFormat(width, h, p.tr(l.Text), "", 0, "LM", false, 0, "")
		y += h + padding
	}
}

// personalData draws the bordered grid right of the address block.
func (p *page) personalData(rows [][4]string, x, y float64) {
	const size = 6.0
	rowHeight := (size*1.2 + 4) * ptMM

	pdf := p.pdf
	pdf.SetCellMargin(6 * ptMM)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetTextColor(0, 0, 0)
	y += 5 * ptMM

	total := 0.0
	for _, w := range personalColumnWidths {
		total += w
	}

	for i, row := range rows {
		fill := ShadedPersonalRows[i]
		if fill {
			p.shade()
		}
		pdf.SetLineWidth(0.3 * ptMM)

		if i == 0 {
			p.font(true, size+1)
			pdf.SetXY(x, y)
			pdf.CellFormat(total, rowHeight, p.tr(row[0]), "1", 0, "LT", fill, 0, "")
		} else {
			p.font(false, size)
			cx := x
			for c, text := range row {
				pdf.SetXY(cx, y)
				pdf.CellFormat(personalColumnWidths[c], rowHeight, p.tr(text), "1", 0, "LM", fill, 0, "")
				cx += personalColumnWidths[c]
			}
		}

		pdf.SetLineWidth(0.5 * ptMM)
		switch i {
		case 1:
			pdf.Line(x, y+rowHeight, x+total, y+rowHeight)
		case 3:
			pdf.Line(x, y, x+total, y)
		}
		y += rowHeight
	}
}

// lohnart draws the earnings and deductions table and returns the y
// position below it.
func (p *page) lohnart(rows []Row, y float64) float64 {
	const (
		size      = 8.0
		labelSize = 9.0
	)
	rowHeight := (labelSize*1.2 + 4) * ptMM

	pdf := p.pdf
	pdf.SetCellMargin(5 * ptMM)
	pdf.SetTextColor(0, 0, 0)

	total := 0.0
	for _, w := range lohnartColumnWidths {
		total += w
	}
	x := p.centeredX(total)
	top := y

	for _, row := range rows {
		fill := row.Kind == RowHeader
		if fill {
			p.shade()
		}

		cx := x
		for c, text := range row.Cells {
			bold := row.Kind == RowSection && c < 5 && text != ""
			switch {
			case bold:
				p.font(true, size)
			case c == 0 && row.Kind != RowHeader:
				p.font(false, labelSize)
			default:
				p.font(false, size)
			}

			align := "RM"
			if c == 0 {
				align = "LM"
			}
			pdf.SetXY(cx, y)
			pdf.CellFormat(lohnartColumnWidths[c], rowHeight, p.tr(text), "", 0, align, fill, 0, "")
			cx += lohnartColumnWidths[c]
		}
		y += rowHeight
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5 * ptMM)
	cx := x
	for c, w := range lohnartColumnWidths {
		cx += w
		if c == 4 || c == 5 {
			pdf.Line(cx, top, cx, y)
		}
	}
	pdf.SetLineWidth(1 * ptMM)
	pdf.Rect(x, top, total, y-top, "D")

	return y
}

// centeredParagraph writes lines centred across the text width, wrapping
// long lines.
func (p *page) centeredParagraph(lines []string, y float64) float64 {
	const size = 8.0
	lineHeight := 10 * ptMM

	p.font(false, size)
	p.pdf.SetCellMargin(1)
	for _, line := range lines {
		p.pdf.SetXY(p.options.Margins.Left, y)
		p.pdf.MultiCell(0, lineHeight, p.tr(line), "", "C", false)
		y = p.pdf.GetY()
	}
	return y
}
