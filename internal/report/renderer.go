package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/courtside/payments-engine/internal/domain"
)

// SummaryLine is one label/value pair printed in the summary block under the
// rendered rows.
type SummaryLine struct {
	Label  string
	Amount int64
}

// Summary is the pre-computed summary block for a report. GrandTotal must
// equal the sum over the rendered records; Render refuses to emit a document
// otherwise.
type Summary struct {
	Lines      []SummaryLine
	GrandTotal int64
}

// Renderer produces paginated, watermarked PDF reports from a filtered
// record set.
type Renderer struct {
	watermark string
}

func NewRenderer(watermark string) *Renderer {
	return &Renderer{watermark: watermark}
}

var columns = []struct {
	title string
	width float64
}{
	{"Date", 24},
	{"Tournament", 48},
	{"Payer", 40},
	{"Type", 22},
	{"Status", 22},
	{"Amount", 34},
}

// Render lays out the records, stamps every page with the watermark and a
// "Page X of N" footer once the page count is known, and appends the summary
// block. The grand total is reconciled against the rows actually rendered
// before any bytes are produced: a mismatch aborts the whole render.
func (r *Renderer) Render(records []domain.PaymentRecord, summary Summary, title, subtitle string) ([]byte, error) {
	var rendered int64
	for _, rec := range records {
		rendered += rec.Amount
	}
	if rendered != summary.GrandTotal {
		return nil, fmt.Errorf("Render: rows sum to %d, summary says %d: %w",
			rendered, summary.GrandTotal, domain.ErrReconciliation)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetHeaderFunc(func() {
		r.stampWatermark(pdf)

		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(33, 33, 33)
		pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
		if subtitle != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(100, 100, 100)
			pdf.CellFormat(0, 6, subtitle, "", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
		r.tableHeader(pdf)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(33, 33, 33)
	for _, rec := range records {
		r.tableRow(pdf, rec)
	}

	r.summaryBlock(pdf, summary)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("Render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderReceipt renders the single-record payment receipt handed to a payer.
func (r *Renderer) RenderReceipt(rec domain.PaymentRecord, title string) ([]byte, error) {
	summary := Summary{
		Lines:      []SummaryLine{{Label: "Amount paid", Amount: rec.Amount}},
		GrandTotal: rec.Amount,
	}
	subtitle := fmt.Sprintf("Receipt %s", rec.ID)
	return r.Render([]domain.PaymentRecord{rec}, summary, title, subtitle)
}

func (r *Renderer) stampWatermark(pdf *fpdf.Fpdf) {
	if r.watermark == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 52)
	pdf.SetTextColor(225, 225, 225)
	pdf.TransformBegin()
	pdf.TransformRotate(45, 105, 148)
	pdf.Text(35, 160, r.watermark)
	pdf.TransformEnd()
}

func (r *Renderer) tableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(33, 33, 33)
	for _, col := range columns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func (r *Renderer) tableRow(pdf *fpdf.Fpdf, rec domain.PaymentRecord) {
	payer := "-"
	if rec.PayerName != nil && *rec.PayerName != "" {
		payer = *rec.PayerName
	} else if rec.PayerRef != nil {
		payer = rec.PayerRef.String()[:8]
	}

	cells := []string{
		rec.CreatedAt.Format(time.DateOnly),
		truncate(rec.TournamentName, 30),
		truncate(payer, 24),
		string(rec.PayerType),
		string(rec.Status),
		domain.FormatAmount(rec.Amount),
	}
	for i, col := range columns {
		align := "L"
		if i == len(columns)-1 {
			align = "R"
		}
		pdf.CellFormat(col.width, 6, cells[i], "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func (r *Renderer) summaryBlock(pdf *fpdf.Fpdf, summary Summary) {
	pdf.Ln(6)

	labelWidth := 0.0
	for _, col := range columns[:len(columns)-1] {
		labelWidth += col.width
	}
	amountWidth := columns[len(columns)-1].width

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range summary.Lines {
		pdf.CellFormat(labelWidth, 6, line.Label, "", 0, "R", false, 0, "")
		pdf.CellFormat(amountWidth, 6, domain.FormatAmount(line.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelWidth, 7, "Grand total", "", 0, "R", false, 0, "")
	pdf.CellFormat(amountWidth, 7, domain.FormatAmount(summary.GrandTotal), "1", 1, "R", false, 0, "")
}

// Filename derives the download filename from the report title.
func Filename(title string) string {
	name := strings.ToLower(strings.TrimSpace(title))
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		name = "report"
	}
	return name + ".pdf"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "."
}
