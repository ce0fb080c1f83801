package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/logging"
	"github.com/courtside/payments-engine/internal/report"
)

// reportQueryLimit caps how many rows a single document may carry.
const reportQueryLimit = 5000

type reportRecordStore interface {
	GetRecord(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error)
	ListRecords(ctx context.Context, f domain.Filter, page domain.Page) ([]domain.PaymentRecord, int, error)
}

type documentRenderer interface {
	Render(records []domain.PaymentRecord, summary report.Summary, title, subtitle string) ([]byte, error)
	RenderReceipt(rec domain.PaymentRecord, title string) ([]byte, error)
}

// ReportHandler streams rendered financial documents. Authorization for a
// given record set is enforced upstream; the handler only renders what the
// pre-authorized query returns.
type ReportHandler struct {
	records  reportRecordStore
	renderer documentRenderer
}

func NewReportHandler(records reportRecordStore, renderer documentRenderer) *ReportHandler {
	return &ReportHandler{records: records, renderer: renderer}
}

func (h *ReportHandler) PaymentsReport(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	f, _, fields := parseFilter(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		title = "Payments Report"
	}
	subtitle := r.URL.Query().Get("subtitle")

	records, total, err := h.records.ListRecords(r.Context(), f, domain.Page{Limit: reportQueryLimit})
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	if total > reportQueryLimit {
		RespondValidationError(w, []FieldError{{
			Field:   "q",
			Message: fmt.Sprintf("filter matches %d records, narrow it below %d", total, reportQueryLimit),
		}})
		return
	}

	doc, err := h.renderer.Render(records, buildSummary(records), title, subtitle)
	if err != nil {
		// A reconciliation failure must surface as a generation error,
		// never as a partial document.
		log.Error("report generation failed", "error", err, "records", len(records))
		RespondDomainError(w, err)
		return
	}

	respondPDF(w, report.Filename(title), doc)
}

func (h *ReportHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a valid UUID"}})
		return
	}

	rec, err := h.records.GetRecord(r.Context(), recordID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	title := fmt.Sprintf("Payment Receipt %s", rec.TournamentName)
	doc, err := h.renderer.RenderReceipt(*rec, title)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	respondPDF(w, report.Filename(title), doc)
}

// buildSummary recomputes the per-status breakdown and grand total directly
// from the rows being rendered, so the renderer's reconciliation check is
// against the same set.
func buildSummary(records []domain.PaymentRecord) report.Summary {
	byStatus := map[domain.PaymentStatus]int64{}
	var grand int64
	for _, rec := range records {
		byStatus[rec.Status] += rec.Amount
		grand += rec.Amount
	}

	var lines []report.SummaryLine
	for _, status := range []domain.PaymentStatus{
		domain.PaymentStatusSuccess,
		domain.PaymentStatusPending,
		domain.PaymentStatusFailed,
		domain.PaymentStatusRefunded,
	} {
		if total, ok := byStatus[status]; ok {
			lines = append(lines, report.SummaryLine{
				Label:  fmt.Sprintf("Total %s", status),
				Amount: total,
			})
		}
	}

	return report.Summary{Lines: lines, GrandTotal: grand}
}

func respondPDF(w http.ResponseWriter, filename string, doc []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
