package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/payments-engine/internal/domain"
)

func sampleRecords(n int) []domain.PaymentRecord {
	records := make([]domain.PaymentRecord, 0, n)
	for i := 0; i < n; i++ {
		payerRef := uuid.New()
		payerName := "Team Alpha"
		records = append(records, domain.PaymentRecord{
			ID:              uuid.New(),
			TournamentRef:   uuid.New(),
			OrganizerRef:    uuid.New(),
			TournamentName:  "Regional Finals",
			PayerType:       domain.PayerTypeTeam,
			PayerRef:        &payerRef,
			PayerName:       &payerName,
			Amount:          int64(1000 * (i + 1)),
			Currency:        domain.CurrencyINR,
			Status:          domain.PaymentStatusSuccess,
			ProviderOrderID: "order_" + uuid.NewString(),
			CreatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		})
	}
	return records
}

func sumAmounts(records []domain.PaymentRecord) int64 {
	var total int64
	for _, rec := range records {
		total += rec.Amount
	}
	return total
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("COURTSIDE")
	records := sampleRecords(3)
	summary := Summary{
		Lines:      []SummaryLine{{Label: "Total success", Amount: sumAmounts(records)}},
		GrandTotal: sumAmounts(records),
	}

	doc, err := r.Render(records, summary, "Payments Report", "March 2026")
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "output must be a PDF document")
}

func TestRenderFailsOnReconciliationMismatch(t *testing.T) {
	r := NewRenderer("COURTSIDE")
	records := sampleRecords(2)

	// Summary computed from a divergent record set.
	summary := Summary{GrandTotal: sumAmounts(records) + 1}

	doc, err := r.Render(records, summary, "Payments Report", "")
	assert.ErrorIs(t, err, domain.ErrReconciliation)
	assert.Nil(t, doc, "no partial document on mismatch")
}

func TestRenderEmptySet(t *testing.T) {
	r := NewRenderer("COURTSIDE")

	doc, err := r.Render(nil, Summary{GrandTotal: 0}, "Empty Report", "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRenderPaginatesLargeSets(t *testing.T) {
	r := NewRenderer("COURTSIDE")
	records := sampleRecords(120)
	summary := Summary{GrandTotal: sumAmounts(records)}

	doc, err := r.Render(records, summary, "Season Report", "All payments")
	require.NoError(t, err)

	// 120 rows cannot fit one A4 page; the alias footer must have resolved
	// to a multi-page count.
	assert.Greater(t, bytes.Count(doc, []byte("/Page")), 1)
}

func TestRenderReceipt(t *testing.T) {
	r := NewRenderer("COURTSIDE")
	rec := sampleRecords(1)[0]

	doc, err := r.RenderReceipt(rec, "Payment Receipt")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Payments Report", "payments_report.pdf"},
		{"  Spring   Invitational Revenue ", "spring_invitational_revenue.pdf"},
		{"report", "report.pdf"},
		{"", "report.pdf"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Filename(tc.title))
	}
}
