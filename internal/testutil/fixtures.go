package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
)

// RecordOption mutates a seeded payment record before insert.
type RecordOption func(*domain.PaymentRecord)

func WithStatus(s domain.PaymentStatus) RecordOption {
	return func(r *domain.PaymentRecord) { r.Status = s }
}

func WithAmount(amount int64) RecordOption {
	return func(r *domain.PaymentRecord) { r.Amount = amount }
}

func WithPayerType(p domain.PayerType) RecordOption {
	return func(r *domain.PaymentRecord) {
		r.PayerType = p
		if p == domain.PayerTypeOrganizer {
			r.PayerRef = nil
			r.PayerName = nil
		}
	}
}

func WithPayerRef(ref uuid.UUID) RecordOption {
	return func(r *domain.PaymentRecord) { r.PayerRef = &ref }
}

func WithOrganizerRef(ref uuid.UUID) RecordOption {
	return func(r *domain.PaymentRecord) { r.OrganizerRef = ref }
}

func WithTournamentName(name string) RecordOption {
	return func(r *domain.PaymentRecord) { r.TournamentName = name }
}

func WithPayerName(name string) RecordOption {
	return func(r *domain.PaymentRecord) { r.PayerName = &name }
}

func WithCreatedAt(ts time.Time) RecordOption {
	return func(r *domain.PaymentRecord) {
		r.CreatedAt = ts
		r.UpdatedAt = ts
	}
}

// SeedPaymentRecord inserts a record with sensible defaults: a pending team
// registration of 10000 minor units.
func SeedPaymentRecord(t *testing.T, db *sql.DB, opts ...RecordOption) *domain.PaymentRecord {
	t.Helper()

	payerRef := uuid.New()
	payerName := "Test Team"
	now := time.Now().UTC()

	rec := &domain.PaymentRecord{
		ID:              uuid.New(),
		TournamentRef:   uuid.New(),
		OrganizerRef:    uuid.New(),
		TournamentName:  "Spring Invitational",
		PayerType:       domain.PayerTypeTeam,
		PayerRef:        &payerRef,
		PayerName:       &payerName,
		Amount:          10000,
		Currency:        domain.CurrencyINR,
		Status:          domain.PaymentStatusPending,
		ProviderOrderID: "order_" + uuid.NewString(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(rec)
	}

	if rec.Status == domain.PaymentStatusSuccess || rec.Status == domain.PaymentStatusRefunded {
		if rec.ProviderPaymentID == nil {
			paymentID := "pay_" + uuid.NewString()
			sig := "sig_" + uuid.NewString()
			rec.ProviderPaymentID = &paymentID
			rec.ProviderSignature = &sig
		}
	}

	_, err := db.Exec(
		`INSERT INTO payment_records (
			id, tournament_ref, organizer_ref, tournament_name,
			payer_type, payer_ref, payer_name, amount, currency, status,
			provider_order_id, provider_payment_id, provider_signature, failure_reason,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		rec.ID, rec.TournamentRef, rec.OrganizerRef, rec.TournamentName,
		rec.PayerType, rec.PayerRef, rec.PayerName, rec.Amount, rec.Currency, rec.Status,
		rec.ProviderOrderID, rec.ProviderPaymentID, rec.ProviderSignature, rec.FailureReason,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed payment record: %v", err)
	}
	return rec
}

// GetRecordStatus reads a record's status straight from the table.
func GetRecordStatus(t *testing.T, db *sql.DB, id uuid.UUID) domain.PaymentStatus {
	t.Helper()
	var status domain.PaymentStatus
	if err := db.QueryRow(`SELECT status FROM payment_records WHERE id = $1`, id).Scan(&status); err != nil {
		t.Fatalf("get record status: %v", err)
	}
	return status
}
