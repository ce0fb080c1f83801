package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
)

const paymentColumns = `id, tournament_ref, organizer_ref, tournament_name,
	payer_type, payer_ref, payer_name, amount, currency, status,
	provider_order_id, provider_payment_id, provider_signature, failure_reason,
	created_at, updated_at`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	if record.Amount <= 0 {
		return fmt.Errorf("Create: %w", domain.ErrInvalidAmount)
	}
	if record.TournamentRef == uuid.Nil || record.OrganizerRef == uuid.Nil || !record.PayerType.IsValid() {
		return fmt.Errorf("Create: %w", domain.ErrValidation)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_records (
			id, tournament_ref, organizer_ref, tournament_name,
			payer_type, payer_ref, payer_name, amount, currency, status,
			provider_order_id, provider_payment_id, provider_signature, failure_reason,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16
		)`,
		record.ID, record.TournamentRef, record.OrganizerRef, record.TournamentName,
		record.PayerType, record.PayerRef, record.PayerName, record.Amount, record.Currency, record.Status,
		record.ProviderOrderID, record.ProviderPaymentID, record.ProviderSignature, record.FailureReason,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: duplicate provider order: %w", domain.ErrValidation)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payment_records WHERE id = $1`, id,
	)
	rec, err := scanPaymentRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return rec, nil
}

// UpdateStatus is a compare-and-swap on the record's status. The transition
// is a single UPDATE guarded by the expected current status, so two
// concurrent callback deliveries cannot both finalize the same record: the
// loser sees zero rows and gets ErrInvalidTransition. Amount and currency
// are never touched here.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, expected, next domain.PaymentStatus, providerPaymentID, providerSignature, failureReason *string) error {
	if !domain.CanTransition(expected, next) {
		return fmt.Errorf("UpdateStatus: %s -> %s: %w", expected, next, domain.ErrInvalidTransition)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE payment_records
		SET status = $1,
			provider_payment_id = COALESCE($2, provider_payment_id),
			provider_signature = COALESCE($3, provider_signature),
			failure_reason = $4,
			updated_at = now()
		WHERE id = $5 AND status = $6`,
		next, providerPaymentID, providerSignature, failureReason, id, expected,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStatus: rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM payment_records WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("UpdateStatus: %w", err)
		}
		if !exists {
			return fmt.Errorf("UpdateStatus: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("UpdateStatus: %w", domain.ErrInvalidTransition)
	}
	return nil
}

// Query returns records matching the filter ordered by created_at descending,
// plus the total match count ignoring pagination.
func (r *PaymentRepository) Query(ctx context.Context, f domain.Filter, page domain.Page) ([]domain.PaymentRecord, int, error) {
	where, args := buildFilter(f)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM payment_records`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("Query: count: %w", err)
	}

	query := `SELECT ` + paymentColumns + ` FROM payment_records` + where +
		` ORDER BY created_at DESC, id DESC`
	if page.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, page.Limit, page.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("Query: %w", err)
	}
	defer rows.Close()

	var records []domain.PaymentRecord
	for rows.Next() {
		rec, err := scanPaymentRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("Query: scan: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("Query: rows: %w", err)
	}
	return records, total, nil
}

// AggregateRow is one bucket of the grouped re-scan that backs every revenue
// summary. Sums are always recomputed from the rows, never cached.
type AggregateRow struct {
	Status    domain.PaymentStatus
	PayerType domain.PayerType
	Total     int64
	Count     int
}

func (r *PaymentRepository) AggregateByStatusAndPayerType(ctx context.Context, f domain.Filter) ([]AggregateRow, error) {
	where, args := buildFilter(f)

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, payer_type, COALESCE(SUM(amount), 0), count(*)
		FROM payment_records`+where+`
		GROUP BY status, payer_type`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("AggregateByStatusAndPayerType: %w", err)
	}
	defer rows.Close()

	var out []AggregateRow
	for rows.Next() {
		var a AggregateRow
		if err := rows.Scan(&a.Status, &a.PayerType, &a.Total, &a.Count); err != nil {
			return nil, fmt.Errorf("AggregateByStatusAndPayerType: scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("AggregateByStatusAndPayerType: rows: %w", err)
	}
	return out, nil
}

func buildFilter(f domain.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.PayerType != "" {
		add(`payer_type = $%d`, f.PayerType)
	}
	if f.Status != "" {
		add(`status = $%d`, f.Status)
	}
	if f.TournamentRef != nil {
		add(`tournament_ref = $%d`, *f.TournamentRef)
	}
	if f.OrganizerRef != nil {
		add(`organizer_ref = $%d`, *f.OrganizerRef)
	}
	if f.PayerRef != nil {
		add(`payer_ref = $%d`, *f.PayerRef)
	}
	if f.From != nil {
		add(`created_at >= $%d`, *f.From)
	}
	if f.To != nil {
		add(`created_at <= $%d`, *f.To)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf(`(tournament_name ILIKE $%d OR payer_name ILIKE $%d)`, len(args), len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

func scanPaymentRecord(s scanner) (*domain.PaymentRecord, error) {
	var rec domain.PaymentRecord
	var payerRef uuid.NullUUID

	err := s.Scan(
		&rec.ID, &rec.TournamentRef, &rec.OrganizerRef, &rec.TournamentName,
		&rec.PayerType, &payerRef, &rec.PayerName, &rec.Amount, &rec.Currency, &rec.Status,
		&rec.ProviderOrderID, &rec.ProviderPaymentID, &rec.ProviderSignature, &rec.FailureReason,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if payerRef.Valid {
		rec.PayerRef = &payerRef.UUID
	}
	return &rec, nil
}
