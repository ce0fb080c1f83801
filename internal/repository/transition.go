package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
)

const transitionColumns = `id, record_id, from_status, to_status, reason, created_at`

// TransitionRepository records every status change of a payment record,
// written in the same transaction as the change itself.
type TransitionRepository struct {
	db *sql.DB
}

func NewTransitionRepository(db *sql.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

func (r *TransitionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.StatusTransition) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO payment_transitions (id, record_id, from_status, to_status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.RecordID, t.FromStatus, t.ToStatus, t.Reason, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransitionRepository) GetByRecordID(ctx context.Context, recordID uuid.UUID) ([]domain.StatusTransition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transitionColumns+` FROM payment_transitions
		WHERE record_id = $1 ORDER BY created_at`, recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByRecordID: %w", err)
	}
	defer rows.Close()

	var transitions []domain.StatusTransition
	for rows.Next() {
		var t domain.StatusTransition
		if err := rows.Scan(&t.ID, &t.RecordID, &t.FromStatus, &t.ToStatus, &t.Reason, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("GetByRecordID: scan: %w", err)
		}
		transitions = append(transitions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByRecordID: rows: %w", err)
	}
	return transitions, nil
}
