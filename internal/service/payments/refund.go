package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/logging"
)

// Refund is the administrative mutation that moves a verified payment to
// refunded. The money movement itself happens outside this engine; only the
// bookkeeping transition is recorded, and only from success.
func (s *Service) Refund(ctx context.Context, recordID uuid.UUID, reason string) (*domain.PaymentRecord, error) {
	log := logging.FromContext(ctx)

	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("Refund: %w", err)
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	if err := s.transition(ctx, rec, domain.PaymentStatusRefunded, nil, nil, reasonPtr); err != nil {
		return nil, fmt.Errorf("Refund: %w", err)
	}

	log.Info("payment refunded", "record_id", recordID, "amount", rec.Amount)

	updated, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("Refund: %w", err)
	}
	return updated, nil
}
