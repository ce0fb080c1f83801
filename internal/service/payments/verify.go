package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/logging"
)

type VerifyRequest struct {
	RecordID          uuid.UUID
	ProviderPaymentID string
	ProviderOrderID   string
	ProviderSignature string
}

// Verify finalizes a pending record from a gateway callback. It fails
// closed: an order mismatch or a bad signature transitions the record to
// failed, never to success. Replaying a verified callback with identical
// identifiers returns the record unchanged.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*domain.PaymentRecord, error) {
	log := logging.FromContext(ctx)

	rec, err := s.records.GetByID(ctx, req.RecordID)
	if err != nil {
		return nil, fmt.Errorf("Verify: %w", err)
	}

	switch rec.Status {
	case domain.PaymentStatusSuccess:
		if rec.ProviderOrderID == req.ProviderOrderID &&
			rec.ProviderPaymentID != nil && *rec.ProviderPaymentID == req.ProviderPaymentID {
			log.Info("verification replayed", "record_id", rec.ID, "provider_payment_id", req.ProviderPaymentID)
			return rec, nil
		}
		return nil, fmt.Errorf("Verify: identifiers differ from finalized record: %w", domain.ErrAlreadyFinalized)
	case domain.PaymentStatusFailed, domain.PaymentStatusRefunded:
		return nil, fmt.Errorf("Verify: record is %s: %w", rec.Status, domain.ErrAlreadyFinalized)
	}

	if rec.ProviderOrderID != req.ProviderOrderID {
		return nil, s.failVerification(ctx, rec, "provider order id mismatch")
	}
	if !signatureMatches(req.ProviderOrderID, req.ProviderPaymentID, s.secret, req.ProviderSignature) {
		return nil, s.failVerification(ctx, rec, "signature mismatch")
	}

	err = s.transition(ctx, rec, domain.PaymentStatusSuccess, &req.ProviderPaymentID, &req.ProviderSignature, nil)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return s.resolveVerifyRace(ctx, req)
		}
		return nil, fmt.Errorf("Verify: %w", err)
	}

	log.Info("payment verified",
		"record_id", rec.ID,
		"provider_order_id", req.ProviderOrderID,
		"provider_payment_id", req.ProviderPaymentID,
	)

	updated, err := s.records.GetByID(ctx, req.RecordID)
	if err != nil {
		return nil, fmt.Errorf("Verify: %w", err)
	}
	return updated, nil
}

// failVerification is the closed-failure path: the record moves to failed
// and the caller gets a conclusive, non-retryable error.
func (s *Service) failVerification(ctx context.Context, rec *domain.PaymentRecord, reason string) error {
	log := logging.FromContext(ctx)
	log.Warn("payment verification failed", "record_id", rec.ID, "reason", reason)

	if err := s.transition(ctx, rec, domain.PaymentStatusFailed, nil, nil, &reason); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			// Another delivery finalized the record first.
			return fmt.Errorf("failVerification: %w", domain.ErrAlreadyFinalized)
		}
		return fmt.Errorf("failVerification: %w", err)
	}
	return fmt.Errorf("failVerification: %s: %w", reason, domain.ErrVerificationFailed)
}

// resolveVerifyRace handles a valid callback that lost the CAS to a
// concurrent delivery: if the winner stored the same identifiers this is an
// idempotent replay, otherwise the record is finalized against us.
func (s *Service) resolveVerifyRace(ctx context.Context, req VerifyRequest) (*domain.PaymentRecord, error) {
	rec, err := s.records.GetByID(ctx, req.RecordID)
	if err != nil {
		return nil, fmt.Errorf("resolveVerifyRace: %w", err)
	}
	if rec.Status == domain.PaymentStatusSuccess &&
		rec.ProviderOrderID == req.ProviderOrderID &&
		rec.ProviderPaymentID != nil && *rec.ProviderPaymentID == req.ProviderPaymentID {
		return rec, nil
	}
	return nil, fmt.Errorf("resolveVerifyRace: %w", domain.ErrAlreadyFinalized)
}
