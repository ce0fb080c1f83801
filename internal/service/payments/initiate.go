package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/logging"
)

type InitiateRequest struct {
	TournamentRef  uuid.UUID
	OrganizerRef   uuid.UUID
	TournamentName string
	PayerType      domain.PayerType
	PayerRef       *uuid.UUID
	PayerName      *string
	Amount         int64
	Currency       domain.Currency
}

// Initiate creates a gateway order and persists the pending record that
// references it. The gateway call happens first: if the order cannot be
// created, nothing is written and the caller retries as a new attempt.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest) (*domain.PaymentRecord, error) {
	log := logging.FromContext(ctx)

	if err := s.validateInitiate(req); err != nil {
		return nil, fmt.Errorf("Initiate: %w", err)
	}

	if req.PayerType.IsRegistration() {
		open, err := s.tournaments.AcceptsRegistration(ctx, req.TournamentRef)
		if err != nil {
			return nil, fmt.Errorf("Initiate: registration check: %w", err)
		}
		if !open {
			return nil, fmt.Errorf("Initiate: %w", domain.ErrRegistrationClosed)
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	orderID, err := s.gateway.CreateOrder(ctx, req.Amount, currency)
	if err != nil {
		return nil, fmt.Errorf("Initiate: %w", err)
	}

	now := time.Now().UTC()
	rec := &domain.PaymentRecord{
		ID:              uuid.New(),
		TournamentRef:   req.TournamentRef,
		OrganizerRef:    req.OrganizerRef,
		TournamentName:  req.TournamentName,
		PayerType:       req.PayerType,
		PayerRef:        req.PayerRef,
		PayerName:       req.PayerName,
		Amount:          req.Amount,
		Currency:        currency,
		Status:          domain.PaymentStatusPending,
		ProviderOrderID: orderID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("Initiate: %w", err)
	}

	log.Info("payment initiated",
		"record_id", rec.ID,
		"provider_order_id", orderID,
		"tournament_ref", req.TournamentRef,
		"payer_type", req.PayerType,
		"amount", req.Amount,
		"currency", currency,
	)

	return rec, nil
}

func (s *Service) validateInitiate(req InitiateRequest) error {
	if req.Amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if req.TournamentRef == uuid.Nil || req.OrganizerRef == uuid.Nil {
		return fmt.Errorf("tournament and organizer refs required: %w", domain.ErrValidation)
	}
	if !req.PayerType.IsValid() {
		return fmt.Errorf("unknown payer type %q: %w", req.PayerType, domain.ErrValidation)
	}
	if req.PayerType.IsRegistration() && req.PayerRef == nil {
		return fmt.Errorf("payer ref required for %s payments: %w", req.PayerType, domain.ErrValidation)
	}
	if req.PayerType == domain.PayerTypeOrganizer && req.PayerRef != nil {
		return fmt.Errorf("payer ref must be empty for organizer payments: %w", domain.ErrValidation)
	}
	return nil
}
