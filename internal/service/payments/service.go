package payments

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
)

type paymentRepo interface {
	Create(ctx context.Context, record *domain.PaymentRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, expected, next domain.PaymentStatus, providerPaymentID, providerSignature, failureReason *string) error
	Query(ctx context.Context, f domain.Filter, page domain.Page) ([]domain.PaymentRecord, int, error)
}

type transitionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.StatusTransition) error
	GetByRecordID(ctx context.Context, recordID uuid.UUID) ([]domain.StatusTransition, error)
}

type gatewayClient interface {
	CreateOrder(ctx context.Context, amount int64, currency domain.Currency) (string, error)
}

type tournamentRegistry interface {
	AcceptsRegistration(ctx context.Context, tournamentRef uuid.UUID) (bool, error)
}

// Service owns the payment lifecycle: it creates gateway orders, verifies
// callback signatures, and drives every status transition of a record.
type Service struct {
	records         paymentRepo
	transitions     transitionRepo
	gateway         gatewayClient
	tournaments     tournamentRegistry
	db              *sql.DB
	secret          string
	defaultCurrency domain.Currency
}

func NewService(
	records paymentRepo,
	transitions transitionRepo,
	gateway gatewayClient,
	tournaments tournamentRegistry,
	db *sql.DB,
	secret string,
	defaultCurrency domain.Currency,
) *Service {
	return &Service{
		records:         records,
		transitions:     transitions,
		gateway:         gateway,
		tournaments:     tournaments,
		db:              db,
		secret:          secret,
		defaultCurrency: defaultCurrency,
	}
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetRecord: %w", err)
	}
	return rec, nil
}

func (s *Service) ListRecords(ctx context.Context, f domain.Filter, page domain.Page) ([]domain.PaymentRecord, int, error) {
	records, total, err := s.records.Query(ctx, f, page)
	if err != nil {
		return nil, 0, fmt.Errorf("ListRecords: %w", err)
	}
	return records, total, nil
}

func (s *Service) GetTransitions(ctx context.Context, recordID uuid.UUID) ([]domain.StatusTransition, error) {
	if _, err := s.records.GetByID(ctx, recordID); err != nil {
		return nil, fmt.Errorf("GetTransitions: %w", err)
	}
	transitions, err := s.transitions.GetByRecordID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("GetTransitions: %w", err)
	}
	return transitions, nil
}

// transition moves a record from its current status to next and writes the
// audit row in the same transaction. The underlying UPDATE is guarded by the
// expected status, so a lost race surfaces as ErrInvalidTransition.
func (s *Service) transition(ctx context.Context, rec *domain.PaymentRecord, next domain.PaymentStatus, providerPaymentID, providerSignature, reason *string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transition: %w", err)
	}
	defer tx.Rollback()

	if err := s.records.UpdateStatus(ctx, tx, rec.ID, rec.Status, next, providerPaymentID, providerSignature, reason); err != nil {
		return fmt.Errorf("transition: %w", err)
	}

	if err := s.transitions.Create(ctx, tx, &domain.StatusTransition{
		ID:         uuid.New(),
		RecordID:   rec.ID,
		FromStatus: rec.Status,
		ToStatus:   next,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("transition: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transition: %w", err)
	}
	return nil
}
