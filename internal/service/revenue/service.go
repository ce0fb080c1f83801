package revenue

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/repository"
)

type aggregateRepo interface {
	AggregateByStatusAndPayerType(ctx context.Context, f domain.Filter) ([]repository.AggregateRow, error)
}

// Service derives revenue summaries for the three viewer roles. Every
// summary is a pure function of the filtered record set: each call re-scans
// the store, so totals can never drift from the records they summarize.
type Service struct {
	records aggregateRepo
}

func NewService(records aggregateRepo) *Service {
	return &Service{records: records}
}

// OrganizerSummary decomposes an organizer's verified payments into
// registration revenue (teams and players paying in) and platform fees (the
// organizer paying out), with net = registrations - fees.
type OrganizerSummary struct {
	RegistrationRevenue int64
	PlatformFees        int64
	NetRevenue          int64
	TransactionCount    int
}

func (s *Service) OrganizerSummary(ctx context.Context, organizerRef uuid.UUID, f domain.Filter) (*OrganizerSummary, error) {
	rows, err := s.records.AggregateByStatusAndPayerType(ctx, f.WithOrganizer(organizerRef))
	if err != nil {
		return nil, fmt.Errorf("OrganizerSummary: %w", err)
	}

	var summary OrganizerSummary
	for _, row := range rows {
		summary.TransactionCount += row.Count
		if row.Status != domain.PaymentStatusSuccess {
			continue
		}
		if row.PayerType.IsRegistration() {
			summary.RegistrationRevenue += row.Total
		} else {
			summary.PlatformFees += row.Total
		}
	}
	summary.NetRevenue = summary.RegistrationRevenue - summary.PlatformFees
	return &summary, nil
}

type AdminSummary struct {
	PlatformFeeRevenue int64
	RegistrationVolume int64
	TransactionCount   int
}

func (s *Service) AdminSummary(ctx context.Context, f domain.Filter) (*AdminSummary, error) {
	rows, err := s.records.AggregateByStatusAndPayerType(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("AdminSummary: %w", err)
	}

	var summary AdminSummary
	for _, row := range rows {
		summary.TransactionCount += row.Count
		if row.Status != domain.PaymentStatusSuccess {
			continue
		}
		if row.PayerType == domain.PayerTypeOrganizer {
			summary.PlatformFeeRevenue += row.Total
		} else {
			summary.RegistrationVolume += row.Total
		}
	}
	return &summary, nil
}

type PayerSummary struct {
	TotalPaid        int64
	PendingAmount    int64
	TransactionCount int
}

func (s *Service) PayerSummary(ctx context.Context, payerRef uuid.UUID, f domain.Filter) (*PayerSummary, error) {
	rows, err := s.records.AggregateByStatusAndPayerType(ctx, f.WithPayer(payerRef))
	if err != nil {
		return nil, fmt.Errorf("PayerSummary: %w", err)
	}

	var summary PayerSummary
	for _, row := range rows {
		summary.TransactionCount += row.Count
		switch row.Status {
		case domain.PaymentStatusSuccess:
			summary.TotalPaid += row.Total
		case domain.PaymentStatusPending:
			summary.PendingAmount += row.Total
		}
	}
	return &summary, nil
}
