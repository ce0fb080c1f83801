package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/service/revenue"
)

type revenueService interface {
	OrganizerSummary(ctx context.Context, organizerRef uuid.UUID, f domain.Filter) (*revenue.OrganizerSummary, error)
	AdminSummary(ctx context.Context, f domain.Filter) (*revenue.AdminSummary, error)
	PayerSummary(ctx context.Context, payerRef uuid.UUID, f domain.Filter) (*revenue.PayerSummary, error)
}

type RevenueHandler struct {
	revenue revenueService
}

func NewRevenueHandler(revenue revenueService) *RevenueHandler {
	return &RevenueHandler{revenue: revenue}
}

func (h *RevenueHandler) Organizer(w http.ResponseWriter, r *http.Request) {
	organizerRef, err := uuid.Parse(r.PathValue("ref"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "ref", Message: "must be a valid UUID"}})
		return
	}

	f, _, fields := parseFilter(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	summary, err := h.revenue.OrganizerSummary(r.Context(), organizerRef, f)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"registration_revenue":           summary.RegistrationRevenue,
		"registration_revenue_formatted": domain.FormatAmount(summary.RegistrationRevenue),
		"platform_fees":                  summary.PlatformFees,
		"platform_fees_formatted":        domain.FormatAmount(summary.PlatformFees),
		"net_revenue":                    summary.NetRevenue,
		"net_revenue_formatted":          domain.FormatAmount(summary.NetRevenue),
		"transaction_count":              summary.TransactionCount,
	})
}

func (h *RevenueHandler) Admin(w http.ResponseWriter, r *http.Request) {
	f, _, fields := parseFilter(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	summary, err := h.revenue.AdminSummary(r.Context(), f)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"platform_fee_revenue":           summary.PlatformFeeRevenue,
		"platform_fee_revenue_formatted": domain.FormatAmount(summary.PlatformFeeRevenue),
		"registration_volume":            summary.RegistrationVolume,
		"registration_volume_formatted":  domain.FormatAmount(summary.RegistrationVolume),
		"transaction_count":              summary.TransactionCount,
	})
}

func (h *RevenueHandler) Payer(w http.ResponseWriter, r *http.Request) {
	payerRef, err := uuid.Parse(r.PathValue("ref"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "ref", Message: "must be a valid UUID"}})
		return
	}

	f, _, fields := parseFilter(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	summary, err := h.revenue.PayerSummary(r.Context(), payerRef, f)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"total_paid":               summary.TotalPaid,
		"total_paid_formatted":     domain.FormatAmount(summary.TotalPaid),
		"pending_amount":           summary.PendingAmount,
		"pending_amount_formatted": domain.FormatAmount(summary.PendingAmount),
		"transaction_count":        summary.TransactionCount,
	})
}
