package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/logging"
	"github.com/courtside/payments-engine/internal/service/payments"
)

type paymentService interface {
	Initiate(ctx context.Context, req payments.InitiateRequest) (*domain.PaymentRecord, error)
	Verify(ctx context.Context, req payments.VerifyRequest) (*domain.PaymentRecord, error)
	Refund(ctx context.Context, recordID uuid.UUID, reason string) (*domain.PaymentRecord, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error)
	ListRecords(ctx context.Context, f domain.Filter, page domain.Page) ([]domain.PaymentRecord, int, error)
	GetTransitions(ctx context.Context, recordID uuid.UUID) ([]domain.StatusTransition, error)
}

type PaymentHandler struct {
	payments paymentService
}

func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type initiatePaymentRequest struct {
	TournamentRef  string `json:"tournament_ref"`
	OrganizerRef   string `json:"organizer_ref"`
	TournamentName string `json:"tournament_name"`
	PayerType      string `json:"payer_type"`
	PayerRef       string `json:"payer_ref"`
	PayerName      string `json:"payer_name"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

func (r initiatePaymentRequest) Validate() []FieldError {
	var errs []FieldError

	if r.TournamentRef == "" {
		errs = append(errs, FieldError{Field: "tournament_ref", Message: "required"})
	} else if _, err := uuid.Parse(r.TournamentRef); err != nil {
		errs = append(errs, FieldError{Field: "tournament_ref", Message: "must be a valid UUID"})
	}

	if r.OrganizerRef == "" {
		errs = append(errs, FieldError{Field: "organizer_ref", Message: "required"})
	} else if _, err := uuid.Parse(r.OrganizerRef); err != nil {
		errs = append(errs, FieldError{Field: "organizer_ref", Message: "must be a valid UUID"})
	}

	if r.PayerType == "" {
		errs = append(errs, FieldError{Field: "payer_type", Message: "required"})
	} else if !domain.PayerType(r.PayerType).IsValid() {
		errs = append(errs, FieldError{Field: "payer_type", Message: "must be organizer, team, or player"})
	}

	if r.PayerRef != "" {
		if _, err := uuid.Parse(r.PayerRef); err != nil {
			errs = append(errs, FieldError{Field: "payer_ref", Message: "must be a valid UUID"})
		}
	}

	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}

	return errs
}

func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req initiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	svcReq := payments.InitiateRequest{
		TournamentRef:  uuid.MustParse(req.TournamentRef),
		OrganizerRef:   uuid.MustParse(req.OrganizerRef),
		TournamentName: req.TournamentName,
		PayerType:      domain.PayerType(req.PayerType),
		Amount:         req.Amount,
		Currency:       domain.Currency(req.Currency),
	}
	if req.PayerRef != "" {
		ref := uuid.MustParse(req.PayerRef)
		svcReq.PayerRef = &ref
	}
	if req.PayerName != "" {
		svcReq.PayerName = &req.PayerName
	}

	rec, err := h.payments.Initiate(r.Context(), svcReq)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toPaymentDTO(rec))
}

type verifyPaymentRequest struct {
	ProviderPaymentID string `json:"provider_payment_id"`
	ProviderOrderID   string `json:"provider_order_id"`
	ProviderSignature string `json:"provider_signature"`
}

func (r verifyPaymentRequest) Validate() []FieldError {
	var errs []FieldError
	if r.ProviderPaymentID == "" {
		errs = append(errs, FieldError{Field: "provider_payment_id", Message: "required"})
	}
	if r.ProviderOrderID == "" {
		errs = append(errs, FieldError{Field: "provider_order_id", Message: "required"})
	}
	if r.ProviderSignature == "" {
		errs = append(errs, FieldError{Field: "provider_signature", Message: "required"})
	}
	return errs
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	recordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a valid UUID"}})
		return
	}

	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	rec, err := h.payments.Verify(r.Context(), payments.VerifyRequest{
		RecordID:          recordID,
		ProviderPaymentID: req.ProviderPaymentID,
		ProviderOrderID:   req.ProviderOrderID,
		ProviderSignature: req.ProviderSignature,
	})
	if err != nil {
		log.Warn("verification rejected", "record_id", recordID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPaymentDTO(rec))
}

type refundPaymentRequest struct {
	Reason string `json:"reason"`
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a valid UUID"}})
		return
	}

	var req refundPaymentRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	rec, err := h.payments.Refund(r.Context(), recordID, req.Reason)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPaymentDTO(rec))
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a valid UUID"}})
		return
	}

	rec, err := h.payments.GetRecord(r.Context(), recordID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPaymentDTO(rec))
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	f, page, fields := parseFilter(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	records, total, err := h.payments.ListRecords(r.Context(), f, page)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]paymentDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, toPaymentDTO(&records[i]))
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"payments": dtos,
		"total":    total,
	})
}

func (h *PaymentHandler) Transitions(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a valid UUID"}})
		return
	}

	transitions, err := h.payments.GetTransitions(r.Context(), recordID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	type transitionDTO struct {
		From      string    `json:"from"`
		To        string    `json:"to"`
		Reason    *string   `json:"reason,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
	dtos := make([]transitionDTO, 0, len(transitions))
	for _, t := range transitions {
		dtos = append(dtos, transitionDTO{
			From:      string(t.FromStatus),
			To:        string(t.ToStatus),
			Reason:    t.Reason,
			CreatedAt: t.CreatedAt,
		})
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

type paymentDTO struct {
	ID                uuid.UUID  `json:"id"`
	TournamentRef     uuid.UUID  `json:"tournament_ref"`
	OrganizerRef      uuid.UUID  `json:"organizer_ref"`
	TournamentName    string     `json:"tournament_name"`
	PayerType         string     `json:"payer_type"`
	PayerRef          *uuid.UUID `json:"payer_ref,omitempty"`
	PayerName         *string    `json:"payer_name,omitempty"`
	Amount            int64      `json:"amount"`
	AmountFormatted   string     `json:"amount_formatted"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	ProviderOrderID   string     `json:"provider_order_id"`
	ProviderPaymentID *string    `json:"provider_payment_id,omitempty"`
	FailureReason     *string    `json:"failure_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toPaymentDTO(rec *domain.PaymentRecord) paymentDTO {
	return paymentDTO{
		ID:                rec.ID,
		TournamentRef:     rec.TournamentRef,
		OrganizerRef:      rec.OrganizerRef,
		TournamentName:    rec.TournamentName,
		PayerType:         string(rec.PayerType),
		PayerRef:          rec.PayerRef,
		PayerName:         rec.PayerName,
		Amount:            rec.Amount,
		AmountFormatted:   domain.FormatAmount(rec.Amount),
		Currency:          string(rec.Currency),
		Status:            string(rec.Status),
		ProviderOrderID:   rec.ProviderOrderID,
		ProviderPaymentID: rec.ProviderPaymentID,
		FailureReason:     rec.FailureReason,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}
