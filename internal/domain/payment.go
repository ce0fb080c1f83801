package domain

import (
	"time"

	"github.com/google/uuid"
)

type Currency string

const CurrencyINR Currency = "INR"

type PayerType string

const (
	PayerTypeOrganizer PayerType = "organizer"
	PayerTypeTeam      PayerType = "team"
	PayerTypePlayer    PayerType = "player"
)

func (p PayerType) IsValid() bool {
	switch p {
	case PayerTypeOrganizer, PayerTypeTeam, PayerTypePlayer:
		return true
	}
	return false
}

// IsRegistration reports whether the payment is a registration fee owed to
// the organizer, as opposed to a platform fee owed by the organizer.
func (p PayerType) IsRegistration() bool {
	return p == PayerTypeTeam || p == PayerTypePlayer
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// allowedTransitions is the full state machine. A record never re-enters
// pending, and failed is terminal: a retried payment is a new record.
var allowedTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusSuccess, PaymentStatusFailed},
	PaymentStatusSuccess: {PaymentStatusRefunded},
}

func CanTransition(from, to PaymentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentRecord is one payment attempt and its terminal outcome. Amount and
// currency are immutable after creation; verification only ever touches the
// status and the provider identifiers.
type PaymentRecord struct {
	ID                uuid.UUID
	TournamentRef     uuid.UUID
	OrganizerRef      uuid.UUID
	TournamentName    string
	PayerType         PayerType
	PayerRef          *uuid.UUID
	PayerName         *string
	Amount            int64
	Currency          Currency
	Status            PaymentStatus
	ProviderOrderID   string
	ProviderPaymentID *string
	ProviderSignature *string
	FailureReason     *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// StatusTransition is the audit row written alongside every status change,
// ordered by a monotonic clock so reconciliation can replay history.
type StatusTransition struct {
	ID         uuid.UUID
	RecordID   uuid.UUID
	FromStatus PaymentStatus
	ToStatus   PaymentStatus
	Reason     *string
	CreatedAt  time.Time
}
