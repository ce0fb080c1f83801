package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("invalid input")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrRegistrationClosed = errors.New("tournament is not accepting registrations")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrInvalidTransition  = errors.New("invalid payment status transition")
	ErrAlreadyFinalized   = errors.New("payment already finalized")
	ErrReconciliation     = errors.New("report totals do not reconcile")
)
