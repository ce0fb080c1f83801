package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount      = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrGatewayUnavailable = &AppError{http.StatusBadGateway, "GATEWAY_UNAVAILABLE", "Payment gateway is unavailable, retry as a new attempt"}
	ErrRegistrationClosed = &AppError{http.StatusUnprocessableEntity, "REGISTRATION_CLOSED", "Tournament is not accepting registrations"}
	ErrVerificationFailed = &AppError{http.StatusUnprocessableEntity, "VERIFICATION_FAILED", "Payment verification failed"}
	ErrAlreadyFinalized   = &AppError{http.StatusConflict, "ALREADY_FINALIZED", "Payment already finalized with different identifiers"}
	ErrInvalidTransition  = &AppError{http.StatusConflict, "INVALID_TRANSITION", "Payment status transition not allowed"}
	ErrReportFailed       = &AppError{http.StatusInternalServerError, "REPORT_RECONCILIATION_FAILED", "Report could not be generated"}
)
