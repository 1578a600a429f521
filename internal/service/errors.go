package service

import (
	"net/http"

	apperrors "github.com/spec-kit/billing-portal/pkg/util/errorutil"
)

var (
	ErrMissingFields      = apperrors.NewDomainError(apperrors.CodeValidation, "Missing required fields", http.StatusBadRequest, nil)
	ErrDuplicateEmail     = apperrors.NewDomainError(apperrors.CodeDuplicateEmail, "Email already registered", http.StatusBadRequest, nil)
	ErrInvalidCredentials = apperrors.NewDomainError(apperrors.CodeInvalidCredentials, "Invalid credentials", http.StatusUnauthorized, nil)
	ErrTooManyAttempts    = apperrors.NewDomainError(apperrors.CodeTooManyAttempts, "Too many login attempts, try again later", http.StatusTooManyRequests, nil)
	ErrReceiptNotPayable  = apperrors.NewDomainError(apperrors.CodeReceiptNotPayable, "Receipt not found or already paid", http.StatusNotFound, nil)
	ErrTicketNotFound     = apperrors.NewDomainError(apperrors.CodeTicketNotFound, "Ticket not found", http.StatusNotFound, nil)
	ErrCustomerNotFound   = apperrors.NewDomainError(apperrors.CodeNotFound, "Customer not found", http.StatusNotFound, nil)
)
