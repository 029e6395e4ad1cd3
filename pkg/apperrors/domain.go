package apperrors

import (
	"net/http"
)

// Factories wrapping repository sentinels into transport-ready errors.

func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// Predefined errors for recurring business failures.

var ErrInvalidUserRole = New(
	CodeForbidden,
	"business_logic",
	"Operation not permitted for this user role",
	http.StatusForbidden,
)

var ErrInsufficientBalance = New(
	CodeConflict,
	"wallet",
	"Wallet balance is insufficient for this amount",
	http.StatusConflict,
)

var ErrPendingPayoutExists = New(
	CodeConflict,
	"payout",
	"A payout request is already pending for this user",
	http.StatusConflict,
)

var ErrKycNotApproved = New(
	CodeForbidden,
	"kyc",
	"KYC approval is required for this operation",
	http.StatusForbidden,
)
