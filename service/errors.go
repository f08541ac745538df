package service

import "errors"

// Sentinel errors mapped to HTTP status codes at the handler layer.
var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation wraps client-side input problems; no write has happened.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden means the caller is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition means the requested status change is not in the
	// transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrReviewRequired means an offer can only enter review through the
	// review-request flow, not a bare status write.
	ErrReviewRequired = errors.New("offer enters review via a review request")
	// ErrReviewNotPending means a decision was submitted for a review that
	// already has one.
	ErrReviewNotPending = errors.New("review is not pending")
	// ErrReviewPending means a resend was attempted on a review that has no
	// decision yet.
	ErrReviewPending = errors.New("review is still pending")
	// ErrContractExists enforces at-most-one contract per offer.
	ErrContractExists = errors.New("offer already has a contract")
	// ErrFileTooLarge is returned before any storage call is made.
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
	// ErrExtensionNotAllowed rejects files outside the document allow-list.
	ErrExtensionNotAllowed = errors.New("file type is not allowed")
	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
