package request

import "errors"

var (
	ErrRequestNotFound  = errors.New("membership request not found")
	ErrAlreadyProcessed = errors.New("membership request has already been processed")
	ErrInvalidInput     = errors.New("invalid request input")

	// ErrMemberNumberConflict signals that a concurrent approval claimed the
	// same member number; the caller retries with a fresh one.
	ErrMemberNumberConflict = errors.New("member number already assigned")
)
