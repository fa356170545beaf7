package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("invalid request")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrUnknownPlan   = errors.New("unknown plan")
	ErrBillingOff    = errors.New("billing is not configured")
	ErrGeneration    = errors.New("generation failed")
	ErrDuplicate     = errors.New("already exists")
)
