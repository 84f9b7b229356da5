package service

import "errors"

var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	// ErrEmpty is returned by listings and checkout when there are no rows.
	ErrEmpty = errors.New("empty")
	// ErrFailure covers cart operations on a missing user, product or line.
	ErrFailure = errors.New("failure")
)
