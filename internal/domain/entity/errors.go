package entity

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthorized access")
	ErrForbidden       = errors.New("forbidden access")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRejected        = errors.New("request rejected")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnavailable     = errors.New("feature unavailable")
)
