package repository

import "errors"

var (
	ErrNotFound          = errors.New("entity not found")
	ErrAlreadyExists     = errors.New("entity already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCacheMiss         = errors.New("cache miss")
)
