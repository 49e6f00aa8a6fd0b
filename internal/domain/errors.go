package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoPriceSet    = errors.New("no price set selected")
	ErrDuplicate     = errors.New("duplicate product in keyed collection")
)
