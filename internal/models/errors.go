package models

import "errors"

// Common errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrInvalidID      = errors.New("invalid identifier")
)
