package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrClosed        = errors.New("store closed")
	ErrInvalidSource = errors.New("invalid data source")
)
