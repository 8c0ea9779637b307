package errors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrLimitExceeded = errors.New("purchase limit exceeded")
)
