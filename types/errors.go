package types

import "errors"

// exported errors
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidReference  = errors.New("invalid reference")
	ErrCircularReference = errors.New("circular reference")
	ErrInvalidName       = errors.New("invalid name, it should contain at least one non-whitespace character")
)
