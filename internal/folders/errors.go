package folders

import "errors"

var (
	ErrNotFound     = errors.New("folder not found")
	ErrInvalidInput = errors.New("invalid input")
)
