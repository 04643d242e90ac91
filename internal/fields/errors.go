package fields

import "errors"

var (
	ErrNotFound     = errors.New("extraction field not found")
	ErrInvalidInput = errors.New("invalid input")
)
