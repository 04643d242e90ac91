package extraction

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid extraction request")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeProvider   = "PROVIDER_ERROR"
	ErrorCodeStorage    = "STORAGE_ERROR"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)
