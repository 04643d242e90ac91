package usage

import "errors"

// ErrQuotaExceeded indicates the upload would push the user past their
// storage quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")
