package usage

import "errors"

// ErrQuotaExceeded indicates the user's plan allowance is exhausted. It fires
// before any extraction call is made.
var ErrQuotaExceeded = errors.New("analysis quota exceeded")
