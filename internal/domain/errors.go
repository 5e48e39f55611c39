package domain

import "errors"

// ErrNotFound is returned when a cart, line, product or variant does not
// exist. Repositories translate driver-level no-rows results into it.
var ErrNotFound = errors.New("not found")
