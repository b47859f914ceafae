package persistence

import "errors"

// ErrNilUser is returned when Save is handed a nil user.
var ErrNilUser = errors.New("user is nil")
