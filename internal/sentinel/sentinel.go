package sentinel

import "errors"

// Sentinel dependency errors. Dependencies should return these (optionally wrapped)
// so services can translate them into domain errors exactly once.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrAlreadyVerified = errors.New("already verified")
	ErrCorrupt         = errors.New("corrupt data")
	ErrUnavailable     = errors.New("unavailable")
)
