package store

import "errors"

// Error taxonomy surfaced by the stores. Controllers map these onto the
// service's coarse HTTP responses; the distinctions exist for callers
// and tests, not for the wire.
var (
	ErrNotFound    = errors.New("document not found")
	ErrDuplicate   = errors.New("duplicate unique key")
	ErrValidation  = errors.New("invalid input")
	ErrUnavailable = errors.New("store unavailable")
)

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsDuplicate(err error) bool   { return errors.Is(err, ErrDuplicate) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
