package sheets

import "errors"

// API errors are sentinel-wrapped so callers can use errors.Is rather
// than string matching.
var (
	ErrNotFound        = errors.New("sheets: not found")
	ErrInvalidName     = errors.New("sheets: invalid sheet name")
	ErrDuplicate       = errors.New("sheets: duplicate sheet name")
	ErrInvalidAddress  = errors.New("sheets: invalid address")
	ErrIndexOutOfRange = errors.New("sheets: index out of range")
)
