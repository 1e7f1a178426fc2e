package library

import "errors"

// Errors returned by catalog operations. Compare with errors.Is; the
// catalog wraps them with the offending book or patron id.
var (
	ErrNotFound         = errors.New("book not found")
	ErrDuplicateKey     = errors.New("book id already present")
	ErrCapacityExceeded = errors.New("reservation queue is full")
	ErrUnauthorized     = errors.New("book is borrowed by another patron")
	ErrNotBorrowed      = errors.New("book is not checked out")
)

// determine the class of an error
func IsNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool     { return errors.Is(err, ErrDuplicateKey) }
func IsCapacityExceeded(err error) bool { return errors.Is(err, ErrCapacityExceeded) }
func IsUnauthorized(err error) bool     { return errors.Is(err, ErrUnauthorized) }
func IsNotBorrowed(err error) bool      { return errors.Is(err, ErrNotBorrowed) }
