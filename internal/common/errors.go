// Package common defines shared constants, sentinel errors and small random
// helpers used across the diary server. Callers should use errors.Is to match
// the error values.
package common

import "errors"

var (
	// Lookup errors. Repositories report absence as an empty result; services
	// translate it into ErrorNotFound for their callers.
	ErrorNotFound = errors.New("not found")

	// Signup errors.
	ErrorAlreadyExists = errors.New("already exists")

	// Auth errors. Neither reveals which check failed.
	ErrorAuthenticationFailed = errors.New("authentication failed")
	ErrorInvalidSession       = errors.New("invalid session")

	// ErrorStorage is the opaque failure returned by the storage layer. The
	// underlying driver error is logged, never returned.
	ErrorStorage = errors.New("storage failure")

	// Input errors.
	ErrorValidation = errors.New("validation error")
)
