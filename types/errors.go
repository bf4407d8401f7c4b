package types

import "errors"

var (
	// ErrNotFound is returned when a record or remote resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the resource conflicts (e.g. update of old revision)
	ErrConflict = errors.New("conflict")

	// ErrBadRequest is returned for invalid input parameters
	ErrBadRequest = errors.New("bad request")

	// ErrNotAuthorized is returned when the service rejects the caller's credentials
	ErrNotAuthorized = errors.New("not authorized")

	// ErrUnknownSigningKey is returned by the signer when no private key matches a public key
	ErrUnknownSigningKey = errors.New("unknown signing key")

	// ErrWipeNotAllowed is returned when a destructive wipe is requested in a production build
	ErrWipeNotAllowed = errors.New("wipe not allowed in production mode")

	// ErrInternal (for unhandled exceptions)
	ErrInternal = errors.New("internal error")
)
