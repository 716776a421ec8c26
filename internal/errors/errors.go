package errors

import "errors"

// This package defines a centralized set of sentinel errors for the
// application. Services return these recognizable errors without coupling
// themselves to HTTP status codes; the API layer maps them with errors.Is().

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// validation. Typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrInternal signifies an unexpected error on the server, used to avoid
	// leaking implementation details to the client. Typically mapped to a
	// 500 Internal Server Error HTTP status.
	ErrInternal = errors.New("internal server error")
)
