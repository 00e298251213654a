package scoped

import "errors"

var (
	// ErrNoTenant is returned when binding a collection to the zero UUID.
	ErrNoTenant = errors.New("scoped: no tenant id bound")

	// ErrInvalidFilter is returned when a filter cannot be marshaled.
	ErrInvalidFilter = errors.New("scoped: invalid filter")

	// ErrInvalidDocument is returned when a document cannot be marshaled.
	ErrInvalidDocument = errors.New("scoped: invalid document")
)
