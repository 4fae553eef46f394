package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown MIME type, render format or normaliser.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSearchUnavailable indicates the search engine is not configured or
	// its index cannot be opened.
	ErrSearchUnavailable = errors.New("search engine unavailable")

	// ErrInvalidSpan indicates a span that breaks the span list contract:
	// negative start, end <= start, out of range, unsorted or overlapping.
	// It signals a matching bug, not bad caller input.
	ErrInvalidSpan = errors.New("invalid span")

	// ErrInvalidProject indicates a project failed validation.
	ErrInvalidProject = errors.New("invalid project")
)
