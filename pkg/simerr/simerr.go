// Package simerr defines the sentinel error kinds shared across the
// simulation core, per the error taxonomy: each kind is a sentinel value,
// never a type, so callers compare with errors.Is rather than type
// switches or string matching.
package simerr

import "errors"

var (
	// ErrInvalidArgument covers a null out-parameter, empty map, negative
	// dimension, or negative count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfBounds covers a tile or slot access outside valid coordinates.
	// Most tile accessors absorb this as a sentinel return rather than an
	// error value; it exists here for the few APIs that do return it.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrCapacityExhausted covers a full item instance array, journal,
	// queue, or registry.
	ErrCapacityExhausted = errors.New("capacity exhausted")

	// ErrNotFound covers a lookup by a missing key or id.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientResources covers short gold, catalyst material, or
	// item quantity.
	ErrInsufficientResources = errors.New("insufficient resources")

	// ErrValidationFailed covers a budget overrun, a locked affix target,
	// or a banned affix pair. Transactional operations roll back state
	// before returning it.
	ErrValidationFailed = errors.New("validation failed")

	// ErrSchemaUnsupported covers a descriptor pack version with no
	// registered migration path.
	ErrSchemaUnsupported = errors.New("schema unsupported")

	// ErrPackParseError covers a malformed descriptor file.
	ErrPackParseError = errors.New("pack parse error")

	// ErrIOError covers a failed directory scan or file read.
	ErrIOError = errors.New("io error")

	// ErrResourceAllocFailed covers a failed cache, arena, or map
	// allocation.
	ErrResourceAllocFailed = errors.New("resource allocation failed")
)
