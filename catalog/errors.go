package catalog

import "errors"

var (
	// ErrNotFound is returned by a store when it attempts to look up
	// a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMissingID is returned when a store attempts to upsert a record
	// with an invalid / missing id.
	ErrMissingID = errors.New("record has missing / invalid id")

	// ErrUnknownEntityType is returned when a caller requests candidates
	// for an entity type the store does not recognise.
	ErrUnknownEntityType = errors.New("unknown entity type")
)
