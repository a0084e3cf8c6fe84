package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CandidateQuery bounds a candidate fetch issued by the search components.
type CandidateQuery struct {
	// Text is an optional free-text expression. Stores that support text
	// matching use it to pre-filter candidates; an empty value selects
	// the most recently created records instead.
	Text string

	// Limit caps the number of candidates returned. Stores treat a
	// non-positive limit as "use the store default".
	Limit int

	// TrustedOnly restricts candidates to verified records. Used by the
	// suggestion path which works off a small high-trust window.
	TrustedOnly bool
}

// Store should be implemented by marketplace catalog data stores. Candidate
// queries must never return records whose Searchable() is false.
type Store interface {
	// UpsertVolunteer creates a new or updates an existing volunteer.
	UpsertVolunteer(v *Volunteer) error

	// UpsertNGO creates a new or updates an existing NGO.
	UpsertNGO(n *NGO) error

	// UpsertOpportunity creates a new or updates an existing opportunity.
	UpsertOpportunity(o *Opportunity) error

	// FindVolunteer performs a volunteer lookup by id.
	FindVolunteer(id uuid.UUID) (*Volunteer, error)

	// FindNGO performs an NGO lookup by id.
	FindNGO(id uuid.UUID) (*NGO, error)

	// FindOpportunity performs an opportunity lookup by id.
	FindOpportunity(id uuid.UUID) (*Opportunity, error)

	// Volunteers returns an iterator over volunteer candidates matching
	// the query. The context bounds the fetch, not the iteration.
	Volunteers(ctx context.Context, q CandidateQuery) (VolunteerIterator, error)

	// NGOs returns an iterator over NGO candidates matching the query.
	NGOs(ctx context.Context, q CandidateQuery) (NGOIterator, error)

	// Opportunities returns an iterator over opportunity candidates
	// matching the query.
	Opportunities(ctx context.Context, q CandidateQuery) (OpportunityIterator, error)
}

// Iterator should be embedded / implemented by types that require
// iteration functionality.
type Iterator interface {
	// Next loads the next item, returns false when no more records
	// are available or when an error occurs.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources allocated to the iterator.
	Close() error
}

// VolunteerIterator is implemented by types that iterate volunteer records.
type VolunteerIterator interface {
	Iterator

	// Volunteer returns the currently fetched volunteer record.
	Volunteer() *Volunteer
}

// NGOIterator is implemented by types that iterate NGO records.
type NGOIterator interface {
	Iterator

	// NGO returns the currently fetched NGO record.
	NGO() *NGO
}

// OpportunityIterator is implemented by types that iterate opportunity
// records.
type OpportunityIterator interface {
	Iterator

	// Opportunity returns the currently fetched opportunity record.
	Opportunity() *Opportunity
}
