package es

import (
	"github.com/voluntree/voluntree/catalog"
)

// Static and compile-time checks to ensure the iterators implement the
// catalog iterator interfaces.
var (
	_ catalog.VolunteerIterator   = (*volunteerIterator)(nil)
	_ catalog.NGOIterator         = (*ngoIterator)(nil)
	_ catalog.OpportunityIterator = (*opportunityIterator)(nil)
)

// esIterator walks a page of elasticsearch hits materialized at query time.
// Decoding happens lazily per record; a decode failure stops iteration and
// is surfaced through Error.
type esIterator struct {
	docs    []esDoc
	currIdx int
	lastErr error
}

// Next advances the iterator, returns false when no more hits are
// available or when an error occurs.
func (i *esIterator) Next() bool {
	if i.lastErr != nil || i.currIdx+1 >= len(i.docs) {
		return false
	}

	i.currIdx++

	return true
}

// Error returns the last error encountered by the iterator.
func (i *esIterator) Error() error { return i.lastErr }

// Close releases any resources allocated to the iterator.
func (i *esIterator) Close() error {
	i.docs = nil

	return nil
}

type volunteerIterator struct {
	esIterator
}

// Volunteer returns the currently fetched volunteer record.
func (i *volunteerIterator) Volunteer() *catalog.Volunteer {
	v, err := esDocToVolunteer(&i.docs[i.currIdx])
	if err != nil {
		i.lastErr = err

		return &catalog.Volunteer{}
	}

	return v
}

type ngoIterator struct {
	esIterator
}

// NGO returns the currently fetched NGO record.
func (i *ngoIterator) NGO() *catalog.NGO {
	n, err := esDocToNGO(&i.docs[i.currIdx])
	if err != nil {
		i.lastErr = err

		return &catalog.NGO{}
	}

	return n
}

type opportunityIterator struct {
	esIterator
}

// Opportunity returns the currently fetched opportunity record.
func (i *opportunityIterator) Opportunity() *catalog.Opportunity {
	o, err := esDocToOpportunity(&i.docs[i.currIdx])
	if err != nil {
		i.lastErr = err

		return &catalog.Opportunity{}
	}

	return o
}
