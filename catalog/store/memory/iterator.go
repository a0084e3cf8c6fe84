package memory

import "github.com/voluntree/voluntree/catalog"

// Static and compile-time checks to ensure the iterators implement the
// catalog iterator interfaces.
var (
	_ catalog.VolunteerIterator   = (*volunteerIterator)(nil)
	_ catalog.NGOIterator         = (*ngoIterator)(nil)
	_ catalog.OpportunityIterator = (*opportunityIterator)(nil)
)

// volunteerIterator walks a snapshot of volunteer candidates materialized
// at query time.
type volunteerIterator struct {
	records []*catalog.Volunteer
	currIdx int
}

// Next loads the next record, returns false when no more records are
// available.
func (i *volunteerIterator) Next() bool {
	if i.currIdx+1 >= len(i.records) {
		return false
	}

	i.currIdx++

	return true
}

// Error returns the last error encountered by the iterator.
func (i *volunteerIterator) Error() error { return nil }

// Close releases any resources allocated to the iterator.
func (i *volunteerIterator) Close() error {
	i.records = nil

	return nil
}

// Volunteer returns the currently fetched volunteer record.
func (i *volunteerIterator) Volunteer() *catalog.Volunteer {
	return i.records[i.currIdx]
}

// ngoIterator walks a snapshot of NGO candidates materialized at query
// time.
type ngoIterator struct {
	records []*catalog.NGO
	currIdx int
}

func (i *ngoIterator) Next() bool {
	if i.currIdx+1 >= len(i.records) {
		return false
	}

	i.currIdx++

	return true
}

func (i *ngoIterator) Error() error { return nil }

func (i *ngoIterator) Close() error {
	i.records = nil

	return nil
}

// NGO returns the currently fetched NGO record.
func (i *ngoIterator) NGO() *catalog.NGO {
	return i.records[i.currIdx]
}

// opportunityIterator walks a snapshot of opportunity candidates
// materialized at query time.
type opportunityIterator struct {
	records []*catalog.Opportunity
	currIdx int
}

func (i *opportunityIterator) Next() bool {
	if i.currIdx+1 >= len(i.records) {
		return false
	}

	i.currIdx++

	return true
}

func (i *opportunityIterator) Error() error { return nil }

func (i *opportunityIterator) Close() error {
	i.records = nil

	return nil
}

// Opportunity returns the currently fetched opportunity record.
func (i *opportunityIterator) Opportunity() *catalog.Opportunity {
	return i.records[i.currIdx]
}
