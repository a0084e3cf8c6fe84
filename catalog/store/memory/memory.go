package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve"
	"github.com/google/uuid"

	"github.com/voluntree/voluntree/catalog"
)

// Static and compile-time check to ensure InMemoryStore implements Store.
var _ catalog.Store = (*InMemoryStore)(nil)

const defaultCandidateLimit = 100

// bleveDoc is the projection of a record kept in the candidate prefilter
// index.
type bleveDoc struct {
	Title string
	Text  string
}

// InMemoryStore is a catalog.Store implementation that keeps all records in
// memory and uses per-type bleve instances to prefilter text candidates.
// Intended for local development and tests.
type InMemoryStore struct {
	mu sync.RWMutex

	volunteers    map[uuid.UUID]*catalog.Volunteer
	ngos          map[uuid.UUID]*catalog.NGO
	opportunities map[uuid.UUID]*catalog.Opportunity

	volunteerIdx   bleve.Index
	ngoIdx         bleve.Index
	opportunityIdx bleve.Index
}

// NewInMemoryStore instantiates and returns a catalog store that keeps its
// records and candidate indexes in memory.
func NewInMemoryStore() (*InMemoryStore, error) {
	indexes := make([]bleve.Index, 3)
	for i := range indexes {
		idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
		if err != nil {
			return nil, err
		}

		indexes[i] = idx
	}

	return &InMemoryStore{
		volunteers:     make(map[uuid.UUID]*catalog.Volunteer),
		ngos:           make(map[uuid.UUID]*catalog.NGO),
		opportunities:  make(map[uuid.UUID]*catalog.Opportunity),
		volunteerIdx:   indexes[0],
		ngoIdx:         indexes[1],
		opportunityIdx: indexes[2],
	}, nil
}

// Close releases the bleve indexes backing the candidate prefilter.
func (s *InMemoryStore) Close() error {
	for _, idx := range []bleve.Index{s.volunteerIdx, s.ngoIdx, s.opportunityIdx} {
		if err := idx.Close(); err != nil {
			return err
		}
	}

	return nil
}

// UpsertVolunteer creates a new or updates an existing volunteer.
func (s *InMemoryStore) UpsertVolunteer(v *catalog.Volunteer) error {
	if v.ID == uuid.Nil {
		return fmt.Errorf("upsert volunteer: %w", catalog.ErrMissingID)
	}

	vCopy := new(catalog.Volunteer)
	*vCopy = *v
	if vCopy.CreatedAt.IsZero() {
		vCopy.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := bleveDoc{
		Title: vCopy.DisplayName,
		Text:  vCopy.Bio + " " + strings.Join(vCopy.Tags, " "),
	}
	if err := s.volunteerIdx.Index(vCopy.ID.String(), doc); err != nil {
		return fmt.Errorf("upsert volunteer: %w", err)
	}

	s.volunteers[vCopy.ID] = vCopy

	return nil
}

// UpsertNGO creates a new or updates an existing NGO.
func (s *InMemoryStore) UpsertNGO(n *catalog.NGO) error {
	if n.ID == uuid.Nil {
		return fmt.Errorf("upsert ngo: %w", catalog.ErrMissingID)
	}

	nCopy := new(catalog.NGO)
	*nCopy = *n
	if nCopy.CreatedAt.IsZero() {
		nCopy.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := bleveDoc{
		Title: nCopy.Name,
		Text:  nCopy.Description + " " + strings.Join(nCopy.Tags, " "),
	}
	if err := s.ngoIdx.Index(nCopy.ID.String(), doc); err != nil {
		return fmt.Errorf("upsert ngo: %w", err)
	}

	s.ngos[nCopy.ID] = nCopy

	return nil
}

// UpsertOpportunity creates a new or updates an existing opportunity.
func (s *InMemoryStore) UpsertOpportunity(o *catalog.Opportunity) error {
	if o.ID == uuid.Nil {
		return fmt.Errorf("upsert opportunity: %w", catalog.ErrMissingID)
	}

	oCopy := new(catalog.Opportunity)
	*oCopy = *o
	if oCopy.CreatedAt.IsZero() {
		oCopy.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := bleveDoc{
		Title: oCopy.Title,
		Text: oCopy.Description + " " + strings.Join(oCopy.Tags, " ") +
			" " + oCopy.NGOName,
	}
	if err := s.opportunityIdx.Index(oCopy.ID.String(), doc); err != nil {
		return fmt.Errorf("upsert opportunity: %w", err)
	}

	s.opportunities[oCopy.ID] = oCopy

	return nil
}

// FindVolunteer performs a volunteer lookup by id.
func (s *InMemoryStore) FindVolunteer(id uuid.UUID) (*catalog.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, exists := s.volunteers[id]; exists {
		vCopy := new(catalog.Volunteer)
		*vCopy = *v

		return vCopy, nil
	}

	return nil, fmt.Errorf("find volunteer: %w", catalog.ErrNotFound)
}

// FindNGO performs an NGO lookup by id.
func (s *InMemoryStore) FindNGO(id uuid.UUID) (*catalog.NGO, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n, exists := s.ngos[id]; exists {
		nCopy := new(catalog.NGO)
		*nCopy = *n

		return nCopy, nil
	}

	return nil, fmt.Errorf("find ngo: %w", catalog.ErrNotFound)
}

// FindOpportunity performs an opportunity lookup by id.
func (s *InMemoryStore) FindOpportunity(id uuid.UUID) (*catalog.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if o, exists := s.opportunities[id]; exists {
		oCopy := new(catalog.Opportunity)
		*oCopy = *o

		return oCopy, nil
	}

	return nil, fmt.Errorf("find opportunity: %w", catalog.ErrNotFound)
}

// Volunteers returns an iterator over volunteer candidates matching the
// query.
func (s *InMemoryStore) Volunteers(
	_ context.Context, q catalog.CandidateQuery,
) (catalog.VolunteerIterator, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, err := s.candidateIDs(s.volunteerIdx, q, func(id uuid.UUID) (bool, bool, time.Time) {
		v, exists := s.volunteers[id]
		if !exists {
			return false, false, time.Time{}
		}

		return v.Searchable(), v.Verified, v.CreatedAt
	}, s.volunteerIDs())
	if err != nil {
		return nil, fmt.Errorf("volunteer candidates: %w", err)
	}

	records := make([]*catalog.Volunteer, len(ids))
	for i, id := range ids {
		vCopy := new(catalog.Volunteer)
		*vCopy = *s.volunteers[id]
		records[i] = vCopy
	}

	return &volunteerIterator{records: records, currIdx: -1}, nil
}

// NGOs returns an iterator over NGO candidates matching the query.
func (s *InMemoryStore) NGOs(
	_ context.Context, q catalog.CandidateQuery,
) (catalog.NGOIterator, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, err := s.candidateIDs(s.ngoIdx, q, func(id uuid.UUID) (bool, bool, time.Time) {
		n, exists := s.ngos[id]
		if !exists {
			return false, false, time.Time{}
		}

		return n.Searchable(), n.Verified, n.CreatedAt
	}, s.ngoIDs())
	if err != nil {
		return nil, fmt.Errorf("ngo candidates: %w", err)
	}

	records := make([]*catalog.NGO, len(ids))
	for i, id := range ids {
		nCopy := new(catalog.NGO)
		*nCopy = *s.ngos[id]
		records[i] = nCopy
	}

	return &ngoIterator{records: records, currIdx: -1}, nil
}

// Opportunities returns an iterator over opportunity candidates matching
// the query.
func (s *InMemoryStore) Opportunities(
	_ context.Context, q catalog.CandidateQuery,
) (catalog.OpportunityIterator, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, err := s.candidateIDs(s.opportunityIdx, q, func(id uuid.UUID) (bool, bool, time.Time) {
		o, exists := s.opportunities[id]
		if !exists {
			return false, false, time.Time{}
		}

		return o.Searchable(), o.Verified, o.CreatedAt
	}, s.opportunityIDs())
	if err != nil {
		return nil, fmt.Errorf("opportunity candidates: %w", err)
	}

	records := make([]*catalog.Opportunity, len(ids))
	for i, id := range ids {
		oCopy := new(catalog.Opportunity)
		*oCopy = *s.opportunities[id]
		records[i] = oCopy
	}

	return &opportunityIterator{records: records, currIdx: -1}, nil
}

// candidateIDs selects up to q.Limit candidate ids. When the query carries
// text, bleve hits are preferred and the remainder of the budget is topped
// up with the most recent records, so partially-typed terms still surface
// candidates for the scorer to grade.
func (s *InMemoryStore) candidateIDs(
	idx bleve.Index,
	q catalog.CandidateQuery,
	inspect func(uuid.UUID) (searchable, verified bool, createdAt time.Time),
	allIDs []uuid.UUID,
) ([]uuid.UUID, error) {

	limit := q.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}

	eligible := func(id uuid.UUID) bool {
		searchable, verified, _ := inspect(id)
		if !searchable {
			return false
		}

		return !q.TrustedOnly || verified
	}

	picked := make([]uuid.UUID, 0, limit)
	seen := make(map[uuid.UUID]struct{}, limit)

	if q.Text != "" {
		searchReq := bleve.NewSearchRequest(bleve.NewMatchQuery(q.Text))
		searchReq.Size = limit

		res, err := idx.Search(searchReq)
		if err != nil {
			return nil, err
		}

		for _, hit := range res.Hits {
			id, err := uuid.Parse(hit.ID)
			if err != nil {
				continue
			}

			if eligible(id) {
				picked = append(picked, id)
				seen[id] = struct{}{}
			}
		}
	}

	// Top up with the most recent eligible records, newest first with ids
	// as the final tie-break so repeated queries return identical sets.
	rest := make([]uuid.UUID, 0, len(allIDs))
	for _, id := range allIDs {
		if _, exists := seen[id]; exists {
			continue
		}

		if eligible(id) {
			rest = append(rest, id)
		}
	}

	sort.Slice(rest, func(i, j int) bool {
		_, _, a := inspect(rest[i])
		_, _, b := inspect(rest[j])
		if !a.Equal(b) {
			return a.After(b)
		}

		return rest[i].String() < rest[j].String()
	})

	for _, id := range rest {
		if len(picked) == limit {
			break
		}

		picked = append(picked, id)
	}

	if len(picked) > limit {
		picked = picked[:limit]
	}

	return picked, nil
}

func (s *InMemoryStore) volunteerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.volunteers))
	for id := range s.volunteers {
		ids = append(ids, id)
	}

	return ids
}

func (s *InMemoryStore) ngoIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.ngos))
	for id := range s.ngos {
		ids = append(ids, id)
	}

	return ids
}

func (s *InMemoryStore) opportunityIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.opportunities))
	for id := range s.opportunities {
		ids = append(ids, id)
	}

	return ids
}
