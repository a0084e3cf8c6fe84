package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock/testclock"
	check "gopkg.in/check.v1"

	"github.com/voluntree/voluntree/catalog"
	memstore "github.com/voluntree/voluntree/catalog/store/memory"
	"github.com/voluntree/voluntree/taxonomy"
)

var _ = check.Suite(new(EngineConfigTestSuite))
var _ = check.Suite(new(EngineTestSuite))

type EngineConfigTestSuite struct{}

func (s *EngineConfigTestSuite) TestConfigValidation(c *check.C) {
	store, err := memstore.NewInMemoryStore()
	c.Assert(err, check.IsNil)
	defer func() { _ = store.Close() }()

	originalConfig := Config{
		CatalogAPI: store,
		Taxonomy:   taxonomy.MustLoadDefault(),
	}

	config := originalConfig
	c.Assert(config.validate(), check.IsNil)
	c.Assert(config.CandidatesPerType, check.Equals, defaultCandidatesPerType, check.Commentf("default candidate budget was not assigned"))
	c.Assert(config.MaxResults, check.Equals, defaultMaxResults, check.Commentf("default result cap was not assigned"))
	c.Assert(config.FetchTimeout, check.Equals, defaultFetchTimeout, check.Commentf("default fetch timeout was not assigned"))
	c.Assert(config.Clock, check.Not(check.IsNil), check.Commentf("default clock was not assigned"))
	c.Assert(config.Logger, check.Not(check.IsNil), check.Commentf("default logger was not assigned"))

	config = originalConfig
	config.CatalogAPI = nil
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*catalog API not provided.*")

	config = originalConfig
	config.Taxonomy = nil
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*taxonomy not provided.*")
}

type EngineTestSuite struct {
	clk   *testclock.Clock
	store *memstore.InMemoryStore
}

func (s *EngineTestSuite) SetUpTest(c *check.C) {
	s.clk = testclock.NewClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	store, err := memstore.NewInMemoryStore()
	c.Assert(err, check.IsNil)

	s.store = store
}

func (s *EngineTestSuite) TearDownTest(c *check.C) {
	c.Assert(s.store.Close(), check.IsNil)
}

func (s *EngineTestSuite) newEngine(c *check.C, api CatalogAPI) *Engine {
	engine, err := New(Config{
		CatalogAPI: api,
		Taxonomy:   taxonomy.MustLoadDefault(),
		Clock:      s.clk,
	})
	c.Assert(err, check.IsNil)

	return engine
}

func (s *EngineTestSuite) upsertVolunteer(c *check.C, v *catalog.Volunteer) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.Active = true
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.clk.Now()
	}

	c.Assert(s.store.UpsertVolunteer(v), check.IsNil)
}

func (s *EngineTestSuite) TestRankingOrder(c *check.C) {
	textAndSkill := &catalog.Volunteer{
		DisplayName: "Ada",
		Bio:         "I do design work for charities",
		Skills:      []catalog.VolunteerSkill{{SubskillID: "ui-design"}},
		Rating:      5,
		Verified:    true,
	}
	textOnly := &catalog.Volunteer{
		DisplayName: "Ben",
		Bio:         "design enthusiast",
	}
	skillOnly := &catalog.Volunteer{
		DisplayName: "Cara",
		Bio:         "illustration portfolio",
		Skills:      []catalog.VolunteerSkill{{SubskillID: "graphic-design"}},
	}

	for _, v := range []*catalog.Volunteer{textAndSkill, textOnly, skillOnly} {
		s.upsertVolunteer(c, v)
	}

	engine := s.newEngine(c, s.store)

	res, err := engine.Search(context.TODO(), Query{
		Text:        "design",
		Types:       []EntityType{TypeVolunteer},
		SkillFilter: []string{"ui-design"},
	})
	c.Assert(err, check.IsNil)
	c.Assert(res.Total, check.Equals, 3)
	c.Assert(res.Results, check.HasLen, 3)

	c.Assert(res.Results[0].Document.ID, check.Equals, textAndSkill.ID)
	c.Assert(res.Results[1].Document.ID, check.Equals, textOnly.ID)
	c.Assert(res.Results[2].Document.ID, check.Equals, skillOnly.ID)

	// Scores are bounded and strictly ordered.
	for i, r := range res.Results {
		c.Assert(r.Score > 0 && r.Score <= 100, check.Equals, true)
		if i > 0 {
			c.Assert(res.Results[i-1].Score > r.Score, check.Equals, true)
		}
	}
}

func (s *EngineTestSuite) TestLimitAndTotal(c *check.C) {
	for i := 0; i < 5; i++ {
		s.upsertVolunteer(c, &catalog.Volunteer{
			DisplayName: fmt.Sprintf("designer %d", i),
			CreatedAt:   s.clk.Now().Add(-time.Duration(i) * time.Hour),
		})
	}

	engine := s.newEngine(c, s.store)

	// The limit truncates the result list but never the total.
	res, err := engine.Search(context.TODO(), Query{Text: "designer", Limit: 2})
	c.Assert(err, check.IsNil)
	c.Assert(res.Results, check.HasLen, 2)
	c.Assert(res.Total, check.Equals, 5)
}

func (s *EngineTestSuite) TestDeterminism(c *check.C) {
	now := s.clk.Now()
	for i := 0; i < 4; i++ {
		// Identical timestamps force the tie-break path.
		s.upsertVolunteer(c, &catalog.Volunteer{
			DisplayName: fmt.Sprintf("designer %d", i),
			CreatedAt:   now,
		})
	}

	engine := s.newEngine(c, s.store)

	first, err := engine.Search(context.TODO(), Query{Text: "designer"})
	c.Assert(err, check.IsNil)

	second, err := engine.Search(context.TODO(), Query{Text: "designer"})
	c.Assert(err, check.IsNil)

	c.Assert(second, check.DeepEquals, first)
}

func (s *EngineTestSuite) TestBlankQuery(c *check.C) {
	s.upsertVolunteer(c, &catalog.Volunteer{DisplayName: "Ada"})

	engine := s.newEngine(c, s.store)

	res, err := engine.Search(context.TODO(), Query{Text: "   "})
	c.Assert(err, check.IsNil)
	c.Assert(res.Results, check.HasLen, 0)
	c.Assert(res.Total, check.Equals, 0)
}

func (s *EngineTestSuite) TestPartialFetchFailureDegrades(c *check.C) {
	s.upsertVolunteer(c, &catalog.Volunteer{DisplayName: "designer"})

	engine := s.newEngine(c, &flakyCatalog{
		CatalogAPI: s.store,
		failNGOs:   true,
	})

	// One failed type degrades to zero results for that type; the others
	// still contribute.
	res, err := engine.Search(context.TODO(), Query{Text: "designer"})
	c.Assert(err, check.IsNil)
	c.Assert(res.Total, check.Equals, 1)
}

func (s *EngineTestSuite) TestMidStreamIteratorFailureDropsPartialBatch(c *check.C) {
	s.upsertVolunteer(c, &catalog.Volunteer{DisplayName: "designer ada"})

	ngo := &catalog.NGO{
		ID:        uuid.New(),
		Name:      "Designer Collective",
		Active:    true,
		CreatedAt: s.clk.Now(),
	}
	c.Assert(s.store.UpsertNGO(ngo), check.IsNil)

	engine := s.newEngine(c, &midStreamFailCatalog{CatalogAPI: s.store})

	// The volunteer iterator yields its records and then reports an error.
	// The documents collected before the error must not leak into the
	// merged candidate set: a failed type contributes nothing.
	res, err := engine.Search(context.TODO(), Query{
		Text:  "designer",
		Types: []EntityType{TypeVolunteer, TypeNGO},
	})
	c.Assert(err, check.IsNil)
	c.Assert(res.Total, check.Equals, 1)
	c.Assert(res.Results[0].Document.ID, check.Equals, ngo.ID)
}

func (s *EngineTestSuite) TestAllFetchesFailed(c *check.C) {
	engine := s.newEngine(c, &flakyCatalog{
		CatalogAPI:        s.store,
		failVolunteers:    true,
		failNGOs:          true,
		failOpportunities: true,
	})

	_, err := engine.Search(context.TODO(), Query{Text: "designer"})
	c.Assert(err, check.ErrorMatches, "(?ms).*all candidate fetches failed.*")
}

// flakyCatalog wraps a CatalogAPI and fails fetches for selected types.
type flakyCatalog struct {
	CatalogAPI
	failVolunteers    bool
	failNGOs          bool
	failOpportunities bool
}

func (f *flakyCatalog) Volunteers(
	ctx context.Context, q catalog.CandidateQuery,
) (catalog.VolunteerIterator, error) {

	if f.failVolunteers {
		return nil, fmt.Errorf("store unavailable")
	}

	return f.CatalogAPI.Volunteers(ctx, q)
}

func (f *flakyCatalog) NGOs(
	ctx context.Context, q catalog.CandidateQuery,
) (catalog.NGOIterator, error) {

	if f.failNGOs {
		return nil, fmt.Errorf("store unavailable")
	}

	return f.CatalogAPI.NGOs(ctx, q)
}

func (f *flakyCatalog) Opportunities(
	ctx context.Context, q catalog.CandidateQuery,
) (catalog.OpportunityIterator, error) {

	if f.failOpportunities {
		return nil, fmt.Errorf("store unavailable")
	}

	return f.CatalogAPI.Opportunities(ctx, q)
}

// midStreamFailCatalog serves volunteer iterators that yield their records
// normally but report an error once the stream ends.
type midStreamFailCatalog struct {
	CatalogAPI
}

func (f *midStreamFailCatalog) Volunteers(
	ctx context.Context, q catalog.CandidateQuery,
) (catalog.VolunteerIterator, error) {

	it, err := f.CatalogAPI.Volunteers(ctx, q)
	if err != nil {
		return nil, err
	}

	return &failingVolunteerIterator{VolunteerIterator: it}, nil
}

type failingVolunteerIterator struct {
	catalog.VolunteerIterator
}

func (it *failingVolunteerIterator) Error() error {
	return fmt.Errorf("connection reset")
}
