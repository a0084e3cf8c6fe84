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

var _ = check.Suite(new(SuggestTestSuite))

type SuggestTestSuite struct {
	clk    *testclock.Clock
	store  *memstore.InMemoryStore
	engine *Engine
}

func (s *SuggestTestSuite) SetUpTest(c *check.C) {
	s.clk = testclock.NewClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	store, err := memstore.NewInMemoryStore()
	c.Assert(err, check.IsNil)
	s.store = store

	engine, err := New(Config{
		CatalogAPI: store,
		Taxonomy:   taxonomy.MustLoadDefault(),
		Clock:      s.clk,
	})
	c.Assert(err, check.IsNil)
	s.engine = engine
}

func (s *SuggestTestSuite) TearDownTest(c *check.C) {
	c.Assert(s.store.Close(), check.IsNil)
}

func (s *SuggestTestSuite) upsertNGO(c *check.C, name string, verified bool) uuid.UUID {
	n := &catalog.NGO{
		ID:        uuid.New(),
		Name:      name,
		Verified:  verified,
		Active:    true,
		CreatedAt: s.clk.Now(),
	}
	c.Assert(s.store.UpsertNGO(n), check.IsNil)

	return n.ID
}

func (s *SuggestTestSuite) TestPrefixOutranksSubstring(c *check.C) {
	prefixID := s.upsertNGO(c, "Design for Good", true)
	substringID := s.upsertNGO(c, "Modern Design Studio", true)

	suggestions, err := s.engine.Suggest(context.TODO(), SuggestionQuery{
		Text:  "des",
		Types: []EntityType{TypeNGO},
	})
	c.Assert(err, check.IsNil)
	c.Assert(suggestions, check.HasLen, 2)
	c.Assert(suggestions[0].ID, check.Equals, prefixID)
	c.Assert(suggestions[0].Label, check.Equals, "Design for Good")
	c.Assert(suggestions[1].ID, check.Equals, substringID)
}

func (s *SuggestTestSuite) TestUnverifiedRecordsExcluded(c *check.C) {
	s.upsertNGO(c, "Design Outsiders", false)
	verifiedID := s.upsertNGO(c, "Design Collective", true)

	suggestions, err := s.engine.Suggest(context.TODO(), SuggestionQuery{
		Text:  "design",
		Types: []EntityType{TypeNGO},
	})
	c.Assert(err, check.IsNil)
	c.Assert(suggestions, check.HasLen, 1)
	c.Assert(suggestions[0].ID, check.Equals, verifiedID)
}

func (s *SuggestTestSuite) TestSuggestionCap(c *check.C) {
	for i := 0; i < MaxSuggestions+4; i++ {
		s.upsertNGO(c, fmt.Sprintf("Designers United %02d", i), true)
	}

	suggestions, err := s.engine.Suggest(context.TODO(), SuggestionQuery{
		Text: "designers",
	})
	c.Assert(err, check.IsNil)
	c.Assert(suggestions, check.HasLen, MaxSuggestions)

	// Limits beyond the cap are clamped as well.
	suggestions, err = s.engine.Suggest(context.TODO(), SuggestionQuery{
		Text:  "designers",
		Limit: 100,
	})
	c.Assert(err, check.IsNil)
	c.Assert(suggestions, check.HasLen, MaxSuggestions)

	seen := make(map[uuid.UUID]struct{})
	for _, sg := range suggestions {
		_, exists := seen[sg.ID]
		c.Assert(exists, check.Equals, false, check.Commentf("duplicate suggestion id"))
		seen[sg.ID] = struct{}{}
	}
}

func (s *SuggestTestSuite) TestEmptyPartialText(c *check.C) {
	s.upsertNGO(c, "Design for Good", true)

	suggestions, err := s.engine.Suggest(context.TODO(), SuggestionQuery{Text: "  "})
	c.Assert(err, check.IsNil)
	c.Assert(suggestions, check.HasLen, 0)
}

func (s *SuggestTestSuite) TestWindowCaching(c *check.C) {
	s.upsertNGO(c, "Design for Good", true)

	suggestions, err := s.engine.Suggest(context.TODO(), SuggestionQuery{
		Text:  "design",
		Types: []EntityType{TypeNGO},
	})
	c.Assert(err, check.IsNil)
	c.Assert(suggestions, check.HasLen, 1)

	// A record added while the window is still live stays invisible.
	s.upsertNGO(c, "Design Collective", true)

	suggestions, err = s.engine.Suggest(context.TODO(), SuggestionQuery{
		Text:  "design",
		Types: []EntityType{TypeNGO},
	})
	c.Assert(err, check.IsNil)
	c.Assert(suggestions, check.HasLen, 1)

	// Once the window expires it is refetched and the record surfaces.
	s.clk.Advance(suggestionWindowTTL + time.Second)

	suggestions, err = s.engine.Suggest(context.TODO(), SuggestionQuery{
		Text:  "design",
		Types: []EntityType{TypeNGO},
	})
	c.Assert(err, check.IsNil)
	c.Assert(suggestions, check.HasLen, 2)
}

func (s *SuggestTestSuite) TestAllWindowFetchesFailed(c *check.C) {
	engine, err := New(Config{
		CatalogAPI: &flakyCatalog{
			CatalogAPI:        s.store,
			failVolunteers:    true,
			failNGOs:          true,
			failOpportunities: true,
		},
		Taxonomy: taxonomy.MustLoadDefault(),
		Clock:    s.clk,
	})
	c.Assert(err, check.IsNil)

	_, err = engine.Suggest(context.TODO(), SuggestionQuery{Text: "design"})
	c.Assert(err, check.ErrorMatches, "(?ms).*all window fetches failed.*")
}
