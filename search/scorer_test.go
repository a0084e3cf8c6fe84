package search

import (
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock/testclock"
	check "gopkg.in/check.v1"

	"github.com/voluntree/voluntree/catalog"
	"github.com/voluntree/voluntree/match"
	"github.com/voluntree/voluntree/taxonomy"
)

var _ = check.Suite(new(ScorerTestSuite))

type ScorerTestSuite struct {
	clk    *testclock.Clock
	scorer *Scorer
}

func (s *ScorerTestSuite) SetUpTest(c *check.C) {
	s.clk = testclock.NewClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	scorer, err := NewScorer(ScorerConfig{
		Taxonomy: taxonomy.MustLoadDefault(),
		Clock:    s.clk,
	})
	c.Assert(err, check.IsNil)

	s.scorer = scorer
}

func (s *ScorerTestSuite) TestScorerConfigValidation(c *check.C) {
	config := ScorerConfig{Taxonomy: taxonomy.MustLoadDefault()}
	c.Assert(config.validate(), check.IsNil)
	c.Assert(config.Weights, check.Equals, DefaultWeights(), check.Commentf("default weights were not assigned"))
	c.Assert(config.RecencyHorizon, check.Equals, defaultRecencyHorizon)
	c.Assert(config.Clock, check.Not(check.IsNil), check.Commentf("default clock was not assigned"))

	config = ScorerConfig{}
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*taxonomy not provided.*")

	config = ScorerConfig{
		Taxonomy: taxonomy.MustLoadDefault(),
		Weights:  Weights{Text: -1, Skill: 35, Trust: 15, Facet: 10},
	}
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*must not be negative.*")
}

func (s *ScorerTestSuite) TestZeroOverlapGate(c *check.C) {
	q := prepareQuery(Query{
		Text:        "graphic designer",
		SkillFilter: []string{"ui-design"},
	})

	// Maximum trust signals cannot rescue a document with zero text and
	// zero skill overlap.
	doc := &Document{
		ID:             uuid.New(),
		Type:           TypeVolunteer,
		Title:          "Bookkeeper",
		SearchableText: "bookkeeper monthly accounts review",
		SkillIDs:       []string{"accounting"},
		CategoryIDs:    []string{"legal"},
		Facets:         Facets{Rating: 5},
		Flags:          Flags{Verified: true, Active: true},
		CreatedAt:      s.clk.Now(),
	}

	_, ok := s.scorer.score(q, doc)
	c.Assert(ok, check.Equals, false)
}

func (s *ScorerTestSuite) TestExactSkillMatchOutranksTransferable(c *check.C) {
	q := prepareQuery(Query{SkillFilter: []string{"ui-design"}})

	exact := &Document{
		ID:          uuid.New(),
		Type:        TypeVolunteer,
		SkillIDs:    []string{"ui-design"},
		CategoryIDs: []string{"design"},
		CreatedAt:   s.clk.Now(),
	}
	transferable := &Document{
		ID:          uuid.New(),
		Type:        TypeVolunteer,
		SkillIDs:    []string{"graphic-design"},
		CategoryIDs: []string{"design"},
		CreatedAt:   s.clk.Now(),
	}

	exactRes, ok := s.scorer.score(q, exact)
	c.Assert(ok, check.Equals, true)

	transferableRes, ok := s.scorer.score(q, transferable)
	c.Assert(ok, check.Equals, true)

	c.Assert(exactRes.Score > transferableRes.Score, check.Equals, true)
	c.Assert(transferableRes.Score > 0, check.Equals, true)
	c.Assert(exactRes.MatchedSkillIDs, check.DeepEquals, []string{"ui-design"})
	c.Assert(transferableRes.MatchedSkillIDs, check.DeepEquals, []string{"ui-design"})
}

func (s *ScorerTestSuite) TestInactiveDimensionsRedistribute(c *check.C) {
	// A skill-only query drops the text and facet weights from the
	// denominator, so a perfect skill match with full trust signals still
	// reaches the top of the scale.
	q := prepareQuery(Query{SkillFilter: []string{"ui-design"}})

	doc := &Document{
		ID:          uuid.New(),
		Type:        TypeVolunteer,
		SkillIDs:    []string{"ui-design"},
		CategoryIDs: []string{"design"},
		Facets:      Facets{Rating: 5},
		Flags:       Flags{Verified: true, Active: true},
		CreatedAt:   s.clk.Now(),
	}

	res, ok := s.scorer.score(q, doc)
	c.Assert(ok, check.Equals, true)
	c.Assert(res.Score, check.Equals, 100.0)
}

func (s *ScorerTestSuite) TestPhraseBonus(c *check.C) {
	q := prepareQuery(Query{Text: "graphic design"})

	phrase := &Document{
		ID:             uuid.New(),
		Type:           TypeVolunteer,
		SearchableText: "graphic design for non-profits",
		CreatedAt:      s.clk.Now(),
	}
	scattered := &Document{
		ID:             uuid.New(),
		Type:           TypeVolunteer,
		SearchableText: "design lover and graphic artist",
		CreatedAt:      s.clk.Now(),
	}

	phraseRes, ok := s.scorer.score(q, phrase)
	c.Assert(ok, check.Equals, true)

	scatteredRes, ok := s.scorer.score(q, scattered)
	c.Assert(ok, check.Equals, true)

	c.Assert(phraseRes.Score > scatteredRes.Score, check.Equals, true)
}

func (s *ScorerTestSuite) TestRecencyDecay(c *check.C) {
	q := prepareQuery(Query{Text: "designer"})

	doc := &Document{
		ID:             uuid.New(),
		Type:           TypeVolunteer,
		SearchableText: "designer",
		CreatedAt:      s.clk.Now(),
	}

	fresh, ok := s.scorer.score(q, doc)
	c.Assert(ok, check.Equals, true)

	// Advance past the recency horizon; the same document now scores
	// strictly lower.
	s.clk.Advance(defaultRecencyHorizon + time.Hour)

	stale, ok := s.scorer.score(q, doc)
	c.Assert(ok, check.Equals, true)
	c.Assert(stale.Score < fresh.Score, check.Equals, true)

	// A document with no creation timestamp earns no recency at all.
	doc.CreatedAt = time.Time{}
	timeless, ok := s.scorer.score(q, doc)
	c.Assert(ok, check.Equals, true)
	c.Assert(timeless.Score, check.Equals, stale.Score)
}

func (s *ScorerTestSuite) TestFilterAndScorerShareSkillPredicate(c *check.C) {
	// The hard opportunity filter and the scorer's skill dimension run
	// over the same volunteer/opportunity pairs here: a pair the filter
	// keeps on skill grounds must earn skill credit from the scorer, and
	// a pair the filter drops must earn none.
	tax := taxonomy.MustLoadDefault()

	volunteer := &catalog.Volunteer{
		Skills: []catalog.VolunteerSkill{{SubskillID: "graphic-design"}},
	}
	skillSet := match.NewSkillSet(tax, volunteer.Skills)

	transferable := &catalog.Opportunity{
		ID:    uuid.New(),
		Title: "Redesign our donor portal",
		RequiredSkills: []catalog.RequiredSkill{
			{SubskillID: "ui-design"},
		},
		CreatedAt: s.clk.Now(),
	}
	unrelated := &catalog.Opportunity{
		ID:    uuid.New(),
		Title: "Build a volunteer API",
		RequiredSkills: []catalog.RequiredSkill{
			{SubskillID: "web-development"},
		},
		CreatedAt: s.clk.Now(),
	}

	kept := match.FilterOpportunities(skillSet, []*catalog.Opportunity{
		transferable, unrelated,
	})
	c.Assert(kept, check.HasLen, 1)
	c.Assert(kept[0].ID, check.Equals, transferable.ID)

	normalizer := NewNormalizer(tax)
	q := prepareQuery(Query{SkillFilter: volunteer.SubskillIDs()})

	res, ok := s.scorer.score(q, normalizer.OpportunityDocument(transferable))
	c.Assert(ok, check.Equals, true)
	c.Assert(res.Score > 0, check.Equals, true)
	c.Assert(res.MatchedSkillIDs, check.DeepEquals, []string{"graphic-design"})

	_, ok = s.scorer.score(q, normalizer.OpportunityDocument(unrelated))
	c.Assert(ok, check.Equals, false)
}

func (s *ScorerTestSuite) TestFacetFit(c *check.C) {
	fc := &FacetConstraints{MaxHourlyRate: 25, MinRating: 4, MaxHoursPerWeek: 10}

	// Unspecified document facets are neutral and count as satisfied.
	unspecified := &Document{}
	c.Assert(s.scorer.facetFit(fc, unspecified), check.Equals, 1.0)

	satisfying := &Document{Facets: Facets{HourlyRate: 20, Rating: 4.5, HoursPerWeek: 8}}
	c.Assert(s.scorer.facetFit(fc, satisfying), check.Equals, 1.0)

	violating := &Document{Facets: Facets{HourlyRate: 30, Rating: 3, HoursPerWeek: 20}}
	c.Assert(s.scorer.facetFit(fc, violating), check.Equals, 0.0)

	partial := &Document{Facets: Facets{HourlyRate: 30, Rating: 4.5, HoursPerWeek: 8}}
	c.Assert(s.scorer.facetFit(fc, partial), check.Equals, 2.0/3.0)
}
