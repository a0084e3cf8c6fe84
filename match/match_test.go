package match

import (
	"testing"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/voluntree/voluntree/catalog"
	"github.com/voluntree/voluntree/taxonomy"
)

var _ = check.Suite(new(matchTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type matchTestSuite struct {
	tax *taxonomy.Taxonomy
}

func (s *matchTestSuite) SetUpSuite(c *check.C) {
	s.tax = taxonomy.MustLoadDefault()
}

func (s *matchTestSuite) TestExactMatch(c *check.C) {
	set := NewSkillSet(s.tax, []catalog.VolunteerSkill{
		{SubskillID: "graphic-design"},
	})

	kind := set.Match(catalog.RequiredSkill{SubskillID: "graphic-design"})
	c.Assert(kind, check.Equals, KindExact)
}

func (s *matchTestSuite) TestTransferableMatch(c *check.C) {
	// graphic-design and ui-design share the design category, so the
	// requirement counts as transferable rather than exact.
	set := NewSkillSet(s.tax, []catalog.VolunteerSkill{
		{SubskillID: "graphic-design"},
	})

	kind := set.Match(catalog.RequiredSkill{SubskillID: "ui-design"})
	c.Assert(kind, check.Equals, KindCategory)
}

func (s *matchTestSuite) TestNoMatch(c *check.C) {
	set := NewSkillSet(s.tax, []catalog.VolunteerSkill{
		{SubskillID: "graphic-design"},
	})

	kind := set.Match(catalog.RequiredSkill{SubskillID: "accounting"})
	c.Assert(kind, check.Equals, KindNone)
}

func (s *matchTestSuite) TestUnknownRequiredSkill(c *check.C) {
	set := NewSkillSet(s.tax, []catalog.VolunteerSkill{
		{SubskillID: "graphic-design"},
	})

	// A subskill absent from the taxonomy has no category to fall back
	// on, so it can only match exactly.
	kind := set.Match(catalog.RequiredSkill{SubskillID: "underwater-basket-weaving"})
	c.Assert(kind, check.Equals, KindNone)

	set = NewSkillSet(s.tax, []catalog.VolunteerSkill{
		{SubskillID: "underwater-basket-weaving"},
	})
	kind = set.Match(catalog.RequiredSkill{SubskillID: "underwater-basket-weaving"})
	c.Assert(kind, check.Equals, KindExact)
}

func (s *matchTestSuite) TestStoredCategoryIsIgnored(c *check.C) {
	// A stale category id stored on the profile must never influence
	// matching; categories come from the taxonomy alone.
	set := NewSkillSet(s.tax, []catalog.VolunteerSkill{
		{CategoryID: "legal", SubskillID: "graphic-design"},
	})

	c.Assert(set.Match(catalog.RequiredSkill{SubskillID: "accounting"}), check.Equals, KindNone)
	c.Assert(set.Match(catalog.RequiredSkill{SubskillID: "ui-design"}), check.Equals, KindCategory)
}

func (s *matchTestSuite) TestEmptySkillSet(c *check.C) {
	set := NewSkillSet(s.tax, nil)
	c.Assert(set.Empty(), check.Equals, true)

	set = NewSkillSet(s.tax, []catalog.VolunteerSkill{{SubskillID: ""}})
	c.Assert(set.Empty(), check.Equals, true)

	set = NewSkillSet(s.tax, []catalog.VolunteerSkill{{SubskillID: "seo"}})
	c.Assert(set.Empty(), check.Equals, false)
}

func (s *matchTestSuite) TestOpportunityWithoutRequirementsAlwaysMatches(c *check.C) {
	set := NewSkillSet(s.tax, []catalog.VolunteerSkill{
		{SubskillID: "graphic-design"},
	})

	open := &catalog.Opportunity{ID: uuid.New(), Title: "anything helps"}
	c.Assert(set.MatchesOpportunity(open), check.Equals, true)
}

func (s *matchTestSuite) TestFilterOpportunities(c *check.C) {
	set := NewSkillSet(s.tax, []catalog.VolunteerSkill{
		{SubskillID: "graphic-design"},
	})

	exact := &catalog.Opportunity{
		ID: uuid.New(),
		RequiredSkills: []catalog.RequiredSkill{
			{SubskillID: "graphic-design"},
		},
	}
	transferable := &catalog.Opportunity{
		ID: uuid.New(),
		RequiredSkills: []catalog.RequiredSkill{
			{SubskillID: "ui-design"},
		},
	}
	unrelated := &catalog.Opportunity{
		ID: uuid.New(),
		RequiredSkills: []catalog.RequiredSkill{
			{SubskillID: "accounting"},
		},
	}
	open := &catalog.Opportunity{ID: uuid.New()}

	matched := FilterOpportunities(set, []*catalog.Opportunity{
		exact, transferable, unrelated, open,
	})

	c.Assert(matched, check.HasLen, 3)
	c.Assert(matched[0], check.Equals, exact)
	c.Assert(matched[1], check.Equals, transferable)
	c.Assert(matched[2], check.Equals, open)
}

func (s *matchTestSuite) TestAnyRequirementMatching(c *check.C) {
	// One matching requirement is enough; the filter never demands the
	// full requirement list.
	set := NewSkillSet(s.tax, []catalog.VolunteerSkill{
		{SubskillID: "graphic-design"},
	})

	o := &catalog.Opportunity{
		ID: uuid.New(),
		RequiredSkills: []catalog.RequiredSkill{
			{SubskillID: "accounting"},
			{SubskillID: "graphic-design"},
			{SubskillID: "seo"},
		},
	}
	c.Assert(set.MatchesOpportunity(o), check.Equals, true)
}
