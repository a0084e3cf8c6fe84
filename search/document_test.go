package search

import (
	"strings"
	"time"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/voluntree/voluntree/catalog"
	"github.com/voluntree/voluntree/taxonomy"
)

var _ = check.Suite(new(DocumentTestSuite))

type DocumentTestSuite struct {
	n *Normalizer
}

func (s *DocumentTestSuite) SetUpSuite(c *check.C) {
	s.n = NewNormalizer(taxonomy.MustLoadDefault())
}

func (s *DocumentTestSuite) TestVolunteerDocument(c *check.C) {
	v := &catalog.Volunteer{
		ID:          uuid.New(),
		DisplayName: "Jane Banda",
		Bio:         "<p>Helping NGOs with <b>branding</b></p>",
		Tags:        []string{"Remote", "Weekends"},
		Skills: []catalog.VolunteerSkill{
			{SubskillID: "graphic-design"},
			{SubskillID: "ui-design"},
			{SubskillID: "graphic-design"},
		},
		Location:       catalog.Location{City: "Kampala", Country: "Uganda"},
		HourlyRate:     20,
		Rating:         4.5,
		CompletedCount: 7,
		Verified:       true,
		Active:         true,
		CreatedAt:      time.Now(),
	}

	doc := s.n.VolunteerDocument(v)
	c.Assert(doc.Type, check.Equals, TypeVolunteer)
	c.Assert(doc.Title, check.Equals, "Jane Banda")

	// HTML is stripped and the remaining text folded to lowercase.
	c.Assert(doc.SearchableText, check.Equals, "jane banda helping ngos with branding remote weekends")

	// Duplicate subskills collapse; categories come from the taxonomy.
	c.Assert(doc.SkillIDs, check.DeepEquals, []string{"graphic-design", "ui-design"})
	c.Assert(doc.CategoryIDs, check.DeepEquals, []string{"design"})

	c.Assert(doc.Facets.HourlyRate, check.Equals, 20.0)
	c.Assert(doc.Facets.Rating, check.Equals, 4.5)
	c.Assert(doc.Flags, check.Equals, Flags{Verified: true, Active: true})
}

func (s *DocumentTestSuite) TestDiacriticFolding(c *check.C) {
	v := &catalog.Volunteer{
		ID:          uuid.New(),
		DisplayName: "José Álvarez",
	}

	doc := s.n.VolunteerDocument(v)
	c.Assert(doc.SearchableText, check.Equals, "jose alvarez")
}

func (s *DocumentTestSuite) TestNGODocument(c *check.C) {
	n := &catalog.NGO{
		ID:          uuid.New(),
		Name:        "Design for Good",
		Description: "We connect creatives with social impact projects",
		FocusSkills: []catalog.RequiredSkill{
			{SubskillID: "ui-design"},
			{SubskillID: "fundraising"},
		},
		Rating: 4.2,
		Active: true,
	}

	doc := s.n.NGODocument(n)
	c.Assert(doc.Type, check.Equals, TypeNGO)
	c.Assert(doc.SkillIDs, check.DeepEquals, []string{"ui-design", "fundraising"})
	c.Assert(doc.CategoryIDs, check.DeepEquals, []string{"design", "operations"})
	c.Assert(doc.Facets.Rating, check.Equals, 4.2)
}

func (s *DocumentTestSuite) TestOpportunityDocumentIncludesNGOName(c *check.C) {
	o := &catalog.Opportunity{
		ID:          uuid.New(),
		Title:       "Redesign our donor portal",
		Description: "Rework the donation flow",
		NGOName:     "Design for Good",
		Active:      true,
	}

	// The posting organisation stays findable through its opportunities.
	doc := s.n.OpportunityDocument(o)
	c.Assert(strings.Contains(doc.SearchableText, "design for good"), check.Equals, true)
}

func (s *DocumentTestSuite) TestUnknownSkillHasNoCategory(c *check.C) {
	v := &catalog.Volunteer{
		ID: uuid.New(),
		Skills: []catalog.VolunteerSkill{
			{SubskillID: "underwater-basket-weaving"},
		},
	}

	doc := s.n.VolunteerDocument(v)
	c.Assert(doc.SkillIDs, check.DeepEquals, []string{"underwater-basket-weaving"})
	c.Assert(doc.CategoryIDs, check.HasLen, 0)
}

func (s *DocumentTestSuite) TestFold(c *check.C) {
	c.Assert(Fold("  Graphic   DESIGN\t"), check.Equals, "graphic design")
	c.Assert(Fold("José"), check.Equals, "jose")
	c.Assert(Fold(""), check.Equals, "")
}

func (s *DocumentTestSuite) TestTokenize(c *check.C) {
	c.Assert(Tokenize("graphic-design, remote!"), check.DeepEquals, []string{"graphic", "design", "remote"})
	c.Assert(Tokenize("   "), check.HasLen, 0)
}

func (s *DocumentTestSuite) TestParseEntityTypes(c *check.C) {
	types, err := ParseEntityTypes("")
	c.Assert(err, check.IsNil)
	c.Assert(types, check.DeepEquals, AllEntityTypes)

	types, err = ParseEntityTypes("volunteer, NGO, volunteer")
	c.Assert(err, check.IsNil)
	c.Assert(types, check.DeepEquals, []EntityType{TypeVolunteer, TypeNGO})

	_, err = ParseEntityTypes("volunteer,starship")
	c.Assert(err, check.ErrorMatches, ".*unknown entity type.*")
}
