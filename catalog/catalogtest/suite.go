package catalogtest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/voluntree/voluntree/catalog"
)

// BaseSuite defines a set of re-usable catalog store tests that can be
// executed against any concrete type that implements the catalog.Store
// interface.
type BaseSuite struct {
	s catalog.Store
}

// SetStore configures the test-suite to run all tests against an instance
// of catalog.Store.
func (s *BaseSuite) SetStore(store catalog.Store) {
	s.s = store
}

// TestUpsertAndFindVolunteer verifies the upsert logic for new and existing
// volunteer records.
func (s *BaseSuite) TestUpsertAndFindVolunteer(c *check.C) {
	v := &catalog.Volunteer{
		ID:          uuid.New(),
		DisplayName: "Jane Banda",
		Bio:         "Designer helping non-profits with branding",
		Tags:        []string{"remote", "weekends"},
		Skills: []catalog.VolunteerSkill{
			{CategoryID: "design", SubskillID: "graphic-design"},
		},
		Location:       catalog.Location{City: "Kampala", Country: "Uganda"},
		HourlyRate:     20,
		Rating:         4.5,
		CompletedCount: 7,
		Verified:       true,
		Active:         true,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}

	err := s.s.UpsertVolunteer(v)
	c.Assert(err, check.IsNil, check.Commentf("++++Volunteer insert++++: %v", err))

	// Update the existing record.
	updated := *v
	updated.Bio = "Designer and illustrator helping non-profits"
	updated.Rating = 4.7

	err = s.s.UpsertVolunteer(&updated)
	c.Assert(err, check.IsNil, check.Commentf("++++Volunteer update++++: %v", err))

	got, err := s.s.FindVolunteer(v.ID)
	c.Assert(err, check.IsNil)
	c.Assert(got.Bio, check.Equals, updated.Bio)
	c.Assert(got.Rating, check.Equals, updated.Rating)
	c.Assert(got.Skills, check.DeepEquals, v.Skills)
	c.Assert(got.Location, check.DeepEquals, v.Location)
}

// TestUpsertAndFindNGO verifies the upsert logic for new and existing NGO
// records.
func (s *BaseSuite) TestUpsertAndFindNGO(c *check.C) {
	n := &catalog.NGO{
		ID:          uuid.New(),
		Name:        "Design for Good",
		Description: "We connect creatives with social impact projects",
		Tags:        []string{"creative", "global"},
		FocusSkills: []catalog.RequiredSkill{
			{CategoryID: "design", SubskillID: "ui-design"},
		},
		Location:         catalog.Location{City: "Nairobi", Country: "Kenya"},
		Rating:           4.2,
		OpportunityCount: 3,
		Verified:         true,
		Active:           true,
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}

	err := s.s.UpsertNGO(n)
	c.Assert(err, check.IsNil, check.Commentf("++++NGO insert++++: %v", err))

	updated := *n
	updated.OpportunityCount = 4

	err = s.s.UpsertNGO(&updated)
	c.Assert(err, check.IsNil, check.Commentf("++++NGO update++++: %v", err))

	got, err := s.s.FindNGO(n.ID)
	c.Assert(err, check.IsNil)
	c.Assert(got.Name, check.Equals, n.Name)
	c.Assert(got.OpportunityCount, check.Equals, 4)
	c.Assert(got.FocusSkills, check.DeepEquals, n.FocusSkills)
}

// TestUpsertAndFindOpportunity verifies the upsert logic for new and existing
// opportunity records.
func (s *BaseSuite) TestUpsertAndFindOpportunity(c *check.C) {
	o := &catalog.Opportunity{
		ID:          uuid.New(),
		NGOID:       uuid.New(),
		Title:       "Redesign our donor portal",
		Description: "Looking for a designer to rework our donation flow",
		Tags:        []string{"remote"},
		NGOName:     "Design for Good",
		RequiredSkills: []catalog.RequiredSkill{
			{CategoryID: "design", SubskillID: "ui-design"},
		},
		Location:     catalog.Location{City: "Nairobi", Country: "Kenya"},
		HourlyRate:   15,
		HoursPerWeek: 10,
		Verified:     true,
		Active:       true,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	err := s.s.UpsertOpportunity(o)
	c.Assert(err, check.IsNil, check.Commentf("++++Opportunity insert++++: %v", err))

	updated := *o
	updated.ApplicantsCount = 12

	err = s.s.UpsertOpportunity(&updated)
	c.Assert(err, check.IsNil, check.Commentf("++++Opportunity update++++: %v", err))

	got, err := s.s.FindOpportunity(o.ID)
	c.Assert(err, check.IsNil)
	c.Assert(got.Title, check.Equals, o.Title)
	c.Assert(got.NGOName, check.Equals, o.NGOName)
	c.Assert(got.ApplicantsCount, check.Equals, 12)
	c.Assert(got.RequiredSkills, check.DeepEquals, o.RequiredSkills)
}

// TestUpsertWithoutID verifies that records without an id are rejected.
func (s *BaseSuite) TestUpsertWithoutID(c *check.C) {
	err := s.s.UpsertVolunteer(&catalog.Volunteer{DisplayName: "no id"})
	c.Assert(errors.Is(err, catalog.ErrMissingID), check.Equals, true)

	err = s.s.UpsertNGO(&catalog.NGO{Name: "no id"})
	c.Assert(errors.Is(err, catalog.ErrMissingID), check.Equals, true)

	err = s.s.UpsertOpportunity(&catalog.Opportunity{Title: "no id"})
	c.Assert(errors.Is(err, catalog.ErrMissingID), check.Equals, true)
}

// TestFindMissingRecord verifies lookups of unknown ids.
func (s *BaseSuite) TestFindMissingRecord(c *check.C) {
	_, err := s.s.FindVolunteer(uuid.New())
	c.Assert(errors.Is(err, catalog.ErrNotFound), check.Equals, true)

	_, err = s.s.FindNGO(uuid.New())
	c.Assert(errors.Is(err, catalog.ErrNotFound), check.Equals, true)

	_, err = s.s.FindOpportunity(uuid.New())
	c.Assert(errors.Is(err, catalog.ErrNotFound), check.Equals, true)
}

// TestCandidateEligibility verifies that inactive, banned and soft-deleted
// records never surface as candidates.
func (s *BaseSuite) TestCandidateEligibility(c *check.C) {
	now := time.Now().UTC().Truncate(time.Second)
	deletedAt := now.Add(-time.Hour)

	eligible := &catalog.Volunteer{
		ID: uuid.New(), DisplayName: "eligible", Active: true, CreatedAt: now,
	}
	inactive := &catalog.Volunteer{
		ID: uuid.New(), DisplayName: "inactive", Active: false, CreatedAt: now,
	}
	banned := &catalog.Volunteer{
		ID: uuid.New(), DisplayName: "banned", Active: true, Banned: true,
		CreatedAt: now,
	}
	deleted := &catalog.Volunteer{
		ID: uuid.New(), DisplayName: "deleted", Active: true,
		DeletedAt: &deletedAt, CreatedAt: now,
	}

	for _, v := range []*catalog.Volunteer{eligible, inactive, banned, deleted} {
		c.Assert(s.s.UpsertVolunteer(v), check.IsNil)
	}

	ids := s.collectVolunteerIDs(c, catalog.CandidateQuery{Limit: 10})
	c.Assert(ids, check.DeepEquals, map[uuid.UUID]struct{}{eligible.ID: {}})
}

// TestCandidateTrustedOnly verifies the verified-records-only query option.
func (s *BaseSuite) TestCandidateTrustedOnly(c *check.C) {
	now := time.Now().UTC().Truncate(time.Second)

	verified := &catalog.Volunteer{
		ID: uuid.New(), DisplayName: "verified", Active: true, Verified: true,
		CreatedAt: now,
	}
	unverified := &catalog.Volunteer{
		ID: uuid.New(), DisplayName: "unverified", Active: true,
		CreatedAt: now,
	}

	for _, v := range []*catalog.Volunteer{verified, unverified} {
		c.Assert(s.s.UpsertVolunteer(v), check.IsNil)
	}

	ids := s.collectVolunteerIDs(c, catalog.CandidateQuery{
		Limit: 10, TrustedOnly: true,
	})
	c.Assert(ids, check.DeepEquals, map[uuid.UUID]struct{}{verified.ID: {}})
}

// TestCandidateTextFiltering verifies that text queries surface matching
// records.
func (s *BaseSuite) TestCandidateTextFiltering(c *check.C) {
	now := time.Now().UTC().Truncate(time.Second)

	designer := &catalog.Opportunity{
		ID: uuid.New(), NGOID: uuid.New(), Active: true, CreatedAt: now,
		Title:       "Logo designer needed",
		Description: "Help us refresh our branding",
	}
	accountant := &catalog.Opportunity{
		ID: uuid.New(), NGOID: uuid.New(), Active: true, CreatedAt: now,
		Title:       "Bookkeeping volunteer",
		Description: "Monthly accounts review",
	}

	for _, o := range []*catalog.Opportunity{designer, accountant} {
		c.Assert(s.s.UpsertOpportunity(o), check.IsNil)
	}

	it, err := s.s.Opportunities(context.TODO(), catalog.CandidateQuery{
		Text: "designer", Limit: 10,
	})
	c.Assert(err, check.IsNil)

	found := false
	for it.Next() {
		if it.Opportunity().ID == designer.ID {
			found = true
		}
	}
	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)
	c.Assert(found, check.Equals, true, check.Commentf("text query missed a matching record"))
}

// TestCandidateLimit verifies that the candidate budget is respected.
func (s *BaseSuite) TestCandidateLimit(c *check.C) {
	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		c.Assert(s.s.UpsertNGO(&catalog.NGO{
			ID:        uuid.New(),
			Name:      "org",
			Active:    true,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}), check.IsNil)
	}

	it, err := s.s.NGOs(context.TODO(), catalog.CandidateQuery{Limit: 3})
	c.Assert(err, check.IsNil)

	count := 0
	for it.Next() {
		count++
	}
	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)
	c.Assert(count, check.Equals, 3)
}

func (s *BaseSuite) collectVolunteerIDs(
	c *check.C, q catalog.CandidateQuery,
) map[uuid.UUID]struct{} {

	it, err := s.s.Volunteers(context.TODO(), q)
	c.Assert(err, check.IsNil)

	ids := make(map[uuid.UUID]struct{})
	for it.Next() {
		ids[it.Volunteer().ID] = struct{}{}
	}
	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)

	return ids
}
