/*
	catalog package defines the marketplace record types and the behavior
	of the data stores that serve volunteer, NGO and opportunity records
	to the search and matching components.
*/

package catalog

import (
	"time"

	"github.com/google/uuid"
)

// VolunteerSkill is a single skill entry on a volunteer profile. Volunteer
// profiles carry a set of these, deduplicated by subskill id.
type VolunteerSkill struct {
	CategoryID string
	SubskillID string
}

// RequiredSkill is a skill requirement attached to an opportunity. The order
// of requirements affects display only, never matching.
type RequiredSkill struct {
	CategoryID string
	SubskillID string
}

// Location describes where an entity is based or where an opportunity takes
// place. Both fields are optional.
type Location struct {
	City    string
	Country string
}

// Volunteer represents a volunteer profile record as stored by the
// marketplace. It serves as a model / schema object.
type Volunteer struct {
	ID uuid.UUID

	// DisplayName shown on the profile; may be empty for incomplete
	// profiles, which must still be indexable.
	DisplayName string

	// Bio is free-form profile text; may contain user-authored HTML.
	Bio string

	// Tags are free-form labels attached by the volunteer.
	Tags []string

	// Skills the volunteer claims, deduplicated by subskill id.
	Skills []VolunteerSkill

	Location Location

	// HourlyRate for paid engagements; zero means not specified.
	HourlyRate float64

	// Rating on a 0-5 scale aggregated from completed engagements.
	Rating float64

	// CompletedCount is the number of completed engagements.
	CompletedCount int

	Verified  bool
	Active    bool
	Banned    bool
	DeletedAt *time.Time

	CreatedAt time.Time
}

// NGO represents a non-profit organisation record. It serves as a model /
// schema object.
type NGO struct {
	ID uuid.UUID

	Name        string
	Description string
	Tags        []string

	// FocusSkills are the subskill areas the organisation typically
	// recruits for, used to surface the NGO in skill-driven searches.
	FocusSkills []RequiredSkill

	Location Location

	// Rating on a 0-5 scale aggregated from volunteer reviews.
	Rating float64

	// OpportunityCount is the number of opportunities the NGO has posted.
	OpportunityCount int

	Verified  bool
	Active    bool
	Banned    bool
	DeletedAt *time.Time

	CreatedAt time.Time
}

// Opportunity represents a volunteering opportunity posted by an NGO. It
// serves as a model / schema object.
type Opportunity struct {
	ID    uuid.UUID
	NGOID uuid.UUID

	Title       string
	Description string
	Tags        []string

	// NGOName is denormalised onto the opportunity so the posting
	// organisation stays searchable through its opportunities.
	NGOName string

	// RequiredSkills the opportunity asks for, in display order.
	RequiredSkills []RequiredSkill

	Location Location

	// HourlyRate offered for paid opportunities; zero means unpaid or
	// not specified.
	HourlyRate float64

	// HoursPerWeek expected commitment; zero means not specified.
	HoursPerWeek int

	// ApplicantsCount is the number of applications received so far.
	ApplicantsCount int

	Verified  bool
	Active    bool
	DeletedAt *time.Time

	CreatedAt time.Time
}

// Searchable reports whether the volunteer record may be served as a search
// candidate. Soft-deleted, banned and inactive records never reach scoring.
func (v *Volunteer) Searchable() bool {
	return v.Active && !v.Banned && v.DeletedAt == nil
}

// Searchable reports whether the NGO record may be served as a search
// candidate.
func (n *NGO) Searchable() bool {
	return n.Active && !n.Banned && n.DeletedAt == nil
}

// Searchable reports whether the opportunity record may be served as a
// search candidate.
func (o *Opportunity) Searchable() bool {
	return o.Active && o.DeletedAt == nil
}

// SubskillIDs returns the deduplicated subskill ids on the volunteer
// profile, preserving first-seen order.
func (v *Volunteer) SubskillIDs() []string {
	return dedupeSkillIDs(len(v.Skills), func(i int) string {
		return v.Skills[i].SubskillID
	})
}

// SubskillIDs returns the deduplicated subskill ids across the NGO's focus
// skills, preserving first-seen order.
func (n *NGO) SubskillIDs() []string {
	return dedupeSkillIDs(len(n.FocusSkills), func(i int) string {
		return n.FocusSkills[i].SubskillID
	})
}

// SubskillIDs returns the deduplicated subskill ids across the opportunity
// requirements, preserving display order.
func (o *Opportunity) SubskillIDs() []string {
	return dedupeSkillIDs(len(o.RequiredSkills), func(i int) string {
		return o.RequiredSkills[i].SubskillID
	})
}

func dedupeSkillIDs(n int, idAt func(int) string) []string {
	seen := make(map[string]struct{}, n)
	ids := make([]string, 0, n)

	for i := 0; i < n; i++ {
		id := idAt(i)
		if _, exists := seen[id]; exists || id == "" {
			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}
