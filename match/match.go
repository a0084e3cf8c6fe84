/*
	match package implements the skill-overlap predicate shared by the
	relevance scorer and the volunteer-facing opportunity filter. Both
	components must agree on which (volunteer skill set, required skill)
	pairs count as matching; the predicate lives here so it can only be
	changed in one place.
*/

package match

import (
	"github.com/voluntree/voluntree/catalog"
	"github.com/voluntree/voluntree/taxonomy"
)

// Kind describes how a required skill matches a volunteer's skill set.
type Kind uint8

const (
	// KindNone indicates no overlap at all.
	KindNone Kind = iota

	// KindCategory indicates a transferable match: the volunteer holds a
	// different subskill from the same category.
	KindCategory

	// KindExact indicates the volunteer holds the exact subskill.
	KindExact
)

// Classify is the single matching predicate: given the volunteer's subskill
// and derived category sets, it reports how the required subskill matches.
// The required skill's category is always derived through the taxonomy,
// never read from stored data, so both sides of the comparison use the same
// derivation rule.
func Classify(
	tax *taxonomy.Taxonomy,
	subskills map[string]struct{},
	categories map[string]struct{},
	requiredSubskillID string,
) Kind {

	if _, exists := subskills[requiredSubskillID]; exists {
		return KindExact
	}

	if catID, known := tax.CategoryOf(requiredSubskillID); known {
		if _, exists := categories[catID]; exists {
			return KindCategory
		}
	}

	return KindNone
}

// SkillSet is a volunteer's skill profile prepared for repeated matching.
type SkillSet struct {
	tax        *taxonomy.Taxonomy
	subskills  map[string]struct{}
	categories map[string]struct{}
}

// NewSkillSet builds a SkillSet from the skills stored on a volunteer
// profile. Categories are derived from the subskill ids through the
// taxonomy; category ids stored alongside the skills are ignored so a stale
// stored category can never skew matching.
func NewSkillSet(tax *taxonomy.Taxonomy, skills []catalog.VolunteerSkill) SkillSet {
	set := SkillSet{
		tax:        tax,
		subskills:  make(map[string]struct{}, len(skills)),
		categories: make(map[string]struct{}, len(skills)),
	}

	for _, skill := range skills {
		if skill.SubskillID == "" {
			continue
		}

		set.subskills[skill.SubskillID] = struct{}{}
		if catID, known := tax.CategoryOf(skill.SubskillID); known {
			set.categories[catID] = struct{}{}
		}
	}

	return set
}

// Empty reports whether the skill set holds no subskills.
func (s SkillSet) Empty() bool {
	return len(s.subskills) == 0
}

// Match reports how the required skill matches the volunteer's skill set.
func (s SkillSet) Match(required catalog.RequiredSkill) Kind {
	return Classify(s.tax, s.subskills, s.categories, required.SubskillID)
}

// MatchesOpportunity reports whether the opportunity passes the skill
// filter. Opportunities with no skill requirements always pass since they
// cannot be excluded on skill grounds.
func (s SkillSet) MatchesOpportunity(o *catalog.Opportunity) bool {
	if len(o.RequiredSkills) == 0 {
		return true
	}

	for _, required := range o.RequiredSkills {
		if s.Match(required) != KindNone {
			return true
		}
	}

	return false
}

// FilterOpportunities partitions a catalog of opportunities, returning the
// subset matched by the volunteer's skill set. This is a hard boolean
// filter, unlike the graded skill term in the relevance scorer, but it uses
// the same Classify predicate so the two can never disagree on which pairs
// match.
func FilterOpportunities(
	set SkillSet, opportunities []*catalog.Opportunity,
) []*catalog.Opportunity {

	matched := make([]*catalog.Opportunity, 0, len(opportunities))
	for _, o := range opportunities {
		if set.MatchesOpportunity(o) {
			matched = append(matched, o)
		}
	}

	return matched
}
