/*
	search package implements the unified search and ranking core of the
	voluntree marketplace: the document normalizer, the relevance scorer,
	the cross-entity search engine and the autocomplete suggester.
*/

package search

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/voluntree/voluntree/catalog"
	"github.com/voluntree/voluntree/taxonomy"
)

// EntityType identifies the kind of marketplace record behind a document.
type EntityType string

const (
	// TypeVolunteer marks documents built from volunteer profiles.
	TypeVolunteer EntityType = "volunteer"

	// TypeNGO marks documents built from NGO records.
	TypeNGO EntityType = "ngo"

	// TypeOpportunity marks documents built from opportunity records.
	TypeOpportunity EntityType = "opportunity"
)

// AllEntityTypes lists every searchable entity type in the fixed order used
// for merging results, which keeps tie-breaking deterministic across calls.
var AllEntityTypes = []EntityType{TypeVolunteer, TypeNGO, TypeOpportunity}

// ParseEntityTypes parses a comma-separated list of entity type names. An
// empty input selects all types.
func ParseEntityTypes(csv string) ([]EntityType, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return AllEntityTypes, nil
	}

	seen := make(map[EntityType]struct{})
	types := make([]EntityType, 0, len(AllEntityTypes))

	for _, token := range strings.Split(csv, ",") {
		t := EntityType(strings.ToLower(strings.TrimSpace(token)))
		switch t {
		case TypeVolunteer, TypeNGO, TypeOpportunity:
			if _, exists := seen[t]; !exists {
				seen[t] = struct{}{}
				types = append(types, t)
			}
		default:
			return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownEntityType, token)
		}
	}

	return types, nil
}

// Facets carries the numeric signals scored by the facet-fit term. Zero
// values mean "not specified" and are treated as neutral, never penalised.
type Facets struct {
	HourlyRate      float64
	Rating          float64
	CompletedCount  int
	ApplicantsCount int
	HoursPerWeek    int
}

// Flags carries the trust signals scored by the trust term.
type Flags struct {
	Verified bool
	Active   bool
}

// Document is the normalized representation all entity types are reduced to
// before scoring. Documents are transient projections built per query; the
// search core never persists them.
type Document struct {
	ID   uuid.UUID
	Type EntityType

	// Title is the display name, organisation name or project title.
	Title string

	// SearchableText is the folded concatenation of the entity's textual
	// fields (title, bio / description, tags and, for opportunities, the
	// posting NGO's name).
	SearchableText string

	// SkillIDs are the subskill ids present on the entity.
	SkillIDs []string

	// CategoryIDs are always derived from SkillIDs through the taxonomy,
	// never copied from stored data, so the two can never drift apart.
	CategoryIDs []string

	Location  catalog.Location
	Facets    Facets
	Flags     Flags
	CreatedAt time.Time
}

// Normalizer converts raw catalog records into Documents. Safe for
// concurrent use.
type Normalizer struct {
	tax        *taxonomy.Taxonomy
	policyPool sync.Pool
}

// NewNormalizer returns a Normalizer backed by the provided taxonomy.
func NewNormalizer(tax *taxonomy.Taxonomy) *Normalizer {
	return &Normalizer{
		tax: tax,
		policyPool: sync.Pool{
			New: func() interface{} {
				return bluemonday.StrictPolicy()
			},
		},
	}
}

// VolunteerDocument maps a volunteer profile into a Document.
func (n *Normalizer) VolunteerDocument(v *catalog.Volunteer) *Document {
	skillIDs := v.SubskillIDs()

	return &Document{
		ID:             v.ID,
		Type:           TypeVolunteer,
		Title:          v.DisplayName,
		SearchableText: n.searchableText(v.DisplayName, v.Bio, v.Tags, ""),
		SkillIDs:       skillIDs,
		CategoryIDs:    n.tax.CategoriesFor(skillIDs),
		Location:       v.Location,
		Facets: Facets{
			HourlyRate:     v.HourlyRate,
			Rating:         v.Rating,
			CompletedCount: v.CompletedCount,
		},
		Flags: Flags{
			Verified: v.Verified,
			Active:   v.Active,
		},
		CreatedAt: v.CreatedAt,
	}
}

// NGODocument maps an NGO record into a Document.
func (n *Normalizer) NGODocument(ngo *catalog.NGO) *Document {
	skillIDs := ngo.SubskillIDs()

	return &Document{
		ID:             ngo.ID,
		Type:           TypeNGO,
		Title:          ngo.Name,
		SearchableText: n.searchableText(ngo.Name, ngo.Description, ngo.Tags, ""),
		SkillIDs:       skillIDs,
		CategoryIDs:    n.tax.CategoriesFor(skillIDs),
		Location:       ngo.Location,
		Facets: Facets{
			Rating:         ngo.Rating,
			CompletedCount: ngo.OpportunityCount,
		},
		Flags: Flags{
			Verified: ngo.Verified,
			Active:   ngo.Active,
		},
		CreatedAt: ngo.CreatedAt,
	}
}

// OpportunityDocument maps an opportunity record into a Document. The
// posting NGO's name is folded into the searchable text so the organisation
// stays findable through its opportunities.
func (n *Normalizer) OpportunityDocument(o *catalog.Opportunity) *Document {
	skillIDs := o.SubskillIDs()

	return &Document{
		ID:             o.ID,
		Type:           TypeOpportunity,
		Title:          o.Title,
		SearchableText: n.searchableText(o.Title, o.Description, o.Tags, o.NGOName),
		SkillIDs:       skillIDs,
		CategoryIDs:    n.tax.CategoriesFor(skillIDs),
		Location:       o.Location,
		Facets: Facets{
			HourlyRate:      o.HourlyRate,
			ApplicantsCount: o.ApplicantsCount,
			HoursPerWeek:    o.HoursPerWeek,
		},
		Flags: Flags{
			Verified: o.Verified,
			Active:   o.Active,
		},
		CreatedAt: o.CreatedAt,
	}
}

// searchableText builds the folded text blob scored by the text term. Body
// text may contain user-authored HTML which is stripped before folding.
func (n *Normalizer) searchableText(
	title, body string, tags []string, orgName string,
) string {

	policy := n.policyPool.Get().(*bluemonday.Policy)
	defer n.policyPool.Put(policy)

	parts := make([]string, 0, 4)
	if title != "" {
		parts = append(parts, title)
	}
	if body != "" {
		parts = append(parts, policy.Sanitize(body))
	}
	if len(tags) > 0 {
		parts = append(parts, strings.Join(tags, " "))
	}
	if orgName != "" {
		parts = append(parts, orgName)
	}

	return unescapeAndFold(strings.Join(parts, " "))
}
