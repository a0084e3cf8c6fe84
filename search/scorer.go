package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"

	"github.com/voluntree/voluntree/match"
	"github.com/voluntree/voluntree/taxonomy"
)

// Weights holds the relative weight of each scoring dimension. The values
// are relative, not percentages: inactive dimensions (no query text, no
// skill filter, no facet constraints) drop out of the denominator so scores
// from different query shapes stay comparable on the same 0..100 scale.
type Weights struct {
	Text  float64
	Skill float64
	Trust float64
	Facet float64
}

// DefaultWeights returns the tuned production weights.
func DefaultWeights() Weights {
	return Weights{Text: 40, Skill: 35, Trust: 15, Facet: 10}
}

const (
	// Credit awarded per queried skill for an exact subskill match vs a
	// transferable same-category match.
	exactSkillCredit        = 1.0
	transferableSkillCredit = 0.5

	// Split of the text term between per-token overlap and the
	// whole-phrase substring bonus.
	tokenOverlapShare = 0.75
	phraseBonusShare  = 0.25

	// Split of the trust term across its signals.
	verifiedShare = 0.4
	activeShare   = 0.1
	ratingShare   = 0.3
	recencyShare  = 0.2

	maxRating = 5.0

	defaultRecencyHorizon = 90 * 24 * time.Hour
)

// ScoredResult pairs a document with its relevance score in [0, 100] and
// the queried skill ids it matched. Created per query, never persisted.
type ScoredResult struct {
	Document        *Document
	Score           float64
	MatchedSkillIDs []string
}

// ScorerConfig defines configurations for the relevance scorer.
type ScorerConfig struct {
	// Taxonomy used to derive categories for transferable matching.
	Taxonomy *taxonomy.Taxonomy

	// Weights for the scoring dimensions. Zero value selects the
	// defaults.
	Weights Weights

	// RecencyHorizon is the document age beyond which recency stops
	// contributing. If not specified, a default of 90 days is used.
	RecencyHorizon time.Duration

	// Clock used to measure document age. If not specified, the default
	// wall-clock will be used instead.
	Clock clock.Clock
}

func (config *ScorerConfig) validate() error {
	var err error

	if config.Taxonomy == nil {
		err = multierror.Append(err, fmt.Errorf("taxonomy not provided"))
	}

	zero := Weights{}
	if config.Weights == zero {
		config.Weights = DefaultWeights()
	}

	w := config.Weights
	if w.Text < 0 || w.Skill < 0 || w.Trust < 0 || w.Facet < 0 {
		err = multierror.Append(err, fmt.Errorf("scoring weights must not be negative"))
	}

	if w.Text+w.Skill+w.Trust+w.Facet <= 0 {
		err = multierror.Append(err, fmt.Errorf("scoring weights must not all be zero"))
	}

	if config.RecencyHorizon <= 0 {
		config.RecencyHorizon = defaultRecencyHorizon
	}

	if config.Clock == nil {
		config.Clock = clock.WallClock
	}

	return err
}

// Scorer computes relevance scores between queries and normalized
// documents. Stateless per call and safe for concurrent use.
type Scorer struct {
	config ScorerConfig
}

// NewScorer creates and returns a fully configured scorer instance.
func NewScorer(config ScorerConfig) (*Scorer, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("scorer: config validation failed: %w", err)
	}

	return &Scorer{config: config}, nil
}

// Score computes the relevance of doc against the prepared query. The
// returned flag is false when the document has zero text and zero skill
// overlap, in which case it must be excluded from results; trust and facet
// bonuses alone can never produce a non-zero score.
func (s *Scorer) score(q *preparedQuery, doc *Document) (*ScoredResult, bool) {
	textActive := len(q.tokens) > 0
	skillActive := len(q.skillIDs) > 0
	facetActive := q.facets != nil

	var textTerm float64
	if textActive {
		textTerm = s.textRelevance(q, doc)
	}

	var (
		skillTerm  float64
		matchedIDs []string
	)
	if skillActive {
		skillTerm, matchedIDs = s.skillOverlap(q.skillIDs, doc)
	}

	// A document that matches neither by text nor by skill is never a
	// result, regardless of how trusted or recent it is.
	if textTerm == 0 && skillTerm == 0 {
		return nil, false
	}

	weighted := textTerm*s.config.Weights.Text + skillTerm*s.config.Weights.Skill
	denom := s.config.Weights.Trust
	if textActive {
		denom += s.config.Weights.Text
	}
	if skillActive {
		denom += s.config.Weights.Skill
	}
	if facetActive {
		denom += s.config.Weights.Facet
		weighted += s.facetFit(q.facets, doc) * s.config.Weights.Facet
	}

	weighted += s.trust(doc) * s.config.Weights.Trust

	score := 100 * weighted / denom
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return &ScoredResult{
		Document:        doc,
		Score:           score,
		MatchedSkillIDs: matchedIDs,
	}, true
}

// textRelevance measures token overlap between the query and the document's
// searchable text. Partial tokens match by substring ("dev" matches
// "developer") and an exact substring hit of the whole query earns a bonus
// over scattered token matches.
func (s *Scorer) textRelevance(q *preparedQuery, doc *Document) float64 {
	if doc.SearchableText == "" {
		return 0
	}

	matched := 0
	for _, token := range q.tokens {
		if strings.Contains(doc.SearchableText, token) {
			matched++
		}
	}

	if matched == 0 {
		return 0
	}

	term := tokenOverlapShare * float64(matched) / float64(len(q.tokens))
	if strings.Contains(doc.SearchableText, q.foldedText) {
		term += phraseBonusShare
	}

	return term
}

// skillOverlap grades how much of the queried skill set the document
// covers. Exact subskill matches earn full credit, transferable
// same-category matches half credit; the term is proportional to the
// fraction of queried skills matched. The match classification is shared
// with the hard opportunity filter via the match package.
func (s *Scorer) skillOverlap(
	queried []string, doc *Document,
) (float64, []string) {

	subskills := make(map[string]struct{}, len(doc.SkillIDs))
	for _, id := range doc.SkillIDs {
		subskills[id] = struct{}{}
	}

	categories := make(map[string]struct{}, len(doc.CategoryIDs))
	for _, id := range doc.CategoryIDs {
		categories[id] = struct{}{}
	}

	var (
		credit     float64
		matchedIDs []string
	)

	for _, id := range queried {
		switch match.Classify(s.config.Taxonomy, subskills, categories, id) {
		case match.KindExact:
			credit += exactSkillCredit
			matchedIDs = append(matchedIDs, id)
		case match.KindCategory:
			credit += transferableSkillCredit
			matchedIDs = append(matchedIDs, id)
		}
	}

	return credit / float64(len(queried)), matchedIDs
}

// trust combines verification, activity, rating and recency into one
// bounded term in [0, 1].
func (s *Scorer) trust(doc *Document) float64 {
	var term float64

	if doc.Flags.Verified {
		term += verifiedShare
	}
	if doc.Flags.Active {
		term += activeShare
	}

	if doc.Facets.Rating > 0 {
		rating := doc.Facets.Rating
		if rating > maxRating {
			rating = maxRating
		}
		term += ratingShare * rating / maxRating
	}

	term += recencyShare * s.recency(doc.CreatedAt)

	return term
}

// recency decays linearly from 1 for a brand-new document to 0 at the
// configured horizon. Documents with no creation timestamp earn nothing.
func (s *Scorer) recency(createdAt time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}

	age := s.config.Clock.Now().Sub(createdAt)
	if age < 0 {
		age = 0
	}
	if age >= s.config.RecencyHorizon {
		return 0
	}

	return 1 - float64(age)/float64(s.config.RecencyHorizon)
}

// facetFit rewards documents satisfying the query's numeric constraints.
// Facets the document does not specify (zero values) are treated as
// neutral and count as satisfied rather than penalised.
func (s *Scorer) facetFit(fc *FacetConstraints, doc *Document) float64 {
	constraints, satisfied := 0, 0

	if fc.MaxHourlyRate > 0 {
		constraints++
		if doc.Facets.HourlyRate <= fc.MaxHourlyRate {
			satisfied++
		}
	}

	if fc.MinRating > 0 {
		constraints++
		if doc.Facets.Rating == 0 || doc.Facets.Rating >= fc.MinRating {
			satisfied++
		}
	}

	if fc.MaxHoursPerWeek > 0 {
		constraints++
		if doc.Facets.HoursPerWeek <= fc.MaxHoursPerWeek {
			satisfied++
		}
	}

	if constraints == 0 {
		return 0
	}

	return float64(satisfied) / float64(constraints)
}
