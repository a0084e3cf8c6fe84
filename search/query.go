package search

// FacetConstraints carries the optional numeric constraints of a query.
// Zero values mean "no constraint"; an unconstrained facet is neutral and
// never penalises a document.
type FacetConstraints struct {
	// MaxHourlyRate accepts documents whose rate does not exceed it.
	MaxHourlyRate float64

	// MinRating accepts documents rated at or above it.
	MinRating float64

	// MaxHoursPerWeek accepts opportunities asking for at most this
	// commitment.
	MaxHoursPerWeek int
}

func (fc *FacetConstraints) empty() bool {
	return fc == nil ||
		(fc.MaxHourlyRate <= 0 && fc.MinRating <= 0 && fc.MaxHoursPerWeek <= 0)
}

// Query describes one search request. Text may be empty only when
// SkillFilter is non-empty (pure skill-match mode); the HTTP boundary
// rejects shorter queries before they reach the engine.
type Query struct {
	// Text is the free-text expression.
	Text string

	// Types restricts the entity types searched; nil / empty means all.
	Types []EntityType

	// SkillFilter is a set of subskill ids the caller wants matched.
	SkillFilter []string

	// Facets are the optional numeric constraints.
	Facets *FacetConstraints

	// Limit caps the number of returned results. The engine enforces its
	// own hard cap regardless of the requested value.
	Limit int
}

// preparedQuery is the engine-internal, pre-tokenized form of a Query.
// Preparing once per search keeps per-document scoring allocation-free.
type preparedQuery struct {
	foldedText string
	tokens     []string
	skillIDs   []string
	facets     *FacetConstraints
}

func prepareQuery(q Query) *preparedQuery {
	skillIDs := make([]string, 0, len(q.SkillFilter))
	seen := make(map[string]struct{}, len(q.SkillFilter))
	for _, id := range q.SkillFilter {
		if _, exists := seen[id]; exists || id == "" {
			continue
		}

		seen[id] = struct{}{}
		skillIDs = append(skillIDs, id)
	}

	facets := q.Facets
	if facets.empty() {
		facets = nil
	}

	folded := Fold(q.Text)

	return &preparedQuery{
		foldedText: folded,
		tokens:     Tokenize(folded),
		skillIDs:   skillIDs,
		facets:     facets,
	}
}

// blank reports whether the query carries neither text nor skills, in which
// case the engine returns an empty result set without scoring anything.
func (q *preparedQuery) blank() bool {
	return len(q.tokens) == 0 && len(q.skillIDs) == 0
}
