package search

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/voluntree/voluntree/catalog"
	"github.com/voluntree/voluntree/kvcache"
	"github.com/voluntree/voluntree/taxonomy"
)

const (
	defaultCandidatesPerType = 300
	defaultMaxResults        = 100
	defaultResultLimit       = 20
	defaultFetchTimeout      = 2 * time.Second
)

// CatalogAPI defines the minimum set of API methods the engine needs for
// sourcing candidate records from the catalog store.
type CatalogAPI interface {
	// Volunteers returns an iterator over volunteer candidates.
	Volunteers(ctx context.Context, q catalog.CandidateQuery) (catalog.VolunteerIterator, error)

	// NGOs returns an iterator over NGO candidates.
	NGOs(ctx context.Context, q catalog.CandidateQuery) (catalog.NGOIterator, error)

	// Opportunities returns an iterator over opportunity candidates.
	Opportunities(ctx context.Context, q catalog.CandidateQuery) (catalog.OpportunityIterator, error)
}

// Config defines configurations for the search engine.
type Config struct {
	// API for sourcing candidate records.
	CatalogAPI CatalogAPI

	// Taxonomy backing skill derivation and matching.
	Taxonomy *taxonomy.Taxonomy

	// Weights for the relevance scorer. Zero value selects the defaults.
	Weights Weights

	// RecencyHorizon forwarded to the scorer; zero selects its default.
	RecencyHorizon time.Duration

	// CandidatesPerType caps how many candidates are fetched per entity
	// type, keeping scoring cost predictable. If not specified, a
	// default value of 300 will be used instead.
	CandidatesPerType int

	// MaxResults is the hard cap on returned results, enforced
	// regardless of the caller-requested limit. If not specified, a
	// default value of 100 will be used instead.
	MaxResults int

	// FetchTimeout bounds the candidate-fetch step. Scoring is CPU-bound
	// and never subject to this deadline. If not specified, a default of
	// 2s will be used instead.
	FetchTimeout time.Duration

	// A clock instance for recency scoring and cache expiry. If not
	// specified, the default wall-clock will be used instead.
	Clock clock.Clock

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.CatalogAPI == nil {
		err = multierror.Append(err, fmt.Errorf("catalog API not provided"))
	}

	if config.Taxonomy == nil {
		err = multierror.Append(err, fmt.Errorf("taxonomy not provided"))
	}

	if config.CandidatesPerType <= 0 {
		config.CandidatesPerType = defaultCandidatesPerType
	}

	if config.MaxResults <= 0 {
		config.MaxResults = defaultMaxResults
	}

	if config.FetchTimeout <= 0 {
		config.FetchTimeout = defaultFetchTimeout
	}

	if config.Clock == nil {
		config.Clock = clock.WallClock
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}

// Result is the outcome of one search call: the ranked, truncated result
// list plus the untruncated total match count.
type Result struct {
	Results []*ScoredResult
	Total   int
}

// Engine fans a query out across the selected entity types, scores every
// candidate and merges the per-type sets into one ranked list. Stateless
// per call; concurrent searches never interfere.
type Engine struct {
	config     Config
	scorer     *Scorer
	normalizer *Normalizer
	windows    *kvcache.Cache
}

// New creates and returns a fully configured search engine instance.
func New(config Config) (*Engine, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("search engine: config validation failed: %w", err)
	}

	scorer, err := NewScorer(ScorerConfig{
		Taxonomy:       config.Taxonomy,
		Weights:        config.Weights,
		RecencyHorizon: config.RecencyHorizon,
		Clock:          config.Clock,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:     config,
		scorer:     scorer,
		normalizer: NewNormalizer(config.Taxonomy),
		windows:    kvcache.New(config.Clock),
	}, nil
}

// Search executes a full search. Candidates for the selected types are
// fetched concurrently; a failed fetch for one type degrades that type to
// zero results while the others still contribute. Only when every selected
// type fails is the error surfaced, since no candidates could be
// established at all.
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	prepared := prepareQuery(q)
	if prepared.blank() {
		// Boundary condition, not an error: nothing to score.
		return &Result{Results: []*ScoredResult{}}, nil
	}

	types := q.Types
	if len(types) == 0 {
		types = AllEntityTypes
	}

	candidates, fetchErr := e.fetchAll(ctx, types, prepared.foldedText)
	if fetchErr != nil {
		return nil, fetchErr
	}

	// Documents are scored independently; per-type slices are walked in
	// the fixed AllEntityTypes order so ties resolve identically between
	// calls.
	results := make([]*ScoredResult, 0, len(candidates))
	for _, doc := range candidates {
		if res, ok := e.scorer.score(prepared, doc); ok {
			results = append(results, res)
		}
	}

	sortResults(results)

	total := len(results)

	limit := q.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}
	if limit > e.config.MaxResults {
		limit = e.config.MaxResults
	}
	if limit < total {
		results = results[:limit]
	}

	return &Result{Results: results, Total: total}, nil
}

// fetchAll sources candidates for every requested type concurrently and
// flattens them in the fixed type order.
func (e *Engine) fetchAll(
	ctx context.Context, types []EntityType, text string,
) ([]*Document, error) {

	fetchCtx, cancel := context.WithTimeout(ctx, e.config.FetchTimeout)
	defer cancel()

	cq := catalog.CandidateQuery{
		Text:  text,
		Limit: e.config.CandidatesPerType,
	}

	var wg sync.WaitGroup
	wg.Add(len(types))

	perType := make([][]*Document, len(types))
	errs := make([]error, len(types))

	for i, t := range types {
		go func(slot int, t EntityType) {
			defer wg.Done()

			perType[slot], errs[slot] = e.fetchCandidates(fetchCtx, t, cq)
		}(i, t)
	}

	wg.Wait()

	var (
		failed   int
		fetchErr error
	)
	for i, err := range errs {
		if err == nil {
			continue
		}

		failed++
		fetchErr = multierror.Append(fetchErr, err)
		e.config.Logger.WithFields(logrus.Fields{
			"err":         err,
			"entity_type": types[i],
		}).Error("candidate fetch failed; continuing with partial results")
	}

	if failed == len(types) {
		return nil, fmt.Errorf("search: all candidate fetches failed: %w", fetchErr)
	}

	var docs []*Document
	for _, batch := range perType {
		docs = append(docs, batch...)
	}

	return docs, nil
}

func (e *Engine) fetchCandidates(
	ctx context.Context, t EntityType, cq catalog.CandidateQuery,
) ([]*Document, error) {

	docs := make([]*Document, 0, cq.Limit)

	switch t {
	case TypeVolunteer:
		it, err := e.config.CatalogAPI.Volunteers(ctx, cq)
		if err != nil {
			return nil, err
		}
		defer func() { _ = it.Close() }()

		for it.Next() {
			docs = append(docs, e.normalizer.VolunteerDocument(it.Volunteer()))
		}
		if err = it.Error(); err != nil {
			// Partial batches are discarded: a type either contributes a
			// complete candidate set or nothing at all.
			return nil, err
		}

		return docs, nil
	case TypeNGO:
		it, err := e.config.CatalogAPI.NGOs(ctx, cq)
		if err != nil {
			return nil, err
		}
		defer func() { _ = it.Close() }()

		for it.Next() {
			docs = append(docs, e.normalizer.NGODocument(it.NGO()))
		}
		if err = it.Error(); err != nil {
			return nil, err
		}

		return docs, nil
	case TypeOpportunity:
		it, err := e.config.CatalogAPI.Opportunities(ctx, cq)
		if err != nil {
			return nil, err
		}
		defer func() { _ = it.Close() }()

		for it.Next() {
			docs = append(docs, e.normalizer.OpportunityDocument(it.Opportunity()))
		}
		if err = it.Error(); err != nil {
			return nil, err
		}

		return docs, nil
	default:
		return nil, fmt.Errorf("fetch candidates: %w: %q", catalog.ErrUnknownEntityType, t)
	}
}

// sortResults orders by score descending, breaking ties by the verified
// flag, then by recency, and finally by the stable original order so that
// repeated searches over an unchanged catalog return identical lists.
func sortResults(results []*ScoredResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]

		if a.Score != b.Score {
			return a.Score > b.Score
		}

		if a.Document.Flags.Verified != b.Document.Flags.Verified {
			return a.Document.Flags.Verified
		}

		if !a.Document.CreatedAt.Equal(b.Document.CreatedAt) {
			return a.Document.CreatedAt.After(b.Document.CreatedAt)
		}

		return false
	})
}
