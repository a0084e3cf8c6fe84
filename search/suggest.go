package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/voluntree/voluntree/catalog"
)

const (
	// MaxSuggestions is the hard cap on suggestions per response.
	MaxSuggestions = 8

	// Suggestions work off a small, cached window of the most trusted
	// and most recent records per type rather than the full catalog, so
	// the path stays fast enough for keystroke-driven UI.
	suggestionWindowSize = 50
	suggestionWindowTTL  = 30 * time.Second

	// SuggestionSweepInterval is a sensible eviction-sweep cadence for
	// the window cache.
	SuggestionSweepInterval = time.Minute
)

// SuggestionQuery describes one autocomplete request.
type SuggestionQuery struct {
	// Text is the partial query typed so far.
	Text string

	// Types restricts the suggested entity types; nil / empty means all.
	Types []EntityType

	// Limit caps the returned suggestions; values outside (0, 8] are
	// clamped to 8.
	Limit int
}

// Suggestion is a short labeled pointer to an entity. No full document is
// attached; the caller resolves details on selection.
type Suggestion struct {
	ID    uuid.UUID  `json:"id"`
	Type  EntityType `json:"type"`
	Label string     `json:"label"`
}

// Suggest returns autocomplete suggestions for a partial query. Matching is
// prefix / substring only; skill overlap is never scored on this path.
// Duplicate ids never appear within one response.
func (e *Engine) Suggest(ctx context.Context, q SuggestionQuery) ([]Suggestion, error) {
	partial := Fold(q.Text)
	if partial == "" {
		return []Suggestion{}, nil
	}

	limit := q.Limit
	if limit <= 0 || limit > MaxSuggestions {
		limit = MaxSuggestions
	}

	types := q.Types
	if len(types) == 0 {
		types = AllEntityTypes
	}

	type candidate struct {
		suggestion Suggestion
		rank       int
		label      string
	}

	var (
		candidates []candidate
		failed     int
		fetchErr   error
	)

	for _, t := range types {
		window, err := e.suggestionWindow(ctx, t)
		if err != nil {
			failed++
			fetchErr = multierror.Append(fetchErr, err)
			e.config.Logger.WithFields(logrus.Fields{
				"err":         err,
				"entity_type": t,
			}).Error("suggestion window fetch failed; skipping type")

			continue
		}

		for _, doc := range window {
			label := strings.TrimSpace(doc.Title)
			if label == "" {
				continue
			}

			folded := Fold(label)
			var rank int
			switch {
			case strings.HasPrefix(folded, partial):
				rank = 2
			case strings.Contains(folded, partial):
				rank = 1
			default:
				continue
			}

			candidates = append(candidates, candidate{
				suggestion: Suggestion{ID: doc.ID, Type: t, Label: label},
				rank:       rank,
				label:      folded,
			})
		}
	}

	if failed == len(types) {
		return nil, fmt.Errorf("suggest: all window fetches failed: %w", fetchErr)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].rank != candidates[j].rank {
			return candidates[i].rank > candidates[j].rank
		}

		return candidates[i].label < candidates[j].label
	})

	seen := make(map[uuid.UUID]struct{}, limit)
	suggestions := make([]Suggestion, 0, limit)
	for _, c := range candidates {
		if _, exists := seen[c.suggestion.ID]; exists {
			continue
		}

		seen[c.suggestion.ID] = struct{}{}
		suggestions = append(suggestions, c.suggestion)
		if len(suggestions) == limit {
			break
		}
	}

	return suggestions, nil
}

// suggestionWindow returns the cached high-trust candidate window for the
// type, refreshing it from the catalog when expired.
func (e *Engine) suggestionWindow(
	ctx context.Context, t EntityType,
) ([]*Document, error) {

	key := "suggest-window:" + string(t)
	if cached, exists := e.windows.Get(key); exists {
		return cached.([]*Document), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.config.FetchTimeout)
	defer cancel()

	window, err := e.fetchCandidates(fetchCtx, t, catalog.CandidateQuery{
		Limit:       suggestionWindowSize,
		TrustedOnly: true,
	})
	if err != nil {
		return nil, err
	}

	e.windows.Set(key, window, suggestionWindowTTL)

	return window, nil
}

// SweepCaches runs the suggestion-window cache eviction loop until the
// context gets cancelled. Intended to be launched as a goroutine at
// application start.
func (e *Engine) SweepCaches(ctx context.Context) {
	e.windows.Sweep(ctx, SuggestionSweepInterval)
}
