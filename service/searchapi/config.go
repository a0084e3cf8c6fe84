package searchapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/voluntree/voluntree/catalog"
	"github.com/voluntree/voluntree/search"
	"github.com/voluntree/voluntree/taxonomy"
)

const defaultMatchedOpportunitiesCap = 200

// SearchAPI defines a minimum set of API methods for running full searches
// and autocomplete suggestions.
type SearchAPI interface {
	// Search executes a full search.
	Search(ctx context.Context, q search.Query) (*search.Result, error)

	// Suggest returns autocomplete suggestions for a partial query.
	Suggest(ctx context.Context, q search.SuggestionQuery) ([]search.Suggestion, error)
}

// ProfileAPI defines a minimum set of API methods for resolving the caller's
// volunteer profile and sourcing the opportunities to filter.
type ProfileAPI interface {
	// FindVolunteer performs a volunteer lookup by id.
	FindVolunteer(id uuid.UUID) (*catalog.Volunteer, error)

	// Opportunities returns an iterator over opportunity candidates.
	Opportunities(ctx context.Context, q catalog.CandidateQuery) (catalog.OpportunityIterator, error)
}

// SessionAPI resolves the authenticated caller behind a request. Session
// handling is owned by the surrounding platform; this service only consumes
// the resulting identity.
type SessionAPI interface {
	// CallerID returns the authenticated volunteer id for the request,
	// or false when the request is anonymous.
	CallerID(r *http.Request) (uuid.UUID, bool)
}

// Config defines configurations for the search API service.
type Config struct {
	// API for executing searches and suggestions.
	SearchAPI SearchAPI

	// API for profile lookups and opportunity sourcing.
	ProfileAPI ProfileAPI

	// API for resolving the authenticated caller.
	SessionAPI SessionAPI

	// Taxonomy used to resolve skill display names in responses.
	Taxonomy *taxonomy.Taxonomy

	// Address to listen on for incoming requests.
	ListenAddr string

	// MatchedOpportunitiesCap bounds how many opportunities are fetched
	// for the skill-match filter. If not specified, a default value of
	// 200 will be used instead.
	MatchedOpportunitiesCap int

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.SearchAPI == nil {
		err = multierror.Append(err, fmt.Errorf("search API not provided"))
	}

	if config.ProfileAPI == nil {
		err = multierror.Append(err, fmt.Errorf("profile API not provided"))
	}

	if config.SessionAPI == nil {
		err = multierror.Append(err, fmt.Errorf("session API not provided"))
	}

	if config.Taxonomy == nil {
		err = multierror.Append(err, fmt.Errorf("taxonomy not provided"))
	}

	if config.ListenAddr == "" {
		err = multierror.Append(err, fmt.Errorf("listen address not provided"))
	}

	if config.MatchedOpportunitiesCap <= 0 {
		config.MatchedOpportunitiesCap = defaultMatchedOpportunitiesCap
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}
