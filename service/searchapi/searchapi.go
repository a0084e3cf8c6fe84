// Package searchapi exposes the voluntree search and match core over HTTP.
package searchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voluntree/voluntree/catalog"
	"github.com/voluntree/voluntree/match"
	"github.com/voluntree/voluntree/search"
)

const (
	searchEndpoint               = "/search"
	matchedOpportunitiesEndpoint = "/opportunities/matched"

	modeFull        = "full"
	modeSuggestions = "suggestions"

	queryTooShortMsg  = "query too short"
	noSessionMsg      = "sign in to see opportunities matched to your skills"
	noSkillsMsg       = "add skills to your profile to see matched opportunities"
	backendFailureMsg = "search is temporarily unavailable, please try again later"
)

// Service represents the search API service for the voluntree application.
// It satisfies the service.Service interface.
type Service struct {
	config Config
	router *chi.Mux
}

// New creates and returns a fully configured search API service instance.
func New(config Config) (*Service, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("search API service: config validation failed: %w", err)
	}

	svc := &Service{
		config: config,
		router: chi.NewRouter(),
	}

	svc.router.Get(searchEndpoint, svc.handleSearch)
	svc.router.Get(matchedOpportunitiesEndpoint, svc.handleMatchedOpportunities)

	return svc, nil
}

// Name returns the name of the service.
func (svc *Service) Name() string { return "search-api" }

// Run executes the service and blocks until the context gets cancelled
// or an error occurs.
func (svc *Service) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", svc.config.ListenAddr)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	srv := &http.Server{
		Addr:    svc.config.ListenAddr,
		Handler: svc.router,
	}

	go func() {
		<-ctx.Done()

		_ = srv.Close()
	}()

	svc.config.Logger.WithField("addr", svc.config.ListenAddr).Info(
		"started service",
	)

	if err = srv.Serve(l); err == http.ErrServerClosed {
		// Server closed gracefully.
		err = nil
	}

	return err
}

// searchResponse is the payload for full-search requests.
type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
	Total   int            `json:"total"`
	Message string         `json:"message,omitempty"`
}

// suggestResponse is the payload for suggestion-mode requests.
type suggestResponse struct {
	Query       string              `json:"query"`
	Suggestions []search.Suggestion `json:"suggestions"`
	Message     string              `json:"message,omitempty"`
}

type searchResult struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	Title         string      `json:"title"`
	Score         float64     `json:"score"`
	MatchedSkills []skillInfo `json:"matchedSkills,omitempty"`
	City          string      `json:"city,omitempty"`
	Country       string      `json:"country,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type skillInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// matchedOpportunitiesResponse is the payload for the opportunity-browsing
// flow. Projects is never null: an empty set renders as [] with an
// explanatory message rather than falling back to unfiltered results.
type matchedOpportunitiesResponse struct {
	Projects []matchedProject `json:"projects"`
	Matched  bool             `json:"matched"`
	Message  string           `json:"message,omitempty"`
}

type matchedProject struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	NGOName        string      `json:"ngoName,omitempty"`
	RequiredSkills []skillInfo `json:"requiredSkills,omitempty"`
	City           string      `json:"city,omitempty"`
	Country        string      `json:"country,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

func (svc *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	queryText := strings.TrimSpace(params.Get("q"))
	mode := params.Get("mode")
	if mode == "" {
		mode = modeFull
	}

	types, err := search.ParseEntityTypes(params.Get("types"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

		return
	}

	limit, err := parseIntParam(params.Get("limit"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit parameter"})

		return
	}

	skillFilter := parseCSVParam(params.Get("skills"))

	switch mode {
	case modeSuggestions:
		svc.serveSuggestions(w, r, queryText, types, limit)
	case modeFull:
		svc.serveFullSearch(w, r, queryText, types, skillFilter, limit, params)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("unsupported mode: %q", mode),
		})
	}
}

func (svc *Service) serveFullSearch(
	w http.ResponseWriter,
	r *http.Request,
	queryText string,
	types []search.EntityType,
	skillFilter []string,
	limit int,
	params map[string][]string,
) {

	// Sub-character queries are a boundary condition, not an error: the
	// scoring engine is never invoked for them.
	if queryText == "" && len(skillFilter) == 0 {
		writeJSON(w, http.StatusOK, searchResponse{
			Query:   queryText,
			Results: []searchResult{},
			Message: queryTooShortMsg,
		})

		return
	}

	facets, err := parseFacetConstraints(params)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

		return
	}

	result, err := svc.config.SearchAPI.Search(r.Context(), search.Query{
		Text:        queryText,
		Types:       types,
		SkillFilter: skillFilter,
		Facets:      facets,
		Limit:       limit,
	})
	if err != nil {
		svc.config.Logger.WithField("err", err).Error("search query execution failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: backendFailureMsg})

		return
	}

	results := make([]searchResult, len(result.Results))
	for i, res := range result.Results {
		results[i] = searchResult{
			ID:            res.Document.ID.String(),
			Type:          string(res.Document.Type),
			Title:         res.Document.Title,
			Score:         res.Score,
			MatchedSkills: svc.skillInfos(res.MatchedSkillIDs),
			City:          res.Document.Location.City,
			Country:       res.Document.Location.Country,
			CreatedAt:     res.Document.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:   queryText,
		Results: results,
		Total:   result.Total,
	})
}

func (svc *Service) serveSuggestions(
	w http.ResponseWriter,
	r *http.Request,
	queryText string,
	types []search.EntityType,
	limit int,
) {

	if queryText == "" {
		writeJSON(w, http.StatusOK, suggestResponse{
			Query:       queryText,
			Suggestions: []search.Suggestion{},
			Message:     queryTooShortMsg,
		})

		return
	}

	suggestions, err := svc.config.SearchAPI.Suggest(r.Context(), search.SuggestionQuery{
		Text:  queryText,
		Types: types,
		Limit: limit,
	})
	if err != nil {
		svc.config.Logger.WithField("err", err).Error("suggestion query execution failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: backendFailureMsg})

		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{
		Query:       queryText,
		Suggestions: suggestions,
	})
}

func (svc *Service) handleMatchedOpportunities(w http.ResponseWriter, r *http.Request) {
	callerID, authenticated := svc.config.SessionAPI.CallerID(r)
	if !authenticated {
		writeJSON(w, http.StatusOK, matchedOpportunitiesResponse{
			Projects: []matchedProject{},
			Message:  noSessionMsg,
		})

		return
	}

	volunteer, err := svc.config.ProfileAPI.FindVolunteer(callerID)
	if errors.Is(err, catalog.ErrNotFound) {
		// A caller without a profile has no skills to match against; this
		// is a boundary condition, not a store failure.
		writeJSON(w, http.StatusOK, matchedOpportunitiesResponse{
			Projects: []matchedProject{},
			Message:  noSkillsMsg,
		})

		return
	} else if err != nil {
		svc.config.Logger.WithField("err", err).Error("volunteer profile lookup failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: backendFailureMsg})

		return
	}

	skillSet := match.NewSkillSet(svc.config.Taxonomy, volunteer.Skills)
	if skillSet.Empty() {
		writeJSON(w, http.StatusOK, matchedOpportunitiesResponse{
			Projects: []matchedProject{},
			Message:  noSkillsMsg,
		})

		return
	}

	opportunities, err := svc.fetchOpportunities(r.Context())
	if err != nil {
		svc.config.Logger.WithField("err", err).Error("opportunity fetch failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: backendFailureMsg})

		return
	}

	matched := match.FilterOpportunities(skillSet, opportunities)

	projects := make([]matchedProject, len(matched))
	for i, o := range matched {
		requiredIDs := o.SubskillIDs()

		projects[i] = matchedProject{
			ID:             o.ID.String(),
			Title:          o.Title,
			NGOName:        o.NGOName,
			RequiredSkills: svc.skillInfos(requiredIDs),
			City:           o.Location.City,
			Country:        o.Location.Country,
			CreatedAt:      o.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, matchedOpportunitiesResponse{
		Projects: projects,
		Matched:  len(projects) > 0,
	})
}

func (svc *Service) fetchOpportunities(ctx context.Context) ([]*catalog.Opportunity, error) {
	it, err := svc.config.ProfileAPI.Opportunities(ctx, catalog.CandidateQuery{
		Limit: svc.config.MatchedOpportunitiesCap,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var opportunities []*catalog.Opportunity
	for it.Next() {
		opportunities = append(opportunities, it.Opportunity())
	}

	return opportunities, it.Error()
}

func (svc *Service) skillInfos(subskillIDs []string) []skillInfo {
	if len(subskillIDs) == 0 {
		return nil
	}

	infos := make([]skillInfo, len(subskillIDs))
	for i, id := range subskillIDs {
		infos[i] = skillInfo{
			ID:   id,
			Name: svc.config.Taxonomy.ResolveSkillName(id),
		}
	}

	return infos
}

func parseIntParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid integer parameter: %q", raw)
	}

	return v, nil
}

func parseCSVParam(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var values []string
	for _, token := range strings.Split(raw, ",") {
		if token = strings.TrimSpace(token); token != "" {
			values = append(values, token)
		}
	}

	return values
}

func parseFacetConstraints(params map[string][]string) (*search.FacetConstraints, error) {
	get := func(key string) string {
		if vals := params[key]; len(vals) > 0 {
			return vals[0]
		}

		return ""
	}

	var fc search.FacetConstraints

	if raw := get("max_rate"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid max_rate parameter: %q", raw)
		}

		fc.MaxHourlyRate = v
	}

	if raw := get("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid min_rating parameter: %q", raw)
		}

		fc.MinRating = v
	}

	if raw := get("max_hours"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid max_hours parameter: %q", raw)
		}

		fc.MaxHoursPerWeek = v
	}

	if fc == (search.FacetConstraints{}) {
		return nil, nil
	}

	return &fc, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(payload)
}
