package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"github.com/voluntree/voluntree/catalog"
)

// Static and compile-time check to ensure ElasticsearchStore implements
// Store.
var _ catalog.Store = (*ElasticsearchStore)(nil)

// The name of the elasticsearch index to use.
const indexName = "catalog"

// JSON data structure that defines the properties of an elasticsearch
// catalog document.
var esMappings = `
{
  "mappings" : {
    "properties": {
      "ID": {"type": "keyword"},
      "EntityType": {"type": "keyword"},
      "Title": {"type": "text"},
      "Text": {"type": "text"},
      "Tags": {"type": "text"},
      "NGOID": {"type": "keyword"},
      "NGOName": {"type": "text"},
      "Skills": {"type": "keyword"},
      "City": {"type": "keyword"},
      "Country": {"type": "keyword"},
      "HourlyRate": {"type": "double"},
      "Rating": {"type": "double"},
      "CompletedCount": {"type": "integer"},
      "ApplicantsCount": {"type": "integer"},
      "HoursPerWeek": {"type": "integer"},
      "Verified": {"type": "boolean"},
      "Active": {"type": "boolean"},
      "Banned": {"type": "boolean"},
      "Searchable": {"type": "boolean"},
      "DeletedAt": {"type": "date"},
      "CreatedAt": {"type": "date"}
    }
  }
}`

type esSearchRes struct {
	Hits esSearchResHits `json:"hits"`
}

type esSearchResHits struct {
	Total   esTotal        `json:"total"`
	HitList []esHitWrapper `json:"hits"`
}

type esTotal struct {
	Count uint64 `json:"value"`
}

type esHitWrapper struct {
	DocSource esDoc `json:"_source"`
}

// esDoc is the flattened representation of any catalog record. Skills are
// encoded as "categoryID:subskillID" pairs so they survive the round trip
// without a nested mapping.
type esDoc struct {
	ID              string     `json:"ID"`
	EntityType      string     `json:"EntityType"`
	Title           string     `json:"Title"`
	Text            string     `json:"Text"`
	Tags            []string   `json:"Tags,omitempty"`
	NGOID           string     `json:"NGOID,omitempty"`
	NGOName         string     `json:"NGOName,omitempty"`
	Skills          []string   `json:"Skills,omitempty"`
	City            string     `json:"City,omitempty"`
	Country         string     `json:"Country,omitempty"`
	HourlyRate      float64    `json:"HourlyRate,omitempty"`
	Rating          float64    `json:"Rating,omitempty"`
	CompletedCount  int        `json:"CompletedCount,omitempty"`
	ApplicantsCount int        `json:"ApplicantsCount,omitempty"`
	HoursPerWeek    int        `json:"HoursPerWeek,omitempty"`
	Verified        bool       `json:"Verified"`
	Active          bool       `json:"Active"`
	Banned          bool       `json:"Banned"`
	Searchable      bool       `json:"Searchable"`
	DeletedAt       *time.Time `json:"DeletedAt,omitempty"`
	CreatedAt       time.Time  `json:"CreatedAt"`
}

type esUpdateRes struct {
	Result string `json:"result"`
}

type esErrorRes struct {
	Error esError `json:"error"`
}

type esError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (e esError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Reason)
}

const (
	typeVolunteer   = "volunteer"
	typeNGO         = "ngo"
	typeOpportunity = "opportunity"
)

// ElasticsearchStore is a catalog.Store implementation that keeps all
// marketplace records in a single elasticsearch index.
type ElasticsearchStore struct {
	client      *elasticsearch.Client
	refreshOpts func(*esapi.UpdateRequest)
}

// NewElasticsearchStore instantiates and returns a catalog store backed by
// an elasticsearch cluster.
func NewElasticsearchStore(
	esNodes []string, shouldSyncUpdates bool,
) (*ElasticsearchStore, error) {

	cfg := elasticsearch.Config{
		Addresses: esNodes,
	}

	c, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	if err = initIndex(c); err != nil {
		return nil, err
	}

	refreshOpts := c.Update.WithRefresh("false")
	if shouldSyncUpdates {
		refreshOpts = c.Update.WithRefresh("true")
	}

	return &ElasticsearchStore{
		client:      c,
		refreshOpts: refreshOpts,
	}, nil
}

func initIndex(client *elasticsearch.Client) error {
	mappingsReader := strings.NewReader(esMappings)

	res, err := client.Indices.Create(
		indexName, client.Indices.Create.WithBody(mappingsReader),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	if res.IsError() {
		var errRes esErrorRes
		if err := json.NewDecoder(res.Body).Decode(&errRes); err != nil {
			return fmt.Errorf("create index: %w", err)
		}

		// An existing index from a previous run is fine.
		if errRes.Error.Type != "resource_already_exists_exception" {
			return fmt.Errorf("create index: %w", errRes.Error)
		}
	}

	return nil
}

// UpsertVolunteer creates a new or updates an existing volunteer.
func (s *ElasticsearchStore) UpsertVolunteer(v *catalog.Volunteer) error {
	if v.ID == uuid.Nil {
		return fmt.Errorf("upsert volunteer: %w", catalog.ErrMissingID)
	}

	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	return s.upsert(volunteerToEsDoc(v))
}

// UpsertNGO creates a new or updates an existing NGO.
func (s *ElasticsearchStore) UpsertNGO(n *catalog.NGO) error {
	if n.ID == uuid.Nil {
		return fmt.Errorf("upsert ngo: %w", catalog.ErrMissingID)
	}

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	return s.upsert(ngoToEsDoc(n))
}

// UpsertOpportunity creates a new or updates an existing opportunity.
func (s *ElasticsearchStore) UpsertOpportunity(o *catalog.Opportunity) error {
	if o.ID == uuid.Nil {
		return fmt.Errorf("upsert opportunity: %w", catalog.ErrMissingID)
	}

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	return s.upsert(opportunityToEsDoc(o))
}

func (s *ElasticsearchStore) upsert(doc esDoc) error {
	var buf bytes.Buffer

	forUpdate := map[string]interface{}{
		"doc":           doc,
		"doc_as_upsert": true,
	}

	if err := json.NewEncoder(&buf).Encode(forUpdate); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	docID := doc.EntityType + ":" + doc.ID
	res, err := s.client.Update(indexName, docID, &buf, s.refreshOpts)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	var updateRes esUpdateRes
	if err = json.NewDecoder(res.Body).Decode(&updateRes); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	return nil
}

// FindVolunteer performs a volunteer lookup by id.
func (s *ElasticsearchStore) FindVolunteer(id uuid.UUID) (*catalog.Volunteer, error) {
	doc, err := s.findByID(typeVolunteer, id)
	if err != nil {
		return nil, fmt.Errorf("find volunteer: %w", err)
	}

	return esDocToVolunteer(doc)
}

// FindNGO performs an NGO lookup by id.
func (s *ElasticsearchStore) FindNGO(id uuid.UUID) (*catalog.NGO, error) {
	doc, err := s.findByID(typeNGO, id)
	if err != nil {
		return nil, fmt.Errorf("find ngo: %w", err)
	}

	return esDocToNGO(doc)
}

// FindOpportunity performs an opportunity lookup by id.
func (s *ElasticsearchStore) FindOpportunity(id uuid.UUID) (*catalog.Opportunity, error) {
	doc, err := s.findByID(typeOpportunity, id)
	if err != nil {
		return nil, fmt.Errorf("find opportunity: %w", err)
	}

	return esDocToOpportunity(doc)
}

func (s *ElasticsearchStore) findByID(entityType string, id uuid.UUID) (*esDoc, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"ID": id.String()},
					},
					map[string]interface{}{
						"term": map[string]interface{}{"EntityType": entityType},
					},
				},
			},
		},
		"from": 0,
		"size": 1,
	}

	searchRes, err := performSearch(s.client, query)
	if err != nil {
		return nil, err
	}

	if len(searchRes.Hits.HitList) == 0 {
		return nil, catalog.ErrNotFound
	}

	return &searchRes.Hits.HitList[0].DocSource, nil
}

// Volunteers returns an iterator over volunteer candidates matching the
// query.
func (s *ElasticsearchStore) Volunteers(
	ctx context.Context, q catalog.CandidateQuery,
) (catalog.VolunteerIterator, error) {

	docs, err := s.candidates(ctx, typeVolunteer, q)
	if err != nil {
		return nil, fmt.Errorf("volunteer candidates: %w", err)
	}

	return &volunteerIterator{esIterator: esIterator{docs: docs, currIdx: -1}}, nil
}

// NGOs returns an iterator over NGO candidates matching the query.
func (s *ElasticsearchStore) NGOs(
	ctx context.Context, q catalog.CandidateQuery,
) (catalog.NGOIterator, error) {

	docs, err := s.candidates(ctx, typeNGO, q)
	if err != nil {
		return nil, fmt.Errorf("ngo candidates: %w", err)
	}

	return &ngoIterator{esIterator: esIterator{docs: docs, currIdx: -1}}, nil
}

// Opportunities returns an iterator over opportunity candidates matching
// the query.
func (s *ElasticsearchStore) Opportunities(
	ctx context.Context, q catalog.CandidateQuery,
) (catalog.OpportunityIterator, error) {

	docs, err := s.candidates(ctx, typeOpportunity, q)
	if err != nil {
		return nil, fmt.Errorf("opportunity candidates: %w", err)
	}

	return &opportunityIterator{esIterator: esIterator{docs: docs, currIdx: -1}}, nil
}

func (s *ElasticsearchStore) candidates(
	ctx context.Context, entityType string, q catalog.CandidateQuery,
) ([]esDoc, error) {

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	filters := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"EntityType": entityType},
		},
		map[string]interface{}{
			"term": map[string]interface{}{"Searchable": true},
		},
	}

	if q.TrustedOnly {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"Verified": true},
		})
	}

	boolQuery := map[string]interface{}{"filter": filters}
	if q.Text != "" {
		boolQuery["must"] = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"type":   "best_fields",
				"query":  q.Text,
				"fields": []string{"Title", "Text", "Tags", "NGOName"},
			},
		}
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"from":  0,
		"size":  limit,
	}

	if q.Text == "" {
		query["sort"] = []interface{}{
			map[string]interface{}{"CreatedAt": map[string]interface{}{"order": "desc"}},
		}
	}

	searchRes, err := performSearchCtx(ctx, s.client, query)
	if err != nil {
		return nil, err
	}

	docs := make([]esDoc, len(searchRes.Hits.HitList))
	for i, hit := range searchRes.Hits.HitList {
		docs[i] = hit.DocSource
	}

	return docs, nil
}

func performSearch(
	client *elasticsearch.Client, query map[string]interface{},
) (*esSearchRes, error) {

	return performSearchCtx(context.Background(), client, query)
}

func performSearchCtx(
	ctx context.Context,
	client *elasticsearch.Client,
	query map[string]interface{},
) (*esSearchRes, error) {

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(indexName),
		client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if res.IsError() {
		var errRes esErrorRes
		if err := json.NewDecoder(res.Body).Decode(&errRes); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}

		return nil, fmt.Errorf("search: %w", errRes.Error)
	}

	var searchRes esSearchRes
	if err := json.NewDecoder(res.Body).Decode(&searchRes); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return &searchRes, nil
}
