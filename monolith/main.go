package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/voluntree/voluntree/catalog"
	"github.com/voluntree/voluntree/catalog/store/es"
	memstore "github.com/voluntree/voluntree/catalog/store/memory"
	"github.com/voluntree/voluntree/catalog/store/pg"
	"github.com/voluntree/voluntree/search"
	"github.com/voluntree/voluntree/service"
	"github.com/voluntree/voluntree/service/searchapi"
	"github.com/voluntree/voluntree/taxonomy"
)

const (
	appName = "voluntree-monolith"
	appSHA  = "compiled-and-deployed-at"

	// callerIDHeader carries the authenticated volunteer id injected by
	// the platform's auth proxy.
	callerIDHeader = "X-Volunteer-ID"
)

func main() {
	host, _ := os.Hostname()
	// Instantiate a root logger that will be passed to all services.
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"SHA":  appSHA,
		"host": host,
	})

	svcGroup, sweeper, err := configureServices(logger)
	if err != nil {
		logger.WithField("err", err).Error("shutting down due to an error")

		return
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	// Launch a separate process to listen and respond to os signals
	// and trigger a graceful shutdown.
	go func() {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, syscall.SIGINT, syscall.SIGHUP)

		select {
		case s := <-signalChan:
			logger.WithField("signal", s.String()).Info("shutting down due to os signal")
			// Cancel context, this signals all services to return since they all
			// share this same context.
			cancelFn()
		case <-ctx.Done():
		}
	}()

	// Evict expired suggestion windows for as long as the app runs.
	go sweeper(ctx)

	if err := svcGroup.Execute(ctx); err != nil {
		logger.WithField("err", err).Error("shutting down due to an error")

		return
	}

	// Shutdown due to context cancellation.
	logger.Info("shutdown complete")
}

func configureServices(logger *logrus.Entry) (service.Group, func(context.Context), error) {
	var (
		engineConfig search.Config
		apiConfig    searchapi.Config
	)

	flag.StringVar(
		&apiConfig.ListenAddr, "search-api-listen-addr",
		":8080", "Address to listen on for incoming search API requests",
	)
	flag.IntVar(
		&apiConfig.MatchedOpportunitiesCap, "matched-opportunities-cap",
		200, "Maximum number of opportunities fetched for the skill-match filter",
	)

	flag.Float64Var(
		&engineConfig.Weights.Text, "score-weight-text",
		0, "Weight of the text relevance term. [0 selects the default]",
	)
	flag.Float64Var(
		&engineConfig.Weights.Skill, "score-weight-skill",
		0, "Weight of the skill overlap term. [0 selects the default]",
	)
	flag.Float64Var(
		&engineConfig.Weights.Trust, "score-weight-trust",
		0, "Weight of the trust signal term. [0 selects the default]",
	)
	flag.Float64Var(
		&engineConfig.Weights.Facet, "score-weight-facet",
		0, "Weight of the facet fit term. [0 selects the default]",
	)
	flag.DurationVar(
		&engineConfig.RecencyHorizon, "score-recency-horizon",
		0, "Age at which a record's recency bonus decays to zero. [0 selects the default]",
	)
	flag.IntVar(
		&engineConfig.CandidatesPerType, "search-candidates-per-type",
		0, "Maximum candidates fetched per entity type. [0 selects the default]",
	)
	flag.IntVar(
		&engineConfig.MaxResults, "search-max-results",
		0, "Hard cap on results returned per search. [0 selects the default]",
	)
	flag.DurationVar(
		&engineConfig.FetchTimeout, "search-fetch-timeout",
		0, "Deadline for the candidate-fetch step. [0 selects the default]",
	)

	catalogURI := flag.String(
		"catalog-uri", "in-memory://",
		"URI for connecting to a catalog data store."+
			" [supported URI's: in-memory://, es://node1:9200,...,nodeN:9200,"+
			" postgresql://user@host:5432/voluntree?sslmode=disable]",
	)
	taxonomyPath := flag.String(
		"taxonomy-path", "",
		"Path to a skill taxonomy JSON file. [defaults to the embedded taxonomy]",
	)

	flag.Parse()

	tax, err := getTaxonomy(*taxonomyPath)
	if err != nil {
		return nil, nil, err
	}

	// Retrieve a suitable catalog store implementation and plug it into
	// the service configurations.
	catalogStore, err := getCatalogStore(*catalogURI, logger)
	if err != nil {
		return nil, nil, err
	}

	engineConfig.CatalogAPI = catalogStore
	engineConfig.Taxonomy = tax
	engineConfig.Logger = logger.WithField("component", "search-engine")

	engine, err := search.New(engineConfig)
	if err != nil {
		return nil, nil, err
	}

	var svcGrp service.Group

	apiConfig.SearchAPI = engine
	apiConfig.ProfileAPI = catalogStore
	apiConfig.SessionAPI = headerSession{}
	apiConfig.Taxonomy = tax
	apiConfig.Logger = logger.WithField("service", "search-api")
	if svc, err := searchapi.New(apiConfig); err == nil {
		svcGrp = append(svcGrp, svc)
	} else {
		return nil, nil, err
	}

	return svcGrp, engine.SweepCaches, nil
}

func getTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.MustLoadDefault(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	return taxonomy.Load(raw)
}

func getCatalogStore(catalogURI string, logger *logrus.Entry) (catalog.Store, error) {
	if catalogURI == "" {
		return nil, fmt.Errorf("catalog URI must be specified with --catalog-uri")
	}

	url, err := url.Parse(catalogURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog URI: %w", err)
	}

	switch url.Scheme {
	case "in-memory":
		logger.Info("using in-memory catalog store")

		return memstore.NewInMemoryStore()
	case "es":
		nodes := strings.Split(url.Host, ",")
		for i := 0; i < len(nodes); i++ {
			nodes[i] = "http://" + nodes[i]
		}
		logger.Info("using ES catalog store")

		return es.NewElasticsearchStore(nodes, false)
	case "postgresql":
		logger.Info("using postgres catalog store")

		return pg.NewPostgresStore(catalogURI)
	default:
		return nil, fmt.Errorf("unsupported catalog URI scheme: %q", url.Scheme)
	}
}

// headerSession resolves the caller identity from the X-Volunteer-ID header.
// The surrounding platform authenticates requests and injects the header;
// requests without it are treated as anonymous.
type headerSession struct{}

func (headerSession) CallerID(r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get(callerIDHeader)
	if raw == "" {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
