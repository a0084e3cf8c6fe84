package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/voluntree/voluntree/catalog"
)

// Static and compile-time check to ensure PostgresStore implements Store.
var _ catalog.Store = (*PostgresStore)(nil)

const defaultCandidateLimit = 100

var (
	upsertVolunteerQuery = `
		INSERT INTO volunteers (
			id, display_name, bio, tags, categories, subskills,
			city, country, hourly_rate, rating, completed_count,
			verified, active, banned, deleted_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id)
		DO UPDATE SET
			display_name=$2, bio=$3, tags=$4, categories=$5, subskills=$6,
			city=$7, country=$8, hourly_rate=$9, rating=$10,
			completed_count=$11, verified=$12, active=$13, banned=$14,
			deleted_at=$15
		RETURNING created_at
		`

	findVolunteerQuery = `
		SELECT id, display_name, bio, tags, categories, subskills,
			city, country, hourly_rate, rating, completed_count,
			verified, active, banned, deleted_at, created_at
		FROM volunteers WHERE id=$1
		`

	volunteerCandidatesQuery = `
		SELECT id, display_name, bio, tags, categories, subskills,
			city, country, hourly_rate, rating, completed_count,
			verified, active, banned, deleted_at, created_at
		FROM volunteers
		WHERE active AND NOT banned AND deleted_at IS NULL
			AND (NOT $1 OR verified)
			AND ($2 = '' OR display_name ILIKE '%' || $2 || '%' OR bio ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id
		LIMIT $3
		`

	upsertNGOQuery = `
		INSERT INTO ngos (
			id, name, description, tags, categories, subskills,
			city, country, rating, opportunity_count,
			verified, active, banned, deleted_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id)
		DO UPDATE SET
			name=$2, description=$3, tags=$4, categories=$5, subskills=$6,
			city=$7, country=$8, rating=$9, opportunity_count=$10,
			verified=$11, active=$12, banned=$13, deleted_at=$14
		RETURNING created_at
		`

	findNGOQuery = `
		SELECT id, name, description, tags, categories, subskills,
			city, country, rating, opportunity_count,
			verified, active, banned, deleted_at, created_at
		FROM ngos WHERE id=$1
		`

	ngoCandidatesQuery = `
		SELECT id, name, description, tags, categories, subskills,
			city, country, rating, opportunity_count,
			verified, active, banned, deleted_at, created_at
		FROM ngos
		WHERE active AND NOT banned AND deleted_at IS NULL
			AND (NOT $1 OR verified)
			AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id
		LIMIT $3
		`

	upsertOpportunityQuery = `
		INSERT INTO opportunities (
			id, ngo_id, title, description, tags, ngo_name,
			categories, subskills, city, country, hourly_rate,
			hours_per_week, applicants_count, verified, active,
			deleted_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id)
		DO UPDATE SET
			ngo_id=$2, title=$3, description=$4, tags=$5, ngo_name=$6,
			categories=$7, subskills=$8, city=$9, country=$10,
			hourly_rate=$11, hours_per_week=$12, applicants_count=$13,
			verified=$14, active=$15, deleted_at=$16
		RETURNING created_at
		`

	findOpportunityQuery = `
		SELECT id, ngo_id, title, description, tags, ngo_name,
			categories, subskills, city, country, hourly_rate,
			hours_per_week, applicants_count, verified, active,
			deleted_at, created_at
		FROM opportunities WHERE id=$1
		`

	opportunityCandidatesQuery = `
		SELECT id, ngo_id, title, description, tags, ngo_name,
			categories, subskills, city, country, hourly_rate,
			hours_per_week, applicants_count, verified, active,
			deleted_at, created_at
		FROM opportunities
		WHERE active AND deleted_at IS NULL
			AND (NOT $1 OR verified)
			AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%' OR ngo_name ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id
		LIMIT $3
		`
)

// PostgresStore implements a persistent marketplace catalog on top of a
// PostgreSQL (or CockroachDB) instance.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a PostgresStore connected to the provided DSN.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{db}, nil
}

// Close terminates the connection to the backing database instance.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// UpsertVolunteer creates a new or updates an existing volunteer.
func (s *PostgresStore) UpsertVolunteer(v *catalog.Volunteer) error {
	if v.ID == uuid.Nil {
		return fmt.Errorf("upsert volunteer: %w", catalog.ErrMissingID)
	}

	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	categories, subskills := splitVolunteerSkills(v.Skills)

	err := s.db.QueryRow(
		upsertVolunteerQuery,
		v.ID, v.DisplayName, v.Bio, pq.Array(v.Tags),
		pq.Array(categories), pq.Array(subskills),
		v.Location.City, v.Location.Country, v.HourlyRate, v.Rating,
		v.CompletedCount, v.Verified, v.Active, v.Banned, v.DeletedAt,
		v.CreatedAt,
	).Scan(&v.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert volunteer: %w", err)
	}

	return nil
}

// UpsertNGO creates a new or updates an existing NGO.
func (s *PostgresStore) UpsertNGO(n *catalog.NGO) error {
	if n.ID == uuid.Nil {
		return fmt.Errorf("upsert ngo: %w", catalog.ErrMissingID)
	}

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	categories, subskills := splitRequiredSkills(n.FocusSkills)

	err := s.db.QueryRow(
		upsertNGOQuery,
		n.ID, n.Name, n.Description, pq.Array(n.Tags),
		pq.Array(categories), pq.Array(subskills),
		n.Location.City, n.Location.Country, n.Rating,
		n.OpportunityCount, n.Verified, n.Active, n.Banned, n.DeletedAt,
		n.CreatedAt,
	).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert ngo: %w", err)
	}

	return nil
}

// UpsertOpportunity creates a new or updates an existing opportunity.
func (s *PostgresStore) UpsertOpportunity(o *catalog.Opportunity) error {
	if o.ID == uuid.Nil {
		return fmt.Errorf("upsert opportunity: %w", catalog.ErrMissingID)
	}

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	categories, subskills := splitRequiredSkills(o.RequiredSkills)

	err := s.db.QueryRow(
		upsertOpportunityQuery,
		o.ID, o.NGOID, o.Title, o.Description, pq.Array(o.Tags), o.NGOName,
		pq.Array(categories), pq.Array(subskills),
		o.Location.City, o.Location.Country, o.HourlyRate, o.HoursPerWeek,
		o.ApplicantsCount, o.Verified, o.Active, o.DeletedAt, o.CreatedAt,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert opportunity: %w", err)
	}

	return nil
}

// FindVolunteer performs a volunteer lookup by id.
func (s *PostgresStore) FindVolunteer(id uuid.UUID) (*catalog.Volunteer, error) {
	row := s.db.QueryRow(findVolunteerQuery, id)

	v, err := scanVolunteer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("find volunteer: %w", catalog.ErrNotFound)
		}

		return nil, fmt.Errorf("find volunteer: %w", err)
	}

	return v, nil
}

// FindNGO performs an NGO lookup by id.
func (s *PostgresStore) FindNGO(id uuid.UUID) (*catalog.NGO, error) {
	row := s.db.QueryRow(findNGOQuery, id)

	n, err := scanNGO(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("find ngo: %w", catalog.ErrNotFound)
		}

		return nil, fmt.Errorf("find ngo: %w", err)
	}

	return n, nil
}

// FindOpportunity performs an opportunity lookup by id.
func (s *PostgresStore) FindOpportunity(id uuid.UUID) (*catalog.Opportunity, error) {
	row := s.db.QueryRow(findOpportunityQuery, id)

	o, err := scanOpportunity(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("find opportunity: %w", catalog.ErrNotFound)
		}

		return nil, fmt.Errorf("find opportunity: %w", err)
	}

	return o, nil
}

// Volunteers returns an iterator over volunteer candidates matching the
// query.
func (s *PostgresStore) Volunteers(
	ctx context.Context, q catalog.CandidateQuery,
) (catalog.VolunteerIterator, error) {

	rows, err := s.db.QueryContext(
		ctx, volunteerCandidatesQuery, q.TrustedOnly, q.Text, limitOf(q),
	)
	if err != nil {
		return nil, fmt.Errorf("volunteer candidates: %w", err)
	}

	return &volunteerIterator{rows: rows}, nil
}

// NGOs returns an iterator over NGO candidates matching the query.
func (s *PostgresStore) NGOs(
	ctx context.Context, q catalog.CandidateQuery,
) (catalog.NGOIterator, error) {

	rows, err := s.db.QueryContext(
		ctx, ngoCandidatesQuery, q.TrustedOnly, q.Text, limitOf(q),
	)
	if err != nil {
		return nil, fmt.Errorf("ngo candidates: %w", err)
	}

	return &ngoIterator{rows: rows}, nil
}

// Opportunities returns an iterator over opportunity candidates matching
// the query.
func (s *PostgresStore) Opportunities(
	ctx context.Context, q catalog.CandidateQuery,
) (catalog.OpportunityIterator, error) {

	rows, err := s.db.QueryContext(
		ctx, opportunityCandidatesQuery, q.TrustedOnly, q.Text, limitOf(q),
	)
	if err != nil {
		return nil, fmt.Errorf("opportunity candidates: %w", err)
	}

	return &opportunityIterator{rows: rows}, nil
}

func limitOf(q catalog.CandidateQuery) int {
	if q.Limit <= 0 {
		return defaultCandidateLimit
	}

	return q.Limit
}

func splitVolunteerSkills(skills []catalog.VolunteerSkill) ([]string, []string) {
	categories := make([]string, len(skills))
	subskills := make([]string, len(skills))
	for i, skill := range skills {
		categories[i] = skill.CategoryID
		subskills[i] = skill.SubskillID
	}

	return categories, subskills
}

func splitRequiredSkills(skills []catalog.RequiredSkill) ([]string, []string) {
	categories := make([]string, len(skills))
	subskills := make([]string, len(skills))
	for i, skill := range skills {
		categories[i] = skill.CategoryID
		subskills[i] = skill.SubskillID
	}

	return categories, subskills
}
