package pg

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/voluntree/voluntree/catalog"
)

// Static and compile-time checks to ensure the iterators implement the
// catalog iterator interfaces.
var (
	_ catalog.VolunteerIterator   = (*volunteerIterator)(nil)
	_ catalog.NGOIterator         = (*ngoIterator)(nil)
	_ catalog.OpportunityIterator = (*opportunityIterator)(nil)
)

// scannable is satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...interface{}) error
}

func scanVolunteer(row scannable) (*catalog.Volunteer, error) {
	var (
		v          catalog.Volunteer
		tags       []string
		categories []string
		subskills  []string
	)

	err := row.Scan(
		&v.ID, &v.DisplayName, &v.Bio, pq.Array(&tags),
		pq.Array(&categories), pq.Array(&subskills),
		&v.Location.City, &v.Location.Country, &v.HourlyRate, &v.Rating,
		&v.CompletedCount, &v.Verified, &v.Active, &v.Banned, &v.DeletedAt,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.Tags = tags
	v.Skills = zipVolunteerSkills(categories, subskills)

	return &v, nil
}

func scanNGO(row scannable) (*catalog.NGO, error) {
	var (
		n          catalog.NGO
		tags       []string
		categories []string
		subskills  []string
	)

	err := row.Scan(
		&n.ID, &n.Name, &n.Description, pq.Array(&tags),
		pq.Array(&categories), pq.Array(&subskills),
		&n.Location.City, &n.Location.Country, &n.Rating,
		&n.OpportunityCount, &n.Verified, &n.Active, &n.Banned,
		&n.DeletedAt, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Tags = tags
	n.FocusSkills = zipRequiredSkills(categories, subskills)

	return &n, nil
}

func scanOpportunity(row scannable) (*catalog.Opportunity, error) {
	var (
		o          catalog.Opportunity
		tags       []string
		categories []string
		subskills  []string
	)

	err := row.Scan(
		&o.ID, &o.NGOID, &o.Title, &o.Description, pq.Array(&tags),
		&o.NGOName, pq.Array(&categories), pq.Array(&subskills),
		&o.Location.City, &o.Location.Country, &o.HourlyRate,
		&o.HoursPerWeek, &o.ApplicantsCount, &o.Verified, &o.Active,
		&o.DeletedAt, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Tags = tags
	o.RequiredSkills = zipRequiredSkills(categories, subskills)

	return &o, nil
}

func zipVolunteerSkills(categories, subskills []string) []catalog.VolunteerSkill {
	skills := make([]catalog.VolunteerSkill, 0, len(subskills))
	for i := range subskills {
		skill := catalog.VolunteerSkill{SubskillID: subskills[i]}
		if i < len(categories) {
			skill.CategoryID = categories[i]
		}

		skills = append(skills, skill)
	}

	return skills
}

func zipRequiredSkills(categories, subskills []string) []catalog.RequiredSkill {
	skills := make([]catalog.RequiredSkill, 0, len(subskills))
	for i := range subskills {
		skill := catalog.RequiredSkill{SubskillID: subskills[i]}
		if i < len(categories) {
			skill.CategoryID = categories[i]
		}

		skills = append(skills, skill)
	}

	return skills
}

// volunteerIterator streams volunteer rows from the database.
type volunteerIterator struct {
	rows    *sql.Rows
	lastErr error
	curr    *catalog.Volunteer
}

// Next loads the next row, returns false when no more rows are available or
// when an error occurs.
func (i *volunteerIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	i.curr, i.lastErr = scanVolunteer(i.rows)

	return i.lastErr == nil
}

// Error returns the last error encountered by the iterator.
func (i *volunteerIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}

	return i.rows.Err()
}

// Close releases any resources allocated to the iterator.
func (i *volunteerIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("volunteer iterator: %w", err)
	}

	return nil
}

// Volunteer returns the currently fetched volunteer record.
func (i *volunteerIterator) Volunteer() *catalog.Volunteer {
	return i.curr
}

// ngoIterator streams NGO rows from the database.
type ngoIterator struct {
	rows    *sql.Rows
	lastErr error
	curr    *catalog.NGO
}

func (i *ngoIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	i.curr, i.lastErr = scanNGO(i.rows)

	return i.lastErr == nil
}

func (i *ngoIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}

	return i.rows.Err()
}

func (i *ngoIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("ngo iterator: %w", err)
	}

	return nil
}

// NGO returns the currently fetched NGO record.
func (i *ngoIterator) NGO() *catalog.NGO {
	return i.curr
}

// opportunityIterator streams opportunity rows from the database.
type opportunityIterator struct {
	rows    *sql.Rows
	lastErr error
	curr    *catalog.Opportunity
}

func (i *opportunityIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	i.curr, i.lastErr = scanOpportunity(i.rows)

	return i.lastErr == nil
}

func (i *opportunityIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}

	return i.rows.Err()
}

func (i *opportunityIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("opportunity iterator: %w", err)
	}

	return nil
}

// Opportunity returns the currently fetched opportunity record.
func (i *opportunityIterator) Opportunity() *catalog.Opportunity {
	return i.curr
}
