package es

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/voluntree/voluntree/catalog"
)

// encodeSkills flattens skill pairs to "categoryID:subskillID" keywords.
func encodeSkills(categoryIDs, subskillIDs []string) []string {
	skills := make([]string, len(subskillIDs))
	for i := range subskillIDs {
		skills[i] = categoryIDs[i] + ":" + subskillIDs[i]
	}

	return skills
}

func decodeSkill(encoded string) (categoryID, subskillID string, err error) {
	parts := strings.SplitN(encoded, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed skill entry: %q", encoded)
	}

	return parts[0], parts[1], nil
}

func volunteerToEsDoc(v *catalog.Volunteer) esDoc {
	categoryIDs := make([]string, len(v.Skills))
	subskillIDs := make([]string, len(v.Skills))
	for i, skill := range v.Skills {
		categoryIDs[i] = skill.CategoryID
		subskillIDs[i] = skill.SubskillID
	}

	return esDoc{
		ID:             v.ID.String(),
		EntityType:     typeVolunteer,
		Title:          v.DisplayName,
		Text:           v.Bio,
		Tags:           v.Tags,
		Skills:         encodeSkills(categoryIDs, subskillIDs),
		City:           v.Location.City,
		Country:        v.Location.Country,
		HourlyRate:     v.HourlyRate,
		Rating:         v.Rating,
		CompletedCount: v.CompletedCount,
		Verified:       v.Verified,
		Active:         v.Active,
		Banned:         v.Banned,
		Searchable:     v.Searchable(),
		DeletedAt:      v.DeletedAt,
		CreatedAt:      v.CreatedAt,
	}
}

func ngoToEsDoc(n *catalog.NGO) esDoc {
	categoryIDs := make([]string, len(n.FocusSkills))
	subskillIDs := make([]string, len(n.FocusSkills))
	for i, skill := range n.FocusSkills {
		categoryIDs[i] = skill.CategoryID
		subskillIDs[i] = skill.SubskillID
	}

	return esDoc{
		ID:             n.ID.String(),
		EntityType:     typeNGO,
		Title:          n.Name,
		Text:           n.Description,
		Tags:           n.Tags,
		Skills:         encodeSkills(categoryIDs, subskillIDs),
		City:           n.Location.City,
		Country:        n.Location.Country,
		Rating:         n.Rating,
		CompletedCount: n.OpportunityCount,
		Verified:       n.Verified,
		Active:         n.Active,
		Banned:         n.Banned,
		Searchable:     n.Searchable(),
		DeletedAt:      n.DeletedAt,
		CreatedAt:      n.CreatedAt,
	}
}

func opportunityToEsDoc(o *catalog.Opportunity) esDoc {
	categoryIDs := make([]string, len(o.RequiredSkills))
	subskillIDs := make([]string, len(o.RequiredSkills))
	for i, skill := range o.RequiredSkills {
		categoryIDs[i] = skill.CategoryID
		subskillIDs[i] = skill.SubskillID
	}

	return esDoc{
		ID:              o.ID.String(),
		EntityType:      typeOpportunity,
		Title:           o.Title,
		Text:            o.Description,
		Tags:            o.Tags,
		NGOID:           o.NGOID.String(),
		NGOName:         o.NGOName,
		Skills:          encodeSkills(categoryIDs, subskillIDs),
		City:            o.Location.City,
		Country:         o.Location.Country,
		HourlyRate:      o.HourlyRate,
		ApplicantsCount: o.ApplicantsCount,
		HoursPerWeek:    o.HoursPerWeek,
		Verified:        o.Verified,
		Active:          o.Active,
		Searchable:      o.Searchable(),
		DeletedAt:       o.DeletedAt,
		CreatedAt:       o.CreatedAt,
	}
}

func esDocToVolunteer(doc *esDoc) (*catalog.Volunteer, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("decode volunteer: %w", err)
	}

	skills := make([]catalog.VolunteerSkill, 0, len(doc.Skills))
	for _, encoded := range doc.Skills {
		categoryID, subskillID, err := decodeSkill(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode volunteer: %w", err)
		}

		skills = append(skills, catalog.VolunteerSkill{
			CategoryID: categoryID,
			SubskillID: subskillID,
		})
	}

	return &catalog.Volunteer{
		ID:             id,
		DisplayName:    doc.Title,
		Bio:            doc.Text,
		Tags:           doc.Tags,
		Skills:         skills,
		Location:       catalog.Location{City: doc.City, Country: doc.Country},
		HourlyRate:     doc.HourlyRate,
		Rating:         doc.Rating,
		CompletedCount: doc.CompletedCount,
		Verified:       doc.Verified,
		Active:         doc.Active,
		Banned:         doc.Banned,
		DeletedAt:      doc.DeletedAt,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

func esDocToNGO(doc *esDoc) (*catalog.NGO, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("decode ngo: %w", err)
	}

	skills := make([]catalog.RequiredSkill, 0, len(doc.Skills))
	for _, encoded := range doc.Skills {
		categoryID, subskillID, err := decodeSkill(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode ngo: %w", err)
		}

		skills = append(skills, catalog.RequiredSkill{
			CategoryID: categoryID,
			SubskillID: subskillID,
		})
	}

	return &catalog.NGO{
		ID:               id,
		Name:             doc.Title,
		Description:      doc.Text,
		Tags:             doc.Tags,
		FocusSkills:      skills,
		Location:         catalog.Location{City: doc.City, Country: doc.Country},
		Rating:           doc.Rating,
		OpportunityCount: doc.CompletedCount,
		Verified:         doc.Verified,
		Active:           doc.Active,
		Banned:           doc.Banned,
		DeletedAt:        doc.DeletedAt,
		CreatedAt:        doc.CreatedAt,
	}, nil
}

func esDocToOpportunity(doc *esDoc) (*catalog.Opportunity, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("decode opportunity: %w", err)
	}

	var ngoID uuid.UUID
	if doc.NGOID != "" {
		if ngoID, err = uuid.Parse(doc.NGOID); err != nil {
			return nil, fmt.Errorf("decode opportunity: %w", err)
		}
	}

	skills := make([]catalog.RequiredSkill, 0, len(doc.Skills))
	for _, encoded := range doc.Skills {
		categoryID, subskillID, err := decodeSkill(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode opportunity: %w", err)
		}

		skills = append(skills, catalog.RequiredSkill{
			CategoryID: categoryID,
			SubskillID: subskillID,
		})
	}

	return &catalog.Opportunity{
		ID:              id,
		NGOID:           ngoID,
		Title:           doc.Title,
		Description:     doc.Text,
		Tags:            doc.Tags,
		NGOName:         doc.NGOName,
		RequiredSkills:  skills,
		Location:        catalog.Location{City: doc.City, Country: doc.Country},
		HourlyRate:      doc.HourlyRate,
		ApplicantsCount: doc.ApplicantsCount,
		HoursPerWeek:    doc.HoursPerWeek,
		Verified:        doc.Verified,
		Active:          doc.Active,
		DeletedAt:       doc.DeletedAt,
		CreatedAt:       doc.CreatedAt,
	}, nil
}
