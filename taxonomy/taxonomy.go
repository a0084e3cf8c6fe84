// Package taxonomy provides lookups over the static skill hierarchy used by
// the voluntree marketplace. The hierarchy groups leaf-level subskills
// (e.g. "ui-design") under categories (e.g. "design") and is loaded once at
// process start; all lookups are read-only and safe for concurrent use.
package taxonomy

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed skills.json
var defaultConfig []byte

// SkillNode describes a single subskill entry in the taxonomy.
type SkillNode struct {
	// ID of the subskill (leaf-level identifier).
	ID string

	// CategoryID of the category the subskill belongs to.
	CategoryID string

	// Name is the human-readable display name for the subskill.
	Name string
}

type configCategory struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Subskills []configSubskill `json:"subskills"`
}

type configSubskill struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type configRoot struct {
	Categories []configCategory `json:"categories"`
}

// Taxonomy is an immutable index of the category -> subskill hierarchy.
type Taxonomy struct {
	bySubskill    map[string]SkillNode
	categoryNames map[string]string
}

// Load parses a taxonomy configuration document and builds the lookup index.
func Load(raw []byte) (*Taxonomy, error) {
	var root configRoot
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	t := &Taxonomy{
		bySubskill:    make(map[string]SkillNode),
		categoryNames: make(map[string]string),
	}

	for _, cat := range root.Categories {
		t.categoryNames[cat.ID] = cat.Name
		for _, sub := range cat.Subskills {
			t.bySubskill[sub.ID] = SkillNode{
				ID:         sub.ID,
				CategoryID: cat.ID,
				Name:       sub.Name,
			}
		}
	}

	return t, nil
}

// MustLoadDefault builds the taxonomy from the embedded configuration and
// panics if the embedded document is malformed. Intended for process
// initialisation only.
func MustLoadDefault() *Taxonomy {
	t, err := Load(defaultConfig)
	if err != nil {
		panic(err)
	}

	return t
}

// ResolveSkillName returns the display name for a subskill id. Unknown or
// legacy ids resolve to the raw id itself so that display code never has to
// deal with a missing name.
func (t *Taxonomy) ResolveSkillName(id string) string {
	if node, exists := t.bySubskill[id]; exists {
		return node.Name
	}

	return id
}

// CategoryOf returns the category id that owns the provided subskill id and
// a boolean flag reporting whether the subskill is known to the taxonomy.
func (t *Taxonomy) CategoryOf(subskillID string) (string, bool) {
	node, exists := t.bySubskill[subskillID]

	return node.CategoryID, exists
}

// CategoriesFor derives the deduplicated, sorted set of category ids
// reachable from the provided subskill ids. Unknown subskills contribute
// nothing.
func (t *Taxonomy) CategoriesFor(subskillIDs []string) []string {
	seen := make(map[string]struct{})
	for _, id := range subskillIDs {
		if catID, exists := t.CategoryOf(id); exists {
			seen[catID] = struct{}{}
		}
	}

	categories := make([]string, 0, len(seen))
	for catID := range seen {
		categories = append(categories, catID)
	}

	// Sorted so derived category sets compare deterministically.
	sort.Strings(categories)

	return categories
}
