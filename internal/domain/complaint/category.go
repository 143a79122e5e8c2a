package complaint

import (
	"strings"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Category
// ─────────────────────────────────────────────────────────────────────────────

// CategoryName is the closed set of complaint categories.
type CategoryName string

const (
	CategoryWater       CategoryName = "water"
	CategoryRoads       CategoryName = "roads"
	CategoryGarbage     CategoryName = "garbage"
	CategoryElectricity CategoryName = "electricity"
	CategoryOthers      CategoryName = "others"
)

// AllCategories lists every known category.
func AllCategories() []CategoryName {
	return []CategoryName{
		CategoryWater, CategoryRoads, CategoryGarbage, CategoryElectricity, CategoryOthers,
	}
}

// ParseCategory normalizes and validates a category name.
func ParseCategory(name string) (CategoryName, error) {
	c := CategoryName(strings.ToLower(strings.TrimSpace(name)))
	switch c {
	case CategoryWater, CategoryRoads, CategoryGarbage, CategoryElectricity, CategoryOthers:
		return c, nil
	}
	return "", errors.New(errors.ErrCodeCategoryUnknown, "category %q is not recognized", name)
}

// Category holds the per-category triage parameters.  Keyword lists feed the
// external classifier; the core only reads SLAHours and BaseUrgencyScore.
type Category struct {
	Name             CategoryName `json:"name"`
	SLAHours         int          `json:"sla_hours"`
	BaseUrgencyScore float64      `json:"base_urgency_score"`
	Keywords         []string     `json:"keywords,omitempty"`
}

// NewCategory constructs a validated Category.
func NewCategory(name CategoryName, slaHours int, baseUrgency float64, keywords []string) (*Category, error) {
	if _, err := ParseCategory(string(name)); err != nil {
		return nil, err
	}
	if slaHours < 1 {
		return nil, errors.InvalidParam("category %s sla hours must be >= 1, got %d", name, slaHours)
	}
	if baseUrgency < 1 || baseUrgency > 10 {
		return nil, errors.InvalidParam("category %s base urgency %g is out of range [1, 10]", name, baseUrgency)
	}
	return &Category{
		Name:             name,
		SLAHours:         slaHours,
		BaseUrgencyScore: baseUrgency,
		Keywords:         keywords,
	}, nil
}

// DefaultBaseUrgency is the static per-category urgency table used when the
// category store carries no explicit value.
var DefaultBaseUrgency = map[CategoryName]float64{
	CategoryWater:       8,
	CategoryElectricity: 8,
	CategoryRoads:       6,
	CategoryGarbage:     4,
	CategoryOthers:      3,
}

// BaseUrgencyFor returns the static urgency score for a category, falling
// back to the Others value for anything unknown.
func BaseUrgencyFor(name CategoryName) float64 {
	if v, ok := DefaultBaseUrgency[name]; ok {
		return v
	}
	return DefaultBaseUrgency[CategoryOthers]
}
