// ABOUTME: Read-only meal tag index with filtered candidate lookup.
// ABOUTME: Applies hard dietary, suitability, timing, and ingredient exclusions.
package catalog

import (
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/dietplan/internal/models"
)

// Filters narrows a candidate lookup.
//
// Timing, DietaryTags, SuitableFor, ExcludedIngredients and ExcludeMealID
// are hard constraints. NutritionalTags is a scoring hint and never
// excludes a meal.
type Filters struct {
	Timing              models.MealTiming
	DietaryTags         []models.DietaryTag
	SuitableFor         []models.SuitableFor
	NutritionalTags     []models.NutritionalTag
	ExcludedIngredients []string
	ExcludeMealID       uuid.UUID
}

// Index is an immutable view over a meal catalog. It is safe for
// concurrent use.
type Index struct {
	meals []models.Meal
	byID  map[uuid.UUID]int
}

// NewIndex builds an index over a copy of meals.
func NewIndex(meals []models.Meal) *Index {
	idx := &Index{
		meals: make([]models.Meal, len(meals)),
		byID:  make(map[uuid.UUID]int, len(meals)),
	}
	for i, m := range meals {
		idx.meals[i] = m.Clone()
		idx.byID[m.ID] = i
	}
	return idx
}

// Len returns the number of meals in the catalog.
func (idx *Index) Len() int {
	return len(idx.meals)
}

// Get returns a copy of the meal with id.
func (idx *Index) Get(id uuid.UUID) (models.Meal, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return models.Meal{}, false
	}
	return idx.meals[i].Clone(), true
}

// All yields every meal in catalog order.
func (idx *Index) All() iter.Seq[models.Meal] {
	return func(yield func(models.Meal) bool) {
		for _, m := range idx.meals {
			if !yield(m.Clone()) {
				return
			}
		}
	}
}

// FindCandidates yields meals that satisfy every hard constraint in f.
// The sequence can be ranged over any number of times.
func (idx *Index) FindCandidates(f Filters) iter.Seq[models.Meal] {
	excluded := normalizeTerms(f.ExcludedIngredients)
	return func(yield func(models.Meal) bool) {
		for i := range idx.meals {
			m := &idx.meals[i]
			if !matchesHard(m, f, excluded) {
				continue
			}
			if !yield(m.Clone()) {
				return
			}
		}
	}
}

func matchesHard(m *models.Meal, f Filters, excluded []string) bool {
	if f.ExcludeMealID != uuid.Nil && m.ID == f.ExcludeMealID {
		return false
	}
	if f.Timing != "" && m.Timing != f.Timing {
		return false
	}
	for _, tag := range f.DietaryTags {
		if !slices.Contains(m.DietaryTags, tag) {
			return false
		}
	}
	for _, tag := range f.SuitableFor {
		if !slices.Contains(m.SuitableFor, tag) {
			return false
		}
	}
	return !containsAny(m, excluded)
}

// HasExcludedIngredient reports whether any ingredient name of m contains
// one of terms, case-insensitively.
func HasExcludedIngredient(m models.Meal, terms []string) bool {
	return containsAny(&m, normalizeTerms(terms))
}

// containsAny expects lower-cased, trimmed terms.
func containsAny(m *models.Meal, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	for _, name := range m.IngredientNames() {
		lower := strings.ToLower(name)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
	}
	return false
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NutritionalOverlap counts the tags of f.NutritionalTags that m carries.
func (f Filters) NutritionalOverlap(m models.Meal) int {
	n := 0
	for _, tag := range f.NutritionalTags {
		if slices.Contains(m.NutritionalTags, tag) {
			n++
		}
	}
	return n
}
