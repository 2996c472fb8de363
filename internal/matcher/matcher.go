// ABOUTME: Meal matcher selecting replacement meals within a macro tolerance band.
// ABOUTME: Runs hard filtering, deviation gating, and tie-broken ranking over the tag index.
package matcher

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/harperreed/dietplan/internal/catalog"
	"github.com/harperreed/dietplan/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultTolerancePct is the allowed per-macro deviation in percent.
	DefaultTolerancePct = 15.0

	// NoMatchMessage is the user-facing text when no candidate qualifies.
	NoMatchMessage = "no suitable alternative found, try relaxing preferences"

	scoreEpsilon = 1e-9

	// Scores are rounded to this many steps per unit before ranking.
	scorePrecision = 1e9
)

// ErrInvalidTolerance is wrapped by every ToleranceError.
var ErrInvalidTolerance = errors.New("invalid tolerance")

// ToleranceError rejects a tolerance that is negative or not a number.
type ToleranceError struct {
	Pct float64
}

func (e *ToleranceError) Error() string {
	return fmt.Sprintf("invalid tolerance %v%%: must be zero or greater", e.Pct)
}

func (e *ToleranceError) Unwrap() error {
	return ErrInvalidTolerance
}

// ValidateTolerance returns a *ToleranceError unless pct is a number >= 0.
// Zero asks for an exact macro match.
func ValidateTolerance(pct float64) error {
	if pct < 0 || math.IsNaN(pct) {
		return &ToleranceError{Pct: pct}
	}
	return nil
}

// Weights set each macro's share of the combined deviation score.
type Weights struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fats     float64
}

// DefaultWeights favor calories, then protein.
var DefaultWeights = Weights{Calories: 0.4, Protein: 0.3, Carbs: 0.15, Fats: 0.15}

// Deviation holds fractional deviations from the original meal (0.1 = 10%).
type Deviation struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Within reports whether every field is at most tolerancePct percent.
func (d Deviation) Within(tolerancePct float64) bool {
	limit := tolerancePct/100 + scoreEpsilon
	return d.Calories <= limit && d.Protein <= limit && d.Carbs <= limit && d.Fats <= limit
}

// Score combines the deviations with w.
func (d Deviation) Score(w Weights) float64 {
	return d.Calories*w.Calories + d.Protein*w.Protein + d.Carbs*w.Carbs + d.Fats*w.Fats
}

// Deviations computes |candidate - original| / original per macro. When
// the original value is zero, an equal candidate deviates by 0 and any
// other value deviates infinitely.
func Deviations(original, candidate models.Meal) Deviation {
	return Deviation{
		Calories: relative(original.Calories, candidate.Calories),
		Protein:  relative(original.Protein, candidate.Protein),
		Carbs:    relative(original.Carbs, candidate.Carbs),
		Fats:     relative(original.Fats, candidate.Fats),
	}
}

func relative(orig, cand float64) float64 {
	if orig == 0 {
		if cand == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(cand-orig) / math.Abs(orig)
}

// Candidate is an accepted replacement with its ranking inputs.
type Candidate struct {
	Meal               models.Meal `json:"meal"`
	Deviation          Deviation   `json:"deviation"`
	Score              float64     `json:"score"`
	CuisineMatch       bool        `json:"cuisine_match"`
	BudgetDistance     int         `json:"budget_distance"`
	NutritionalOverlap int         `json:"nutritional_overlap"`
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.log = l
		}
	}
}

// WithWeights overrides DefaultWeights.
func WithWeights(w Weights) Option {
	return func(m *Matcher) { m.weights = w }
}

// WithStrictBudget drops accepted candidates above the user's budget tier
// whenever an accepted candidate within it exists, instead of only ranking
// by budget proximity.
func WithStrictBudget() Option {
	return func(m *Matcher) { m.strictBudget = true }
}

// Matcher selects replacements from a read-only catalog index. It holds no
// mutable state and is safe for concurrent use.
type Matcher struct {
	idx          *catalog.Index
	weights      Weights
	strictBudget bool
	log          *zap.Logger
}

// New creates a Matcher over idx.
func New(idx *catalog.Index, opts ...Option) *Matcher {
	m := &Matcher{idx: idx, weights: DefaultWeights, log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Filters derives the index filters for replacing original under profile.
func (m *Matcher) Filters(original models.Meal, profile models.UserDietaryProfile) catalog.Filters {
	return catalog.Filters{
		Timing:              original.Timing,
		DietaryTags:         profile.DietaryRestrictions,
		SuitableFor:         profile.RequiredSuitability(),
		NutritionalTags:     original.NutritionalTags,
		ExcludedIngredients: profile.ExcludedIngredients,
		ExcludeMealID:       original.ID,
	}
}

// Rank returns every candidate within tolerancePct of original, best first.
// A tolerancePct of 0 accepts only exact macro matches; a negative one is
// rejected with a *ToleranceError.
func (m *Matcher) Rank(original models.Meal, profile models.UserDietaryProfile, tolerancePct float64) ([]Candidate, error) {
	if err := ValidateTolerance(tolerancePct); err != nil {
		return nil, err
	}
	f := m.Filters(original, profile)

	var (
		accepted []Candidate
		seen     int
	)
	for meal := range m.idx.FindCandidates(f) {
		seen++
		// Catalog copies of the original may carry a different ID.
		if isSameMeal(original, meal) {
			continue
		}
		dev := Deviations(original, meal)
		if !dev.Within(tolerancePct) {
			continue
		}
		accepted = append(accepted, Candidate{
			Meal:               meal,
			Deviation:          dev,
			Score:              roundScore(dev.Score(m.weights)),
			CuisineMatch:       profile.PrefersCuisine(meal.Cuisine),
			BudgetDistance:     budgetDistance(profile.BudgetTier, meal.BudgetTier),
			NutritionalOverlap: f.NutritionalOverlap(meal),
		})
	}
	gated := len(accepted)
	if m.strictBudget && profile.BudgetTier != "" {
		accepted = withinCeiling(accepted, profile.BudgetTier)
	}

	slices.SortStableFunc(accepted, compareCandidates)

	m.log.Debug("ranked replacement candidates",
		zap.String("original", original.Name),
		zap.String("timing", string(original.Timing)),
		zap.Float64("tolerance_pct", tolerancePct),
		zap.Int("hard_filtered", seen),
		zap.Int("within_tolerance", gated),
		zap.Int("accepted", len(accepted)),
	)
	return accepted, nil
}

// FindReplacement returns the best replacement for original. The boolean is
// false when nothing falls within tolerancePct; callers decide whether to
// retry with a wider tolerance. The matcher never widens it on its own.
func (m *Matcher) FindReplacement(original models.Meal, profile models.UserDietaryProfile, tolerancePct float64) (Candidate, bool, error) {
	ranked, err := m.Rank(original, profile, tolerancePct)
	if err != nil {
		return Candidate{}, false, err
	}
	if len(ranked) == 0 {
		return Candidate{}, false, nil
	}
	return ranked[0], true, nil
}

// withinCeiling keeps the candidates at or below ceiling. When none are,
// the over-budget candidates stand.
func withinCeiling(cands []Candidate, ceiling models.BudgetTier) []Candidate {
	var kept []Candidate
	for _, c := range cands {
		if c.Meal.BudgetTier.Rank() <= ceiling.Rank() {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return cands
	}
	return kept
}

func roundScore(s float64) float64 {
	return math.Round(s*scorePrecision) / scorePrecision
}

func compareCandidates(a, b Candidate) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	if a.CuisineMatch != b.CuisineMatch {
		if a.CuisineMatch {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(a.BudgetDistance, b.BudgetDistance); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Meal.Preparation.Minutes, b.Meal.Preparation.Minutes); c != 0 {
		return c
	}
	if c := cmp.Compare(b.NutritionalOverlap, a.NutritionalOverlap); c != 0 {
		return c
	}
	if c := strings.Compare(a.Meal.Name, b.Meal.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Meal.ID.String(), b.Meal.ID.String())
}

func budgetDistance(user, meal models.BudgetTier) int {
	if user == "" {
		return 0
	}
	d := meal.Rank() - user.Rank()
	if d < 0 {
		return -d
	}
	return d
}

// isSameMeal matches by ID, or by name for plan snapshots of catalog meals.
func isSameMeal(original, candidate models.Meal) bool {
	if original.ID == candidate.ID {
		return true
	}
	return original.Name != "" && strings.EqualFold(original.Name, candidate.Name)
}
