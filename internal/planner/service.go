// ABOUTME: Plan assembler service that swaps meals, edits ingredients, and generates plans.
// ABOUTME: Loads the catalog from storage, runs the matcher and scaler, and persists results.
package planner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/harperreed/dietplan/internal/catalog"
	"github.com/harperreed/dietplan/internal/matcher"
	"github.com/harperreed/dietplan/internal/models"
	"github.com/harperreed/dietplan/internal/nutrition"
	"github.com/harperreed/dietplan/internal/storage"
	"github.com/harperreed/dietplan/internal/targets"
	"go.uber.org/zap"
)

// MaxPlanDays bounds GeneratePlan.
const MaxPlanDays = 28

var (
	// ErrNoMatch is returned by Swap when no replacement is within tolerance.
	ErrNoMatch = errors.New(matcher.NoMatchMessage)

	// ErrSlotNotFound is returned when a plan has no slot at the given day/index.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrNoCandidates is returned when the catalog cannot fill any plan slot.
	ErrNoCandidates = errors.New("no catalog meals satisfy the profile")

	// ErrInvalidDays is returned for plan lengths outside 1..MaxPlanDays.
	ErrInvalidDays = errors.New("invalid plan length")
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTolerance sets the tolerance used when callers pass none. Invalid
// values leave the default in place.
func WithTolerance(pct float64) Option {
	return func(s *Service) {
		if matcher.ValidateTolerance(pct) == nil {
			s.tolerancePct = pct
		}
	}
}

// WithMatcherOptions passes options through to every matcher the service builds.
func WithMatcherOptions(opts ...matcher.Option) Option {
	return func(s *Service) { s.matcherOpts = append(s.matcherOpts, opts...) }
}

// Service coordinates storage with the matching and scaling engines.
type Service struct {
	repo         storage.Repository
	calc         *targets.Calculator
	log          *zap.Logger
	tolerancePct float64
	matcherOpts  []matcher.Option
}

// NewService creates a Service over repo.
func NewService(repo storage.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, log: zap.NewNop(), tolerancePct: matcher.DefaultTolerancePct}
	for _, opt := range opts {
		opt(s)
	}
	s.calc = targets.NewCalculator(s.log)
	return s
}

// Tolerance returns the service's default tolerance in percent.
func (s *Service) Tolerance() float64 {
	return s.tolerancePct
}

// LoadIndex builds a catalog index from every stored meal.
func (s *Service) LoadIndex() (*catalog.Index, error) {
	meals, err := s.repo.ListMeals(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	values := make([]models.Meal, len(meals))
	for i, m := range meals {
		values[i] = *m
	}
	return catalog.NewIndex(values), nil
}

func (s *Service) matcherFor(idx *catalog.Index) *matcher.Matcher {
	opts := append([]matcher.Option{matcher.WithLogger(s.log)}, s.matcherOpts...)
	return matcher.New(idx, opts...)
}

// tolerance resolves a caller tolerance; nil means the service default.
func (s *Service) tolerance(pct *float64) float64 {
	if pct == nil {
		return s.tolerancePct
	}
	return *pct
}

// SwapResult describes a completed swap.
type SwapResult struct {
	PlanID       string               `json:"plan_id"`
	Day          int                  `json:"day"`
	Slot         int                  `json:"slot"`
	Original     models.Meal          `json:"original"`
	Replacement  matcher.Candidate    `json:"replacement"`
	Alternatives []matcher.Candidate  `json:"alternatives,omitempty"`
	Substitution *models.Substitution `json:"substitution"`
}

// maxAlternatives caps the runner-up list returned with a swap.
const maxAlternatives = 3

// Swap replaces the meal at day/slot of a plan with the best catalog match
// for the plan's profile. The slot update and its audit record are stored
// together. ErrNoMatch is returned when nothing is within tolerance. A nil
// tolerancePct uses the service default.
func (s *Service) Swap(ctx context.Context, planRef string, day, slot int, tolerancePct *float64) (*SwapResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan, err := s.repo.GetPlan(planRef)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	current := plan.Slot(day, slot)
	if current == nil {
		return nil, fmt.Errorf("%w: day %d slot %d", ErrSlotNotFound, day, slot)
	}
	profile, err := s.repo.GetProfile(plan.ProfileID.String())
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	idx, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}

	tol := s.tolerance(tolerancePct)
	ranked, err := s.matcherFor(idx).Rank(current.Meal, *profile, tol)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		s.log.Info("no replacement found",
			zap.String("plan", plan.ID.String()[:8]),
			zap.Int("day", day),
			zap.Int("slot", slot),
			zap.String("meal", current.Meal.Name),
			zap.Float64("tolerance_pct", tol),
		)
		return nil, fmt.Errorf("day %d slot %d: %w", day, slot, ErrNoMatch)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	best := ranked[0]
	sub := models.NewSubstitution(plan.ID, day, slot, plan.DateOf(day), current.Meal.Name, best.Meal.Name)
	if err := s.repo.RecordSwap(sub, best.Meal); err != nil {
		return nil, fmt.Errorf("save swap: %w", err)
	}

	s.log.Info("swapped meal",
		zap.String("plan", plan.ID.String()[:8]),
		zap.Int("day", day),
		zap.Int("slot", slot),
		zap.String("original", current.Meal.Name),
		zap.String("replacement", best.Meal.Name),
		zap.Float64("score", best.Score),
	)

	alts := ranked[1:]
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}
	return &SwapResult{
		PlanID:       plan.ID.String(),
		Day:          day,
		Slot:         slot,
		Original:     current.Meal,
		Replacement:  best,
		Alternatives: slices.Clone(alts),
		Substitution: sub,
	}, nil
}

// Suggest ranks replacements for original under a stored profile without
// changing any plan. A nil tolerancePct uses the service default.
func (s *Service) Suggest(ctx context.Context, original models.Meal, profileRef string, tolerancePct *float64) ([]matcher.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profile, err := s.repo.GetProfile(profileRef)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	idx, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}
	return s.matcherFor(idx).Rank(original, *profile, s.tolerance(tolerancePct))
}

// EditOp is an ingredient edit operation.
type EditOp string

const (
	EditSet    EditOp = "set"
	EditAdd    EditOp = "add"
	EditRemove EditOp = "remove"
)

// IngredientEdit describes a change to one structured ingredient of a slot meal.
// Index addresses set and remove; FoodRef (ID prefix or name) addresses add.
type IngredientEdit struct {
	Op       EditOp
	Index    int
	FoodRef  string
	Quantity float64
	Unit     models.Unit
}

// EditIngredient applies edit to the meal at day/slot, recomputes its totals
// from the ingredient list, and stores the result in a single update.
func (s *Service) EditIngredient(ctx context.Context, planRef string, day, slot int, edit IngredientEdit) (*models.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan, err := s.repo.GetPlan(planRef)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	current := plan.Slot(day, slot)
	if current == nil {
		return nil, fmt.Errorf("%w: day %d slot %d", ErrSlotNotFound, day, slot)
	}

	var updated models.Meal
	switch edit.Op {
	case EditSet:
		updated, err = nutrition.UpdateIngredient(current.Meal, edit.Index, edit.Quantity, edit.Unit)
	case EditAdd:
		food, ferr := s.repo.FindFood(edit.FoodRef)
		if ferr != nil {
			return nil, fmt.Errorf("find food: %w", ferr)
		}
		updated, err = nutrition.AddIngredient(current.Meal, *food, edit.Quantity, edit.Unit)
	case EditRemove:
		updated, err = nutrition.RemoveIngredient(current.Meal, edit.Index)
	default:
		return nil, fmt.Errorf("unknown edit operation: %q", edit.Op)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceSlotMeal(plan.ID, day, slot, updated); err != nil {
		return nil, fmt.Errorf("save edit: %w", err)
	}

	s.log.Debug("edited ingredient",
		zap.String("plan", plan.ID.String()[:8]),
		zap.String("op", string(edit.Op)),
		zap.String("meal", updated.Name),
		zap.Float64("calories", updated.Calories),
	)
	return &updated, nil
}

// EnsureTargets computes and stores targets for a profile that has none.
func (s *Service) EnsureTargets(p *models.UserDietaryProfile) error {
	if p.Targets.RecommendedCalories > 0 {
		return nil
	}
	*p = s.calc.Apply(*p)
	if err := s.repo.SaveProfile(p); err != nil {
		return fmt.Errorf("save targets: %w", err)
	}
	return nil
}

// rotation is how many of the closest candidates a slot cycles through.
const rotation = 7

// GeneratePlan fills a days-long plan for a profile from the catalog. Each
// slot takes meals that satisfy the profile's hard constraints, ordered by
// closeness to the slot's calorie budget, rotating day by day. Timings with
// no eligible meal are left out.
func (s *Service) GeneratePlan(ctx context.Context, profileRef, name string, days int, start time.Time) (*models.DietPlan, error) {
	if days < 1 || days > MaxPlanDays {
		return nil, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidDays, days, MaxPlanDays)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(profileRef)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if err := s.EnsureTargets(profile); err != nil {
		return nil, err
	}
	idx, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}

	type slotPool struct {
		timing models.MealTiming
		meals  []models.Meal
	}
	var pools []slotPool
	for _, timing := range models.AllMealTimings {
		budget := float64(targets.MealCalorieBudget(profile.Targets.RecommendedCalories, timing))
		meals := slices.Collect(idx.FindCandidates(catalog.Filters{
			Timing:              timing,
			DietaryTags:         profile.DietaryRestrictions,
			SuitableFor:         profile.RequiredSuitability(),
			ExcludedIngredients: profile.ExcludedIngredients,
		}))
		if len(meals) == 0 {
			s.log.Warn("no meals for timing", zap.String("timing", string(timing)), zap.String("profile", profile.Name))
			continue
		}
		slices.SortFunc(meals, func(a, b models.Meal) int {
			if c := cmp.Compare(math.Abs(a.Calories-budget), math.Abs(b.Calories-budget)); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		})
		if len(meals) > rotation {
			meals = meals[:rotation]
		}
		pools = append(pools, slotPool{timing: timing, meals: meals})
	}
	if len(pools) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCandidates, profile.Name)
	}

	if name == "" {
		name = fmt.Sprintf("%s %s", profile.Name, start.Format("2006-01-02"))
	}
	plan := models.NewDietPlan(profile.ID, name, start)
	for d := 1; d <= days; d++ {
		day := models.PlanDay{Day: d}
		for i, pool := range pools {
			meal := pool.meals[(d-1)%len(pool.meals)]
			day.Slots = append(day.Slots, models.PlanSlot{Index: i, Meal: meal})
		}
		plan.Days = append(plan.Days, day)
	}

	if err := s.repo.CreatePlan(plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	s.log.Info("generated plan",
		zap.String("plan", plan.ID.String()[:8]),
		zap.String("profile", profile.Name),
		zap.Int("days", days),
		zap.Int("slots_per_day", len(pools)),
	)
	return plan, nil
}
