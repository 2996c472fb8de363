// ABOUTME: Energy and macro target calculator (BMR, TDEE, calories, macro split).
// ABOUTME: Pure functions plus a logging Calculator that regenerates profile targets.
package targets

import (
	"errors"
	"math"
	"time"

	"github.com/harperreed/dietplan/internal/models"
	"go.uber.org/zap"
)

// ErrIncompleteBiometrics is returned alongside DefaultBMR when weight,
// height, age or sex is missing.
var ErrIncompleteBiometrics = errors.New("incomplete biometrics")

const (
	// DefaultBMR is the population-average BMR used when onboarding is incomplete.
	DefaultBMR = 1500
	// DefaultActivityMultiplier applies to unknown activity levels (moderately active).
	DefaultActivityMultiplier = 1.55
)

var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:        1.20,
	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityVeryActive:       1.725,
	models.ActivityExtremelyActive:  1.90,
}

// Goal adjustments in percent of TDEE.
var goalAdjustments = map[models.Goal]int{
	models.GoalWeightLoss:     -20,
	models.GoalWeightGain:     15,
	models.GoalMuscleBuilding: 15,
}

var (
	ketoSplit           = models.MacroSplit{Protein: 25, Carbs: 5, Fats: 70}
	muscleBuildingSplit = models.MacroSplit{Protein: 30, Carbs: 45, Fats: 25}
	weightLossSplit     = models.MacroSplit{Protein: 35, Carbs: 35, Fats: 30}
	defaultSplit        = models.MacroSplit{Protein: 25, Carbs: 50, Fats: 25}
)

// Share of daily calories per slot.
var mealDistribution = map[models.MealTiming]float64{
	models.TimingBreakfast: 0.25,
	models.TimingLunch:     0.35,
	models.TimingDinner:    0.30,
	models.TimingSnack:     0.10,
}

// BMR computes basal metabolic rate with Mifflin-St Jeor, rounded to the
// nearest calorie. Missing inputs yield DefaultBMR and ErrIncompleteBiometrics.
func BMR(b models.Biometrics) (int, error) {
	if b.WeightKg == nil || b.HeightCm == nil || b.Age == nil {
		return DefaultBMR, ErrIncompleteBiometrics
	}
	base := 10**b.WeightKg + 6.25**b.HeightCm - 5*float64(*b.Age)
	switch b.Sex {
	case models.SexMale:
		base += 5
	case models.SexFemale:
		base -= 161
	default:
		return DefaultBMR, ErrIncompleteBiometrics
	}
	return int(math.Round(base)), nil
}

// ActivityMultiplier returns the TDEE multiplier for level.
func ActivityMultiplier(level models.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return DefaultActivityMultiplier
}

// TDEE multiplies bmr by the activity multiplier.
func TDEE(bmr int, level models.ActivityLevel) int {
	return int(math.Round(float64(bmr) * ActivityMultiplier(level)))
}

// RecommendedCalories applies the goal's deficit or surplus to tdee.
func RecommendedCalories(tdee int, goal models.Goal) int {
	pct := goalAdjustments[goal]
	return int(math.Round(float64(tdee) * float64(100+pct) / 100))
}

// MacroSplitFor picks the macro split. Keto always wins over goal.
func MacroSplitFor(diet models.DietType, goal models.Goal) models.MacroSplit {
	if diet == models.DietKeto {
		return ketoSplit
	}
	switch goal {
	case models.GoalMuscleBuilding:
		return muscleBuildingSplit
	case models.GoalWeightLoss:
		return weightLossSplit
	default:
		return defaultSplit
	}
}

// MealShare returns the fraction of daily calories for timing.
// Unknown timings use the breakfast share.
func MealShare(timing models.MealTiming) float64 {
	if s, ok := mealDistribution[timing]; ok {
		return s
	}
	return mealDistribution[models.TimingBreakfast]
}

// MealCalorieBudget apportions daily calories to a slot.
func MealCalorieBudget(daily int, timing models.MealTiming) int {
	return int(math.Round(float64(daily) * MealShare(timing)))
}

// MacroGrams holds daily grams per macro.
type MacroGrams struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// Grams converts a calorie budget and percentage split to grams, using
// 4 kcal/g for protein and carbs and 9 kcal/g for fat.
func Grams(calories int, split models.MacroSplit) MacroGrams {
	c := float64(calories)
	return MacroGrams{
		Protein: math.Round(c * float64(split.Protein) / 100 / 4),
		Carbs:   math.Round(c * float64(split.Carbs) / 100 / 4),
		Fats:    math.Round(c * float64(split.Fats) / 100 / 9),
	}
}

// Calculator computes targets for profiles and logs default fallbacks.
type Calculator struct {
	log *zap.Logger
}

// NewCalculator creates a Calculator. A nil logger disables logging.
func NewCalculator(log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Calculator{log: log}
}

// Compute derives the targets for p.
func (c *Calculator) Compute(p models.UserDietaryProfile) models.Targets {
	bmr, err := BMR(p.Biometrics)
	usedDefault := errors.Is(err, ErrIncompleteBiometrics)
	if usedDefault {
		c.log.Warn("incomplete biometrics, using default BMR",
			zap.String("profile", p.ID.String()),
			zap.Int("default_bmr", DefaultBMR),
			zap.Bool("has_weight", p.Biometrics.WeightKg != nil),
			zap.Bool("has_height", p.Biometrics.HeightCm != nil),
			zap.Bool("has_age", p.Biometrics.Age != nil),
			zap.String("sex", string(p.Biometrics.Sex)),
		)
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		c.log.Debug("unknown activity level, using moderately active",
			zap.String("activity_level", string(p.ActivityLevel)))
	}

	tdee := TDEE(bmr, p.ActivityLevel)
	return models.Targets{
		BMR:                 bmr,
		TDEE:                tdee,
		RecommendedCalories: RecommendedCalories(tdee, p.Goal),
		MacroSplit:          MacroSplitFor(p.DietType, p.Goal),
		UsedDefaultBMR:      usedDefault,
	}
}

// Apply returns p with regenerated targets and a bumped UpdatedAt.
func (c *Calculator) Apply(p models.UserDietaryProfile) models.UserDietaryProfile {
	p.Targets = c.Compute(p)
	p.UpdatedAt = time.Now()
	return p
}
