// ABOUTME: CLI commands for dietary profiles.
// ABOUTME: Creates and updates profiles from flags, then shows, lists, or deletes them.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/dietplan/internal/models"
	"github.com/harperreed/dietplan/internal/storage"
	"github.com/harperreed/dietplan/internal/targets"
	"github.com/spf13/cobra"
)

var (
	profileWeight       float64
	profileHeight       float64
	profileAge          int
	profileSex          string
	profileActivity     string
	profileGoal         string
	profileDiet         string
	profileConditions   []string
	profileRestrictions []string
	profileExclude      []string
	profileCuisines     []string
	profileCookTime     int
	profileSkill        string
	profileBudget       string
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"p"},
	Short:   "Manage dietary profiles",
	Long: `Manage dietary profiles.

A profile holds biometrics, activity level, goal, diet type, health
conditions, dietary restrictions, excluded ingredients, and lifestyle
preferences. Targets are recomputed every time a profile is saved.

Profiles are referenced by name (case-insensitive) or ID prefix.`,
}

var profileSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a profile",
	Long: `Create a profile, or update an existing one. Only the flags you pass are
changed; list flags replace the stored list.

EXAMPLES:

  dietplan profile set alex --weight 70 --height 175 --age 30 --sex male
  dietplan profile set alex --goal weight_loss --activity sedentary
  dietplan profile set alex --restrictions vegan,gluten_free --exclude peanut
  dietplan profile set alex --conditions diabetes --budget low`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("profile name is required")
		}

		p, err := db.GetProfile(name)
		created := false
		if errors.Is(err, storage.ErrNotFound) {
			p = models.NewProfile(name)
			created = true
		} else if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		if err := applyProfileFlags(cmd, p); err != nil {
			return err
		}

		*p = targets.NewCalculator(logr).Apply(*p)
		if err := db.SaveProfile(p); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		if created {
			color.Green("✓ Created profile %s", p.Name)
		} else {
			color.Green("✓ Updated profile %s", p.Name)
		}
		printTargets(p)
		return nil
	},
}

func applyProfileFlags(cmd *cobra.Command, p *models.UserDietaryProfile) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("weight") {
		if profileWeight <= 0 {
			return fmt.Errorf("invalid weight: %.1f", profileWeight)
		}
		w := profileWeight
		p.Biometrics.WeightKg = &w
	}
	if flags.Changed("height") {
		if profileHeight <= 0 {
			return fmt.Errorf("invalid height: %.1f", profileHeight)
		}
		h := profileHeight
		p.Biometrics.HeightCm = &h
	}
	if flags.Changed("age") {
		if profileAge <= 0 {
			return fmt.Errorf("invalid age: %d", profileAge)
		}
		a := profileAge
		p.Biometrics.Age = &a
	}
	if flags.Changed("sex") {
		if p.Biometrics.Sex, err = parseEnum("sex", profileSex, models.AllSexes); err != nil {
			return err
		}
	}
	if flags.Changed("activity") {
		if p.ActivityLevel, err = parseEnum("activity level", profileActivity, models.AllActivityLevels); err != nil {
			return err
		}
	}
	if flags.Changed("goal") {
		if p.Goal, err = parseEnum("goal", profileGoal, models.AllGoals); err != nil {
			return err
		}
	}
	if flags.Changed("diet") {
		if p.DietType, err = parseEnum("diet type", profileDiet, models.AllDietTypes); err != nil {
			return err
		}
	}
	if flags.Changed("conditions") {
		if p.HealthConditions, err = parseEnumList("health condition", profileConditions, models.AllHealthConditions); err != nil {
			return err
		}
	}
	if flags.Changed("restrictions") {
		if p.DietaryRestrictions, err = parseEnumList("dietary restriction", profileRestrictions, models.AllDietaryTags); err != nil {
			return err
		}
	}
	if flags.Changed("exclude") {
		p.ExcludedIngredients = nil
		for _, ing := range profileExclude {
			if ing = strings.TrimSpace(ing); ing != "" {
				p.ExcludedIngredients = append(p.ExcludedIngredients, ing)
			}
		}
	}
	if flags.Changed("cuisines") {
		if p.CuisinePreferences, err = parseEnumList("cuisine", profileCuisines, models.AllCuisines); err != nil {
			return err
		}
	}
	if flags.Changed("cook-time") {
		if profileCookTime < 0 {
			return fmt.Errorf("invalid cooking time: %d", profileCookTime)
		}
		p.CookingTimeMinutes = profileCookTime
	}
	if flags.Changed("skill") {
		if p.CookingSkill, err = parseEnum("cooking skill", profileSkill, models.AllDifficulties); err != nil {
			return err
		}
	}
	if flags.Changed("budget") {
		if p.BudgetTier, err = parseEnum("budget tier", profileBudget, models.AllBudgetTiers); err != nil {
			return err
		}
	}
	return nil
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile and its targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.GetProfile(args[0])
		if err != nil {
			return fmt.Errorf("profile not found: %s", args[0])
		}

		color.New(color.Bold).Printf("%s ", p.Name)
		faint.Println(shortID(p.ID))
		fmt.Println()

		b := p.Biometrics
		fmt.Printf("  Weight      %s\n", optionalFloat(b.WeightKg, "kg"))
		fmt.Printf("  Height      %s\n", optionalFloat(b.HeightCm, "cm"))
		if b.Age != nil {
			fmt.Printf("  Age         %d\n", *b.Age)
		} else {
			fmt.Printf("  Age         %s\n", faint.Sprint("-"))
		}
		fmt.Printf("  Sex         %s\n", orDash(string(b.Sex)))
		fmt.Printf("  Activity    %s\n", p.ActivityLevel)
		fmt.Printf("  Goal        %s\n", p.Goal)
		fmt.Printf("  Diet        %s\n", p.DietType)
		fmt.Printf("  Conditions  %s\n", orDash(joinValues(p.HealthConditions)))
		fmt.Printf("  Restricted  %s\n", orDash(joinValues(p.DietaryRestrictions)))
		fmt.Printf("  Excluded    %s\n", orDash(strings.Join(p.ExcludedIngredients, ", ")))
		fmt.Printf("  Cuisines    %s\n", orDash(joinValues(p.CuisinePreferences)))
		fmt.Printf("  Budget      %s\n", orDash(string(p.BudgetTier)))
		if p.CookingTimeMinutes > 0 {
			fmt.Printf("  Cook time   %d min\n", p.CookingTimeMinutes)
		}
		fmt.Println()
		printTargets(p)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := db.ListProfiles()
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}
		if len(profiles) == 0 {
			fmt.Println("No profiles found.")
			return nil
		}

		for _, p := range profiles {
			fmt.Printf("%s %s %s %d kcal\n",
				faint.Sprint(shortID(p.ID)),
				padRight(truncate(p.Name, 20), 20),
				padRight(string(p.Goal), 16),
				p.Targets.RecommendedCalories)
		}
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a profile with its plans and history",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.GetProfile(args[0])
		if err != nil {
			return fmt.Errorf("profile not found: %s", args[0])
		}
		if err := db.DeleteProfile(p.ID.String()); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}

		color.Yellow("✗ Deleted profile %s", p.Name)
		return nil
	},
}

func optionalFloat(v *float64, unit string) string {
	if v == nil {
		return faint.Sprint("-")
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}

func orDash(s string) string {
	if s == "" {
		return faint.Sprint("-")
	}
	return s
}

func init() {
	f := profileSetCmd.Flags()
	f.Float64Var(&profileWeight, "weight", 0, "body weight in kg")
	f.Float64Var(&profileHeight, "height", 0, "height in cm")
	f.IntVar(&profileAge, "age", 0, "age in years")
	f.StringVar(&profileSex, "sex", "", "male or female")
	f.StringVar(&profileActivity, "activity", "", "activity level (sedentary, lightly_active, moderately_active, very_active, extremely_active)")
	f.StringVar(&profileGoal, "goal", "", "goal (weight_loss, muscle_building, maintenance, general_health, weight_gain)")
	f.StringVar(&profileDiet, "diet", "", "diet type (balanced, keto, vegan, ...)")
	f.StringSliceVar(&profileConditions, "conditions", nil, "health conditions (comma-separated)")
	f.StringSliceVar(&profileRestrictions, "restrictions", nil, "dietary restrictions every meal must carry (comma-separated)")
	f.StringSliceVar(&profileExclude, "exclude", nil, "ingredients to exclude (comma-separated)")
	f.StringSliceVar(&profileCuisines, "cuisines", nil, "preferred cuisines (comma-separated)")
	f.IntVar(&profileCookTime, "cook-time", 0, "available cooking time in minutes")
	f.StringVar(&profileSkill, "skill", "", "cooking skill (easy, medium, hard)")
	f.StringVar(&profileBudget, "budget", "", "budget tier (low, medium, high)")

	profileCmd.AddCommand(profileSetCmd, profileShowCmd, profileListCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
