// ABOUTME: CLI commands for diet plans.
// ABOUTME: Generates, lists, shows, and deletes plans, and prints their swap history.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/dietplan/internal/models"
	"github.com/harperreed/dietplan/internal/planner"
	"github.com/harperreed/dietplan/internal/storage"
	"github.com/spf13/cobra"
)

var (
	planDays    int
	planStart   string
	planName    string
	planFormat  string
	planProfile string
	planLimit   int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Create and inspect diet plans",
}

var planCreateCmd = &cobra.Command{
	Use:   "create <profile>",
	Short: "Generate a plan from the catalog",
	Long: `Generate a multi-day plan for a profile. Each day gets one slot per meal
timing that has eligible meals. Slots take the meals closest to the
timing's calorie budget, rotating so consecutive days differ.

EXAMPLES:

  dietplan plan create alex                       # 7 days from today
  dietplan plan create alex --days 3 --start 2026-03-02 --name "Test week"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := today()
		if planStart != "" {
			t, err := parseDate(planStart)
			if err != nil {
				return fmt.Errorf("invalid start date: %s (use YYYY-MM-DD)", planStart)
			}
			start = t
		}

		plan, err := svc.GeneratePlan(cmd.Context(), args[0], planName, planDays, start)
		if err != nil {
			return fmt.Errorf("failed to create plan: %w", err)
		}

		color.Green("✓ Created plan %s", plan.Name)
		fmt.Printf("  %s %d days from %s\n",
			faint.Sprint(shortID(plan.ID)), len(plan.Days), plan.StartDate.Format("2006-01-02"))
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <plan>",
	Short: "Show a plan day by day",
	Long: `Show a plan with each slot's meal and macros.

FORMATS:

  text       Colored terminal output (default)
  markdown   Markdown tables with the swap history

EXAMPLES:

  dietplan plan show 1a2b3c4d
  dietplan plan show 1a2b3c4d --format markdown > week.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := db.GetPlan(args[0])
		if err != nil {
			return fmt.Errorf("plan not found: %s", args[0])
		}

		switch planFormat {
		case "text", "":
			printPlan(plan)
		case "markdown", "md":
			subs, err := db.ListSubstitutions(plan.ID)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			fmt.Print(storage.PlanMarkdown(plan, subs))
		default:
			return fmt.Errorf("unknown format: %s (use text or markdown)", planFormat)
		}
		return nil
	},
}

var planHistoryCmd = &cobra.Command{
	Use:   "history <plan>",
	Short: "Show the swap history of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := db.GetPlan(args[0])
		if err != nil {
			return fmt.Errorf("plan not found: %s", args[0])
		}
		subs, err := db.ListSubstitutions(plan.ID)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if len(subs) == 0 {
			fmt.Println("No substitutions recorded.")
			return nil
		}

		for _, s := range subs {
			fmt.Printf("%s day %d slot %d  %s → %s\n",
				faint.Sprint(s.Date.Format("2006-01-02")),
				s.Day, s.SlotIndex,
				s.OriginalMeal,
				color.GreenString(s.ReplacementMeal))
		}
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		var profileID *uuid.UUID
		if planProfile != "" {
			p, err := db.GetProfile(planProfile)
			if err != nil {
				return fmt.Errorf("profile not found: %s", planProfile)
			}
			profileID = &p.ID
		}

		plans, err := db.ListPlans(profileID, planLimit)
		if err != nil {
			return fmt.Errorf("failed to list plans: %w", err)
		}
		if len(plans) == 0 {
			fmt.Println("No plans found.")
			return nil
		}

		for _, p := range plans {
			fmt.Printf("%s %s %s\n",
				faint.Sprint(shortID(p.ID)),
				faint.Sprint(p.StartDate.Format("2006-01-02")),
				p.Name)
		}
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:     "delete <plan>",
	Aliases: []string{"rm"},
	Short:   "Delete a plan and its history",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := db.GetPlan(args[0])
		if err != nil {
			return fmt.Errorf("plan not found: %s", args[0])
		}
		if err := db.DeletePlan(plan.ID.String()); err != nil {
			return fmt.Errorf("failed to delete plan: %w", err)
		}

		color.Yellow("✗ Deleted plan %s", plan.Name)
		return nil
	},
}

func printPlan(plan *models.DietPlan) {
	color.New(color.Bold).Printf("%s ", plan.Name)
	faint.Println(shortID(plan.ID))

	for _, day := range plan.Days {
		var total float64
		fmt.Println()
		color.Cyan("Day %d  %s", day.Day, plan.DateOf(day.Day).Format("Mon Jan 2"))
		for _, slot := range day.Slots {
			m := slot.Meal
			total += m.Calories
			fmt.Printf("  %s %s %s %s\n",
				faint.Sprintf("[%d]", slot.Index),
				padRight(string(m.Timing), 10),
				padRight(truncate(m.Name, 28), 28),
				macroLine(m.Calories, m.Protein, m.Carbs, m.Fats))
		}
		faint.Printf("  total %.0f kcal\n", total)
	}
}

func init() {
	planCreateCmd.Flags().IntVarP(&planDays, "days", "d", 7, fmt.Sprintf("number of days (1-%d)", planner.MaxPlanDays))
	planCreateCmd.Flags().StringVar(&planStart, "start", "", "start date (YYYY-MM-DD, default today)")
	planCreateCmd.Flags().StringVar(&planName, "name", "", "plan name (default: profile and start date)")

	planShowCmd.Flags().StringVarP(&planFormat, "format", "f", "text", "output format (text, markdown)")

	planListCmd.Flags().StringVarP(&planProfile, "profile", "p", "", "filter by profile")
	planListCmd.Flags().IntVarP(&planLimit, "limit", "n", 20, "max number of results")

	planCmd.AddCommand(planCreateCmd, planShowCmd, planHistoryCmd, planListCmd, planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}
