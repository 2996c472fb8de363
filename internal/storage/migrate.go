// ABOUTME: Data migration between diet plan databases.
// ABOUTME: Copies foods, meals, profiles, plans, and swap history from source to destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Foods         int
	Meals         int
	Profiles      int
	Plans         int
	Substitutions int
}

// MigrateData copies all data from src to dst storage. Profiles go before
// plans and plans before their history so references resolve. The
// destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	foods, err := src.ListFoods(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list source foods: %w", err)
	}
	for _, f := range foods {
		if err := dst.CreateFood(f); err != nil {
			return nil, fmt.Errorf("create food %s: %w", f.ID, err)
		}
		summary.Foods++
	}

	meals, err := src.ListMeals(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list source meals: %w", err)
	}
	for _, m := range meals {
		if err := dst.CreateMeal(m); err != nil {
			return nil, fmt.Errorf("create meal %s: %w", m.ID, err)
		}
		summary.Meals++
	}

	profiles, err := src.ListProfiles()
	if err != nil {
		return nil, fmt.Errorf("list source profiles: %w", err)
	}
	for _, p := range profiles {
		if err := dst.SaveProfile(p); err != nil {
			return nil, fmt.Errorf("save profile %s: %w", p.ID, err)
		}
		summary.Profiles++
	}

	plans, err := src.ListPlans(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list source plans: %w", err)
	}
	for _, header := range plans {
		// ListPlans returns headers only.
		p, err := src.GetPlan(header.ID.String())
		if err != nil {
			return nil, fmt.Errorf("get plan %s: %w", header.ID, err)
		}
		if err := dst.CreatePlan(p); err != nil {
			return nil, fmt.Errorf("create plan %s: %w", p.ID, err)
		}
		summary.Plans++

		subs, err := src.ListSubstitutions(p.ID)
		if err != nil {
			return nil, fmt.Errorf("list substitutions for %s: %w", p.ID, err)
		}
		for _, s := range subs {
			if err := dst.AppendSubstitution(s); err != nil {
				return nil, fmt.Errorf("append substitution %s: %w", s.ID, err)
			}
			summary.Substitutions++
		}
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
