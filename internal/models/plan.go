// ABOUTME: DietPlan model with day/slot layout and Substitution audit records.
// ABOUTME: Plan slots hold meal snapshots so edits never touch the catalog.
package models

import (
	"time"

	"github.com/google/uuid"
)

// PlanSlot is one meal position within a plan day.
type PlanSlot struct {
	Index int  `json:"index" yaml:"index"`
	Meal  Meal `json:"meal" yaml:"meal"`
}

// PlanDay is one day of a plan.
type PlanDay struct {
	Day   int        `json:"day" yaml:"day"`
	Slots []PlanSlot `json:"slots" yaml:"slots"`
}

// DietPlan is a user's multi-day plan.
type DietPlan struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	ProfileID uuid.UUID `json:"profile_id" yaml:"profile_id"`
	Name      string    `json:"name" yaml:"name"`
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	Days      []PlanDay `json:"days" yaml:"days"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewDietPlan creates an empty plan for a profile.
func NewDietPlan(profileID uuid.UUID, name string, start time.Time) *DietPlan {
	return &DietPlan{
		ID:        uuid.New(),
		ProfileID: profileID,
		Name:      name,
		StartDate: start,
		CreatedAt: time.Now(),
	}
}

// Slot returns the slot at day/index, or nil.
func (p *DietPlan) Slot(day, index int) *PlanSlot {
	for di := range p.Days {
		if p.Days[di].Day != day {
			continue
		}
		for si := range p.Days[di].Slots {
			if p.Days[di].Slots[si].Index == index {
				return &p.Days[di].Slots[si]
			}
		}
	}
	return nil
}

// DateOf returns the calendar date of a plan day (day 1 is StartDate).
func (p *DietPlan) DateOf(day int) time.Time {
	return p.StartDate.AddDate(0, 0, day-1)
}

// Substitution is an audit record of a meal swap in a plan.
type Substitution struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	PlanID          uuid.UUID `json:"plan_id" yaml:"plan_id"`
	Day             int       `json:"day" yaml:"day"`
	SlotIndex       int       `json:"slot_index" yaml:"slot_index"`
	Date            time.Time `json:"date" yaml:"date"`
	OriginalMeal    string    `json:"original_meal" yaml:"original_meal"`
	ReplacementMeal string    `json:"replacement_meal" yaml:"replacement_meal"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// NewSubstitution creates an audit record linking original to replacement.
func NewSubstitution(planID uuid.UUID, day, slot int, date time.Time, original, replacement string) *Substitution {
	return &Substitution{
		ID:              uuid.New(),
		PlanID:          planID,
		Day:             day,
		SlotIndex:       slot,
		Date:            date,
		OriginalMeal:    original,
		ReplacementMeal: replacement,
		CreatedAt:       time.Now(),
	}
}
