// ABOUTME: Tests for DietPlan layout helpers and Substitution records.
// ABOUTME: Validates slot lookup, day dates, and audit record construction.
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPlanSlotLookup(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	p := NewDietPlan(uuid.New(), "week one", start)
	p.Days = []PlanDay{
		{Day: 1, Slots: []PlanSlot{{Index: 0, Meal: *NewMeal("Oats", TimingBreakfast, 350, 12, 60, 7)}}},
		{Day: 2, Slots: []PlanSlot{{Index: 0, Meal: *NewMeal("Eggs", TimingBreakfast, 300, 20, 5, 20)}}},
	}

	s := p.Slot(2, 0)
	if s == nil || s.Meal.Name != "Eggs" {
		t.Fatalf("Slot(2, 0) = %+v", s)
	}
	s.Meal.Name = "Scrambled eggs"
	if p.Days[1].Slots[0].Meal.Name != "Scrambled eggs" {
		t.Error("Slot should return a pointer into the plan")
	}
	if p.Slot(3, 0) != nil || p.Slot(1, 5) != nil {
		t.Error("expected nil for missing slots")
	}
}

func TestPlanDateOf(t *testing.T) {
	start := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	p := NewDietPlan(uuid.New(), "", start)

	if !p.DateOf(1).Equal(start) {
		t.Errorf("DateOf(1) = %v, want %v", p.DateOf(1), start)
	}
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !p.DateOf(4).Equal(want) {
		t.Errorf("DateOf(4) = %v, want %v", p.DateOf(4), want)
	}
}

func TestNewSubstitution(t *testing.T) {
	planID := uuid.New()
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	s := NewSubstitution(planID, 2, 1, date, "Chicken wrap", "Turkey wrap")

	if s.ID == uuid.Nil || s.PlanID != planID {
		t.Error("expected IDs to be set")
	}
	if s.Day != 2 || s.SlotIndex != 1 || !s.Date.Equal(date) {
		t.Errorf("unexpected position %+v", s)
	}
	if s.OriginalMeal != "Chicken wrap" || s.ReplacementMeal != "Turkey wrap" {
		t.Errorf("unexpected meals %+v", s)
	}
	if s.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}
