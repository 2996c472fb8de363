// ABOUTME: Repository interface for diet plan storage.
// ABOUTME: Defines the contract for foods, meals, profiles, plans, and substitution history.
package storage

import (
	"github.com/google/uuid"
	"github.com/harperreed/dietplan/internal/models"
)

// Repository defines the storage interface for diet plan data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Food operations
	CreateFood(f *models.FoodItem) error
	GetFood(idOrPrefix string) (*models.FoodItem, error)
	FindFood(idOrName string) (*models.FoodItem, error)
	ListFoods(category *models.FoodCategory, limit int) ([]*models.FoodItem, error)
	DeleteFood(idOrPrefix string) error

	// Meal operations
	CreateMeal(m *models.Meal) error
	GetMeal(idOrPrefix string) (*models.Meal, error)
	ListMeals(timing *models.MealTiming, limit int) ([]*models.Meal, error)
	UpdateMeal(m *models.Meal) error
	DeleteMeal(idOrPrefix string) error

	// Profile operations
	SaveProfile(p *models.UserDietaryProfile) error
	GetProfile(idOrName string) (*models.UserDietaryProfile, error)
	ListProfiles() ([]*models.UserDietaryProfile, error)
	DeleteProfile(idOrPrefix string) error

	// Plan operations
	CreatePlan(p *models.DietPlan) error
	GetPlan(idOrPrefix string) (*models.DietPlan, error)
	ListPlans(profileID *uuid.UUID, limit int) ([]*models.DietPlan, error)
	ReplaceSlotMeal(planID uuid.UUID, day, slot int, meal models.Meal) error
	DeletePlan(idOrPrefix string) error

	// Substitution history
	AppendSubstitution(s *models.Substitution) error
	RecordSwap(s *models.Substitution, replacement models.Meal) error
	ListSubstitutions(planID uuid.UUID) ([]*models.Substitution, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}

var _ Repository = (*DB)(nil)
