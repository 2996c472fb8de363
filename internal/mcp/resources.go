// ABOUTME: MCP resource implementations for the dietplan engine.
// ABOUTME: Provides dietplan://catalog and dietplan://profiles resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/dietplan/internal/models"
	"github.com/harperreed/dietplan/internal/targets"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	catalogURI  = "dietplan://catalog"
	profilesURI = "dietplan://profiles"
)

func (s *Server) registerResources() {
	// dietplan://catalog - every food and meal, with per-timing counts
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         catalogURI,
		Name:        "Meal Catalog",
		Description: "All catalog foods and meals with counts per meal timing",
		MIMEType:    "application/json",
	}, s.handleCatalogResource)

	// dietplan://profiles - stored profiles with their targets and meal budgets
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         profilesURI,
		Name:        "Dietary Profiles",
		Description: "Stored dietary profiles with computed targets and per-meal calorie budgets",
		MIMEType:    "application/json",
	}, s.handleProfilesResource)
}

// Resource handlers

func (s *Server) handleCatalogResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	foods, err := s.repo.ListFoods(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	meals, err := s.repo.ListMeals(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	byTiming := make(map[string]int, len(models.AllMealTimings))
	for _, m := range meals {
		byTiming[string(m.Timing)]++
	}

	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"foods":        foods,
		"meals":        meals,
		"counts": map[string]interface{}{
			"foods":     len(foods),
			"meals":     len(meals),
			"by_timing": byTiming,
		},
	}

	return jsonResource(catalogURI, result)
}

func (s *Server) handleProfilesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	profiles, err := s.repo.ListProfiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	entries := make([]map[string]interface{}, 0, len(profiles))
	for _, p := range profiles {
		budgets := make(map[string]int, len(models.AllMealTimings))
		for _, timing := range models.AllMealTimings {
			budgets[string(timing)] = targets.MealCalorieBudget(p.Targets.RecommendedCalories, timing)
		}
		entries = append(entries, map[string]interface{}{
			"profile":      p,
			"meal_budgets": budgets,
			"grams":        targets.Grams(p.Targets.RecommendedCalories, p.Targets.MacroSplit),
		})
	}

	result := map[string]interface{}{
		"profiles": entries,
		"count":    len(entries),
	}

	return jsonResource(profilesURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
