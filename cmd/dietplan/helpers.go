// ABOUTME: Shared parsing and formatting helpers for dietplan commands.
// ABOUTME: Covers dates, plan slot arguments, tolerance flags, and output formatting.
package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/dietplan/internal/models"
	"github.com/spf13/cobra"
)

var faint = color.New(color.Faint)

func parseDate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// today returns local midnight.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// parseSlot parses the "<day> <slot>" positional pair of plan commands.
func parseSlot(dayStr, slotStr string) (int, int, error) {
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 {
		return 0, 0, fmt.Errorf("invalid day: %s (days start at 1)", dayStr)
	}
	slot, err := strconv.Atoi(slotStr)
	if err != nil || slot < 0 {
		return 0, 0, fmt.Errorf("invalid slot: %s (slots start at 0)", slotStr)
	}
	return day, slot, nil
}

// toleranceFlag returns v when the command's --tolerance flag was set, and
// nil so the configured default applies otherwise.
func toleranceFlag(cmd *cobra.Command, v float64) *float64 {
	if !cmd.Flags().Changed("tolerance") {
		return nil
	}
	return &v
}

func parseQuantity(qtyStr, unitStr string) (float64, models.Unit, error) {
	qty, err := strconv.ParseFloat(qtyStr, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid quantity: %s", qtyStr)
	}
	if !models.IsValidUnit(unitStr) {
		return 0, "", fmt.Errorf("unknown unit: %s\nValid units: %s", unitStr, joinValues(models.AllUnits))
	}
	return qty, models.Unit(unitStr), nil
}

// formatFromPath picks json or yaml from a file extension.
func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unknown file type: %s (use .json, .yaml, or .yml)", path)
	}
}

func joinValues[T ~string](values []T) string {
	return strings.Join(stringsOf(values), ", ")
}

func macroLine(calories, protein, carbs, fats float64) string {
	return fmt.Sprintf("%.0f kcal  P %.1fg  C %.1fg  F %.1fg", calories, protein, carbs, fats)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func shortID(id fmt.Stringer) string {
	return id.String()[:8]
}

func parseEnum[T ~string](field, value string, all []T) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(value)))
	for _, a := range all {
		if a == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown %s: %s\nValid values: %s", field, value, joinValues(all))
}

func parseEnumList[T ~string](field string, values []string, all []T) ([]T, error) {
	var out []T
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		v, err := parseEnum(field, value, all)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
