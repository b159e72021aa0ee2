package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// Roster sheet columns. Name and Phone are required; the rest are optional.
const (
	columnID        = "ID"
	columnName      = "Name"
	columnPhone     = "Phone"
	columnRole      = "Role"
	columnCadence   = "Cadence"
	columnActive    = "Active"
	columnFirstTime = "First time"
)

var requiredColumns = []string{columnName, columnPhone}

var optionalColumns = []string{columnID, columnRole, columnCadence, columnActive, columnFirstTime}

// ListVolunteers reads the volunteer roster from the given sheet tab. Only
// profile fields are read; touch history stays with the coordinator.
func (c *Client) ListVolunteers(ctx context.Context, spreadsheetID, tab string) ([]model.Volunteer, error) {
	values, err := c.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("roster sheet is empty")
	}

	volunteers, err := parseRoster(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return volunteers, nil
}

// parseRoster converts raw sheet rows into volunteers. Header names are matched
// case-insensitively; rows with no name are skipped.
func parseRoster(raw [][]interface{}) ([]model.Volunteer, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	header := make(map[string]int)
	for i, cell := range raw[0] {
		if name, ok := cell.(string); ok {
			header[strings.ToLower(strings.TrimSpace(name))] = i
		}
	}

	fieldIndexes := make(map[string]int)
	for _, column := range requiredColumns {
		index, ok := header[strings.ToLower(column)]
		if !ok {
			return nil, fmt.Errorf("missing required column in header: %s", column)
		}
		fieldIndexes[column] = index
	}
	for _, column := range optionalColumns {
		if index, ok := header[strings.ToLower(column)]; ok {
			fieldIndexes[column] = index
		}
	}

	getField := func(column string, row []interface{}) string {
		index, ok := fieldIndexes[column]
		if !ok || index >= len(row) {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[index]))
	}

	volunteers := make([]model.Volunteer, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		name := getField(columnName, row)
		if name == "" {
			continue
		}

		role, err := model.ParseRole(getField(columnRole, row))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		var cadence model.Cadence
		if value := getField(columnCadence, row); value != "" {
			parsed, ok := model.ParseCadence(value)
			if !ok {
				return nil, fmt.Errorf("row %d: unknown cadence %q", i+1, value)
			}
			cadence = parsed
		}

		volunteers = append(volunteers, model.Volunteer{
			ID:            getField(columnID, row),
			Name:          name,
			Phone:         getField(columnPhone, row),
			CoreRole:      role,
			InviteCadence: cadence,
			Active:        parseFlag(getField(columnActive, row), true),
			FirstTime:     parseFlag(getField(columnFirstTime, row), false),
		})
	}

	return volunteers, nil
}

// parseFlag reads a yes/no cell, returning def when the cell is blank
func parseFlag(value string, def bool) bool {
	switch strings.ToLower(value) {
	case "":
		return def
	case "y", "yes", "true", "1", "x", "✓":
		return true
	default:
		return false
	}
}
