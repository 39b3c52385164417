package sheetsclient

import (
	"context"
	"fmt"
	"strconv"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

var tripFields = []string{
	"Trip type",
	"Trip name",
	"Capacity",
	"Address",
	"Water",
	"Tent",
}

// ListTrips reads and parses the trips tab of a roster spreadsheet
func (c *Client) ListTrips(ctx context.Context, spreadsheetID, tab string) ([]*model.Trip, error) {
	values, err := c.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip data: %w", err)
	}

	trips, err := parseTrips(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trips: %w", err)
	}

	return trips, nil
}

// parseTrips converts raw spreadsheet rows into trips; rows without a name are skipped
func parseTrips(raw [][]interface{}) ([]*model.Trip, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	h, err := parseHeader(raw[0], tripFields)
	if err != nil {
		return nil, err
	}

	trips := make([]*model.Trip, 0, len(raw)-1)
	names := make(map[string]bool)
	for i := 1; i < len(raw); i++ {
		row := raw[i]
		rowNum := i + 1

		name := h.get("Trip name", row)
		if name == "" {
			continue
		}
		if names[name] {
			return nil, fmt.Errorf("row %d: duplicate trip name %s", rowNum, name)
		}
		names[name] = true

		tripType := h.get("Trip type", row)
		if tripType == "" {
			return nil, fmt.Errorf("row %d: missing trip type", rowNum)
		}

		capacity, err := strconv.Atoi(h.get("Capacity", row))
		if err != nil || capacity < 0 {
			return nil, fmt.Errorf("row %d: invalid capacity %q", rowNum, h.get("Capacity", row))
		}

		trips = append(trips, &model.Trip{
			TripType: tripType,
			TripName: name,
			Capacity: capacity,
			Address:  h.get("Address", row),
			Water:    parseBool(h.get("Water", row)),
			Tent:     parseBool(h.get("Tent", row)),
		})
	}

	return trips, nil
}
