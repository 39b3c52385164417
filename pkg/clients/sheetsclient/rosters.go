package sheetsclient

import (
	"context"
	"fmt"
	"strings"
)

// PublishedStudent is one student line under a trip
type PublishedStudent struct {
	Name  string
	Email string
	Dorm  string
}

// PublishedTrip is a trip and the students placed on it
type PublishedTrip struct {
	TripName string
	TripType string
	Capacity int
	Students []PublishedStudent
}

// PublishedRosters is everything written to one tab
type PublishedRosters struct {
	Title      string
	Trips      []PublishedTrip
	Unassigned []PublishedStudent
}

var rosterHeader = []interface{}{"Trip", "Trip type", "Places", "Student", "Email", "Dorm"}

// PublishRosters writes the rosters to a tab named after the run.
// An existing tab with the same title is cleared and overwritten.
func (c *Client) PublishRosters(ctx context.Context, spreadsheetID string, rosters *PublishedRosters) error {
	exists, err := c.HasSheet(ctx, spreadsheetID, rosters.Title)
	if err != nil {
		return err
	}

	tabRange := quoteSheetTitle(rosters.Title)
	if exists {
		if err := c.ClearValues(ctx, spreadsheetID, tabRange); err != nil {
			return err
		}
	} else {
		if _, err := c.CreateSheet(ctx, spreadsheetID, rosters.Title); err != nil {
			return err
		}
	}

	if err := c.UpdateValues(ctx, spreadsheetID, tabRange+"!A1", rosterRows(rosters)); err != nil {
		return fmt.Errorf("failed to write rosters: %w", err)
	}

	return nil
}

// rosterRows lays out one row per student, with trip columns filled on the first row of each trip
func rosterRows(rosters *PublishedRosters) [][]interface{} {
	rows := [][]interface{}{rosterHeader}

	for _, trip := range rosters.Trips {
		places := fmt.Sprintf("%d/%d", len(trip.Students), trip.Capacity)
		if len(trip.Students) == 0 {
			rows = append(rows, []interface{}{trip.TripName, trip.TripType, places, "", "", ""})
			continue
		}
		for i, s := range trip.Students {
			if i == 0 {
				rows = append(rows, []interface{}{trip.TripName, trip.TripType, places, s.Name, s.Email, s.Dorm})
			} else {
				rows = append(rows, []interface{}{"", "", "", s.Name, s.Email, s.Dorm})
			}
		}
	}

	for i, s := range rosters.Unassigned {
		label := ""
		if i == 0 {
			label = "Unassigned"
		}
		rows = append(rows, []interface{}{label, "", "", s.Name, s.Email, s.Dorm})
	}

	return rows
}

// quoteSheetTitle quotes a tab title for use in A1 notation
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
