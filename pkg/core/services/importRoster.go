package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coot-trips/tripsort/internal/config"
	"github.com/coot-trips/tripsort/pkg/core/model"
	"github.com/coot-trips/tripsort/pkg/db"
)

// RosterSource reads students and trips from an external roster
type RosterSource interface {
	ListStudents(ctx context.Context, spreadsheetID, tab string) ([]*model.Student, error)
	ListTrips(ctx context.Context, spreadsheetID, tab string) ([]*model.Trip, error)
}

// ImportRosterResult summarises an import
type ImportRosterResult struct {
	Students int
	Trips    int

	// UnknownPreferences lists preferred trip types that match no imported trip
	UnknownPreferences []string
}

// ImportRoster copies the roster spreadsheet into the database.
// Trips are written before students; existing rows are updated in place.
func ImportRoster(
	ctx context.Context,
	source RosterSource,
	database db.RosterWriter,
	cfg *config.Config,
	logger *zap.Logger,
) (*ImportRosterResult, error) {
	if !cfg.SheetsEnabled() {
		return nil, fmt.Errorf("rosterSheetID is not configured")
	}

	logger.Debug("Starting importRoster", zap.String("sheet_id", cfg.RosterSheetID))

	var students []*model.Student
	var trips []*model.Trip

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = source.ListStudents(gctx, cfg.RosterSheetID, cfg.StudentsTab)
		return err
	})
	g.Go(func() error {
		var err error
		trips, err = source.ListTrips(gctx, cfg.RosterSheetID, cfg.TripsTab)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read roster sheet: %w", err)
	}

	for _, t := range trips {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
	}
	for _, s := range students {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
	}

	unknown := unknownPreferences(students, trips)
	if len(unknown) > 0 {
		logger.Warn("Students prefer trip types that do not exist", zap.Strings("trip_types", unknown))
	}

	if err := database.UpsertTrips(ctx, trips); err != nil {
		return nil, fmt.Errorf("failed to save trips: %w", err)
	}
	if err := database.UpsertStudents(ctx, students); err != nil {
		return nil, fmt.Errorf("failed to save students: %w", err)
	}

	logger.Info("Imported roster", zap.Int("students", len(students)), zap.Int("trips", len(trips)))

	return &ImportRosterResult{
		Students:           len(students),
		Trips:              len(trips),
		UnknownPreferences: unknown,
	}, nil
}

// unknownPreferences returns the sorted, distinct preference values that name no trip type.
// Such preferences are never matched during sorting.
func unknownPreferences(students []*model.Student, trips []*model.Trip) []string {
	types := make(map[string]bool, len(trips))
	for _, t := range trips {
		types[t.TripType] = true
	}

	seen := make(map[string]bool)
	for _, s := range students {
		for _, pref := range s.TripPreferences {
			if pref == "" || types[pref] {
				continue
			}
			seen[strings.TrimSpace(pref)] = true
		}
	}

	unknown := make([]string, 0, len(seen))
	for pref := range seen {
		unknown = append(unknown, pref)
	}
	sort.Strings(unknown)
	return unknown
}
