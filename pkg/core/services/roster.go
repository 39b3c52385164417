package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coot-trips/tripsort/internal/config"
	"github.com/coot-trips/tripsort/pkg/core/model"
	"github.com/coot-trips/tripsort/pkg/db"
)

// loadRoster fetches students and trips concurrently
func loadRoster(ctx context.Context, store db.RosterLoader, logger *zap.Logger) ([]*model.Student, []*model.Trip, error) {
	var students []*model.Student
	var trips []*model.Trip

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = store.ListStudents(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch students: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		trips, err = store.ListTrips(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch trips: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	logger.Debug("Loaded roster", zap.Int("students", len(students)), zap.Int("trips", len(trips)))
	return students, trips, nil
}

// applyTripOverrides adjusts trip capacities in place and returns how many trips changed.
// Trip types match case-insensitively; a closed trip gets capacity 0.
func applyTripOverrides(trips []*model.Trip, overrides []config.TripOverride, logger *zap.Logger) int {
	changed := 0
	for _, trip := range trips {
		for _, o := range overrides {
			if !strings.EqualFold(strings.TrimSpace(o.TripType), strings.TrimSpace(trip.TripType)) {
				continue
			}

			capacity := trip.Capacity
			switch {
			case o.Closed:
				capacity = 0
			case o.Capacity != nil:
				capacity = *o.Capacity
			}

			if capacity != trip.Capacity {
				logger.Debug("Overriding trip capacity",
					zap.String("trip", trip.TripName),
					zap.Int("from", trip.Capacity),
					zap.Int("to", capacity))
				trip.Capacity = capacity
				changed++
			}
		}
	}
	return changed
}

// tripsByID indexes trips for roster lookups
func tripsByID(trips []*model.Trip) map[string]*model.Trip {
	byID := make(map[string]*model.Trip, len(trips))
	for _, t := range trips {
		byID[t.ID] = t
	}
	return byID
}
