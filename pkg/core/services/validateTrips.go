package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/pkg/core/model"
	"github.com/coot-trips/tripsort/pkg/core/sorter"
	"github.com/coot-trips/tripsort/pkg/db"
)

// TripReport is the validation of one trip's current roster
type TripReport struct {
	Trip       *model.Trip
	Students   []*model.Student
	Validation sorter.TripValidation
}

// ValidateTripsResult contains a report for every trip that has students
type ValidateTripsResult struct {
	Reports    []TripReport
	Unassigned []*model.Student
}

// InvalidCount returns the number of trips failing at least one check
func (r *ValidateTripsResult) InvalidCount() int {
	n := 0
	for _, report := range r.Reports {
		if !report.Validation.OverallValid {
			n++
		}
	}
	return n
}

// ValidateTrips checks the saved assignments of every trip, in trip order
func ValidateTrips(ctx context.Context, database db.RosterLoader, logger *zap.Logger) (*ValidateTripsResult, error) {
	logger.Debug("Starting validateTrips")

	students, trips, err := loadRoster(ctx, database, logger)
	if err != nil {
		return nil, err
	}

	validator := sorter.NewRosterValidator()
	known := tripsByID(trips)

	result := &ValidateTripsResult{}
	for _, trip := range trips {
		roster := model.Roster(trip.ID, students)
		if len(roster) == 0 {
			continue
		}

		validation := validator.ValidateTrip(trip, roster)
		if !validation.OverallValid {
			logger.Debug("Trip failed validation", zap.String("trip", trip.TripName), zap.Int("students", len(roster)))
		}

		result.Reports = append(result.Reports, TripReport{
			Trip:       trip,
			Students:   roster,
			Validation: validation,
		})
	}

	for _, s := range students {
		// A student on a deleted trip counts as unassigned
		if !s.IsAssigned() || known[s.AssignedTripID] == nil {
			result.Unassigned = append(result.Unassigned, s)
		}
	}

	logger.Info("Validated trips",
		zap.Int("trips", len(result.Reports)),
		zap.Int("invalid", result.InvalidCount()),
		zap.Int("unassigned", len(result.Unassigned)))

	return result, nil
}
