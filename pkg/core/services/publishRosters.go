package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/internal/config"
	"github.com/coot-trips/tripsort/pkg/clients/sheetsclient"
	"github.com/coot-trips/tripsort/pkg/core/model"
	"github.com/coot-trips/tripsort/pkg/db"
)

// PublishStore defines the database operations needed to publish rosters
type PublishStore interface {
	db.RosterLoader
	GetSortRuns(ctx context.Context) ([]db.SortRun, error)
}

// RosterPublisher writes rosters to a spreadsheet
type RosterPublisher interface {
	PublishRosters(ctx context.Context, spreadsheetID string, rosters *sheetsclient.PublishedRosters) error
}

// PublishRosters writes the current assignments to a tab named after the latest sort run of the cohort
func PublishRosters(
	ctx context.Context,
	database PublishStore,
	publisher RosterPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) (*sheetsclient.PublishedRosters, error) {
	if cfg.PublishSheetID == "" {
		return nil, fmt.Errorf("publishSheetID is not configured")
	}

	logger.Debug("Starting publishRosters", zap.String("cohort", cfg.Cohort))

	runs, err := database.GetSortRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sort runs: %w", err)
	}

	latest := latestSortRun(runs, cfg.Cohort)
	if latest == nil {
		return nil, fmt.Errorf("no sort runs found for cohort %s", cfg.Cohort)
	}
	logger.Debug("Publishing sort run", zap.String("run_id", latest.ID), zap.Time("created_at", latest.CreatedAt))

	students, trips, err := loadRoster(ctx, database, logger)
	if err != nil {
		return nil, err
	}

	rosters := buildPublishedRosters(latest, students, trips)

	if err := publisher.PublishRosters(ctx, cfg.PublishSheetID, rosters); err != nil {
		return nil, fmt.Errorf("failed to publish rosters: %w", err)
	}

	logger.Info("Published rosters",
		zap.String("tab", rosters.Title),
		zap.Int("trips", len(rosters.Trips)),
		zap.Int("unassigned", len(rosters.Unassigned)))

	return rosters, nil
}

// latestSortRun returns the newest run for the cohort, or nil if there is none
func latestSortRun(runs []db.SortRun, cohort string) *db.SortRun {
	var latest *db.SortRun
	for i := range runs {
		r := &runs[i]
		if r.Cohort != cohort {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return latest
}

// publishedTabTitle is unique per run, e.g. "Trips Aug 20 2025 14:30 (1a2b3c4d)"
func publishedTabTitle(run *db.SortRun) string {
	shortID := run.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	return fmt.Sprintf("Trips %s (%s)", run.CreatedAt.Format("Jan 02 2006 15:04"), shortID)
}

func buildPublishedRosters(run *db.SortRun, students []*model.Student, trips []*model.Trip) *sheetsclient.PublishedRosters {
	rosters := &sheetsclient.PublishedRosters{
		Title: publishedTabTitle(run),
		Trips: make([]sheetsclient.PublishedTrip, 0, len(trips)),
	}

	for _, trip := range trips {
		published := sheetsclient.PublishedTrip{
			TripName: trip.TripName,
			TripType: trip.TripType,
			Capacity: trip.Capacity,
		}
		for _, s := range model.Roster(trip.ID, students) {
			published.Students = append(published.Students, publishedStudent(s))
		}
		rosters.Trips = append(rosters.Trips, published)
	}

	known := tripsByID(trips)
	for _, s := range students {
		if !s.IsAssigned() || known[s.AssignedTripID] == nil {
			rosters.Unassigned = append(rosters.Unassigned, publishedStudent(s))
		}
	}

	return rosters
}

func publishedStudent(s *model.Student) sheetsclient.PublishedStudent {
	return sheetsclient.PublishedStudent{
		Name:  s.FullName(),
		Email: s.Email,
		Dorm:  s.Dorm,
	}
}
