package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/internal/config"
	"github.com/coot-trips/tripsort/pkg/core/model"
	"github.com/coot-trips/tripsort/pkg/core/sorter"
	"github.com/coot-trips/tripsort/pkg/db"
)

// SortStore defines the database operations needed to run and record a sort
type SortStore interface {
	db.RosterLoader
	SaveAssignments(ctx context.Context, assignments []db.Assignment) error
	InsertSortRun(ctx context.Context, run *db.SortRun) error
}

// RunLocker serialises work on a resource across processes
type RunLocker interface {
	WithLock(ctx context.Context, resource string, fn func(ctx context.Context) error) error
}

// SortParams are the per-invocation options for SortStudents
type SortParams struct {
	// Seed makes the run reproducible; nil draws a random seed, which is recorded with the run
	Seed *uint64

	// Criteria overrides the configured constraint order when non-empty
	Criteria []sorter.Criterion

	// DryRun sorts without saving assignments or recording the run
	DryRun bool
}

// SortOutcome is the result of SortStudents
type SortOutcome struct {
	Run      *db.SortRun
	Result   *sorter.SortResult
	Students []*model.Student
	Trips    []*model.Trip

	// Failures lists the trips that did not pass validation in the returned attempt
	Failures []sorter.TripValidation
}

// SortStudents loads the cohort, assigns every student to a trip and saves the assignments.
// The whole run holds the cohort lock when a locker is given.
func SortStudents(
	ctx context.Context,
	database SortStore,
	locker RunLocker,
	cfg *config.Config,
	logger *zap.Logger,
	params SortParams,
) (*SortOutcome, error) {
	criteria, err := resolveCriteria(cfg, params.Criteria)
	if err != nil {
		return nil, err
	}

	logger.Debug("Starting sortStudents",
		zap.String("cohort", cfg.Cohort),
		zap.Strings("criteria", sorter.CriteriaNames(criteria)),
		zap.Bool("dry_run", params.DryRun))

	var outcome *SortOutcome
	run := func(ctx context.Context) error {
		var err error
		outcome, err = sortAndSave(ctx, database, cfg, logger, criteria, params)
		return err
	}

	if locker == nil {
		err = run(ctx)
	} else {
		err = locker.WithLock(ctx, cfg.Cohort, run)
	}
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

func sortAndSave(
	ctx context.Context,
	database SortStore,
	cfg *config.Config,
	logger *zap.Logger,
	criteria []sorter.Criterion,
	params SortParams,
) (*SortOutcome, error) {
	students, trips, err := loadRoster(ctx, database, logger)
	if err != nil {
		return nil, err
	}

	if n := applyTripOverrides(trips, cfg.TripOverrides, logger); n > 0 {
		logger.Info("Applied trip overrides", zap.Int("trips", n))
	}

	seed := params.Seed
	if seed == nil {
		drawn := rand.Uint64()
		seed = &drawn
	}

	s := sorter.New(sorter.Options{
		Criteria:    criteria,
		MaxAttempts: cfg.MaxAttempts,
		Seed:        seed,
		Logger:      logger,
	})

	result, err := s.Sort(students, trips)
	if err != nil {
		return nil, fmt.Errorf("failed to sort students: %w", err)
	}

	outcome := &SortOutcome{
		Run:      db.NewSortRun(cfg.Cohort, criteria, seed, result, time.Now()),
		Result:   result,
		Students: students,
		Trips:    trips,
		Failures: s.Validate(students, trips),
	}

	if params.DryRun {
		logger.Info("Dry run, not saving assignments", zap.String("run_id", outcome.Run.ID))
		return outcome, nil
	}

	if err := database.SaveAssignments(ctx, db.AssignmentsFrom(students)); err != nil {
		return nil, fmt.Errorf("failed to save assignments: %w", err)
	}

	if err := database.InsertSortRun(ctx, outcome.Run); err != nil {
		return nil, fmt.Errorf("failed to record sort run: %w", err)
	}

	logger.Info("Sort run saved",
		zap.String("run_id", outcome.Run.ID),
		zap.Uint64("seed", *seed),
		zap.Int("assigned", result.Assigned),
		zap.Int("total", result.Total),
		zap.Int("attempts", result.Attempts),
		zap.Bool("all_valid", result.AllValid))

	return outcome, nil
}

// resolveCriteria picks the explicit criteria, then the configured ones, then the defaults
func resolveCriteria(cfg *config.Config, explicit []sorter.Criterion) ([]sorter.Criterion, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}

	criteria, err := cfg.SortCriteria()
	if err != nil {
		return nil, fmt.Errorf("invalid configured criteria: %w", err)
	}
	if len(criteria) == 0 {
		return sorter.DefaultCriteria, nil
	}
	return criteria, nil
}
