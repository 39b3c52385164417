package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/internal/config"
	"github.com/coot-trips/tripsort/pkg/core/model"
	"github.com/coot-trips/tripsort/pkg/core/sorter"
)

func sixStudentsTwoTrips() *mockDatabase {
	return &mockDatabase{
		students: []*model.Student{
			student("s1", "male", "D1", "Canoe", "Hiking"),
			student("s2", "female", "D2", "Canoe", "Hiking"),
			student("s3", "male", "D3", "Hiking", "Canoe"),
			student("s4", "female", "D4", "Hiking", "Canoe"),
			student("s5", "male", "D5", "Canoe"),
			student("s6", "female", "D6"),
		},
		trips: []*model.Trip{
			trip("c1", "Canoe", 3),
			trip("h1", "Hiking", 3),
		},
	}
}

func countByTrip(students []*model.Student) map[string]int {
	counts := make(map[string]int)
	for _, s := range students {
		counts[s.AssignedTripID]++
	}
	return counts
}

func TestSortStudents_AssignsAndSaves(t *testing.T) {
	database := sixStudentsTwoTrips()
	locker := &mockLocker{}
	cfg := testConfig()

	outcome, err := SortStudents(context.Background(), database, locker, cfg, zap.NewNop(), SortParams{Seed: uint64Ptr(7)})
	require.NoError(t, err)

	assert.Equal(t, []string{"fall-2025"}, locker.resources)
	assert.Equal(t, 6, outcome.Result.Total)
	assert.Equal(t, 6, outcome.Result.Assigned)

	counts := countByTrip(database.students)
	assert.Equal(t, 3, counts["c1"])
	assert.Equal(t, 3, counts["h1"])

	require.Len(t, database.saved, 6)
	for i, a := range database.saved {
		assert.Equal(t, database.students[i].ID, a.StudentID)
		assert.Equal(t, database.students[i].AssignedTripID, a.TripID)
	}

	require.Len(t, database.insertedRuns, 1)
	run := database.insertedRuns[0]
	assert.Same(t, outcome.Run, run)
	assert.Equal(t, "fall-2025", run.Cohort)
	assert.Equal(t, []string{"dorm", "sports_team", "gender"}, run.Criteria)
	assert.Equal(t, uint64(7), *run.Seed)
	assert.Equal(t, outcome.Result.Attempts, run.Attempts)

	assert.Equal(t, []string{"SaveAssignments", "InsertSortRun"}, database.calls)
}

func TestSortStudents_DryRunSavesNothing(t *testing.T) {
	database := sixStudentsTwoTrips()

	outcome, err := SortStudents(context.Background(), database, nil, testConfig(), zap.NewNop(), SortParams{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 6, outcome.Result.Assigned)
	assert.NotEmpty(t, outcome.Run.ID)
	assert.NotNil(t, outcome.Run.Seed)
	assert.Empty(t, database.calls)
}

func TestSortStudents_RecordedSeedReproducesRun(t *testing.T) {
	first := sixStudentsTwoTrips()
	outcome, err := SortStudents(context.Background(), first, nil, testConfig(), zap.NewNop(), SortParams{})
	require.NoError(t, err)

	require.Len(t, first.insertedRuns, 1)
	require.NotNil(t, first.insertedRuns[0].Seed)
	seed := *first.insertedRuns[0].Seed

	replay := sixStudentsTwoTrips()
	_, err = SortStudents(context.Background(), replay, nil, testConfig(), zap.NewNop(), SortParams{Seed: &seed})
	require.NoError(t, err)

	assert.Equal(t, first.saved, replay.saved)
	assert.Equal(t, outcome.Result.Attempts, replay.insertedRuns[0].Attempts)
}

func TestSortStudents_LockHeld(t *testing.T) {
	database := sixStudentsTwoTrips()
	locker := &mockLocker{held: true}

	_, err := SortStudents(context.Background(), database, locker, testConfig(), zap.NewNop(), SortParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock held")

	assert.Equal(t, int32(0), database.listStudentsCalls.Load())
	assert.Empty(t, database.calls)
}

func TestSortStudents_NoStudents(t *testing.T) {
	database := &mockDatabase{trips: []*model.Trip{trip("c1", "Canoe", 3)}}

	_, err := SortStudents(context.Background(), database, nil, testConfig(), zap.NewNop(), SortParams{})
	assert.ErrorIs(t, err, sorter.ErrNoStudents)
	assert.Empty(t, database.calls)
}

func TestSortStudents_NoTrips(t *testing.T) {
	database := &mockDatabase{students: []*model.Student{student("s1", "male", "D1")}}

	_, err := SortStudents(context.Background(), database, nil, testConfig(), zap.NewNop(), SortParams{})
	assert.ErrorIs(t, err, sorter.ErrNoTrips)
}

func TestSortStudents_LoadError(t *testing.T) {
	database := sixStudentsTwoTrips()
	database.listTripsErr = errors.New("connection reset")

	_, err := SortStudents(context.Background(), database, nil, testConfig(), zap.NewNop(), SortParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch trips")
	assert.Empty(t, database.calls)
}

func TestSortStudents_SaveError(t *testing.T) {
	database := sixStudentsTwoTrips()
	database.saveErr = errors.New("disk full")

	_, err := SortStudents(context.Background(), database, nil, testConfig(), zap.NewNop(), SortParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save assignments")
	assert.Empty(t, database.insertedRuns)
}

func TestSortStudents_ClosedTripOverride(t *testing.T) {
	database := sixStudentsTwoTrips()
	database.trips[1].Capacity = 10
	cfg := testConfig()
	cfg.TripOverrides = []config.TripOverride{{TripType: "canoe", Closed: true}}

	outcome, err := SortStudents(context.Background(), database, nil, cfg, zap.NewNop(), SortParams{Seed: uint64Ptr(1)})
	require.NoError(t, err)

	counts := countByTrip(database.students)
	assert.Equal(t, 0, counts["c1"])
	assert.Equal(t, 6, counts["h1"])
	assert.Equal(t, 6, outcome.Result.Assigned)
	assert.Equal(t, 0, database.trips[0].Capacity)
}

func TestSortStudents_ExplicitCriteriaWin(t *testing.T) {
	database := sixStudentsTwoTrips()
	cfg := testConfig()
	cfg.Criteria = []string{"dorm"}

	outcome, err := SortStudents(context.Background(), database, nil, cfg, zap.NewNop(),
		SortParams{Criteria: []sorter.Criterion{sorter.CriterionGender}, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"gender"}, outcome.Run.Criteria)
}

func TestSortStudents_ReportsFailures(t *testing.T) {
	// Two students from one dorm and a single trip always share a dorm
	database := &mockDatabase{
		students: []*model.Student{
			student("s1", "male", "Cutter", "Canoe"),
			student("s2", "female", "Cutter", "Canoe"),
		},
		trips: []*model.Trip{trip("c1", "Canoe", 2)},
	}
	cfg := testConfig()
	cfg.MaxAttempts = 3

	outcome, err := SortStudents(context.Background(), database, nil, cfg, zap.NewNop(), SortParams{DryRun: true})
	require.NoError(t, err)

	assert.False(t, outcome.Result.AllValid)
	assert.Equal(t, 3, outcome.Result.Attempts)
	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "c1", outcome.Failures[0].TripID)
	assert.False(t, outcome.Failures[0].Roommates.Valid)
}

func TestResolveCriteria(t *testing.T) {
	cfg := testConfig()

	criteria, err := resolveCriteria(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, sorter.DefaultCriteria, criteria)

	cfg.Criteria = []string{"trip_preference", "gender"}
	criteria, err = resolveCriteria(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []sorter.Criterion{sorter.CriterionTripPreference, sorter.CriterionGender}, criteria)

	cfg.Criteria = []string{"hometown"}
	_, err = resolveCriteria(cfg, nil)
	assert.Error(t, err)
}

func TestApplyTripOverrides(t *testing.T) {
	six := 6
	trips := []*model.Trip{
		trip("c1", "Canoe", 8),
		trip("c2", "Canoe", 8),
		trip("h1", "Hiking", 10),
		trip("k1", "Climbing", 4),
	}
	overrides := []config.TripOverride{
		{TripType: "Canoe", Capacity: &six},
		{TripType: " climbing ", Closed: true},
	}

	changed := applyTripOverrides(trips, overrides, zap.NewNop())

	assert.Equal(t, 3, changed)
	assert.Equal(t, 6, trips[0].Capacity)
	assert.Equal(t, 6, trips[1].Capacity)
	assert.Equal(t, 10, trips[2].Capacity)
	assert.Equal(t, 0, trips[3].Capacity)
}

func TestApplyTripOverrides_ClosedWinsOverCapacity(t *testing.T) {
	four := 4
	trips := []*model.Trip{trip("c1", "Canoe", 8)}

	applyTripOverrides(trips, []config.TripOverride{{TripType: "Canoe", Capacity: &four, Closed: true}}, zap.NewNop())

	assert.Equal(t, 0, trips[0].Capacity)
}
