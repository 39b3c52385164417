package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/coot-trips/tripsort/internal/config"
	"github.com/coot-trips/tripsort/pkg/clients/sheetsclient"
	"github.com/coot-trips/tripsort/pkg/core/model"
	"github.com/coot-trips/tripsort/pkg/db"
)

// mockDatabase implements db.Database in memory
type mockDatabase struct {
	students []*model.Student
	trips    []*model.Trip
	sortRuns []db.SortRun

	listStudentsErr error
	listTripsErr    error
	saveErr         error
	insertRunErr    error
	getRunsErr      error
	upsertErr       error

	listStudentsCalls atomic.Int32
	listTripsCalls    atomic.Int32

	saved            []db.Assignment
	insertedRuns     []*db.SortRun
	upsertedStudents []*model.Student
	upsertedTrips    []*model.Trip
	calls            []string
}

var _ db.Database = (*mockDatabase)(nil)

func (m *mockDatabase) ListStudents(ctx context.Context) ([]*model.Student, error) {
	m.listStudentsCalls.Add(1)
	if m.listStudentsErr != nil {
		return nil, m.listStudentsErr
	}
	return m.students, nil
}

func (m *mockDatabase) ListTrips(ctx context.Context) ([]*model.Trip, error) {
	m.listTripsCalls.Add(1)
	if m.listTripsErr != nil {
		return nil, m.listTripsErr
	}
	return m.trips, nil
}

func (m *mockDatabase) UpsertStudents(ctx context.Context, students []*model.Student) error {
	m.calls = append(m.calls, "UpsertStudents")
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertedStudents = students
	return nil
}

func (m *mockDatabase) UpsertTrips(ctx context.Context, trips []*model.Trip) error {
	m.calls = append(m.calls, "UpsertTrips")
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertedTrips = trips
	return nil
}

func (m *mockDatabase) SaveAssignments(ctx context.Context, assignments []db.Assignment) error {
	m.calls = append(m.calls, "SaveAssignments")
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = assignments
	return nil
}

func (m *mockDatabase) InsertSortRun(ctx context.Context, run *db.SortRun) error {
	m.calls = append(m.calls, "InsertSortRun")
	if m.insertRunErr != nil {
		return m.insertRunErr
	}
	m.insertedRuns = append(m.insertedRuns, run)
	return nil
}

func (m *mockDatabase) GetSortRuns(ctx context.Context) ([]db.SortRun, error) {
	if m.getRunsErr != nil {
		return nil, m.getRunsErr
	}
	return m.sortRuns, nil
}

// mockLocker runs fn unless held is set
type mockLocker struct {
	held      bool
	resources []string
}

func (m *mockLocker) WithLock(ctx context.Context, resource string, fn func(ctx context.Context) error) error {
	m.resources = append(m.resources, resource)
	if m.held {
		return fmt.Errorf("%s: lock held", resource)
	}
	return fn(ctx)
}

// mockSheets implements RosterSource and RosterPublisher
type mockSheets struct {
	students    []*model.Student
	trips       []*model.Trip
	studentsErr error
	tripsErr    error
	publishErr  error

	published        *sheetsclient.PublishedRosters
	publishedSheetID string
}

func (m *mockSheets) ListStudents(ctx context.Context, spreadsheetID, tab string) ([]*model.Student, error) {
	return m.students, m.studentsErr
}

func (m *mockSheets) ListTrips(ctx context.Context, spreadsheetID, tab string) ([]*model.Trip, error) {
	return m.trips, m.tripsErr
}

func (m *mockSheets) PublishRosters(ctx context.Context, spreadsheetID string, rosters *sheetsclient.PublishedRosters) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.publishedSheetID = spreadsheetID
	m.published = rosters
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Cohort:         "fall-2025",
		DatabaseURL:    "postgres://localhost/tripsort",
		RosterSheetID:  "roster-sheet",
		StudentsTab:    "Students",
		TripsTab:       "Trips",
		PublishSheetID: "publish-sheet",
		MaxAttempts:    100,
	}
}

func student(id, gender, dorm string, prefs ...string) *model.Student {
	s := &model.Student{
		ID:        id,
		StudentID: "sid-" + id,
		FirstName: "First" + id,
		LastName:  "Last" + id,
		Gender:    gender,
		Dorm:      dorm,
	}
	copy(s.TripPreferences[:], prefs)
	return s
}

func trip(id, tripType string, capacity int) *model.Trip {
	return &model.Trip{
		ID:       id,
		TripType: tripType,
		TripName: tripType + " " + id,
		Capacity: capacity,
	}
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}
