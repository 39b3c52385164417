package db

import (
	"context"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

// RosterLoader loads the students and trips of the current cohort
type RosterLoader interface {
	ListStudents(ctx context.Context) ([]*model.Student, error)
	ListTrips(ctx context.Context) ([]*model.Trip, error)
}

// RosterWriter creates or updates students and trips from an external roster
type RosterWriter interface {
	UpsertStudents(ctx context.Context, students []*model.Student) error
	UpsertTrips(ctx context.Context, trips []*model.Trip) error
}

// SortRunStore persists the outcome of a sorting run
type SortRunStore interface {
	SaveAssignments(ctx context.Context, assignments []Assignment) error
	InsertSortRun(ctx context.Context, run *SortRun) error
	GetSortRuns(ctx context.Context) ([]SortRun, error)
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	RosterLoader
	RosterWriter
	SortRunStore
}
