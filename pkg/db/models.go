package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/coot-trips/tripsort/pkg/core/model"
	"github.com/coot-trips/tripsort/pkg/core/sorter"
)

// Assignment records which trip a student was placed on.
// An empty TripID clears the student's trip.
type Assignment struct {
	StudentID string
	TripID    string
}

// SortRun is the persisted record of one sorting run
type SortRun struct {
	ID        string
	Cohort    string
	CreatedAt time.Time
	Criteria  []string
	// Seed is nil when the shuffle was seeded from system entropy
	Seed       *uint64
	Attempts   int
	AllValid   bool
	Statistics sorter.SortStatistics
}

// AssignmentsFrom captures the current trip of every student
func AssignmentsFrom(students []*model.Student) []Assignment {
	assignments := make([]Assignment, 0, len(students))
	for _, s := range students {
		assignments = append(assignments, Assignment{
			StudentID: s.ID,
			TripID:    s.AssignedTripID,
		})
	}
	return assignments
}

// NewSortRun builds a SortRun with a fresh id from a sorting result
func NewSortRun(cohort string, criteria []sorter.Criterion, seed *uint64, result *sorter.SortResult, now time.Time) *SortRun {
	return &SortRun{
		ID:         uuid.NewString(),
		Cohort:     cohort,
		CreatedAt:  now.UTC(),
		Criteria:   sorter.CriteriaNames(criteria),
		Seed:       seed,
		Attempts:   result.Attempts,
		AllValid:   result.AllValid,
		Statistics: result.SortStatistics,
	}
}
