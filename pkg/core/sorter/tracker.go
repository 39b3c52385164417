package sorter

import "github.com/coot-trips/tripsort/pkg/core/model"

// newTripArena creates a fresh tracker per trip and indexes trips by type
func newTripArena(trips []*model.Trip) *tripArena {
	arena := &tripArena{
		trackers: make([]TripTracker, 0, len(trips)),
		byType:   make(map[string][]int),
	}

	for _, trip := range trips {
		idx := len(arena.trackers)
		arena.trackers = append(arena.trackers, TripTracker{
			Trip:               trip,
			CapacityLeft:       trip.Capacity,
			AssignedStudentIDs: []string{},
			DormsUsed:          make(map[string]bool),
			TeamsUsed:          make(map[string]bool),
			GenderCount:        newGenderCount(),
		})
		arena.byType[trip.TripType] = append(arena.byType[trip.TripType], idx)
	}

	return arena
}

// place assigns the student to the tracked trip and updates its state.
// Eligibility must already have been checked.
func place(student *model.Student, tracker *TripTracker) {
	student.AssignedTripID = tracker.Trip.ID

	tracker.CapacityLeft--
	tracker.AssignedStudentIDs = append(tracker.AssignedStudentIDs, student.ID)

	if student.Dorm != "" {
		tracker.DormsUsed[student.Dorm] = true
	}

	if team := NormalizeTeam(student.AthleticTeam); team != "" {
		tracker.TeamsUsed[team] = true
	}

	tracker.GenderCount[NormalizeGender(student.Gender)]++
}
