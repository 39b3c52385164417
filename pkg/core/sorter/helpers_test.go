package sorter

import (
	"github.com/coot-trips/tripsort/pkg/core/model"
)

func newStudent(id, gender string, prefs ...string) *model.Student {
	s := &model.Student{
		ID:        id,
		StudentID: "S-" + id,
		FirstName: id,
		LastName:  "Test",
		Gender:    gender,
	}
	copy(s.TripPreferences[:], prefs)
	return s
}

func newTrip(id, tripType string, capacity int) *model.Trip {
	return &model.Trip{
		ID:       id,
		TripType: tripType,
		TripName: "Trip " + id,
		Capacity: capacity,
	}
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

// assignments returns student ID -> trip ID for comparison between runs
func assignments(students []*model.Student) map[string]string {
	out := make(map[string]string, len(students))
	for _, s := range students {
		out[s.ID] = s.AssignedTripID
	}
	return out
}

// trackerFor finds the tracker of a trip, or nil
func trackerFor(a *tripArena, tripID string) *TripTracker {
	for i := range a.trackers {
		if a.trackers[i].Trip.ID == tripID {
			return &a.trackers[i]
		}
	}
	return nil
}
