package sorter

import "github.com/coot-trips/tripsort/pkg/core/model"

// attempt holds the state of a single sorting pass
type attempt struct {
	arena    *tripArena
	criteria []Criterion
	stats    SortStatistics
}

func newAttempt(trips []*model.Trip, criteria []Criterion) *attempt {
	if len(criteria) == 0 {
		criteria = DefaultCriteria
	}
	return &attempt{
		arena:    newTripArena(trips),
		criteria: criteria,
	}
}

// isEligible checks whether the student can join the tracked trip.
// Capacity and comfort are always checked first; the soft criteria follow in configured order.
func (a *attempt) isEligible(student *model.Student, tracker *TripTracker) bool {
	if !tracker.HasCapacity() {
		return false
	}

	trip := tracker.Trip
	if trip.Water && IsLowComfort(student.WaterComfort) {
		return false
	}
	if trip.Tent && IsLowComfort(student.TentComfort) {
		return false
	}

	for _, criterion := range a.criteria {
		if !criterion.allows(student, tracker) {
			return false
		}
	}

	return true
}

// findPreferredTrip returns the eligible trip of the given type with the most capacity left.
// Ties keep the trip that appeared first in the input.
func (a *attempt) findPreferredTrip(student *model.Student, tripType string) *TripTracker {
	var best *TripTracker

	for _, idx := range a.arena.byType[tripType] {
		tracker := &a.arena.trackers[idx]
		if !a.isEligible(student, tracker) {
			continue
		}
		if best == nil || tracker.CapacityLeft > best.CapacityLeft {
			best = tracker
		}
	}

	return best
}

// placeBatch places each unassigned student by preference, falling back to emergency placement.
// Students with no eligible or emergency trip stay unassigned.
func (a *attempt) placeBatch(students []*model.Student) {
	for _, student := range students {
		if student.IsAssigned() {
			continue
		}

		if a.placeByPreference(student) {
			continue
		}

		if tracker := a.findEmergencyTrip(student); tracker != nil {
			place(student, tracker)
			a.stats.recordEmergency()
		}
	}
}

func (a *attempt) placeByPreference(student *model.Student) bool {
	for i, tripType := range student.TripPreferences {
		if tripType == "" {
			continue
		}

		tracker := a.findPreferredTrip(student, tripType)
		if tracker == nil {
			continue
		}

		place(student, tracker)
		a.stats.recordChoice(i + 1)
		return true
	}
	return false
}
