package sorter

import "github.com/coot-trips/tripsort/pkg/core/model"

// Emergency placement score weights
const (
	scoreWaterComfort = 3.0
	scoreTentComfort  = 3.0
	scoreDorm         = 2.0
	scoreTeam         = 2.0
	scoreGender       = 1.0
	scorePerFreeSpace = 0.1
)

// emergencyScore rates how well a trip suits a student whose preferences could not be met.
// Comfort clashes lower the score but do not exclude the trip.
func emergencyScore(student *model.Student, tracker *TripTracker) float64 {
	trip := tracker.Trip
	score := 0.0

	if !(trip.Water && IsLowComfort(student.WaterComfort)) {
		score += scoreWaterComfort
	}

	if !(trip.Tent && IsLowComfort(student.TentComfort)) {
		score += scoreTentComfort
	}

	if CriterionDorm.allows(student, tracker) {
		score += scoreDorm
	}

	if CriterionSportsTeam.allows(student, tracker) {
		score += scoreTeam
	}

	if tracker.IsEmpty() {
		score += scoreGender
	} else {
		next := tracker.GenderCount.clone()
		next[NormalizeGender(student.Gender)]++
		if spread, _ := GenderSpread(next); spread <= 1 {
			score += scoreGender
		}
	}

	score += float64(tracker.CapacityLeft) * scorePerFreeSpace

	return score
}

// findEmergencyTrip returns the highest scoring trip with capacity left, or nil if all are full.
// Ties keep the first trip seen.
func (a *attempt) findEmergencyTrip(student *model.Student) *TripTracker {
	var best *TripTracker
	bestScore := -1.0

	for i := range a.arena.trackers {
		tracker := &a.arena.trackers[i]
		if !tracker.HasCapacity() {
			continue
		}

		score := emergencyScore(student, tracker)
		if score > bestScore {
			bestScore = score
			best = tracker
		}
	}

	return best
}
