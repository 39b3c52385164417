package sorter

import "github.com/coot-trips/tripsort/pkg/core/model"

// DefaultMaxAttempts bounds the validate-and-retry loop
const DefaultMaxAttempts = 100

// TripTracker is the attempt-local placement state for one trip
type TripTracker struct {
	Trip *model.Trip

	// CapacityLeft starts at the trip capacity and drops by one per placement
	CapacityLeft int

	// AssignedStudentIDs in placement order
	AssignedStudentIDs []string

	DormsUsed map[string]bool

	// TeamsUsed holds normalised team names (sentinels never appear)
	TeamsUsed map[string]bool

	GenderCount GenderCount
}

// IsEmpty returns true if no student has been placed on the trip
func (t *TripTracker) IsEmpty() bool {
	return len(t.AssignedStudentIDs) == 0
}

// HasCapacity returns true if at least one place is left
func (t *TripTracker) HasCapacity() bool {
	return t.CapacityLeft > 0
}

// tripArena owns every tracker for a single attempt
type tripArena struct {
	trackers []TripTracker

	// byType maps trip type to tracker positions, in input order
	byType map[string][]int
}

// SortStatistics summarises the outcome of an attempt
type SortStatistics struct {
	Total        int `json:"total"`
	Assigned     int `json:"assigned"`
	FirstChoice  int `json:"first_choice"`
	SecondChoice int `json:"second_choice"`
	ThirdChoice  int `json:"third_choice"`

	// NoPreference counts emergency placements
	NoPreference int `json:"no_preference"`

	// AssignmentRate and FirstChoiceRate are percentages in 0-100
	AssignmentRate  float64 `json:"assignment_rate"`
	FirstChoiceRate float64 `json:"first_choice_rate"`
}

// recordChoice counts a placement made at the given preference level (1-3)
func (s *SortStatistics) recordChoice(level int) {
	s.Assigned++
	switch level {
	case 1:
		s.FirstChoice++
	case 2:
		s.SecondChoice++
	case 3:
		s.ThirdChoice++
	}
}

// recordEmergency counts a placement made by emergency scoring
func (s *SortStatistics) recordEmergency() {
	s.Assigned++
	s.NoPreference++
}

// finalize derives the percentage fields; both are 0 when there are no students
func (s *SortStatistics) finalize() {
	if s.Total <= 0 {
		s.AssignmentRate = 0
		s.FirstChoiceRate = 0
		return
	}
	s.AssignmentRate = float64(s.Assigned) / float64(s.Total) * 100
	s.FirstChoiceRate = float64(s.FirstChoice) / float64(s.Total) * 100
}

// SortResult is the statistics of the returned attempt plus the retry outcome
type SortResult struct {
	SortStatistics

	// Attempts is the number of attempts made (the maximum when validation never passed)
	Attempts int `json:"attempts"`

	// AllValid reports whether every trip with students passed validation
	AllValid bool `json:"all_valid"`
}
