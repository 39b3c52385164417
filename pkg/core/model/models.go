package model

// PreferenceCount is the number of ranked trip preferences a student can give
const PreferenceCount = 3

// Student represents an incoming student to be placed on a trip
type Student struct {
	ID        string
	StudentID string
	FirstName string
	LastName  string
	Email     string

	// TripPreferences are trip types in ranked order; empty strings are gaps
	TripPreferences [PreferenceCount]string

	Dorm         string
	AthleticTeam string
	Gender       string

	// WaterComfort and TentComfort are 1-5 self ratings (nil if not given)
	WaterComfort *int
	TentComfort  *int

	// AssignedTripID is the trip this student is placed on (empty if unassigned)
	AssignedTripID string
}

// FullName returns "First Last"
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// IsAssigned reports whether the student has a trip
func (s *Student) IsAssigned() bool {
	return s.AssignedTripID != ""
}

// Trip represents a group trip with a fixed capacity
type Trip struct {
	ID       string
	TripType string
	TripName string
	Capacity int
	Address  string

	// Water and Tent flag the activities this trip involves
	Water bool
	Tent  bool
}

// Roster returns the students currently assigned to the given trip
func Roster(tripID string, students []*Student) []*Student {
	roster := make([]*Student, 0)
	for _, s := range students {
		if s.AssignedTripID == tripID {
			roster = append(roster, s)
		}
	}
	return roster
}

// IntPtr is a helper for optional comfort ratings
func IntPtr(v int) *int {
	return &v
}
