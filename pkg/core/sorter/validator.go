package sorter

import (
	"fmt"
	"strings"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

// ValidationCheck is the outcome of one roster rule
type ValidationCheck struct {
	Valid   bool     `json:"valid"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func passingCheck() ValidationCheck {
	return ValidationCheck{Valid: true, Details: []string{}}
}

func (c *ValidationCheck) fail(detail string) {
	c.Valid = false
	c.Details = append(c.Details, detail)
}

// TripValidation is the post-hoc validation report for one trip roster
type TripValidation struct {
	TripID        string          `json:"trip_id"`
	GenderRatio   ValidationCheck `json:"gender_ratio"`
	AthleticTeams ValidationCheck `json:"athletic_teams"`
	Roommates     ValidationCheck `json:"roommates"`
	ComfortLevels ValidationCheck `json:"comfort_levels"`
	OverallValid  bool            `json:"overall_valid"`
}

// Validator checks a finished trip roster against the social and safety rules
type Validator interface {
	ValidateTrip(trip *model.Trip, roster []*model.Student) TripValidation
}

// ValidatorFunc adapts a function to the Validator interface
type ValidatorFunc func(trip *model.Trip, roster []*model.Student) TripValidation

func (f ValidatorFunc) ValidateTrip(trip *model.Trip, roster []*model.Student) TripValidation {
	return f(trip, roster)
}

// RosterValidator is the standard trip validator.
//
//   - Gender ratio: male and female counts may differ by at most 1
//   - Athletic teams: no two students share a team (sentinel values ignored)
//   - Roommates: no two students share a dorm
//   - Comfort levels: nobody with low water comfort on a water trip, same for tents
type RosterValidator struct{}

// NewRosterValidator creates the standard trip validator
func NewRosterValidator() *RosterValidator {
	return &RosterValidator{}
}

func (v *RosterValidator) ValidateTrip(trip *model.Trip, roster []*model.Student) TripValidation {
	result := TripValidation{
		TripID:        trip.ID,
		GenderRatio:   passingCheck(),
		AthleticTeams: passingCheck(),
		Roommates:     passingCheck(),
		ComfortLevels: passingCheck(),
		OverallValid:  true,
	}

	if len(roster) == 0 {
		return result
	}

	checkGenderRatio(&result.GenderRatio, roster)
	checkSharedAttribute(&result.AthleticTeams, roster, "team", func(s *model.Student) (string, string) {
		return NormalizeTeam(s.AthleticTeam), strings.TrimSpace(s.AthleticTeam)
	})
	checkSharedAttribute(&result.Roommates, roster, "dorm", func(s *model.Student) (string, string) {
		return s.Dorm, s.Dorm
	})
	checkComfort(&result.ComfortLevels, trip, roster)

	result.OverallValid = result.GenderRatio.Valid &&
		result.AthleticTeams.Valid &&
		result.Roommates.Valid &&
		result.ComfortLevels.Valid

	return result
}

func checkGenderRatio(check *ValidationCheck, roster []*model.Student) {
	counts := newGenderCount()
	for _, s := range roster {
		counts[NormalizeGender(s.Gender)]++
	}

	male, female := counts[GenderMale], counts[GenderFemale]
	check.Message = fmt.Sprintf("%d Male, %d Female", male, female)

	diff := male - female
	if diff < 0 {
		diff = -diff
	}
	if diff > 1 {
		check.fail(fmt.Sprintf("Gender ratio off by %d", diff))
	}
}

// checkSharedAttribute fails the check for every key held by more than one student.
// keyOf returns the comparison key ("" to skip) and the label to report.
func checkSharedAttribute(check *ValidationCheck, roster []*model.Student, noun string, keyOf func(*model.Student) (string, string)) {
	var order []string
	names := make(map[string][]string)
	labels := make(map[string]string)

	for _, s := range roster {
		key, label := keyOf(s)
		if key == "" {
			continue
		}
		if _, seen := names[key]; !seen {
			order = append(order, key)
			labels[key] = label
		}
		names[key] = append(names[key], s.FullName())
	}

	for _, key := range order {
		if len(names[key]) > 1 {
			check.fail(fmt.Sprintf("%s share %s (%s).", strings.Join(names[key], ", "), noun, labels[key]))
		}
	}
}

func checkComfort(check *ValidationCheck, trip *model.Trip, roster []*model.Student) {
	if trip.Water {
		if low := lowComfortNames(roster, func(s *model.Student) *int { return s.WaterComfort }); len(low) > 0 {
			check.fail("Low water comfort: " + strings.Join(low, ", "))
		}
	}
	if trip.Tent {
		if low := lowComfortNames(roster, func(s *model.Student) *int { return s.TentComfort }); len(low) > 0 {
			check.fail("Low tent comfort: " + strings.Join(low, ", "))
		}
	}
}

func lowComfortNames(roster []*model.Student, rating func(*model.Student) *int) []string {
	var names []string
	for _, s := range roster {
		if IsLowComfort(rating(s)) {
			names = append(names, s.FullName())
		}
	}
	return names
}
