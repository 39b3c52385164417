package sorter

import (
	"fmt"
	"strings"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

// Criterion is a soft placement constraint whose evaluation order can be configured
type Criterion int

const (
	// CriterionDorm rejects a trip that already holds someone from the student's dorm
	CriterionDorm Criterion = iota + 1

	// CriterionSportsTeam rejects a trip that already holds a teammate
	CriterionSportsTeam

	// CriterionGender rejects a trip whose gender balance the student would break
	CriterionGender

	// CriterionTripPreference is matched during preference lookup and always passes here
	CriterionTripPreference
)

// DefaultCriteria is the evaluation order used when none is configured
var DefaultCriteria = []Criterion{CriterionDorm, CriterionSportsTeam, CriterionGender}

var criterionNames = map[Criterion]string{
	CriterionDorm:           "dorm",
	CriterionSportsTeam:     "sports_team",
	CriterionGender:         "gender",
	CriterionTripPreference: "trip_preference",
}

// Name returns the configuration name of the criterion
func (c Criterion) Name() string {
	if name, ok := criterionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("criterion(%d)", int(c))
}

func (c Criterion) String() string {
	return c.Name()
}

// allows evaluates the criterion for placing a student on a tracked trip
func (c Criterion) allows(student *model.Student, tracker *TripTracker) bool {
	switch c {
	case CriterionDorm:
		return student.Dorm == "" || !tracker.DormsUsed[student.Dorm]
	case CriterionSportsTeam:
		team := NormalizeTeam(student.AthleticTeam)
		return team == "" || !tracker.TeamsUsed[team]
	case CriterionGender:
		return GenderBalanced(tracker.GenderCount, student.Gender)
	default:
		return true
	}
}

// ParseCriterion maps a configuration name to a Criterion
func ParseCriterion(name string) (Criterion, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for c, n := range criterionNames {
		if n == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown sorting criterion %q", name)
}

// ParseCriteria maps an ordered list of configuration names to criteria.
// Unknown names are rejected rather than skipped.
func ParseCriteria(names []string) ([]Criterion, error) {
	criteria := make([]Criterion, 0, len(names))
	for i, name := range names {
		c, err := ParseCriterion(name)
		if err != nil {
			return nil, fmt.Errorf("criteria[%d]: %w", i, err)
		}
		criteria = append(criteria, c)
	}
	return criteria, nil
}

// ParseCriteriaSpec parses criteria given as {"type": name} objects.
// An entry without a type is rejected.
func ParseCriteriaSpec(specs []map[string]string) ([]Criterion, error) {
	names := make([]string, 0, len(specs))
	for i, spec := range specs {
		name, ok := spec["type"]
		if !ok {
			return nil, fmt.Errorf("criteria[%d]: missing \"type\" key", i)
		}
		names = append(names, name)
	}
	return ParseCriteria(names)
}

// CriteriaNames returns the configuration names of the given criteria
func CriteriaNames(criteria []Criterion) []string {
	names := make([]string, len(criteria))
	for i, c := range criteria {
		names[i] = c.Name()
	}
	return names
}
