package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

func TestParseCriteria_AllKnownNames(t *testing.T) {
	criteria, err := ParseCriteria([]string{"gender", "Dorm", "sports_team", "trip_preference"})
	require.NoError(t, err)
	assert.Equal(t, []Criterion{CriterionGender, CriterionDorm, CriterionSportsTeam, CriterionTripPreference}, criteria)
}

func TestParseCriteria_UnknownNameRejected(t *testing.T) {
	_, err := ParseCriteria([]string{"dorm", "hometown"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "criteria[1]")
	assert.Contains(t, err.Error(), "hometown")
}

func TestParseCriteria_Empty(t *testing.T) {
	criteria, err := ParseCriteria(nil)
	require.NoError(t, err)
	assert.Empty(t, criteria)
}

func TestParseCriteriaSpec_MissingTypeKey(t *testing.T) {
	_, err := ParseCriteriaSpec([]map[string]string{
		{"type": "dorm"},
		{"name": "gender"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing \"type\" key")
}

func TestParseCriteriaSpec_Valid(t *testing.T) {
	criteria, err := ParseCriteriaSpec([]map[string]string{
		{"type": "sports_team"},
		{"type": "gender"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sports_team", "gender"}, CriteriaNames(criteria))
}

func TestCriterion_Name(t *testing.T) {
	assert.Equal(t, "dorm", CriterionDorm.Name())
	assert.Equal(t, "criterion(42)", Criterion(42).Name())
}

func TestCriterionSportsTeam_SentinelNeverCollides(t *testing.T) {
	tracker := &TripTracker{
		TeamsUsed: map[string]bool{"soccer": true},
	}

	student := newStudent("s1", "male")
	student.AthleticTeam = "N/A"
	assert.True(t, CriterionSportsTeam.allows(student, tracker))

	teammate := newStudent("s2", "male")
	teammate.AthleticTeam = "Soccer"
	assert.False(t, CriterionSportsTeam.allows(teammate, tracker))
}

func TestCriterionDorm(t *testing.T) {
	tracker := &TripTracker{
		DormsUsed: map[string]bool{"Dana": true},
	}

	dormMate := newStudent("s1", "female")
	dormMate.Dorm = "Dana"
	assert.False(t, CriterionDorm.allows(dormMate, tracker))

	other := newStudent("s2", "female")
	other.Dorm = "West"
	assert.True(t, CriterionDorm.allows(other, tracker))

	noDorm := newStudent("s3", "female")
	assert.True(t, CriterionDorm.allows(noDorm, tracker))
}

func TestCriterionGender_TwoMalesAlreadyPlaced(t *testing.T) {
	tracker := &TripTracker{
		AssignedStudentIDs: []string{"a", "b"},
		GenderCount:        GenderCount{GenderMale: 2, GenderFemale: 0, GenderOther: 0},
	}

	assert.False(t, CriterionGender.allows(newStudent("c", "male"), tracker))
	assert.True(t, CriterionGender.allows(newStudent("d", "female"), tracker))
}

func TestCriterionTripPreference_AlwaysAllows(t *testing.T) {
	tracker := &TripTracker{
		DormsUsed:   map[string]bool{"Dana": true},
		GenderCount: GenderCount{GenderMale: 5},
	}
	student := &model.Student{ID: "s1", Dorm: "Dana", Gender: "male"}
	assert.True(t, CriterionTripPreference.allows(student, tracker))
}
