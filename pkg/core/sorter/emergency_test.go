package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

func TestEmergencyScore_EmptyTripScoresEverything(t *testing.T) {
	at := newAttempt([]*model.Trip{newTrip("t1", "basecamp", 10)}, nil)

	score := emergencyScore(newStudent("s1", "male"), trackerFor(at.arena, "t1"))
	assert.InDelta(t, 3+3+2+2+1+1.0, score, 1e-9)
}

func TestEmergencyScore_Penalties(t *testing.T) {
	trip := newTrip("t1", "canoeing", 4)
	trip.Water = true
	trip.Tent = true
	at := newAttempt([]*model.Trip{trip}, nil)
	tracker := trackerFor(at.arena, "t1")

	occupant := newStudent("s0", "male")
	occupant.Dorm = "Dana"
	occupant.AthleticTeam = "Soccer"
	place(occupant, tracker)
	place(newStudent("s00", "male"), tracker)

	student := newStudent("s1", "male")
	student.WaterComfort = model.IntPtr(1)
	student.TentComfort = model.IntPtr(2)
	student.Dorm = "Dana"
	student.AthleticTeam = "soccer"

	// Only the balance point survives: a single gender always has a spread of 0
	score := emergencyScore(student, tracker)
	assert.InDelta(t, 1+0.2, score, 1e-9)
}

func TestEmergencyScore_GenderSpread(t *testing.T) {
	at := newAttempt([]*model.Trip{newTrip("t1", "basecamp", 5)}, nil)
	tracker := trackerFor(at.arena, "t1")
	place(newStudent("s0", "male"), tracker)

	withFemale := emergencyScore(newStudent("s1", "female"), tracker)
	withMale := emergencyScore(newStudent("s2", "male"), tracker)

	// 2 males alone has a spread of 0, so both earn the balance point
	assert.InDelta(t, withFemale, withMale, 1e-9)
	assert.InDelta(t, 11+0.4, withFemale, 1e-9)
}

func TestFindEmergencyTrip_RelaxesComfort(t *testing.T) {
	canoe := newTrip("t1", "canoeing", 3)
	canoe.Water = true
	at := newAttempt([]*model.Trip{canoe}, nil)

	student := newStudent("s1", "female", "backpacking")
	student.WaterComfort = model.IntPtr(1)

	at.placeBatch([]*model.Student{student})

	assert.Equal(t, "t1", student.AssignedTripID, "last resort placement may break comfort")
	assert.Equal(t, 1, at.stats.NoPreference)
	assert.Equal(t, 1, at.stats.Assigned)
}

func TestFindEmergencyTrip_PrefersComfortableTrip(t *testing.T) {
	canoe := newTrip("t1", "canoeing", 5)
	canoe.Water = true
	trips := []*model.Trip{canoe, newTrip("t2", "basecamp", 5)}
	at := newAttempt(trips, nil)

	student := newStudent("s1", "female", "canoeing")
	student.WaterComfort = model.IntPtr(1)

	at.placeBatch([]*model.Student{student})

	assert.Equal(t, "t2", student.AssignedTripID)
	assert.Equal(t, 1, at.stats.NoPreference)
}

func TestFindEmergencyTrip_TieKeepsFirst(t *testing.T) {
	trips := []*model.Trip{newTrip("t1", "basecamp", 4), newTrip("t2", "canoeing", 4)}
	at := newAttempt(trips, nil)

	best := at.findEmergencyTrip(newStudent("s1", "male"))
	require.NotNil(t, best)
	assert.Equal(t, "t1", best.Trip.ID)
}

func TestFindEmergencyTrip_NoCapacity(t *testing.T) {
	at := newAttempt([]*model.Trip{newTrip("t1", "basecamp", 0)}, nil)
	assert.Nil(t, at.findEmergencyTrip(newStudent("s1", "male")))
}
