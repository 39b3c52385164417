package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

func TestCategorize_LowComfortWithMatchingActivity(t *testing.T) {
	canoe := newTrip("t1", "canoeing", 10)
	canoe.Water = true
	trips := []*model.Trip{canoe, newTrip("t2", "basecamp", 10)}

	lowWater := newStudent("s1", "male")
	lowWater.WaterComfort = model.IntPtr(2)

	lowTent := newStudent("s2", "female")
	lowTent.TentComfort = model.IntPtr(1)

	comfortable := newStudent("s3", "female")
	comfortable.WaterComfort = model.IntPtr(4)

	priority, regular := Categorize([]*model.Student{lowWater, lowTent, comfortable}, trips)

	assert.Equal(t, []*model.Student{lowWater}, priority)
	assert.Equal(t, []*model.Student{lowTent, comfortable}, regular, "no trip has tents, so low tent comfort is not a constraint")
}

func TestCategorize_NoTripsMeansAllRegular(t *testing.T) {
	s := newStudent("s1", "male")
	s.WaterComfort = model.IntPtr(1)
	s.TentComfort = model.IntPtr(1)

	priority, regular := Categorize([]*model.Student{s}, nil)

	assert.Empty(t, priority)
	assert.Len(t, regular, 1)
}

func TestCategorize_UnsetComfortIsRegular(t *testing.T) {
	tent := newTrip("t1", "backpacking", 10)
	tent.Tent = true

	priority, regular := Categorize([]*model.Student{newStudent("s1", "male")}, []*model.Trip{tent})

	assert.Empty(t, priority)
	assert.Len(t, regular, 1)
}
