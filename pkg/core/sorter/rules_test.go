package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Male", GenderMale},
		{"FEMALE", GenderFemale},
		{" female ", GenderFemale},
		{"", GenderOther},
		{"non-binary", GenderOther},
		{"Other", GenderOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeGender(tt.input))
		})
	}
}

func TestIsNoTeam(t *testing.T) {
	for _, team := range []string{"N/A", "n/a", "None", "NULL", "", "  "} {
		assert.True(t, IsNoTeam(team), "expected %q to be a no-team value", team)
	}
	for _, team := range []string{"Soccer", "Nordic Skiing", "na"} {
		assert.False(t, IsNoTeam(team), "expected %q to be a real team", team)
	}
}

func TestNormalizeTeam(t *testing.T) {
	assert.Equal(t, "soccer", NormalizeTeam(" Soccer "))
	assert.Equal(t, "", NormalizeTeam("N/A"))
}

func TestIsLowComfort(t *testing.T) {
	assert.False(t, IsLowComfort(nil))
	assert.False(t, IsLowComfort(model.IntPtr(0)), "zero is treated as unset")
	assert.True(t, IsLowComfort(model.IntPtr(1)))
	assert.True(t, IsLowComfort(model.IntPtr(2)))
	assert.False(t, IsLowComfort(model.IntPtr(3)))
	assert.False(t, IsLowComfort(model.IntPtr(5)))
}

func TestGenderSpread(t *testing.T) {
	spread, present := GenderSpread(GenderCount{GenderMale: 3, GenderFemale: 1, GenderOther: 0})
	assert.Equal(t, 2, spread)
	assert.Equal(t, 2, present)

	spread, present = GenderSpread(newGenderCount())
	assert.Equal(t, 0, spread)
	assert.Equal(t, 0, present)
}

func TestGenderBalanced_EmptyTripAlwaysBalanced(t *testing.T) {
	assert.True(t, GenderBalanced(newGenderCount(), "male"))
	assert.True(t, GenderBalanced(newGenderCount(), ""))
}

func TestGenderBalanced_TwoMalesRejectsThirdMale(t *testing.T) {
	current := GenderCount{GenderMale: 2, GenderFemale: 0, GenderOther: 0}

	assert.False(t, GenderBalanced(current, "male"), "a third male would grow a single-gender block")
	assert.True(t, GenderBalanced(current, "female"), "a female diversifies the trip")
	assert.True(t, GenderBalanced(current, "other"))
}

func TestGenderBalanced_SecondOfSameGenderAllowed(t *testing.T) {
	current := GenderCount{GenderMale: 0, GenderFemale: 1, GenderOther: 0}
	assert.True(t, GenderBalanced(current, "Female"))
}

func TestGenderBalanced_MixedSpread(t *testing.T) {
	current := GenderCount{GenderMale: 2, GenderFemale: 1, GenderOther: 0}

	assert.False(t, GenderBalanced(current, "male"), "3 vs 1 exceeds a spread of 1")
	assert.True(t, GenderBalanced(current, "female"))
	assert.True(t, GenderBalanced(current, "other"), "2/1/1 has a spread of 1")
}
