package sorter

import "github.com/coot-trips/tripsort/pkg/core/model"

// Categorize splits students into a priority group, whose low comfort rating
// matches an activity offered by at least one trip, and everyone else.
// Input order is kept within each group.
func Categorize(students []*model.Student, trips []*model.Trip) (priority, regular []*model.Student) {
	anyWater, anyTent := false, false
	for _, trip := range trips {
		anyWater = anyWater || trip.Water
		anyTent = anyTent || trip.Tent
	}

	priority = make([]*model.Student, 0)
	regular = make([]*model.Student, 0, len(students))

	for _, student := range students {
		constrained := (anyWater && IsLowComfort(student.WaterComfort)) ||
			(anyTent && IsLowComfort(student.TentComfort))
		if constrained {
			priority = append(priority, student)
		} else {
			regular = append(regular, student)
		}
	}

	return priority, regular
}
