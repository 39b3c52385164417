package sorter

import "strings"

// Gender buckets used for balance tracking
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// LowComfortThreshold is the highest comfort rating treated as "low"
const LowComfortThreshold = 2

var noTeamValues = map[string]bool{
	"n/a":  true,
	"none": true,
	"":     true,
	"null": true,
}

// GenderCount tracks how many students of each gender bucket are on a trip
type GenderCount map[string]int

func newGenderCount() GenderCount {
	return GenderCount{GenderMale: 0, GenderFemale: 0, GenderOther: 0}
}

// Total returns the sum of all buckets
func (gc GenderCount) Total() int {
	total := 0
	for _, c := range gc {
		total += c
	}
	return total
}

func (gc GenderCount) clone() GenderCount {
	out := make(GenderCount, len(gc))
	for g, c := range gc {
		out[g] = c
	}
	return out
}

// NormalizeGender lowercases a gender value and maps anything unrecognised to "other"
func NormalizeGender(gender string) string {
	g := strings.ToLower(strings.TrimSpace(gender))
	switch g {
	case GenderMale, GenderFemale:
		return g
	default:
		return GenderOther
	}
}

// IsNoTeam reports whether an athletic team value is one of the "no team" sentinels
func IsNoTeam(team string) bool {
	return noTeamValues[strings.ToLower(strings.TrimSpace(team))]
}

// NormalizeTeam returns the comparison key for an athletic team, or "" for sentinel values
func NormalizeTeam(team string) string {
	if IsNoTeam(team) {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(team))
}

// IsLowComfort reports whether a comfort rating is set and at or below the threshold.
// A zero rating is treated as unset.
func IsLowComfort(rating *int) bool {
	return rating != nil && *rating > 0 && *rating <= LowComfortThreshold
}

// GenderSpread returns max minus min over the non-zero buckets, and how many buckets are non-zero
func GenderSpread(gc GenderCount) (spread int, present int) {
	lo, hi := 0, 0
	for _, c := range gc {
		if c <= 0 {
			continue
		}
		if present == 0 || c < lo {
			lo = c
		}
		if present == 0 || c > hi {
			hi = c
		}
		present++
	}
	return hi - lo, present
}

// GenderBalanced reports whether adding a student of the given gender keeps the counts balanced.
//
//   - An empty trip is always balanced
//   - With 2+ genders present afterwards, the spread of non-zero counts must be at most 1
//   - With a single gender present afterwards, a block of 2+ of that gender cannot grow
func GenderBalanced(current GenderCount, gender string) bool {
	if current.Total() == 0 {
		return true
	}

	g := NormalizeGender(gender)
	next := current.clone()
	next[g]++

	spread, present := GenderSpread(next)
	if present > 1 {
		return spread <= 1
	}

	// Only one gender afterwards, so the trip already held only this gender
	return current[g] < 2
}
