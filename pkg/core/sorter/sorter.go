package sorter

import (
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

var (
	// ErrNoStudents is returned when there is nobody to sort
	ErrNoStudents = errors.New("no students found to sort")

	// ErrNoTrips is returned when there are no trips to sort into
	ErrNoTrips = errors.New("no trips available for sorting")
)

// Options configures a Sorter
type Options struct {
	// Criteria is the order soft constraints are checked in (DefaultCriteria if empty)
	Criteria []Criterion

	// MaxAttempts bounds the validate-and-retry loop (DefaultMaxAttempts if zero)
	MaxAttempts int

	// Seed makes the fairness shuffle reproducible; nil seeds from system entropy
	Seed *uint64

	// Validator checks each non-empty trip after an attempt (RosterValidator if nil)
	Validator Validator

	Logger *zap.Logger
}

// Sorter assigns students to trips, retrying until every trip validates
type Sorter struct {
	criteria    []Criterion
	maxAttempts int
	rng         *rand.Rand
	validator   Validator
	logger      *zap.Logger
}

// New creates a Sorter from the given options
func New(opts Options) *Sorter {
	s := &Sorter{
		criteria:    opts.Criteria,
		maxAttempts: opts.MaxAttempts,
		validator:   opts.Validator,
		logger:      opts.Logger,
	}

	if len(s.criteria) == 0 {
		s.criteria = DefaultCriteria
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = DefaultMaxAttempts
	}
	if s.validator == nil {
		s.validator = NewRosterValidator()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	if opts.Seed != nil {
		s.rng = rand.New(rand.NewPCG(*opts.Seed, *opts.Seed))
	} else {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return s
}

// Sort runs sorting attempts until every trip with students passes validation.
// If no attempt validates within the limit, one final attempt is run and returned
// with AllValid false. Student assignments are updated in place.
func (s *Sorter) Sort(students []*model.Student, trips []*model.Trip) (*SortResult, error) {
	for attemptNum := 1; attemptNum <= s.maxAttempts; attemptNum++ {
		stats, err := s.SortOnce(students, trips)
		if err != nil {
			return nil, err
		}

		failures := s.Validate(students, trips)
		if len(failures) == 0 {
			s.logger.Info("Sorting converged",
				zap.Int("attempts", attemptNum),
				zap.Int("assigned", stats.Assigned),
				zap.Int("total", stats.Total))
			return &SortResult{SortStatistics: stats, Attempts: attemptNum, AllValid: true}, nil
		}

		s.logger.Debug("Sorting attempt failed validation",
			zap.Int("attempt", attemptNum),
			zap.Int("invalid_trips", len(failures)),
			zap.String("first_invalid_trip", failures[0].TripID))
	}

	stats, err := s.SortOnce(students, trips)
	if err != nil {
		return nil, err
	}

	s.logger.Warn("Sorting did not converge, returning final attempt",
		zap.Int("attempts", s.maxAttempts),
		zap.Int("assigned", stats.Assigned),
		zap.Int("total", stats.Total))

	return &SortResult{SortStatistics: stats, Attempts: s.maxAttempts, AllValid: false}, nil
}

// SortOnce runs a single attempt: reset, categorise, shuffle, place, and count
func (s *Sorter) SortOnce(students []*model.Student, trips []*model.Trip) (SortStatistics, error) {
	if len(students) == 0 {
		return SortStatistics{}, ErrNoStudents
	}
	if len(trips) == 0 {
		return SortStatistics{}, ErrNoTrips
	}

	for _, student := range students {
		student.AssignedTripID = ""
	}

	a := newAttempt(trips, s.criteria)
	a.stats.Total = len(students)

	priority, regular := Categorize(students, trips)
	s.shuffle(priority)
	s.shuffle(regular)

	a.placeBatch(priority)
	a.placeBatch(regular)

	a.stats.finalize()
	return a.stats, nil
}

// Validate runs the validator on every trip that has students and returns the failing reports
func (s *Sorter) Validate(students []*model.Student, trips []*model.Trip) []TripValidation {
	rosters := make(map[string][]*model.Student)
	for _, student := range students {
		if student.IsAssigned() {
			rosters[student.AssignedTripID] = append(rosters[student.AssignedTripID], student)
		}
	}

	var failures []TripValidation
	for _, trip := range trips {
		roster := rosters[trip.ID]
		if len(roster) == 0 {
			continue
		}
		if result := s.validator.ValidateTrip(trip, roster); !result.OverallValid {
			failures = append(failures, result)
		}
	}
	return failures
}

func (s *Sorter) shuffle(students []*model.Student) {
	s.rng.Shuffle(len(students), func(i, j int) {
		students[i], students[j] = students[j], students[i]
	})
}

// Sort is a convenience wrapper running a Sorter with the given criteria order
func Sort(students []*model.Student, trips []*model.Trip, criteria []Criterion) (*SortResult, error) {
	return New(Options{Criteria: criteria}).Sort(students, trips)
}
