package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/pkg/core/model"
	"github.com/coot-trips/tripsort/pkg/db"
)

// ListStudents retrieves all students in import order
func (d *DB) ListStudents(ctx context.Context) ([]*model.Student, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, student_id, first_name, last_name, email,
			trip_pref_1, trip_pref_2, trip_pref_3,
			dorm, athletic_team, gender, water_comfort, tent_comfort, trip_id
		FROM students
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		var s model.Student
		var tripID *string
		if err := rows.Scan(
			&s.ID, &s.StudentID, &s.FirstName, &s.LastName, &s.Email,
			&s.TripPreferences[0], &s.TripPreferences[1], &s.TripPreferences[2],
			&s.Dorm, &s.AthleticTeam, &s.Gender, &s.WaterComfort, &s.TentComfort, &tripID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		s.AssignedTripID = fromNullString(tripID)
		students = append(students, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// UpsertStudents inserts students, updating any that already exist by student_id.
// Existing trip assignments are left alone.
func (d *DB) UpsertStudents(ctx context.Context, students []*model.Student) error {
	if len(students) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, s := range students {
		batch.Queue(`
			INSERT INTO students (id, student_id, first_name, last_name, email,
				trip_pref_1, trip_pref_2, trip_pref_3,
				dorm, athletic_team, gender, water_comfort, tent_comfort)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (student_id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				email = EXCLUDED.email,
				trip_pref_1 = EXCLUDED.trip_pref_1,
				trip_pref_2 = EXCLUDED.trip_pref_2,
				trip_pref_3 = EXCLUDED.trip_pref_3,
				dorm = EXCLUDED.dorm,
				athletic_team = EXCLUDED.athletic_team,
				gender = EXCLUDED.gender,
				water_comfort = EXCLUDED.water_comfort,
				tent_comfort = EXCLUDED.tent_comfort
		`, s.ID, s.StudentID, s.FirstName, s.LastName, s.Email,
			s.TripPreferences[0], s.TripPreferences[1], s.TripPreferences[2],
			s.Dorm, s.AthleticTeam, s.Gender, s.WaterComfort, s.TentComfort)
	}

	if err := d.execBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to upsert students: %w", err)
	}

	d.logger.Debug("Upserted students", zap.Int("count", len(students)))
	return nil
}

// SaveAssignments writes every student's trip in a single transaction
func (d *DB) SaveAssignments(ctx context.Context, assignments []db.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range assignments {
		batch.Queue(`UPDATE students SET trip_id = $2 WHERE id = $1`, a.StudentID, toNullString(a.TripID))
	}

	if err := d.execBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to save assignments: %w", err)
	}

	d.logger.Debug("Saved assignments", zap.Int("count", len(assignments)))
	return nil
}

// execBatch runs all queued statements inside one transaction
func (d *DB) execBatch(ctx context.Context, batch *pgx.Batch) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
