package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/pkg/core/model"
)

// ListTrips retrieves all trips in import order
func (d *DB) ListTrips(ctx context.Context) ([]*model.Trip, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, trip_type, trip_name, capacity, address, water, tent
		FROM trips
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}

	trips, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Trip, error) {
		var t model.Trip
		err := row.Scan(&t.ID, &t.TripType, &t.TripName, &t.Capacity, &t.Address, &t.Water, &t.Tent)
		return &t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan trips: %w", err)
	}

	return trips, nil
}

// UpsertTrips inserts trips, updating any that already exist by trip_name
func (d *DB) UpsertTrips(ctx context.Context, trips []*model.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range trips {
		batch.Queue(`
			INSERT INTO trips (id, trip_type, trip_name, capacity, address, water, tent)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (trip_name) DO UPDATE SET
				trip_type = EXCLUDED.trip_type,
				capacity = EXCLUDED.capacity,
				address = EXCLUDED.address,
				water = EXCLUDED.water,
				tent = EXCLUDED.tent
		`, t.ID, t.TripType, t.TripName, t.Capacity, t.Address, t.Water, t.Tent)
	}

	if err := d.execBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to upsert trips: %w", err)
	}

	d.logger.Debug("Upserted trips", zap.Int("count", len(trips)))
	return nil
}
