// README: Ride store backed by PostgreSQL.
package ride

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hitch/internal/types"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO rides (
            id, request_id, driver_id, passenger_id, category,
            status, status_version, estimated_price, final_price,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(r.ID), string(r.RequestID), string(r.DriverID), string(r.PassengerID),
		string(r.Category), string(r.Status), r.StatusVersion,
		r.EstimatedPrice, r.FinalPrice, r.CreatedAt, r.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, request_id, driver_id, passenger_id, category,
               status, status_version, estimated_price, final_price,
               created_at, updated_at
        FROM rides WHERE id = $1`, string(id),
	)
	r, err := scanRide(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, finalPrice *float64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE rides
        SET status = $1,
            status_version = status_version + 1,
            final_price = COALESCE($2, final_price),
            updated_at = NOW()
        WHERE id = $3 AND status = $4 AND status_version = $5`,
		string(to), finalPrice, string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) ListByPassenger(ctx context.Context, passengerID types.ID) ([]*Ride, error) {
	return s.list(ctx, `passenger_id`, passengerID)
}

func (s *PostgresStore) ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error) {
	return s.list(ctx, `driver_id`, driverID)
}

func (s *PostgresStore) list(ctx context.Context, col string, id types.ID) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, request_id, driver_id, passenger_id, category,
               status, status_version, estimated_price, final_price,
               created_at, updated_at
        FROM rides WHERE `+col+` = $1
        ORDER BY created_at`, string(id),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) HasActiveByPassenger(ctx context.Context, passengerID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM rides
            WHERE passenger_id = $1 AND status IN ('EN_ROUTE', 'IN_PROGRESS')
        )`, string(passengerID),
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PostgresStore) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO ride_state_events (ride_id, from_status, to_status, actor_type, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		string(e.RideID), string(e.FromStatus), string(e.ToStatus), e.ActorType, e.CreatedAt,
	)
	return err
}

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	var finalPrice sql.NullFloat64
	err := row.Scan(
		&r.ID, &r.RequestID, &r.DriverID, &r.PassengerID, &r.Category,
		&r.Status, &r.StatusVersion, &r.EstimatedPrice, &finalPrice,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if finalPrice.Valid {
		v := finalPrice.Float64
		r.FinalPrice = &v
	}
	return &r, nil
}
