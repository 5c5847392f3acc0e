// README: Request store backed by PostgreSQL.
package request

import (
	"context"
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

func (s *PostgresStore) Create(ctx context.Context, r *RideRequest) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO ride_requests (
            id, passenger_id, status, status_version,
            origin_lat, origin_lng, dest_lat, dest_lng,
            category, estimated_price, created_at, expires_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(r.ID), string(r.PassengerID), string(r.Status), r.StatusVersion,
		r.Origin.Lat, r.Origin.Lng, r.Destination.Lat, r.Destination.Lng,
		string(r.Category), r.EstimatedPrice, r.CreatedAt, r.ExpiresAt,
	)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id types.ID) (*RideRequest, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, passenger_id, status, status_version,
               origin_lat, origin_lng, dest_lat, dest_lng,
               category, estimated_price, created_at, expires_at
        FROM ride_requests WHERE id = $1`, string(id),
	)
	r, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE ride_requests
        SET status = $1, status_version = status_version + 1
        WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) ListByStatus(ctx context.Context, st Status) ([]*RideRequest, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, passenger_id, status, status_version,
               origin_lat, origin_lng, dest_lat, dest_lng,
               category, estimated_price, created_at, expires_at
        FROM ride_requests WHERE status = $1
        ORDER BY created_at`, string(st),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RideRequest
	for rows.Next() {
		r, err := scanRequest(rows)
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
            SELECT 1 FROM ride_requests
            WHERE passenger_id = $1 AND status = 'SEARCHING'
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
        INSERT INTO request_state_events (request_id, from_status, to_status, actor_type, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		string(e.RequestID), string(e.FromStatus), string(e.ToStatus), e.ActorType, e.CreatedAt,
	)
	return err
}

func scanRequest(row pgx.Row) (*RideRequest, error) {
	var r RideRequest
	err := row.Scan(
		&r.ID, &r.PassengerID, &r.Status, &r.StatusVersion,
		&r.Origin.Lat, &r.Origin.Lng, &r.Destination.Lat, &r.Destination.Lng,
		&r.Category, &r.EstimatedPrice, &r.CreatedAt, &r.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
