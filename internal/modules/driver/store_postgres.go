// README: Driver store backed by PostgreSQL.
package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hitch/internal/types"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, d *Driver) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO drivers (id, name, phone, category, available, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		string(d.ID), d.Name, d.Phone, string(d.Category), d.Available, d.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrPhoneTaken
	}
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, name, phone, category, available, created_at
        FROM drivers WHERE id = $1`, string(id),
	)
	var d Driver
	err := row.Scan(&d.ID, &d.Name, &d.Phone, &d.Category, &d.Available, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PostgresStore) Update(ctx context.Context, d *Driver) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE drivers SET name = $1, phone = $2 WHERE id = $3`,
		d.Name, d.Phone, string(d.ID),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrPhoneTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetAvailability(ctx context.Context, id types.ID, from, to bool) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE drivers SET available = $1
        WHERE id = $2 AND available = $3`,
		to, string(id), from,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	// distinguish a lost CAS from an unknown driver
	if _, err := s.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
