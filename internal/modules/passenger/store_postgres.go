// README: Passenger store backed by PostgreSQL.
package passenger

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

func (s *PostgresStore) Create(ctx context.Context, p *Passenger) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO passengers (id, name, phone, created_at)
        VALUES ($1, $2, $3, $4)`,
		string(p.ID), p.Name, p.Phone, p.CreatedAt,
	)
	return mapUniqueViolation(err)
}

func (s *PostgresStore) Get(ctx context.Context, id types.ID) (*Passenger, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, name, phone, created_at
        FROM passengers WHERE id = $1`, string(id),
	)
	var p Passenger
	err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *Passenger) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE passengers SET name = $1, phone = $2 WHERE id = $3`,
		p.Name, p.Phone, string(p.ID),
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapUniqueViolation converts the phone unique-index violation into the
// registry's conflict error.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrPhoneTaken
	}
	return err
}
