package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgQuerier is the subset of pgxpool.Pool the repository needs; pgxmock
// implements it for tests.
type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PgRepository struct {
	db pgQuerier
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool}
}

func newPgRepositoryWithQuerier(db pgQuerier) *PgRepository {
	return &PgRepository{db: db}
}

const serviceColumns = `id, name, description, category, price, duration, active, created_at, updated_at`

func scanService(row pgx.Row) (*Service, error) {
	var s Service

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.Category,
		&s.Price,
		&s.Duration,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgRepository) Create(ctx context.Context, svc *Service) (*Service, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO services (id, name, description, category, price, duration, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
		RETURNING `+serviceColumns+`
	`, id, svc.Name, svc.Description, svc.Category, svc.Price, svc.Duration)

	return scanService(row)
}

func (r *PgRepository) Update(ctx context.Context, svc *Service) (*Service, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE services
		SET name = $2,
		    description = $3,
		    category = $4,
		    price = $5,
		    duration = $6,
		    active = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+serviceColumns+`
	`, svc.ID, svc.Name, svc.Description, svc.Category, svc.Price, svc.Duration, svc.Active)

	return scanService(row)
}

func (r *PgRepository) Deactivate(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE services
		SET active = false,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+serviceColumns+`
	`, id)

	return scanService(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1
	`, id)

	return scanService(row)
}

func (r *PgRepository) List(ctx context.Context, includeInactive bool) ([]Service, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE active OR $1
		ORDER BY category, name
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]Service, error) {
	if len(ids) == 0 {
		return nil, &UnknownServiceError{}
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = ANY($1) AND active
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[uuid.UUID]Service, len(ids))
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		found[s.ID] = *s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reassemble in request order and collect anything that did not resolve.
	result := make([]Service, 0, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		s, ok := found[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		result = append(result, s)
	}
	if len(missing) > 0 {
		return nil, &UnknownServiceError{IDs: missing}
	}

	return result, nil
}
