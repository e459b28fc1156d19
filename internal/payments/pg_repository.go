package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

const paymentColumns = `id, appointment_id, client_id, method, amount, paid_at, created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment

	err := row.Scan(
		&p.ID,
		&p.AppointmentID,
		&p.ClientID,
		&p.Method,
		&p.Amount,
		&p.PaidAt,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanPayments(rows pgx.Rows) ([]Payment, error) {
	defer rows.Close()

	var result []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	return result, rows.Err()
}

func (r *PgRepository) Insert(ctx context.Context, p *Payment) (*Payment, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO payments (id, appointment_id, client_id, method, amount, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING `+paymentColumns+`
	`, id, p.AppointmentID, p.ClientID, p.Method, p.Amount)

	return scanPayment(row)
}

func (r *PgRepository) List(ctx context.Context) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		ORDER BY paid_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return scanPayments(rows)
}

func (r *PgRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE client_id = $1
		ORDER BY paid_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	return scanPayments(rows)
}

func (r *PgRepository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Payment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE appointment_id = $1
		ORDER BY paid_at DESC
		LIMIT 1
	`, appointmentID)

	return scanPayment(row)
}
