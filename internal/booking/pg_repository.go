package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgQuerier is the subset of pgxpool.Pool the repository needs; pgxmock
// implements it for tests.
type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
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

// Helpers

const appointmentColumns = `id, client_id, specialist_id, service_lines, date, start_time, end_time, total_duration, total_price, status, reminder_sent, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var lines []byte

	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.SpecialistID,
		&lines,
		&a.Date,
		&a.StartTime,
		&a.EndTime,
		&a.TotalDuration,
		&a.TotalPrice,
		&a.Status,
		&a.ReminderSent,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(lines, &a.ServiceLines); err != nil {
		return nil, fmt.Errorf("decode service lines: %w", err)
	}

	return &a, nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	return result, rows.Err()
}

func scanClient(row pgx.Row) (*Client, error) {
	var c Client

	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Alias,
		&c.Document,
		&c.Phone,
		&c.Email,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	return &c, nil
}

func scanSpecialist(row pgx.Row) (*Specialist, error) {
	var s Specialist

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.PasswordHash,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpecialistNotFound
		}
		return nil, err
	}

	return &s, nil
}

// Interface methods

func (r *PgRepository) GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, alias, document, phone, email, created_at, updated_at
		FROM clients
		WHERE id = $1
	`, id)
	return scanClient(row)
}

func (r *PgRepository) GetSpecialistByID(ctx context.Context, id uuid.UUID) (*Specialist, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, password_hash, created_at, updated_at
		FROM specialists
		WHERE id = $1
	`, id)
	return scanSpecialist(row)
}

func (r *PgRepository) GetSpecialistByEmail(ctx context.Context, email string) (*Specialist, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, password_hash, created_at, updated_at
		FROM specialists
		WHERE lower(email) = lower($1)
	`, email)
	return scanSpecialist(row)
}

func (r *PgRepository) ListBySpecialistAndDate(ctx context.Context, specialistID uuid.UUID, date string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE specialist_id = $1 AND date = $2
		ORDER BY start_time
	`, specialistID, date)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *PgRepository) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date = $1
		ORDER BY start_time
	`, date)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY date DESC, start_time
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error) {
	id := uuid.New()

	lines, err := json.Marshal(appt.ServiceLines)
	if err != nil {
		return nil, fmt.Errorf("encode service lines: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, client_id, specialist_id, service_lines, date, start_time, end_time, total_duration, total_price, status, reminder_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, appt.ClientID, appt.SpecialistID, lines, appt.Date, appt.StartTime, appt.EndTime, appt.TotalDuration, appt.TotalPrice, appt.Status)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, date, startTime, endTime string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET date = $2,
		    start_time = $3,
		    end_time = $4,
		    status = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, date, startTime, endTime, StatusScheduled)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+appointmentColumns+`
	`, id, to, from)

	return scanAppointment(row)
}

func (r *PgRepository) FindReminderDue(ctx context.Context, date string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date = $1
		  AND status = $2
		  AND NOT reminder_sent
		ORDER BY start_time
	`, date, StatusScheduled)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *PgRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET reminder_sent = true,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

// Client directory

func (r *PgRepository) CreateClient(ctx context.Context, c *Client) (*Client, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO clients (id, first_name, last_name, alias, document, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, first_name, last_name, alias, document, phone, email, created_at, updated_at
	`, id, c.FirstName, c.LastName, c.Alias, c.Document, c.Phone, c.Email)

	return scanClient(row)
}

func (r *PgRepository) UpdateClient(ctx context.Context, c *Client) (*Client, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE clients
		SET first_name = $2,
		    last_name = $3,
		    alias = $4,
		    document = $5,
		    phone = $6,
		    email = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, first_name, last_name, alias, document, phone, email, created_at, updated_at
	`, c.ID, c.FirstName, c.LastName, c.Alias, c.Document, c.Phone, c.Email)

	return scanClient(row)
}

func (r *PgRepository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM clients
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *PgRepository) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, first_name, last_name, alias, document, phone, email, created_at, updated_at
		FROM clients
		ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}

	return result, rows.Err()
}
