// Package reports serves read-only aggregates for the salon dashboard.
// Reads are unsynchronized snapshots; the scheduling invariants are enforced
// at write time, never here.
package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db pgQuerier
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func newRepositoryWithQuerier(db pgQuerier) *Repository {
	return &Repository{db: db}
}

type SalesReport struct {
	From     string      `json:"from"`
	To       string      `json:"to"`
	Total    int64       `json:"total"`
	Count    int         `json:"count"`
	Payments []SalesLine `json:"payments"`
}

type SalesLine struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	ClientName    string    `json:"client_name"`
	Method        string    `json:"method"`
	Amount        int64     `json:"amount"`
	PaidAt        time.Time `json:"paid_at"`
}

// Sales lists every payment settled between two dates, newest first, with a
// running total.
func (r *Repository) Sales(ctx context.Context, from, to string) (*SalesReport, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.appointment_id, c.first_name || ' ' || c.last_name, p.method, p.amount, p.paid_at
		FROM payments p
		JOIN clients c ON c.id = p.client_id
		WHERE p.paid_at::date >= $1::date AND p.paid_at::date <= $2::date
		ORDER BY p.paid_at DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := &SalesReport{From: from, To: to}
	for rows.Next() {
		var line SalesLine
		if err := rows.Scan(&line.PaymentID, &line.AppointmentID, &line.ClientName, &line.Method, &line.Amount, &line.PaidAt); err != nil {
			return nil, err
		}
		report.Payments = append(report.Payments, line)
		report.Total += line.Amount
		report.Count++
	}

	return report, rows.Err()
}

type DayVolume struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Cancelled int    `json:"cancelled"`
	Revenue   int64  `json:"revenue"`
}

// AppointmentVolume aggregates bookings per day between two dates. Revenue
// counts completed appointments only.
func (r *Repository) AppointmentVolume(ctx context.Context, from, to string) ([]DayVolume, error) {
	rows, err := r.db.Query(ctx, `
		SELECT date,
		       count(*),
		       count(*) FILTER (WHERE status = 'completed'),
		       count(*) FILTER (WHERE status = 'cancelled'),
		       COALESCE(sum(total_price) FILTER (WHERE status = 'completed'), 0)
		FROM appointments
		WHERE date >= $1 AND date <= $2
		GROUP BY date
		ORDER BY date
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayVolume
	for rows.Next() {
		var v DayVolume
		if err := rows.Scan(&v.Date, &v.Total, &v.Completed, &v.Cancelled, &v.Revenue); err != nil {
			return nil, err
		}
		result = append(result, v)
	}

	return result, rows.Err()
}

type ServiceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopServices ranks catalog services by how often they appear in completed
// appointments' snapshot lines.
func (r *Repository) TopServices(ctx context.Context, limit int) ([]ServiceCount, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx, `
		SELECT line->>'name', count(*)
		FROM appointments, jsonb_array_elements(service_lines) AS line
		WHERE status = 'completed'
		GROUP BY line->>'name'
		ORDER BY count(*) DESC, line->>'name'
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ServiceCount
	for rows.Next() {
		var sc ServiceCount
		if err := rows.Scan(&sc.Name, &sc.Count); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}

	return result, rows.Err()
}

type ClientVisits struct {
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
	Visits   int       `json:"visits"`
}

// FrequentClients ranks clients by completed appointments.
func (r *Repository) FrequentClients(ctx context.Context, limit int) ([]ClientVisits, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx, `
		SELECT a.client_id, c.first_name || ' ' || c.last_name, count(*)
		FROM appointments a
		JOIN clients c ON c.id = a.client_id
		WHERE a.status = 'completed'
		GROUP BY a.client_id, c.first_name, c.last_name
		ORDER BY count(*) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ClientVisits
	for rows.Next() {
		var cv ClientVisits
		if err := rows.Scan(&cv.ClientID, &cv.Name, &cv.Visits); err != nil {
			return nil, err
		}
		result = append(result, cv)
	}

	return result, rows.Err()
}
