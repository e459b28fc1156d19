package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrSpecialistNotFound  = errors.New("specialist not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the scheduling service.
type Repository interface {
	GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error)
	GetSpecialistByID(ctx context.Context, id uuid.UUID) (*Specialist, error)
	GetSpecialistByEmail(ctx context.Context, email string) (*Specialist, error)

	// ListBySpecialistAndDate returns every appointment of one specialist's
	// calendar day, all statuses, ordered by start time. The availability
	// check and the day view both read from it.
	ListBySpecialistAndDate(ctx context.Context, specialistID uuid.UUID, date string) ([]Appointment, error)
	ListByDate(ctx context.Context, date string) ([]Appointment, error)
	List(ctx context.Context, limit, offset int) ([]Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error)

	// UpdateSchedule overwrites date/start/end after a successful reschedule
	// check and resets the status to scheduled.
	UpdateSchedule(ctx context.Context, id uuid.UUID, date, startTime, endTime string) (*Appointment, error)

	// UpdateAppointmentStatus transitions id from one status to another,
	// compare-and-swap style: it fails with ErrAppointmentNotFound when the
	// row is no longer in the expected from status.
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error)

	// Reminder worker
	FindReminderDue(ctx context.Context, date string) ([]Appointment, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error

	// Client directory
	CreateClient(ctx context.Context, c *Client) (*Client, error)
	UpdateClient(ctx context.Context, c *Client) (*Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
	ListClients(ctx context.Context) ([]Client, error)
}
