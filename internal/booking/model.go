package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ServiceLine is a snapshot of one selected catalog service at booking time.
// Later catalog edits must not retroactively change historical appointments,
// so name, price and duration are copied rather than joined.
type ServiceLine struct {
	ServiceID uuid.UUID `json:"service_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Duration  int       `json:"duration"`
}

// Appointment is one booked block on a specialist's calendar.
// Date is a plain "YYYY-MM-DD" day, StartTime/EndTime are "HH:MM" clocks.
// EndTime and the totals are derived from the service lines at create or
// reschedule time and never recomputed on read.
type Appointment struct {
	ID            uuid.UUID
	ClientID      uuid.UUID
	SpecialistID  uuid.UUID
	ServiceLines  []ServiceLine
	Date          string
	StartTime     string
	EndTime       string
	TotalDuration int
	TotalPrice    int64
	Status        Status
	ReminderSent  bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Client struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Alias     *string
	Document  string
	Phone     string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Specialist is the staff member whose calendar is the unit of conflict
// detection. PasswordHash backs the login endpoint and never leaves the API.
type Specialist struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
