package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/bellacita/salon-api/internal/booking"
	"github.com/bellacita/salon-api/internal/catalog"
	"github.com/bellacita/salon-api/internal/payments"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string    `json:"token"`
	SpecialistID uuid.UUID `json:"specialist_id"`
	Name         string    `json:"name"`
}

type CreateAppointmentRequest struct {
	ClientID     string   `json:"client_id"`
	SpecialistID string   `json:"specialist_id"`
	ServiceIDs   []string `json:"service_ids"`
	Date         string   `json:"date"`
	StartTime    string   `json:"start_time"`
}

type RescheduleRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

type ServiceLineResponse struct {
	ServiceID uuid.UUID `json:"service_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Duration  int       `json:"duration"`
}

type AppointmentResponse struct {
	ID            uuid.UUID             `json:"id"`
	ClientID      uuid.UUID             `json:"client_id"`
	SpecialistID  uuid.UUID             `json:"specialist_id"`
	ServiceLines  []ServiceLineResponse `json:"service_lines"`
	Date          string                `json:"date"`
	StartTime     string                `json:"start_time"`
	EndTime       string                `json:"end_time"`
	TotalDuration int                   `json:"total_duration"`
	TotalPrice    int64                 `json:"total_price"`
	Status        string                `json:"status"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	lines := make([]ServiceLineResponse, 0, len(a.ServiceLines))
	for _, l := range a.ServiceLines {
		lines = append(lines, ServiceLineResponse(l))
	}

	return AppointmentResponse{
		ID:            a.ID,
		ClientID:      a.ClientID,
		SpecialistID:  a.SpecialistID,
		ServiceLines:  lines,
		Date:          a.Date,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		TotalDuration: a.TotalDuration,
		TotalPrice:    a.TotalPrice,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toAppointmentResponses(appts []booking.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		out = append(out, toAppointmentResponse(&appts[i]))
	}
	return out
}

// ConflictResponse is the 409 payload for a scheduling collision; it carries
// the occupied range so the caller can offer the next free slot.
type ConflictResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details"`
	StartTime string `json:"conflict_start"`
	EndTime   string `json:"conflict_end"`
}

type ServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Duration    int    `json:"duration"`
	Active      *bool  `json:"active,omitempty"`
}

type ServiceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Duration    int       `json:"duration"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
		Price:       s.Price,
		Duration:    s.Duration,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type ClientRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Alias     *string `json:"alias,omitempty"`
	Document  string  `json:"document"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email,omitempty"`
}

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Alias     *string   `json:"alias,omitempty"`
	Document  string    `json:"document"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClientResponse(c *booking.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Alias:     c.Alias,
		Document:  c.Document,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type RegisterPaymentRequest struct {
	AppointmentID string `json:"appointment_id"`
	ClientID      string `json:"client_id"`
	Method        string `json:"method"`
	Amount        int64  `json:"amount"`
}

type PaymentResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	ClientID      uuid.UUID `json:"client_id"`
	Method        string    `json:"method"`
	Amount        int64     `json:"amount"`
	PaidAt        time.Time `json:"paid_at"`
}

func toPaymentResponse(p *payments.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		ClientID:      p.ClientID,
		Method:        string(p.Method),
		Amount:        p.Amount,
		PaidAt:        p.PaidAt,
	}
}
