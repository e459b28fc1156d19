package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bellacita/salon-api/internal/booking"
)

var (
	ErrInvalidMethod = errors.New("invalid payment method")
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrNotPayable rejects payments against a cancelled appointment.
	ErrNotPayable = errors.New("appointment is cancelled and cannot be paid")
)

// Appointments is the slice of the scheduling service payments need:
// look up the appointment being settled and flip it to completed.
type Appointments interface {
	GetAppointment(ctx context.Context, id uuid.UUID) (*booking.Appointment, error)
	Finalize(ctx context.Context, id uuid.UUID) (*booking.Appointment, error)
}

type Service struct {
	repo         Repository
	appointments Appointments
	log          *zap.Logger
}

func NewService(repo Repository, appointments Appointments, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:         repo,
		appointments: appointments,
		log:          log,
	}
}

// Register records a payment against an appointment and finalizes the
// appointment if it is not already completed. The scheduling core owns the
// status change; payments only trigger it.
func (s *Service) Register(ctx context.Context, appointmentID, clientID uuid.UUID, method Method, amount int64) (*Payment, error) {
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	appt, err := s.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status == booking.StatusCancelled {
		return nil, ErrNotPayable
	}
	if appt.ClientID != clientID {
		return nil, booking.ErrClientNotFound
	}

	payment, err := s.repo.Insert(ctx, &Payment{
		AppointmentID: appointmentID,
		ClientID:      clientID,
		Method:        method,
		Amount:        amount,
	})
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	if appt.Status != booking.StatusCompleted {
		if _, err := s.appointments.Finalize(ctx, appointmentID); err != nil {
			// The payment is recorded either way; finalization is logged and
			// left to the staff to reconcile.
			s.log.Warn("payment recorded but appointment not finalized",
				zap.String("appointment_id", appointmentID.String()),
				zap.Error(err),
			)
		}
	}

	s.log.Info("payment registered",
		zap.String("payment_id", payment.ID.String()),
		zap.String("appointment_id", appointmentID.String()),
		zap.String("method", string(method)),
		zap.Int64("amount", amount),
	)

	return payment, nil
}

func (s *Service) List(ctx context.Context) ([]Payment, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]Payment, error) {
	return s.repo.ListByClient(ctx, clientID)
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Payment, error) {
	return s.repo.GetByAppointment(ctx, appointmentID)
}
