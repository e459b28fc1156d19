package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bellacita/salon-api/internal/catalog"
	redisclient "github.com/bellacita/salon-api/internal/redis"
)

var (
	ErrScheduleBusy       = errors.New("specialist schedule is being modified, please retry")
	ErrInvalidTransition  = errors.New("invalid appointment status transition")
	ErrNoServicesSelected = errors.New("at least one service is required")
)

// DateFormatError reports a calendar day that is not a valid "YYYY-MM-DD".
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q, want YYYY-MM-DD", e.Value)
}

// ParseDate validates and normalizes a calendar day string.
func ParseDate(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", &DateFormatError{Value: date}
	}
	return t.Format("2006-01-02"), nil
}

// Catalog resolves requested service ids against the active salon catalog.
type Catalog interface {
	GetActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Service, error)
}

// Notifier delivers booking confirmations and reminders. Delivery is
// best-effort; a failed notification never fails the booking.
type Notifier interface {
	SendConfirmation(ctx context.Context, appt Appointment)
	SendReminder(ctx context.Context, appt Appointment)
}

type Service struct {
	repo     Repository
	catalog  Catalog
	locker   redisclient.Locker
	notifier Notifier
	metrics  *Metrics
	log      *zap.Logger
}

func NewService(repo Repository, cat Catalog, locker redisclient.Locker, notifier Notifier, metrics *Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		catalog:  cat,
		locker:   locker,
		notifier: notifier,
		metrics:  metrics,
		log:      log,
	}
}

// CreateAppointment books a set of services for a client under a specialist.
// It resolves the services, derives duration/price/end time, and inside the
// per-(specialist, date) schedule lock verifies availability before writing.
// Validation happens before the write; there is nothing to roll back on
// failure.
func (s *Service) CreateAppointment(ctx context.Context, clientID, specialistID uuid.UUID, serviceIDs []uuid.UUID, date, startTime string) (*Appointment, error) {
	if len(serviceIDs) == 0 {
		return nil, ErrNoServicesSelected
	}

	date, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	startMin, err := ParseClock(startTime)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetClientByID(ctx, clientID); err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load client: %w", err)
	}
	if _, err := s.repo.GetSpecialistByID(ctx, specialistID); err != nil {
		if errors.Is(err, ErrSpecialistNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load specialist: %w", err)
	}

	// All-or-nothing resolution; any unknown or inactive id rejects the
	// booking. Request order is preserved in the snapshot lines.
	services, err := s.catalog.GetActiveByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]ServiceLine, 0, len(services))
	totalDuration := 0
	var totalPrice int64
	for _, svc := range services {
		lines = append(lines, ServiceLine{
			ServiceID: svc.ID,
			Name:      svc.Name,
			Price:     svc.Price,
			Duration:  svc.Duration,
		})
		totalDuration += svc.Duration
		totalPrice += svc.Price
	}

	endMin := startMin + totalDuration

	candidate := &Appointment{
		ClientID:      clientID,
		SpecialistID:  specialistID,
		ServiceLines:  lines,
		Date:          date,
		StartTime:     FormatClock(startMin),
		EndTime:       FormatClock(endMin),
		TotalDuration: totalDuration,
		TotalPrice:    totalPrice,
		Status:        StatusScheduled,
	}

	var created *Appointment

	err = s.locker.WithScheduleLock(ctx, specialistID, date, func(lockCtx context.Context) error {
		if err := s.checkAvailability(lockCtx, specialistID, date, startMin, endMin, uuid.Nil); err != nil {
			return err
		}

		appt, err := s.repo.CreateAppointment(lockCtx, candidate)
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt
		return nil
	})
	if err != nil {
		return nil, s.mapScheduleErr(err)
	}

	s.metrics.ObserveBooking("created")
	s.log.Info("appointment created",
		zap.String("appointment_id", created.ID.String()),
		zap.String("specialist_id", specialistID.String()),
		zap.String("date", date),
		zap.String("start", created.StartTime),
		zap.String("end", created.EndTime),
	)

	if s.notifier != nil {
		s.notifier.SendConfirmation(ctx, *created)
	}

	return created, nil
}

// Reschedule moves an appointment to a new date/start. The service selection
// is untouched: the end time is recomputed from the existing total duration,
// and the availability check skips the appointment's own id so it cannot
// conflict with the slot it is vacating.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newDate, newStartTime string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status == StatusCancelled {
		// A cancelled appointment is gone from scheduling's point of view.
		return nil, ErrAppointmentNotFound
	}

	newDate, err = ParseDate(newDate)
	if err != nil {
		return nil, err
	}
	startMin, err := ParseClock(newStartTime)
	if err != nil {
		return nil, err
	}
	endMin := startMin + appt.TotalDuration

	var updated *Appointment

	err = s.locker.WithScheduleLock(ctx, appt.SpecialistID, newDate, func(lockCtx context.Context) error {
		if err := s.checkAvailability(lockCtx, appt.SpecialistID, newDate, startMin, endMin, appt.ID); err != nil {
			return err
		}

		u, err := s.repo.UpdateSchedule(lockCtx, appt.ID, newDate, FormatClock(startMin), FormatClock(endMin))
		if err != nil {
			return fmt.Errorf("update schedule: %w", err)
		}

		updated = u
		return nil
	})
	if err != nil {
		return nil, s.mapScheduleErr(err)
	}

	s.metrics.ObserveBooking("rescheduled")
	s.log.Info("appointment rescheduled",
		zap.String("appointment_id", id.String()),
		zap.String("date", newDate),
		zap.String("start", updated.StartTime),
	)

	return updated, nil
}

// Cancel transitions an appointment to cancelled, permanently freeing its
// slot. Terminal states admit no transition, so cancelling twice fails.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, StatusCancelled)
}

// Finalize marks an appointment completed. A preceding in-progress state is
// not required; walk-through completion straight from scheduled is valid.
func (s *Service) Finalize(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, StatusCompleted)
}

// Start marks a scheduled appointment as in progress.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != StatusScheduled {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, StatusScheduled, StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("start appointment: %w", err)
	}

	s.metrics.ObserveBooking("started")
	return updated, nil
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, appt.Status, to)
	if err != nil {
		return nil, fmt.Errorf("transition appointment to %s: %w", to, err)
	}

	s.metrics.ObserveBooking(string(to))
	s.log.Info("appointment status changed",
		zap.String("appointment_id", id.String()),
		zap.String("status", string(to)),
	)

	return updated, nil
}

// GetAppointment loads one appointment by id.
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

// DaySchedule returns one specialist's appointments for a date, ordered by
// start time. This is the same read the availability check runs on.
func (s *Service) DaySchedule(ctx context.Context, specialistID uuid.UUID, date string) ([]Appointment, error) {
	date, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.repo.ListBySpecialistAndDate(ctx, specialistID, date)
}

// AppointmentsOfDay returns every specialist's appointments for a date.
func (s *Service) AppointmentsOfDay(ctx context.Context, date string) ([]Appointment, error) {
	date, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByDate(ctx, date)
}

// ListAppointments pages through the whole book, newest day first.
func (s *Service) ListAppointments(ctx context.Context, limit, offset int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// SendDueReminders notifies every scheduled appointment on the given date
// that has not yet been reminded. Called periodically by the reminder worker.
func (s *Service) SendDueReminders(ctx context.Context, date string) (int, error) {
	due, err := s.repo.FindReminderDue(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("find reminders due: %w", err)
	}

	sent := 0
	for _, appt := range due {
		if s.notifier != nil {
			s.notifier.SendReminder(ctx, appt)
		}
		if err := s.repo.MarkReminderSent(ctx, appt.ID); err != nil {
			s.log.Warn("failed to mark reminder sent",
				zap.String("appointment_id", appt.ID.String()),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	return sent, nil
}

func (s *Service) mapScheduleErr(err error) error {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		s.metrics.ObserveBooking("conflict")
		return err
	case errors.Is(err, redisclient.ErrLockNotAcquired):
		s.metrics.ObserveBooking("lock_busy")
		return ErrScheduleBusy
	default:
		return err
	}
}
