package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bellacita/salon-api/internal/catalog"
	redisclient "github.com/bellacita/salon-api/internal/redis"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	mu           sync.Mutex
	clients      map[uuid.UUID]Client
	specialists  map[uuid.UUID]Specialist
	appointments map[uuid.UUID]Appointment
}

func newMemRepo() *memRepo {
	return &memRepo{
		clients:      make(map[uuid.UUID]Client),
		specialists:  make(map[uuid.UUID]Specialist),
		appointments: make(map[uuid.UUID]Appointment),
	}
}

func (r *memRepo) addClient() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.clients[id] = Client{ID: id, FirstName: "Test", LastName: "Client"}
	return id
}

func (r *memRepo) addSpecialist() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.specialists[id] = Specialist{ID: id, Name: "Test Specialist"}
	return id
}

func (r *memRepo) GetClientByID(_ context.Context, id uuid.UUID) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	return &c, nil
}

func (r *memRepo) GetSpecialistByID(_ context.Context, id uuid.UUID) (*Specialist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.specialists[id]
	if !ok {
		return nil, ErrSpecialistNotFound
	}
	return &s, nil
}

func (r *memRepo) GetSpecialistByEmail(_ context.Context, email string) (*Specialist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.specialists {
		if s.Email == email {
			return &s, nil
		}
	}
	return nil, ErrSpecialistNotFound
}

func (r *memRepo) ListBySpecialistAndDate(_ context.Context, specialistID uuid.UUID, date string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Appointment
	for _, a := range r.appointments {
		if a.SpecialistID == specialistID && a.Date == date {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (r *memRepo) ListByDate(_ context.Context, date string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Appointment
	for _, a := range r.appointments {
		if a.Date == date {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Appointment
	for _, a := range r.appointments {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].StartTime < result[j].StartTime
	})
	if offset > len(result) {
		offset = len(result)
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

func (r *memRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *memRepo) CreateAppointment(_ context.Context, appt *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *appt
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.appointments[stored.ID] = stored
	return &stored, nil
}

func (r *memRepo) UpdateSchedule(_ context.Context, id uuid.UUID, date, startTime, endTime string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.Date = date
	a.StartTime = startTime
	a.EndTime = endTime
	a.Status = StatusScheduled
	a.UpdatedAt = time.Now()
	r.appointments[id] = a
	return &a, nil
}

func (r *memRepo) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, from, to Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	r.appointments[id] = a
	return &a, nil
}

func (r *memRepo) FindReminderDue(_ context.Context, date string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Appointment
	for _, a := range r.appointments {
		if a.Date == date && a.Status == StatusScheduled && !a.ReminderSent {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (r *memRepo) MarkReminderSent(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	a.ReminderSent = true
	r.appointments[id] = a
	return nil
}

func (r *memRepo) CreateClient(_ context.Context, c *Client) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *c
	stored.ID = uuid.New()
	r.clients[stored.ID] = stored
	return &stored, nil
}

func (r *memRepo) UpdateClient(_ context.Context, c *Client) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.ID]; !ok {
		return nil, ErrClientNotFound
	}
	r.clients[c.ID] = *c
	return c, nil
}

func (r *memRepo) DeleteClient(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return ErrClientNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *memRepo) ListClients(_ context.Context) ([]Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Client
	for _, c := range r.clients {
		result = append(result, c)
	}
	return result, nil
}

// passLocker runs the critical section inline, like an uncontended lock.
type passLocker struct {
	calls int
}

func (l *passLocker) WithScheduleLock(ctx context.Context, _ uuid.UUID, _ string, fn func(ctx context.Context) error) error {
	l.calls++
	return fn(ctx)
}

// busyLocker simulates a lock held elsewhere past the bounded wait.
type busyLocker struct{}

func (busyLocker) WithScheduleLock(context.Context, uuid.UUID, string, func(ctx context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

// memCatalog resolves services the way the pg repository does: request
// order preserved, all-or-nothing.
type memCatalog struct {
	services map[uuid.UUID]catalog.Service
}

func newMemCatalog() *memCatalog {
	return &memCatalog{services: make(map[uuid.UUID]catalog.Service)}
}

func (c *memCatalog) add(name string, price int64, duration int) uuid.UUID {
	id := uuid.New()
	c.services[id] = catalog.Service{
		ID:       id,
		Name:     name,
		Price:    price,
		Duration: duration,
		Active:   true,
	}
	return id
}

func (c *memCatalog) GetActiveByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Service, error) {
	result := make([]catalog.Service, 0, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		svc, ok := c.services[id]
		if !ok || !svc.Active {
			missing = append(missing, id)
			continue
		}
		result = append(result, svc)
	}
	if len(missing) > 0 {
		return nil, &catalog.UnknownServiceError{IDs: missing}
	}
	return result, nil
}

// recordingNotifier captures what was sent.
type recordingNotifier struct {
	confirmations []uuid.UUID
	reminders     []uuid.UUID
}

func (n *recordingNotifier) SendConfirmation(_ context.Context, appt Appointment) {
	n.confirmations = append(n.confirmations, appt.ID)
}

func (n *recordingNotifier) SendReminder(_ context.Context, appt Appointment) {
	n.reminders = append(n.reminders, appt.ID)
}
