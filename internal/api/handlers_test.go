package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellacita/salon-api/internal/auth"
	"github.com/bellacita/salon-api/internal/booking"
	"github.com/bellacita/salon-api/internal/catalog"
	"github.com/bellacita/salon-api/internal/payments"
)

const testSecret = "handler-test-secret"

// stubRepo backs the router with in-memory state so the full request path,
// middleware included, can be exercised without Postgres.
type stubRepo struct {
	mu           sync.Mutex
	clients      map[uuid.UUID]booking.Client
	specialists  map[uuid.UUID]booking.Specialist
	appointments map[uuid.UUID]booking.Appointment
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		clients:      make(map[uuid.UUID]booking.Client),
		specialists:  make(map[uuid.UUID]booking.Specialist),
		appointments: make(map[uuid.UUID]booking.Appointment),
	}
}

func (r *stubRepo) GetClientByID(_ context.Context, id uuid.UUID) (*booking.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, booking.ErrClientNotFound
	}
	return &c, nil
}

func (r *stubRepo) GetSpecialistByID(_ context.Context, id uuid.UUID) (*booking.Specialist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.specialists[id]
	if !ok {
		return nil, booking.ErrSpecialistNotFound
	}
	return &s, nil
}

func (r *stubRepo) GetSpecialistByEmail(_ context.Context, email string) (*booking.Specialist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.specialists {
		if s.Email == email {
			return &s, nil
		}
	}
	return nil, booking.ErrSpecialistNotFound
}

func (r *stubRepo) ListBySpecialistAndDate(_ context.Context, specialistID uuid.UUID, date string) ([]booking.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []booking.Appointment
	for _, a := range r.appointments {
		if a.SpecialistID == specialistID && a.Date == date {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (r *stubRepo) ListByDate(_ context.Context, date string) ([]booking.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []booking.Appointment
	for _, a := range r.appointments {
		if a.Date == date {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (r *stubRepo) List(_ context.Context, limit, offset int) ([]booking.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []booking.Appointment
	for _, a := range r.appointments {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	if offset > len(result) {
		offset = len(result)
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

func (r *stubRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*booking.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, booking.ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *stubRepo) CreateAppointment(_ context.Context, appt *booking.Appointment) (*booking.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *appt
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.appointments[stored.ID] = stored
	return &stored, nil
}

func (r *stubRepo) UpdateSchedule(_ context.Context, id uuid.UUID, date, startTime, endTime string) (*booking.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, booking.ErrAppointmentNotFound
	}
	a.Date = date
	a.StartTime = startTime
	a.EndTime = endTime
	a.Status = booking.StatusScheduled
	a.UpdatedAt = time.Now()
	r.appointments[id] = a
	return &a, nil
}

func (r *stubRepo) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, from, to booking.Status) (*booking.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return nil, booking.ErrAppointmentNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	r.appointments[id] = a
	return &a, nil
}

func (r *stubRepo) FindReminderDue(_ context.Context, date string) ([]booking.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []booking.Appointment
	for _, a := range r.appointments {
		if a.Date == date && a.Status == booking.StatusScheduled && !a.ReminderSent {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *stubRepo) MarkReminderSent(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return booking.ErrAppointmentNotFound
	}
	a.ReminderSent = true
	r.appointments[id] = a
	return nil
}

func (r *stubRepo) CreateClient(_ context.Context, c *booking.Client) (*booking.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *c
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.clients[stored.ID] = stored
	return &stored, nil
}

func (r *stubRepo) UpdateClient(_ context.Context, c *booking.Client) (*booking.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.ID]; !ok {
		return nil, booking.ErrClientNotFound
	}
	r.clients[c.ID] = *c
	return c, nil
}

func (r *stubRepo) DeleteClient(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return booking.ErrClientNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *stubRepo) ListClients(_ context.Context) ([]booking.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []booking.Client
	for _, c := range r.clients {
		result = append(result, c)
	}
	return result, nil
}

type stubCatalog struct {
	services map[uuid.UUID]catalog.Service
}

func (c *stubCatalog) GetActiveByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Service, error) {
	result := make([]catalog.Service, 0, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		svc, ok := c.services[id]
		if !ok {
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

type inlineLocker struct{}

func (inlineLocker) WithScheduleLock(ctx context.Context, _ uuid.UUID, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubPaymentRepo struct {
	payments []payments.Payment
}

func (m *stubPaymentRepo) Insert(_ context.Context, p *payments.Payment) (*payments.Payment, error) {
	stored := *p
	stored.ID = uuid.New()
	stored.PaidAt = time.Now()
	m.payments = append(m.payments, stored)
	return &stored, nil
}

func (m *stubPaymentRepo) List(context.Context) ([]payments.Payment, error) {
	return m.payments, nil
}

func (m *stubPaymentRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]payments.Payment, error) {
	var result []payments.Payment
	for _, p := range m.payments {
		if p.ClientID == clientID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *stubPaymentRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*payments.Payment, error) {
	for _, p := range m.payments {
		if p.AppointmentID == appointmentID {
			return &p, nil
		}
	}
	return nil, payments.ErrPaymentNotFound
}

type testEnv struct {
	router     http.Handler
	token      string
	clientID   uuid.UUID
	specialist uuid.UUID
	manicure   uuid.UUID
	pedicure   uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newStubRepo()

	hash, err := auth.HashPassword("test-password")
	require.NoError(t, err)

	specialistID := uuid.New()
	repo.specialists[specialistID] = booking.Specialist{
		ID:           specialistID,
		Name:         "Valentina",
		Email:        "valentina@example.com",
		PasswordHash: hash,
	}

	clientID := uuid.New()
	repo.clients[clientID] = booking.Client{ID: clientID, FirstName: "Laura", LastName: "Gomez"}

	manicureID := uuid.New()
	pedicureID := uuid.New()
	cat := &stubCatalog{services: map[uuid.UUID]catalog.Service{
		manicureID: {ID: manicureID, Name: "Manicure", Price: 25000, Duration: 40, Active: true},
		pedicureID: {ID: pedicureID, Name: "Pedicure Spa", Price: 35000, Duration: 60, Active: true},
	}}

	bookings := booking.NewService(repo, cat, inlineLocker{}, nil, nil, nil)
	paymentsSvc := payments.NewService(&stubPaymentRepo{}, bookings, nil)
	authSvc := auth.NewService(repo, testSecret, time.Hour, nil)

	router := NewRouter(RouterConfig{
		Bookings:    bookings,
		BookingRepo: repo,
		Payments:    paymentsSvc,
		Auth:        authSvc,
		JWTSecret:   testSecret,
	})

	env := &testEnv{
		router:     router,
		clientID:   clientID,
		specialist: specialistID,
		manicure:   manicureID,
		pedicure:   pedicureID,
	}
	env.token = env.login(t, "valentina@example.com", "test-password")
	return env
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code)

	var out LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createAppointment(t *testing.T, start string, serviceIDs ...uuid.UUID) AppointmentResponse {
	t.Helper()

	ids := make([]string, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		ids = append(ids, id.String())
	}

	rec := e.do(t, http.MethodPost, "/api/v1/appointments", e.token, CreateAppointmentRequest{
		ClientID:     e.clientID.String(),
		SpecialistID: e.specialist.String(),
		ServiceIDs:   ids,
		Date:         "2025-01-10",
		StartTime:    start,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Email:    "valentina@example.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "valentina@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointmentRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/appointments?date=2025-01-10", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	env := newTestEnv(t)

	appt := env.createAppointment(t, "09:00", env.manicure, env.pedicure)

	assert.Equal(t, "09:00", appt.StartTime)
	assert.Equal(t, "10:40", appt.EndTime)
	assert.Equal(t, 100, appt.TotalDuration)
	assert.Equal(t, int64(60000), appt.TotalPrice)
	assert.Equal(t, "scheduled", appt.Status)
	require.Len(t, appt.ServiceLines, 2)
	assert.Equal(t, "Manicure", appt.ServiceLines[0].Name)
}

func TestCreateAppointmentEndpointValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("malformed uuid", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/appointments", env.token, CreateAppointmentRequest{
			ClientID:     "not-a-uuid",
			SpecialistID: env.specialist.String(),
			ServiceIDs:   []string{env.manicure.String()},
			Date:         "2025-01-10",
			StartTime:    "09:00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown service", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/appointments", env.token, CreateAppointmentRequest{
			ClientID:     env.clientID.String(),
			SpecialistID: env.specialist.String(),
			ServiceIDs:   []string{uuid.NewString()},
			Date:         "2025-01-10",
			StartTime:    "09:00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var out ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, "unknown_services", out.Error)
	})

	t.Run("unknown client", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/appointments", env.token, CreateAppointmentRequest{
			ClientID:     uuid.NewString(),
			SpecialistID: env.specialist.String(),
			ServiceIDs:   []string{env.manicure.String()},
			Date:         "2025-01-10",
			StartTime:    "09:00",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad start time", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/appointments", env.token, CreateAppointmentRequest{
			ClientID:     env.clientID.String(),
			SpecialistID: env.specialist.String(),
			ServiceIDs:   []string{env.manicure.String()},
			Date:         "2025-01-10",
			StartTime:    "9am",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateAppointmentConflictPayload(t *testing.T) {
	env := newTestEnv(t)
	env.createAppointment(t, "09:00", env.manicure, env.pedicure) // occupies 09:00 - 10:40

	rec := env.do(t, http.MethodPost, "/api/v1/appointments", env.token, CreateAppointmentRequest{
		ClientID:     env.clientID.String(),
		SpecialistID: env.specialist.String(),
		ServiceIDs:   []string{env.manicure.String()},
		Date:         "2025-01-10",
		StartTime:    "10:00",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	var out ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "schedule_conflict", out.Error)
	assert.Equal(t, "09:00", out.StartTime)
	assert.Equal(t, "10:40", out.EndTime)
}

func TestAppointmentLifecycleEndpoints(t *testing.T) {
	env := newTestEnv(t)
	appt := env.createAppointment(t, "09:00", env.manicure)
	base := fmt.Sprintf("/api/v1/appointments/%s", appt.ID)

	rec := env.do(t, http.MethodPut, base+"/start", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "in_progress", out.Status)

	rec = env.do(t, http.MethodPut, base+"/finalize", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "completed", out.Status)

	// Terminal state: further transitions are 409s.
	rec = env.do(t, http.MethodPut, base+"/cancel", env.token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var errOut ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errOut))
	assert.Equal(t, "invalid_status_transition", errOut.Error)
}

func TestRescheduleEndpoint(t *testing.T) {
	env := newTestEnv(t)
	appt := env.createAppointment(t, "09:00", env.manicure, env.pedicure)

	rec := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/appointments/%s/reschedule", appt.ID), env.token, RescheduleRequest{
		Date:      "2025-01-10",
		StartTime: "11:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "11:00", out.StartTime)
	assert.Equal(t, "12:40", out.EndTime)
	assert.Equal(t, appt.TotalPrice, out.TotalPrice)
}

func TestGetAppointmentEndpoint(t *testing.T) {
	env := newTestEnv(t)
	appt := env.createAppointment(t, "09:00", env.manicure)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/appointments/%s", appt.ID), env.token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/appointments/%s", uuid.New()), env.token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/appointments/not-a-uuid", env.token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAppointmentsBySpecialistAndDate(t *testing.T) {
	env := newTestEnv(t)
	env.createAppointment(t, "13:00", env.manicure)
	env.createAppointment(t, "09:00", env.manicure)

	path := fmt.Sprintf("/api/v1/appointments?specialist_id=%s&date=2025-01-10", env.specialist)
	rec := env.do(t, http.MethodGet, path, env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "09:00", out[0].StartTime)
	assert.Equal(t, "13:00", out[1].StartTime)
}

func TestRegisterPaymentEndpoint(t *testing.T) {
	env := newTestEnv(t)
	appt := env.createAppointment(t, "09:00", env.manicure, env.pedicure)

	rec := env.do(t, http.MethodPost, "/api/v1/payments", env.token, RegisterPaymentRequest{
		AppointmentID: appt.ID.String(),
		ClientID:      env.clientID.String(),
		Method:        "nequi",
		Amount:        60000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out PaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, int64(60000), out.Amount)

	// Paying finalized the appointment.
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/appointments/%s", appt.ID), env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "completed", got.Status)
}

func TestRegisterPaymentAgainstCancelled(t *testing.T) {
	env := newTestEnv(t)
	appt := env.createAppointment(t, "09:00", env.manicure)

	rec := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/appointments/%s/cancel", appt.ID), env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/payments", env.token, RegisterPaymentRequest{
		AppointmentID: appt.ID.String(),
		ClientID:      env.clientID.String(),
		Method:        "cash",
		Amount:        25000,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
