package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bellacita/salon-api/internal/booking"
	"github.com/bellacita/salon-api/internal/catalog"
)

func createAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_client_id", "client_id must be a valid UUID")
			return
		}
		specialistID, err := uuid.Parse(req.SpecialistID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_specialist_id", "specialist_id must be a valid UUID")
			return
		}

		serviceIDs := make([]uuid.UUID, 0, len(req.ServiceIDs))
		for _, raw := range req.ServiceIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_service_id", "service_ids must be valid UUIDs")
				return
			}
			serviceIDs = append(serviceIDs, id)
		}

		appt, err := svc.CreateAppointment(r.Context(), clientID, specialistID, serviceIDs, req.Date, req.StartTime)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func rescheduleAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req RescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.Reschedule(r.Context(), id, req.Date, req.StartTime)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func transitionAppointmentHandler(fn func(r *http.Request, id uuid.UUID) (*booking.Appointment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		appt, err := fn(r, id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func getAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

// listAppointmentsHandler serves three views off the same collection:
// one specialist's day (specialist_id + date), the whole salon's day (date),
// or a paged listing of everything.
func listAppointmentsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		date := q.Get("date")
		rawSpecialist := q.Get("specialist_id")

		var (
			appts []booking.Appointment
			err   error
		)

		switch {
		case rawSpecialist != "" && date != "":
			var specialistID uuid.UUID
			specialistID, err = uuid.Parse(rawSpecialist)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_specialist_id", "specialist_id must be a valid UUID")
				return
			}
			appts, err = svc.DaySchedule(r.Context(), specialistID, date)
		case date != "":
			appts, err = svc.AppointmentsOfDay(r.Context(), date)
		default:
			limit, _ := strconv.Atoi(q.Get("limit"))
			offset, _ := strconv.Atoi(q.Get("offset"))
			appts, err = svc.ListAppointments(r.Context(), limit, offset)
		}
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func handleBookingError(w http.ResponseWriter, err error) {
	var (
		clockErr   *booking.ClockFormatError
		dateErr    *booking.DateFormatError
		unknownSvc *catalog.UnknownServiceError
		conflict   *booking.ConflictError
	)

	switch {
	case errors.As(err, &clockErr):
		writeError(w, http.StatusBadRequest, "invalid_time", clockErr.Error())
	case errors.As(err, &dateErr):
		writeError(w, http.StatusBadRequest, "invalid_date", dateErr.Error())
	case errors.Is(err, booking.ErrNoServicesSelected):
		writeError(w, http.StatusBadRequest, "no_services", err.Error())
	case errors.As(err, &unknownSvc):
		writeError(w, http.StatusBadRequest, "unknown_services", unknownSvc.Error())
	case errors.Is(err, booking.ErrClientNotFound),
		errors.Is(err, booking.ErrSpecialistNotFound),
		errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, ConflictResponse{
			Error:     "schedule_conflict",
			Details:   conflict.Error(),
			StartTime: conflict.StartTime,
			EndTime:   conflict.EndTime,
		})
	case errors.Is(err, booking.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, booking.ErrScheduleBusy):
		writeError(w, http.StatusServiceUnavailable, "schedule_busy", "the specialist's schedule is being modified, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
