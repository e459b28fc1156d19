package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/bellacita/salon-api/internal/booking"
	"github.com/bellacita/salon-api/internal/payments"
)

func registerPaymentHandler(svc *payments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appointmentID, err := uuid.Parse(req.AppointmentID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "appointment_id must be a valid UUID")
			return
		}
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_client_id", "client_id must be a valid UUID")
			return
		}

		payment, err := svc.Register(r.Context(), appointmentID, clientID, payments.Method(req.Method), req.Amount)
		if err != nil {
			handlePaymentError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
	}
}

func listPaymentsHandler(svc *payments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]PaymentResponse, 0, len(list))
		for i := range list {
			out = append(out, toPaymentResponse(&list[i]))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func paymentsByClientHandler(svc *payments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		list, err := svc.ListByClient(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]PaymentResponse, 0, len(list))
		for i := range list {
			out = append(out, toPaymentResponse(&list[i]))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func paymentByAppointmentHandler(svc *payments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		payment, err := svc.GetByAppointment(r.Context(), id)
		if err != nil {
			handlePaymentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPaymentResponse(payment))
	}
}

func handlePaymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payments.ErrInvalidMethod),
		errors.Is(err, payments.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid_payment", err.Error())
	case errors.Is(err, payments.ErrNotPayable):
		writeError(w, http.StatusConflict, "appointment_not_payable", err.Error())
	case errors.Is(err, payments.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "payment_not_found", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound),
		errors.Is(err, booking.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
