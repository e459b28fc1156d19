package api

import (
	"net/http"
	"strconv"

	"github.com/bellacita/salon-api/internal/booking"
	"github.com/bellacita/salon-api/internal/reports"
)

// dateRange pulls a validated from/to pair out of the query string.
func dateRange(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	from, err := booking.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD")
		return "", "", false
	}
	to, err := booking.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD")
		return "", "", false
	}
	return from, to, true
}

func salesReportHandler(repo *reports.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, ok := dateRange(w, r)
		if !ok {
			return
		}

		report, err := repo.Sales(r.Context(), from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func appointmentVolumeHandler(repo *reports.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, ok := dateRange(w, r)
		if !ok {
			return
		}

		volume, err := repo.AppointmentVolume(r.Context(), from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, volume)
	}
}

func topServicesHandler(repo *reports.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		top, err := repo.TopServices(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, top)
	}
}

func frequentClientsHandler(repo *reports.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		frequent, err := repo.FrequentClients(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, frequent)
	}
}
