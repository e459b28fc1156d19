package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bellacita/salon-api/internal/catalog"
)

func createServiceHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if msg, ok := validateServiceRequest(req); !ok {
			writeError(w, http.StatusBadRequest, "invalid_service", msg)
			return
		}

		svc, err := repo.Create(r.Context(), &catalog.Service{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Duration:    req.Duration,
		})
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toServiceResponse(svc))
	}
}

func updateServiceHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req ServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if msg, ok := validateServiceRequest(req); !ok {
			writeError(w, http.StatusBadRequest, "invalid_service", msg)
			return
		}

		active := true
		if req.Active != nil {
			active = *req.Active
		}

		svc, err := repo.Update(r.Context(), &catalog.Service{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Duration:    req.Duration,
			Active:      active,
		})
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toServiceResponse(svc))
	}
}

func deactivateServiceHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		svc, err := repo.Deactivate(r.Context(), id)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toServiceResponse(svc))
	}
}

func getServiceHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		svc, err := repo.GetByID(r.Context(), id)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toServiceResponse(svc))
	}
}

func listServicesHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive := r.URL.Query().Get("include_inactive") == "true"

		services, err := repo.List(r.Context(), includeInactive)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		out := make([]ServiceResponse, 0, len(services))
		for i := range services {
			out = append(out, toServiceResponse(&services[i]))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func validateServiceRequest(req ServiceRequest) (string, bool) {
	switch {
	case req.Name == "":
		return "name is required", false
	case req.Category == "":
		return "category is required", false
	case req.Price < 0:
		return "price must not be negative", false
	case req.Duration <= 0:
		return "duration must be a positive number of minutes", false
	}
	return "", true
}

func handleCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
