package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bellacita/salon-api/internal/booking"
)

func createClientHandler(repo booking.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if msg, ok := validateClientRequest(req); !ok {
			writeError(w, http.StatusBadRequest, "invalid_client", msg)
			return
		}

		client, err := repo.CreateClient(r.Context(), &booking.Client{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Alias:     req.Alias,
			Document:  req.Document,
			Phone:     req.Phone,
			Email:     req.Email,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, toClientResponse(client))
	}
}

func updateClientHandler(repo booking.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req ClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if msg, ok := validateClientRequest(req); !ok {
			writeError(w, http.StatusBadRequest, "invalid_client", msg)
			return
		}

		client, err := repo.UpdateClient(r.Context(), &booking.Client{
			ID:        id,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Alias:     req.Alias,
			Document:  req.Document,
			Phone:     req.Phone,
			Email:     req.Email,
		})
		if err != nil {
			handleClientError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toClientResponse(client))
	}
}

func deleteClientHandler(repo booking.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		if err := repo.DeleteClient(r.Context(), id); err != nil {
			handleClientError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func getClientHandler(repo booking.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		client, err := repo.GetClientByID(r.Context(), id)
		if err != nil {
			handleClientError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toClientResponse(client))
	}
}

func listClientsHandler(repo booking.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients, err := repo.ListClients(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]ClientResponse, 0, len(clients))
		for i := range clients {
			out = append(out, toClientResponse(&clients[i]))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func validateClientRequest(req ClientRequest) (string, bool) {
	switch {
	case req.FirstName == "":
		return "first_name is required", false
	case req.LastName == "":
		return "last_name is required", false
	case req.Document == "":
		return "document is required", false
	case req.Phone == "":
		return "phone is required", false
	}
	return "", true
}

func handleClientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
