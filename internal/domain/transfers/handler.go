package transfers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"animal-registry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Dueño actual: pedir y consultar transferencias de su animal
	r.Route("/animals/{animalID}/transfers", func(tr chi.Router) {
		tr.Post("/", requestTransferHandler(svc))
		tr.Get("/pending", pendingForAnimalHandler(svc))
	})

	// Resoluciones (una sola vez, pending -> terminal)
	r.Route("/transfers/{transferID}", func(tr chi.Router) {
		tr.Post("/accept", resolveHandler(svc, StatusAccepted))
		tr.Post("/reject", resolveHandler(svc, StatusRejected))
		tr.Post("/cancel", resolveHandler(svc, StatusCancelled))
	})

	// Vistas del usuario logueado
	r.Route("/me/transfers", func(mr chi.Router) {
		mr.Get("/incoming", incomingHandler(svc))
		mr.Get("/outgoing", outgoingHandler(svc))
	})
}

type requestTransferRequest struct {
	NewOwnerID string `json:"new_owner_id"`
	Notes      string `json:"notes"`
}

type transferResponse struct {
	ID             string     `json:"id"`
	AnimalID       string     `json:"animal_id"`
	CurrentOwnerID string     `json:"current_owner_id"`
	NewOwnerID     string     `json:"new_owner_id"`
	Status         Status     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	RequestedAt    time.Time  `json:"requested_at"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
}

// resolveResponse: success=false no es un error HTTP, es "otro llegó primero".
type resolveResponse struct {
	Success bool `json:"success"`
}

func requestTransferHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req requestTransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.Request(r.Context(), claims.UserID, RequestInput{
			AnimalID:   chi.URLParam(r, "animalID"),
			NewOwnerID: req.NewOwnerID,
			Notes:      req.Notes,
		})
		if err != nil {
			writeTransferError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toTransferResponse(t))
	}
}

func resolveHandler(svc *Service, to Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		transferID := chi.URLParam(r, "transferID")

		var (
			okResolved bool
			err        error
		)
		switch to {
		case StatusAccepted:
			okResolved, err = svc.Accept(r.Context(), transferID, claims.UserID)
		case StatusRejected:
			okResolved, err = svc.Reject(r.Context(), transferID, claims.UserID)
		case StatusCancelled:
			okResolved, err = svc.Cancel(r.Context(), transferID, claims.UserID)
		default:
			http.Error(w, "invalid transition", http.StatusBadRequest)
			return
		}
		if err != nil {
			writeTransferError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resolveResponse{Success: okResolved})
	}
}

func pendingForAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		t, found, err := svc.PendingForAnimal(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeTransferError(w, err)
			return
		}
		if !found {
			http.Error(w, "no pending transfer", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toTransferResponse(t))
	}
}

func incomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.IncomingPending(r.Context(), claims.UserID)
		if err != nil {
			writeTransferError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toTransferResponses(items))
	}
}

func outgoingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.OutgoingByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeTransferError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toTransferResponses(items))
	}
}

// writeTransferError mapea la taxonomía del dominio a HTTP. Nada de
// "an error occurred" pelado: cada categoría tiene su código.
func writeTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "transfer or animal not found", http.StatusNotFound)
	case errors.Is(err, ErrNotOwner), errors.Is(err, ErrNotAuthorized):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrSelfTransfer):
		http.Error(w, "new owner is already the owner", http.StatusUnprocessableEntity)
	case errors.Is(err, ErrTransferAlreadyPending), errors.Is(err, ErrNotPending):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toTransferResponse(t TransferRequest) transferResponse {
	return transferResponse{
		ID:             t.ID,
		AnimalID:       t.AnimalID,
		CurrentOwnerID: t.CurrentOwnerID,
		NewOwnerID:     t.NewOwnerID,
		Status:         t.Status,
		Notes:          t.Notes,
		RequestedAt:    t.RequestedAt,
		RespondedAt:    t.RespondedAt,
	}
}

func toTransferResponses(items []TransferRequest) []transferResponse {
	out := make([]transferResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTransferResponse(t))
	}
	return out
}

// writeJSON está duplicado a propósito en los handlers de cada módulo,
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
