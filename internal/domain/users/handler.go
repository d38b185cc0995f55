package users

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
	r.Route("/me/profile", func(pr chi.Router) {
		pr.Get("/", getMyProfileHandler(svc))
		pr.Put("/", upsertMyProfileHandler(svc))
	})

	// Búsqueda de destinatario para cambio de dueño (?cin= o ?email=)
	r.Get("/users/search", searchUserHandler(svc))
}

type profileRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	CIN      string `json:"cin"`
	Address  string `json:"address"`
	Mobile   string `json:"mobile"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CIN       string    `json:"cin"`
	Address   string    `json:"address,omitempty"`
	Mobile    string    `json:"mobile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func upsertMyProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req profileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// El email del token manda si vino en los claims.
		email := req.Email
		if strings.TrimSpace(claims.Email) != "" {
			email = claims.Email
		}

		u, err := svc.UpsertProfile(r.Context(), claims.UserID, ProfileInput{
			Email:    email,
			FullName: req.FullName,
			CIN:      req.CIN,
			Address:  req.Address,
			Mobile:   req.Mobile,
		})
		if err != nil {
			writeUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func getMyProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func searchUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			u   User
			err error
		)
		switch {
		case strings.TrimSpace(r.URL.Query().Get("cin")) != "":
			u, err = svc.FindByCIN(r.Context(), r.URL.Query().Get("cin"))
		case strings.TrimSpace(r.URL.Query().Get("email")) != "":
			u, err = svc.FindByEmail(r.Context(), r.URL.Query().Get("email"))
		default:
			http.Error(w, "cin or email query param required", http.StatusBadRequest)
			return
		}
		if err != nil {
			writeUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CIN:       u.CIN,
		Address:   u.Address,
		Mobile:    u.Mobile,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo,
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
