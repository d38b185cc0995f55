package animals

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
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", registerAnimalHandler(svc))
		ar.Get("/", listMyAnimalsHandler(svc))

		// Lookup por tag NFC (escaneo de collar)
		ar.Get("/nfc/{nfcID}", getByNfcHandler(svc))

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", updateAnimalHandler(svc))

		// Estado perdido/encontrado (solo dueño)
		ar.Post("/{animalID}/lost", markAsLostHandler(svc))
		ar.Post("/{animalID}/found", markAsFoundHandler(svc))
	})

	// Vista pública de perdidos
	r.Get("/lost-animals", listLostHandler(svc))
}

type registerAnimalRequest struct {
	NfcID      string `json:"nfc_id"`
	Name       string `json:"name"`
	Race       string `json:"race"`
	Gender     string `json:"gender"`
	Birthdate  string `json:"birthdate"` // YYYY-MM-DD opcional
	Birthplace string `json:"birthplace"`
	ImageURL   string `json:"image_url"`
	Notes      string `json:"notes"`
}

type updateAnimalRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name       *string `json:"name"`
	Race       *string `json:"race"`
	Gender     *string `json:"gender"`
	Birthdate  *string `json:"birthdate"` // YYYY-MM-DD o null para limpiar
	Birthplace *string `json:"birthplace"`
	ImageURL   *string `json:"image_url"`
	Notes      *string `json:"notes"`
}

type markAsLostRequest struct {
	Notes string `json:"notes"`
}

type animalResponse struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	NfcID       string     `json:"nfc_id"`
	Name        string     `json:"name"`
	Race        string     `json:"race"`
	Gender      Gender     `json:"gender"`
	Birthdate   *time.Time `json:"birthdate,omitempty"`
	Birthplace  string     `json:"birthplace,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	IsLost      bool       `json:"is_lost"`
	LostSince   *time.Time `json:"lost_since,omitempty"`
	LostNotes   string     `json:"lost_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func registerAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req registerAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.Birthdate) != "" {
			t, err := time.Parse("2006-01-02", req.Birthdate)
			if err != nil {
				http.Error(w, "birthdate must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		a, err := svc.Register(r.Context(), claims.UserID, RegisterInput{
			NfcID:      req.NfcID,
			Name:       req.Name,
			Race:       req.Race,
			Gender:     req.Gender,
			Birthdate:  bd,
			Birthplace: req.Birthplace,
			ImageURL:   req.ImageURL,
			Notes:      req.Notes,
		})
		if err != nil {
			writeAnimalError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func listMyAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeAnimalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func getByNfcHandler(svc *Service) http.HandlerFunc {
	// Sin auth: el caso de uso es alguien que encontró al animal y escanea
	// el collar.
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.FindByNfc(r.Context(), chi.URLParam(r, "nfcID"))
		if err != nil {
			writeAnimalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		// Para soportar "birthdate": null (limpiar) hay que detectar la
		// presencia del campo, no solo su valor.
		var raw map[string]json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateAnimalRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		in := UpdateProfileInput{
			Name:       req.Name,
			Race:       req.Race,
			Gender:     req.Gender,
			Birthplace: req.Birthplace,
			ImageURL:   req.ImageURL,
			Notes:      req.Notes,
		}

		if v, exists := raw["birthdate"]; exists {
			if string(v) == "null" {
				in.ClearBirth = true
			} else if req.Birthdate != nil {
				t, err := time.Parse("2006-01-02", *req.Birthdate)
				if err != nil {
					http.Error(w, "birthdate must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				in.Birthdate = &t
			}
		}

		a, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, in)
		if err != nil {
			writeAnimalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func markAsLostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Body opcional: sin body = perdido sin notas.
		var req markAsLostRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		a, err := svc.MarkAsLost(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, req.Notes)
		if err != nil {
			writeAnimalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func markAsFoundHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.MarkAsFound(r.Context(), chi.URLParam(r, "animalID"), claims.UserID)
		if err != nil {
			writeAnimalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func listLostHandler(svc *Service) http.HandlerFunc {
	// Público: la lista de perdidos es justamente para que cualquiera mire.
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListLost(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

func writeAnimalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	case errors.Is(err, ErrNotOwner):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNfcInUse):
		http.Error(w, "nfc tag already registered", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:          a.ID,
		OwnerUserID: a.OwnerUserID,
		NfcID:       a.NfcID,
		Name:        a.Name,
		Race:        a.Race,
		Gender:      a.Gender,
		Birthdate:   a.Birthdate,
		Birthplace:  a.Birthplace,
		ImageURL:    a.ImageURL,
		Notes:       a.Notes,
		IsLost:      a.IsLost,
		LostSince:   a.LostSince,
		LostNotes:   a.LostNotes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAnimalResponses(items []Animal) []animalResponse {
	out := make([]animalResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAnimalResponse(a))
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
