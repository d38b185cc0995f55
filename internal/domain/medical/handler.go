package medical

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"animal-registry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals/{animalID}/medical-events", func(mr chi.Router) {
		mr.Post("/", recordEventHandler(svc))
		mr.Get("/", listEventsHandler(svc))
	})

	r.Post("/medical-events/{eventID}/void", voidEventHandler(svc))
}

type vaccinationDetailPayload struct {
	Vaccine string `json:"vaccine"`
	Dose    string `json:"dose"`
	NextDue string `json:"next_due,omitempty"` // YYYY-MM-DD
}

type recordEventRequest struct {
	Type        string                    `json:"type"`
	OccurredAt  time.Time                 `json:"occurred_at"`
	Title       string                    `json:"title"`
	Notes       string                    `json:"notes"`
	VetName     string                    `json:"vet_name"`
	Clinic      string                    `json:"clinic"`
	Vaccination *vaccinationDetailPayload `json:"vaccination,omitempty"`
}

type eventResponse struct {
	ID          string                    `json:"id"`
	AnimalID    string                    `json:"animal_id"`
	Type        EventType                 `json:"type"`
	OccurredAt  time.Time                 `json:"occurred_at"`
	RecordedAt  time.Time                 `json:"recorded_at"`
	Title       string                    `json:"title,omitempty"`
	Notes       string                    `json:"notes,omitempty"`
	VetName     string                    `json:"vet_name,omitempty"`
	Clinic      string                    `json:"clinic,omitempty"`
	RecordedBy  string                    `json:"recorded_by"`
	Vaccination *vaccinationDetailPayload `json:"vaccination,omitempty"`
	Status      EventStatus               `json:"status"`
}

func recordEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req recordEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := RecordInput{
			Type:       EventType(strings.ToUpper(strings.TrimSpace(req.Type))),
			OccurredAt: req.OccurredAt,
			Title:      req.Title,
			Notes:      req.Notes,
			VetName:    req.VetName,
			Clinic:     req.Clinic,
		}

		if req.Vaccination != nil {
			d := VaccinationDetail{
				Vaccine: req.Vaccination.Vaccine,
				Dose:    req.Vaccination.Dose,
			}
			if strings.TrimSpace(req.Vaccination.NextDue) != "" {
				t, err := time.Parse("2006-01-02", req.Vaccination.NextDue)
				if err != nil {
					http.Error(w, "next_due must be YYYY-MM-DD", http.StatusBadRequest)
					return
				}
				d.NextDue = &t
			}
			in.Vaccination = &d
		}

		e, err := svc.Record(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, in)
		if err != nil {
			writeMedicalError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter := ListFilter{}
		q := r.URL.Query()

		for _, raw := range q["type"] {
			t := EventType(strings.ToUpper(strings.TrimSpace(raw)))
			if !t.Valid() {
				http.Error(w, "invalid type filter", http.StatusBadRequest)
				return
			}
			filter.Types = append(filter.Types, t)
		}
		if v := strings.TrimSpace(q.Get("from")); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "from must be RFC3339", http.StatusBadRequest)
				return
			}
			filter.From = &t
		}
		if v := strings.TrimSpace(q.Get("to")); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "to must be RFC3339", http.StatusBadRequest)
				return
			}
			filter.To = &t
		}
		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			filter.Limit = n
		}

		items, err := svc.ListByAnimal(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, filter)
		if err != nil {
			writeMedicalError(w, err)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func voidEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		e, err := svc.Void(r.Context(), chi.URLParam(r, "eventID"), claims.UserID)
		if err != nil {
			writeMedicalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func writeMedicalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrNotOwner):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toEventResponse(e MedicalEvent) eventResponse {
	out := eventResponse{
		ID:         e.ID,
		AnimalID:   e.AnimalID,
		Type:       e.Type,
		OccurredAt: e.OccurredAt,
		RecordedAt: e.RecordedAt,
		Title:      e.Title,
		Notes:      e.Notes,
		VetName:    e.VetName,
		Clinic:     e.Clinic,
		RecordedBy: e.RecordedBy,
		Status:     e.Status,
	}
	if e.Vaccination != nil {
		p := vaccinationDetailPayload{
			Vaccine: e.Vaccination.Vaccine,
			Dose:    e.Vaccination.Dose,
		}
		if e.Vaccination.NextDue != nil {
			p.NextDue = e.Vaccination.NextDue.Format("2006-01-02")
		}
		out.Vaccination = &p
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
