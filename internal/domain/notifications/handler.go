package notifications

import (
	"encoding/json"
	"net/http"
	"strings"

	"animal-registry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/notifications/transfers", transferBadgeHandler(svc))
}

type transferBadgeResponse struct {
	HasPending   bool `json:"has_pending"`
	PendingCount int  `json:"pending_count"`
}

func transferBadgeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		n, err := svc.PendingCount(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(transferBadgeResponse{
			HasPending:   n > 0,
			PendingCount: n,
		})
	}
}
