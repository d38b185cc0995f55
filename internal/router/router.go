package router

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	mem "animal-registry/internal/adapters/storage/memory"
	pg "animal-registry/internal/adapters/storage/postgres"
	"animal-registry/internal/domain/animals"
	"animal-registry/internal/domain/medical"
	"animal-registry/internal/domain/notifications"
	"animal-registry/internal/domain/transfers"
	"animal-registry/internal/domain/users"
	"animal-registry/internal/middleware"
	"animal-registry/internal/ports/auth"
	"animal-registry/internal/ports/ocr"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "animal-registry/docs" // registro swagger
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Debug-User-ID)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: backend OCR de cédulas. Sin esto /ocr/id-card responde 503.
	IDCardScanner ocr.IDCardScanner
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		animalRepo   animals.Repository
		transferRepo transfers.Repository
		userRepo     users.Repository
		medicalRepo  medical.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		animalRepo = pg.NewAnimalsRepo(db)
		transferRepo = pg.NewTransfersRepo(db)
		userRepo = pg.NewUsersRepo(db)
		medicalRepo = pg.NewMedicalRepo(db)
	} else {
		// En memoria los repos de animales y transferencias comparten el
		// lock para que la transición aceptar (status + dueño) sea atómica.
		animalMem := mem.NewAnimalRepo()
		animalRepo = animalMem
		transferRepo = mem.NewTransferRepo(animalMem)
		userRepo = mem.NewUserRepo()
		medicalRepo = mem.NewMedicalRepo()
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalRepo)
	transfersSvc := transfers.NewService(transferRepo, animalsSvc)
	usersSvc := users.NewService(userRepo)
	medicalSvc := medical.NewService(medicalRepo, animalsSvc)
	notificationsSvc := notifications.NewService(transfersSvc)

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc)
	transfers.RegisterRoutes(r, transfersSvc)
	users.RegisterRoutes(r, usersSvc)
	medical.RegisterRoutes(r, medicalSvc)
	notifications.RegisterRoutes(r, notificationsSvc)

	r.Post("/ocr/id-card", scanIDCardHandler(opts.IDCardScanner))

	return r
}

type scanIDCardRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type scanIDCardResponse struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	CIN       string `json:"cin"`
}

// scanIDCardHandler pasa la foto de la cédula al backend OCR y devuelve el
// CIN extraído, listo para /users/search?cin=.
func scanIDCardHandler(scanner ocr.IDCardScanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if scanner == nil {
			http.Error(w, "ocr backend not configured", http.StatusServiceUnavailable)
			return
		}

		var req scanIDCardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		img, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil || len(img) == 0 {
			http.Error(w, "image_base64 required", http.StatusBadRequest)
			return
		}

		card, err := scanner.Scan(r.Context(), img)
		if err != nil {
			http.Error(w, "ocr failed", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(scanIDCardResponse{
			FirstName: card.FirstName,
			LastName:  card.LastName,
			CIN:       card.CIN,
		})
	}
}
