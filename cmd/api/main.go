package main

import (
	"net/http"
	"os"
	"time"

	"animal-registry/internal/adapters/auth/gotrue"
	"animal-registry/internal/adapters/ocr/cinscan"
	"animal-registry/internal/platform/logger"
	"animal-registry/internal/ports/auth"
	"animal-registry/internal/ports/ocr"
	"animal-registry/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env opcional para dev; en deploy las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var verifier auth.AuthVerifier
	if idpURL := os.Getenv("IDP_URL"); idpURL != "" {
		client, err := gotrue.NewClient(gotrue.Config{
			BaseURL: idpURL,
			APIKey:  os.Getenv("IDP_API_KEY"),
			Timeout: 5 * time.Second,
		})
		if err != nil {
			log.Error("invalid IDP_URL", logger.Fields{"err": err.Error()})
			os.Exit(1)
		}
		verifier = gotrue.NewVerifier(client)
	} else {
		log.Warn("IDP_URL not set, running in dev auth mode", nil)
	}

	var scanner ocr.IDCardScanner
	if ocrURL := os.Getenv("OCR_URL"); ocrURL != "" {
		client, err := cinscan.NewClient(cinscan.Config{
			BaseURL: ocrURL,
			Timeout: 15 * time.Second, // el OCR es lento con fotos grandes
		})
		if err != nil {
			log.Error("invalid OCR_URL", logger.Fields{"err": err.Error()})
			os.Exit(1)
		}
		scanner = client
	}

	r := router.NewRouter(router.Options{
		AuthVerifier:  verifier,
		IDCardScanner: scanner,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", logger.Fields{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", logger.Fields{"err": err.Error()})
		os.Exit(1)
	}
}
