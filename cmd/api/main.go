package main

import (
	"net/http"
	"os"
	"time"

	"menagerie/internal/platform/logger"
	"menagerie/internal/router"

	"github.com/joho/godotenv"
)

// @title Menagerie API
// @version 1.0
// @description Registro de mascotas y sus eventos de cuidado.
// @BasePath /
func main() {
	// .env local opcional; en deploy las vars vienen del entorno
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{Logger: log})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
