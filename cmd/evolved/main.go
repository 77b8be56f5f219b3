// evolved — the evolutionary tour optimization service.
//
// Serves POST /api/evolve: each request advances a genetic search for the
// shortest obstacle-aware closed tour by a number of generations and
// returns the updated population plus the best tour found. The planner GUI
// drives it round by round, but any HTTP client can.
//
// Configuration comes from the environment (a .env file is honored):
//
//	EVOLVED_ADDR  listen address, default ":8000"
//	LOG_LEVEL     debug | info | warn | error, default info
package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"tourplanner/internal/server"
)

func setupLogger() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	_ = godotenv.Load(".env")

	log := setupLogger()

	addr := os.Getenv("EVOLVED_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	handler := server.New(log)
	log.Info("evolved_listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler.Mux()); err != nil {
		log.Error("evolved_serve_error", "err", err)
		os.Exit(1)
	}
}
