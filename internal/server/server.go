// Package server exposes the evolve engine over HTTP for the planner (or
// any other client) to drive round by round.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"tourplanner/internal/engine"
	"tourplanner/internal/evolve"
	"tourplanner/internal/model"
)

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// evolveRequest mirrors the wire format the planner sends. Engine tuning
// fields are optional; zero values fall back to the engine defaults.
type evolveRequest struct {
	Cities             []point  `json:"cities"`
	Obstacles          []circle `json:"obstacles"`
	Population         [][]int  `json:"population"`
	PopSize            int      `json:"pop_size"`
	MutationRate       float64  `json:"mutation_rate"`
	GenerationsPerStep int      `json:"generations_per_step"`
}

type evolveResponse struct {
	Population   [][]int `json:"population"`
	BestRoute    []int   `json:"best_route"`
	BestDistance float64 `json:"best_distance"`
	Generation   int     `json:"generation"`
}

// Handler serves the evolve endpoint.
type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// Mux returns the service's routing table.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(evolve.EvolvePath, h.handleEvolve)
	return mux
}

func (h *Handler) handleEvolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req evolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("evolve_bad_request", "err", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cities := make([]model.City, len(req.Cities))
	for i, p := range req.Cities {
		cities[i] = model.City{X: p.X, Y: p.Y}
	}
	obstacles := make([]model.Obstacle, len(req.Obstacles))
	for i, c := range req.Obstacles {
		obstacles[i] = model.Obstacle{X: c.X, Y: c.Y, Radius: c.Radius}
	}

	// Fewer than two cities is answered with an empty result rather than
	// an error: the board is simply not ready yet.
	resp := evolveResponse{Population: [][]int{}, BestRoute: []int{}}
	if len(cities) >= 2 {
		cfg := engine.DefaultConfig()
		if req.PopSize > 0 {
			cfg.PopulationSize = req.PopSize
		}
		if req.MutationRate > 0 {
			cfg.MutationRate = req.MutationRate
		}
		generations := req.GenerationsPerStep
		if generations <= 0 {
			generations = 10
		}

		t0 := time.Now()
		result := engine.Evolve(cities, obstacles, req.Population, generations, cfg)
		resp.Population = result.Population
		resp.BestRoute = result.BestRoute
		resp.BestDistance = result.BestDistance

		h.log.Debug("evolve_step",
			"cities", len(cities),
			"obstacles", len(obstacles),
			"generations", generations,
			"best_distance", result.BestDistance,
			"duration_ms", time.Since(t0).Milliseconds(),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("evolve_encode_error", "err", err)
	}
}
