// Package evolve provides the HTTP client for the evolve service: one
// request advances the engine a fixed number of generations and returns the
// updated population and best tour.
package evolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tourplanner/internal/model"
)

// EvolvePath is the evolve endpoint, relative to the service base URL.
const EvolvePath = "/api/evolve"

// pointPayload and obstaclePayload are the wire representations of board
// entities. Entity IDs are local to the planner and never sent.
type pointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type obstaclePayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type evolveRequest struct {
	Cities             []pointPayload    `json:"cities"`
	Obstacles          []obstaclePayload `json:"obstacles"`
	Population         json.RawMessage   `json:"population"`
	GenerationsPerStep int               `json:"generations_per_step"`
}

type evolveResponse struct {
	Population   json.RawMessage `json:"population"`
	BestRoute    []int           `json:"best_route"`
	BestDistance float64         `json:"best_distance"`
}

// RoundResult is the outcome of one optimization round. The population is
// opaque carried-forward engine state; the route indexes into the city
// sequence the round was requested with.
type RoundResult struct {
	Population   model.Population
	Route        model.Route
	BestDistance float64
}

// Client is a stateless adapter to the evolve service. It performs no
// retries; a transport or protocol failure is returned to the caller as-is.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the evolve service at the given base URL
// (for example "http://localhost:8000").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// RequestRound asks the service to advance the search by roundSize
// generations. An empty population signals a fresh start. The returned
// route is checked against the requested city count, so a malformed
// response surfaces as an error rather than a bad index downstream.
func (c *Client) RequestRound(ctx context.Context, cities []model.City, obstacles []model.Obstacle, population model.Population, roundSize int) (RoundResult, error) {
	reqBody := evolveRequest{
		Cities:             make([]pointPayload, len(cities)),
		Obstacles:          make([]obstaclePayload, len(obstacles)),
		Population:         json.RawMessage(population),
		GenerationsPerStep: roundSize,
	}
	for i, city := range cities {
		reqBody.Cities[i] = pointPayload{X: city.X, Y: city.Y}
	}
	for i, obs := range obstacles {
		reqBody.Obstacles[i] = obstaclePayload{X: obs.X, Y: obs.Y, Radius: obs.Radius}
	}
	if len(reqBody.Population) == 0 {
		reqBody.Population = json.RawMessage("[]")
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return RoundResult{}, fmt.Errorf("encode evolve request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EvolvePath, bytes.NewReader(payload))
	if err != nil {
		return RoundResult{}, fmt.Errorf("build evolve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RoundResult{}, fmt.Errorf("evolve request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RoundResult{}, fmt.Errorf("evolve service returned status %d", resp.StatusCode)
	}

	var body evolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return RoundResult{}, fmt.Errorf("decode evolve response: %w", err)
	}

	route := model.Route(body.BestRoute)
	if !route.Valid(len(cities)) {
		return RoundResult{}, fmt.Errorf("evolve response route references invalid city indices: %v", route)
	}

	return RoundResult{
		Population:   model.Population(body.Population),
		Route:        route,
		BestDistance: body.BestDistance,
	}, nil
}
