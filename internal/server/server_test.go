package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourplanner/internal/evolve"
	"tourplanner/internal/model"
)

func newTestServer() *httptest.Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httptest.NewServer(New(log).Mux())
}

func postEvolve(t *testing.T, srv *httptest.Server, body any) (*http.Response, evolveResponse) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(srv.URL+evolve.EvolvePath, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded evolveResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, decoded
}

func TestEvolveEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, body := postEvolve(t, srv, map[string]any{
		"cities": []map[string]float64{
			{"x": 0, "y": 0}, {"x": 100, "y": 0}, {"x": 100, "y": 100},
		},
		"obstacles":            []any{},
		"population":           []any{},
		"generations_per_step": 20,
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(body.Population) != 100 {
		t.Errorf("expected default population size 100, got %d", len(body.Population))
	}
	if !model.Route(body.BestRoute).Valid(3) || len(body.BestRoute) != 3 {
		t.Errorf("best route is not a permutation of the 3 cities: %v", body.BestRoute)
	}
	if body.BestDistance <= 0 {
		t.Errorf("expected positive best distance, got %f", body.BestDistance)
	}
}

func TestEvolveEndpointTooFewCities(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, body := postEvolve(t, srv, map[string]any{
		"cities":     []map[string]float64{{"x": 0, "y": 0}},
		"population": []any{},
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for a not-ready board, got %d", resp.StatusCode)
	}
	if len(body.Population) != 0 || len(body.BestRoute) != 0 || body.BestDistance != 0 {
		t.Errorf("expected empty response, got %+v", body)
	}
}

func TestEvolveEndpointCarriesPopulation(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	cities := []map[string]float64{
		{"x": 0, "y": 0}, {"x": 100, "y": 0}, {"x": 100, "y": 100},
	}

	_, first := postEvolve(t, srv, map[string]any{
		"cities": cities, "population": []any{}, "generations_per_step": 10,
	})
	_, second := postEvolve(t, srv, map[string]any{
		"cities": cities, "population": first.Population, "generations_per_step": 10,
	})

	if second.BestDistance > first.BestDistance+1e-9 {
		t.Errorf("carried population regressed: %f -> %f",
			first.BestDistance, second.BestDistance)
	}
}

func TestEvolveEndpointRejectsBadJSON(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+evolve.EvolvePath, "application/json",
		bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", resp.StatusCode)
	}
}

func TestEvolveEndpointRejectsGet(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + evolve.EvolvePath)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET, got %d", resp.StatusCode)
	}
}

func TestClientAgainstServer(t *testing.T) {
	// End-to-end: the planner's client against the bundled service.
	srv := newTestServer()
	defer srv.Close()

	client := evolve.NewClient(srv.URL)
	cities := []model.City{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	}

	first, err := client.RequestRound(context.Background(), cities, nil, nil, 20)
	if err != nil {
		t.Fatalf("first round: %v", err)
	}
	second, err := client.RequestRound(context.Background(), cities, nil, first.Population, 20)
	if err != nil {
		t.Fatalf("second round: %v", err)
	}

	if !second.Route.Valid(len(cities)) || len(second.Route) != len(cities) {
		t.Errorf("route is not a full permutation: %v", second.Route)
	}
	if second.BestDistance > first.BestDistance+1e-9 {
		t.Errorf("carried population regressed: %f -> %f",
			first.BestDistance, second.BestDistance)
	}
}
