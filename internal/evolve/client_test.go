package evolve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourplanner/internal/model"
)

func testCities() []model.City {
	return []model.City{
		{ID: "a", X: 10, Y: 20},
		{ID: "b", X: 30, Y: 40},
		{ID: "c", X: 50, Y: 60},
	}
}

func TestRequestRoundSuccess(t *testing.T) {
	var got evolveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != EvolvePath {
			t.Errorf("expected path %s, got %s", EvolvePath, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"population":    [][]int{{0, 1, 2}, {2, 1, 0}},
			"best_route":    []int{0, 2, 1},
			"best_distance": 123.5,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.RequestRound(context.Background(), testCities(),
		[]model.Obstacle{{X: 1, Y: 2, Radius: 3}}, nil, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Cities) != 3 || got.Cities[1].X != 30 {
		t.Errorf("unexpected cities payload: %+v", got.Cities)
	}
	if len(got.Obstacles) != 1 || got.Obstacles[0].Radius != 3 {
		t.Errorf("unexpected obstacles payload: %+v", got.Obstacles)
	}
	if string(got.Population) != "[]" {
		t.Errorf("empty population should be sent as [], got %q", got.Population)
	}
	if got.GenerationsPerStep != 20 {
		t.Errorf("expected 20 generations per step, got %d", got.GenerationsPerStep)
	}

	if result.BestDistance != 123.5 {
		t.Errorf("expected best distance 123.5, got %f", result.BestDistance)
	}
	want := model.Route{0, 2, 1}
	if len(result.Route) != 3 || result.Route[0] != want[0] || result.Route[1] != want[1] || result.Route[2] != want[2] {
		t.Errorf("expected route %v, got %v", want, result.Route)
	}
	if len(result.Population) == 0 {
		t.Error("expected population carried back from response")
	}
}

func TestRequestRoundCarriesPopulationVerbatim(t *testing.T) {
	carried := model.Population(`[[2,0,1],[1,0,2]]`)

	var got evolveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]any{
			"population":    []any{},
			"best_route":    []int{},
			"best_distance": 0,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.RequestRound(context.Background(), testCities(), nil, carried, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got.Population) != string(carried) {
		t.Errorf("population not passed through verbatim: %q", got.Population)
	}
}

func TestRequestRoundInvalidRouteIndices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"population":    []any{},
			"best_route":    []int{0, 1, 7},
			"best_distance": 1,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.RequestRound(context.Background(), testCities(), nil, nil, 20)
	if err == nil {
		t.Fatal("expected error for out-of-range route index")
	}
}

func TestRequestRoundServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.RequestRound(context.Background(), testCities(), nil, nil, 20); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestRequestRoundMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.RequestRound(context.Background(), testCities(), nil, nil, 20); err == nil {
		t.Fatal("expected error for malformed response body")
	}
}

func TestRequestRoundConnectionRefused(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	if _, err := client.RequestRound(context.Background(), testCities(), nil, nil, 20); err == nil {
		t.Fatal("expected transport error")
	}
}
