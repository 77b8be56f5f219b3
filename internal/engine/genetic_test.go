package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourplanner/internal/geometry"
	"tourplanner/internal/model"
)

func makeTestCities() []model.City {
	return []model.City{
		{ID: "c0", X: 0, Y: 0},
		{ID: "c1", X: 100, Y: 0},
		{ID: "c2", X: 100, Y: 100},
		{ID: "c3", X: 0, Y: 100},
		{ID: "c4", X: 50, Y: 150},
	}
}

func TestEvolveReturnsValidTours(t *testing.T) {
	cities := makeTestCities()

	result := Evolve(cities, nil, nil, 20, DefaultConfig())

	require.Len(t, result.Population, DefaultConfig().PopulationSize)
	require.Len(t, result.BestRoute, len(cities))
	assert.True(t, result.BestRoute.Valid(len(cities)),
		"best route is not a permutation of all cities: %v", result.BestRoute)
	for i, individual := range result.Population {
		require.Len(t, individual, len(cities), "individual %d", i)
		require.True(t, model.Route(individual).Valid(len(cities)),
			"individual %d is not a valid permutation: %v", i, individual)
	}
}

func TestEvolveTooFewCities(t *testing.T) {
	result := Evolve([]model.City{{X: 0, Y: 0}}, nil, nil, 20, DefaultConfig())

	assert.Empty(t, result.Population)
	assert.Empty(t, result.BestRoute)
	assert.Zero(t, result.BestDistance)
}

func TestEvolveFindsSquarePerimeter(t *testing.T) {
	// Four corners of a square: the optimal tour is the perimeter, 400.
	cities := []model.City{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	}

	ev := newTourEvolver(cities, nil, DefaultConfig(), 1)
	result := ev.evolve(nil, 200)

	assert.InDelta(t, 400, result.BestDistance, 1e-6,
		"expected perimeter tour, got route %v", result.BestRoute)
}

func TestEvolveCarriedPopulationImproves(t *testing.T) {
	cities := makeTestCities()
	ev := newTourEvolver(cities, nil, DefaultConfig(), 7)

	first := ev.evolve(nil, 10)
	second := ev.evolve(first.Population, 50)

	assert.LessOrEqual(t, second.BestDistance, first.BestDistance+1e-9,
		"carried population regressed")
}

func TestEvolveAvoidsObstacleWhenPossible(t *testing.T) {
	// Two clusters with an obstacle between the direct crossings. The best
	// obstacle-free tour must cost less than any penalized one.
	cities := []model.City{
		{X: 0, Y: 0}, {X: 0, Y: 200}, {X: 300, Y: 0}, {X: 300, Y: 200},
	}
	obstacles := []model.Obstacle{{X: 150, Y: 100, Radius: 40}}

	ev := newTourEvolver(cities, obstacles, DefaultConfig(), 3)
	result := ev.evolve(nil, 300)

	assert.Less(t, result.BestDistance, geometry.ObstaclePenalty,
		"expected an obstacle-free tour")
}

func TestEvolveDiscardsStaleIndividuals(t *testing.T) {
	cities := makeTestCities()
	stale := [][]int{{0, 1, 2}, {2, 1, 0}} // built for 3 cities

	result := Evolve(cities, nil, stale, 5, DefaultConfig())

	for i, individual := range result.Population {
		require.Len(t, individual, len(cities), "individual %d has stale length", i)
	}
}

func TestNearestNeighborTour(t *testing.T) {
	cities := []model.City{
		{X: 0, Y: 0}, {X: 500, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0},
	}
	ev := newTourEvolver(cities, nil, DefaultConfig(), 1)

	tour := ev.nearestNeighborTour()

	assert.Equal(t, []int{0, 2, 3, 1}, tour)
}

func TestOrderCrossoverProducesPermutation(t *testing.T) {
	cities := makeTestCities()
	ev := newTourEvolver(cities, nil, DefaultConfig(), 99)

	parent1 := []int{0, 1, 2, 3, 4}
	parent2 := []int{4, 3, 2, 1, 0}

	for i := 0; i < 50; i++ {
		child := ev.orderCrossover(parent1, parent2)
		require.Len(t, child, len(cities))
		require.True(t, model.Route(child).Valid(len(cities)),
			"crossover produced invalid permutation: %v", child)
	}
}
