// Package engine implements the evolutionary tour optimizer behind the
// evolve service. It searches for the shortest closed tour through a set of
// cities while steering around circular obstacles via a cost penalty.
package engine

import (
	"math/rand"
	"sort"
	"time"

	"tourplanner/internal/geometry"
	"tourplanner/internal/model"
)

// Config holds parameters for the genetic tour optimizer.
type Config struct {
	PopulationSize int
	MutationRate   float64
	EliteCount     int // best individuals carried over unchanged per generation
	ParentPool     int // parents are drawn at random from this many top-ranked individuals
}

// DefaultConfig returns the engine's stock parameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 100,
		MutationRate:   0.01,
		EliteCount:     10,
		ParentPool:     50,
	}
}

// Result is the outcome of one evolve step: the full population to carry
// into the next step, and the best tour found with its cost.
type Result struct {
	Population   [][]int
	BestRoute    model.Route
	BestDistance float64
}

// tourEvolver runs the genetic algorithm over tour permutations.
type tourEvolver struct {
	cities    []model.City
	obstacles []model.Obstacle
	config    Config
	rng       *rand.Rand
}

func newTourEvolver(cities []model.City, obstacles []model.Obstacle, config Config, seed int64) *tourEvolver {
	return &tourEvolver{
		cities:    cities,
		obstacles: obstacles,
		config:    config,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// scored pairs an individual with its evaluated tour cost.
type scored struct {
	cost  float64
	route []int
}

// evolve advances the population by the given number of generations and
// returns the carried population plus the best tour of the final generation.
func (e *tourEvolver) evolve(population [][]int, generations int) Result {
	population = e.sanitize(population)
	if len(population) == 0 {
		population = e.initPopulation()
	}

	for gen := 0; gen < generations; gen++ {
		ranked := make([]scored, len(population))
		for i, individual := range population {
			ranked[i] = scored{
				cost:  geometry.RouteCost(individual, e.cities, e.obstacles),
				route: individual,
			}
		}
		// Lower cost is better.
		sort.Slice(ranked, func(i, j int) bool {
			return ranked[i].cost < ranked[j].cost
		})

		eliteCount := e.config.EliteCount
		if eliteCount > len(ranked) {
			eliteCount = len(ranked)
		}
		newPop := make([][]int, 0, e.config.PopulationSize)
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, copyRoute(ranked[i].route))
		}

		pool := e.config.ParentPool
		if pool > len(ranked) {
			pool = len(ranked)
		}
		for len(newPop) < e.config.PopulationSize {
			parent1 := ranked[e.rng.Intn(pool)].route
			parent2 := ranked[e.rng.Intn(pool)].route
			child := e.orderCrossover(parent1, parent2)
			e.mutate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	best := population[0]
	for _, individual := range population[1:] {
		if geometry.RouteCost(individual, e.cities, e.obstacles) <
			geometry.RouteCost(best, e.cities, e.obstacles) {
			best = individual
		}
	}

	return Result{
		Population:   population,
		BestRoute:    copyRoute(best),
		BestDistance: geometry.RouteCost(best, e.cities, e.obstacles),
	}
}

// sanitize drops carried individuals that no longer match the city count.
// A stale individual would index outside the city slice, so it cannot be
// repaired, only discarded.
func (e *tourEvolver) sanitize(population [][]int) [][]int {
	valid := population[:0:0]
	for _, individual := range population {
		if len(individual) == len(e.cities) && model.Route(individual).Valid(len(e.cities)) {
			valid = append(valid, individual)
		}
	}
	return valid
}

// initPopulation creates random permutations, seeding one individual with
// the nearest-neighbor tour to give the search a reasonable starting point.
func (e *tourEvolver) initPopulation() [][]int {
	n := len(e.cities)
	population := make([][]int, e.config.PopulationSize)
	for i := range population {
		population[i] = e.rng.Perm(n)
	}
	if len(population) > 0 && n > 1 {
		population[0] = e.nearestNeighborTour()
	}
	return population
}

// nearestNeighborTour builds a greedy tour: start at city 0, always hop to
// the closest unvisited city. Obstacles are ignored here; the penalty sorts
// that out during evolution.
func (e *tourEvolver) nearestNeighborTour() []int {
	n := len(e.cities)
	tour := make([]int, 0, n)
	visited := make([]bool, n)

	current := 0
	tour = append(tour, current)
	visited[current] = true

	for len(tour) < n {
		next := -1
		bestDist := 0.0
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			d := geometry.Distance(e.cities[current], e.cities[j])
			if next < 0 || d < bestDist {
				next = j
				bestDist = d
			}
		}
		tour = append(tour, next)
		visited[next] = true
		current = next
	}
	return tour
}

// orderCrossover implements Order Crossover (OX1) for tour permutations:
// a random segment is copied from the first parent, and the remaining
// cities are filled in the order they appear in the second parent.
func (e *tourEvolver) orderCrossover(parent1, parent2 []int) []int {
	n := len(parent1)
	if n <= 2 {
		return copyRoute(parent1)
	}

	point1 := e.rng.Intn(n)
	point2 := e.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := make([]int, n)
	for i := range child {
		child[i] = -1
	}
	inSegment := make(map[int]bool, point2-point1+1)
	for i := point1; i <= point2; i++ {
		child[i] = parent1[i]
		inSegment[parent1[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, city := range parent2 {
		if !inSegment[city] {
			for child[childIdx] != -1 {
				childIdx = (childIdx + 1) % n
			}
			child[childIdx] = city
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap mutation: each position may swap with a random other
// position with probability MutationRate.
func (e *tourEvolver) mutate(route []int) {
	n := len(route)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		if e.rng.Float64() < e.config.MutationRate {
			j := e.rng.Intn(n)
			route[i], route[j] = route[j], route[i]
		}
	}
}

func copyRoute(route []int) []int {
	cp := make([]int, len(route))
	copy(cp, route)
	return cp
}

// Evolve advances the carried population by the given number of generations
// against the current cities and obstacles. An empty population starts a
// fresh search. Fewer than two cities yields an empty result.
func Evolve(cities []model.City, obstacles []model.Obstacle, population [][]int, generations int, config Config) Result {
	if len(cities) < 2 {
		return Result{}
	}
	if config.PopulationSize <= 0 {
		config = DefaultConfig()
	}
	ev := newTourEvolver(cities, obstacles, config, time.Now().UnixNano())
	return ev.evolve(population, generations)
}
