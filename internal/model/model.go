package model

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// City represents a stop the tour must visit, placed by a click on the board.
// Cities are immutable once placed; a Route refers to them by their position
// in the Board's city sequence, so creation order is significant.
type City struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func NewCity(x, y float64) City {
	return City{
		ID: uuid.New().String()[:8],
		X:  x,
		Y:  y,
	}
}

// Obstacle represents a circular exclusion zone the tour should avoid.
// The radius is fixed at creation.
type Obstacle struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

func NewObstacle(x, y, radius float64) Obstacle {
	return Obstacle{
		ID:     uuid.New().String()[:8],
		X:      x,
		Y:      y,
		Radius: radius,
	}
}

// Route is a closed tour expressed as indices into the city sequence.
// The last index implicitly connects back to the first.
type Route []int

// Valid reports whether every index refers to a city in a sequence of the
// given length and no index repeats.
func (r Route) Valid(cityCount int) bool {
	seen := make(map[int]bool, len(r))
	for _, idx := range r {
		if idx < 0 || idx >= cityCount || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// Population is the engine's carried-forward search state. The planner never
// inspects it beyond passing it back on the next round; the engine's response
// population is authoritative and replaces it wholesale.
type Population = json.RawMessage

// PlacementMode selects what a board click creates.
type PlacementMode string

const (
	ModeCity     PlacementMode = "city"
	ModeObstacle PlacementMode = "obstacle"
)

// DefaultObstacleRadius is the radius assigned to obstacles placed by click.
const DefaultObstacleRadius = 30.0

// Board holds everything the user has placed plus the derived optimization
// results carried between rounds. It is the single shared-state handle read
// by the renderer and written by the run loop, so access goes through
// methods guarded by a mutex; the run loop locks out user edits for its
// whole duration via Lock/Unlock.
type Board struct {
	mu sync.Mutex

	cities    []City
	obstacles []Obstacle

	population   Population
	bestRoute    Route
	bestDistance float64
	generation   int

	locked bool
}

func NewBoard() *Board {
	return &Board{}
}

// Lock marks the board as owned by an active run. While locked, AddCity and
// AddObstacle are ignored.
func (b *Board) Lock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locked = true
}

// Unlock returns the board to the editable state.
func (b *Board) Unlock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locked = false
}

// Locked reports whether a run currently owns the board.
func (b *Board) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// AddCity places a city and reports whether the edit was accepted. Adding a
// city invalidates any route and population computed against the previous
// city sequence, so both are discarded and the generation counter resets.
func (b *Board) AddCity(x, y float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.locked {
		return false
	}
	b.cities = append(b.cities, NewCity(x, y))
	b.population = nil
	b.bestRoute = nil
	b.bestDistance = 0
	b.generation = 0
	return true
}

// AddObstacle places an obstacle and reports whether the edit was accepted.
// The city sequence is unchanged, so the carried population stays valid;
// its fitness is simply re-evaluated on the next round.
func (b *Board) AddObstacle(x, y, radius float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.locked {
		return false
	}
	b.obstacles = append(b.obstacles, NewObstacle(x, y, radius))
	return true
}

// ApplyRound replaces the carried population and best result with the
// engine's response and advances the generation counter.
func (b *Board) ApplyRound(pop Population, route Route, distance float64, generations int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.population = pop
	b.bestRoute = route
	b.bestDistance = distance
	b.generation += generations
}

// Clear empties the board entirely: cities, obstacles, population, route and
// generation counter. Calling it twice yields the same empty state as once.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cities = nil
	b.obstacles = nil
	b.population = nil
	b.bestRoute = nil
	b.bestDistance = 0
	b.generation = 0
}

// SetCities replaces the whole city sequence (bulk import while idle).
// Like AddCity it discards any stale route and population.
func (b *Board) SetCities(cities []City) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.locked {
		return false
	}
	b.cities = append([]City(nil), cities...)
	b.population = nil
	b.bestRoute = nil
	b.bestDistance = 0
	b.generation = 0
	return true
}

// AddObstacles appends imported obstacles in one edit. As with AddObstacle
// the carried population survives.
func (b *Board) AddObstacles(obstacles []Obstacle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.locked {
		return false
	}
	b.obstacles = append(b.obstacles, obstacles...)
	return true
}

// Restore replaces the whole board with a loaded layout, dropping any
// computed state along with the previous entities.
func (b *Board) Restore(cities []City, obstacles []Obstacle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.locked {
		return false
	}
	b.cities = append([]City(nil), cities...)
	b.obstacles = append([]Obstacle(nil), obstacles...)
	b.population = nil
	b.bestRoute = nil
	b.bestDistance = 0
	b.generation = 0
	return true
}

func (b *Board) CityCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cities)
}

func (b *Board) Generation() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

// Snapshot is a consistent copy of the board state for rendering, export and
// request building. Slices are copied so the caller can hold the snapshot
// across round boundaries.
type Snapshot struct {
	Cities       []City
	Obstacles    []Obstacle
	Population   Population
	BestRoute    Route
	BestDistance float64
	Generation   int
}

// Snapshot returns a consistent copy of the current board state.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Cities:       append([]City(nil), b.cities...),
		Obstacles:    append([]Obstacle(nil), b.obstacles...),
		Population:   append(Population(nil), b.population...),
		BestRoute:    append(Route(nil), b.bestRoute...),
		BestDistance: b.bestDistance,
		Generation:   b.generation,
	}
}
