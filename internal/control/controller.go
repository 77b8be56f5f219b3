// Package control drives the optimization run: a state machine that
// requests rounds from the evolve service one at a time, applies each
// result to the board, and stops when the user asks or the search stalls.
package control

import (
	"context"
	"errors"
	"sync"

	"tourplanner/internal/evolve"
	"tourplanner/internal/model"
)

// RoundSize is how many engine generations each round advances.
const RoundSize = 20

var (
	// ErrNotEnoughCities is returned by Start when the board holds fewer
	// than two cities; no run is entered.
	ErrNotEnoughCities = errors.New("at least two cities are required to start a run")

	// ErrNotIdle is returned by Start while a run is already active.
	ErrNotIdle = errors.New("a run is already active")
)

// State is the controller's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping // stop requested, current round still completing
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "idle"
	}
}

// StopReason tells the UI why a run ended.
type StopReason int

const (
	ReasonStopped   StopReason = iota // user asked to stop
	ReasonConverged                   // no improvement within patience
	ReasonFailed                      // a round failed; see the error
)

// RoundRequester is the slice of the evolve client the controller needs.
type RoundRequester interface {
	RequestRound(ctx context.Context, cities []model.City, obstacles []model.Obstacle, population model.Population, roundSize int) (evolve.RoundResult, error)
}

// Controller owns the run loop. Rounds are strictly sequential: the next
// round is only requested after the previous response has been applied to
// the board, so the board needs no locking beyond rejecting user edits
// while the run holds it.
type Controller struct {
	board   *model.Board
	client  RoundRequester
	tracker *Tracker

	mu       sync.Mutex
	state    State
	stopFlag bool
	rounds   int

	// OnRound is called after each applied round with a fresh board
	// snapshot. OnStop is called exactly once per run when it ends.
	// Both are invoked from the run goroutine; UI callers must hop to
	// their own thread.
	OnRound func(model.Snapshot)
	OnStop  func(StopReason, error)
}

func NewController(board *model.Board, client RoundRequester) *Controller {
	return &Controller{
		board:   board,
		client:  client,
		tracker: NewTracker(),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Rounds returns how many rounds the current (or last) run has completed.
func (c *Controller) Rounds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rounds
}

// Start begins a run. It is legal only while idle and requires at least
// two cities; otherwise it returns an error and no run is entered. The
// run itself executes in its own goroutine, so Start returns immediately.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return ErrNotIdle
	}
	if c.board.CityCount() < 2 {
		return ErrNotEnoughCities
	}

	c.tracker.Reset()
	c.rounds = 0
	c.stopFlag = false
	c.state = StateRunning
	c.board.Lock()

	go c.run(ctx)
	return nil
}

// Stop requests a cooperative stop. A round already sent to the service
// completes and its result is still applied; the loop honors the request
// at the next round boundary.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		c.stopFlag = true
		c.state = StateStopping
	}
}

func (c *Controller) stopRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopFlag
}

// run is the round loop. Exactly one round is in flight at any time; the
// network round-trip is the loop's only suspension point.
func (c *Controller) run(ctx context.Context) {
	for {
		if c.stopRequested() {
			c.finish(ReasonStopped, nil)
			return
		}

		snap := c.board.Snapshot()
		if len(snap.Cities) < 2 {
			c.finish(ReasonFailed, ErrNotEnoughCities)
			return
		}

		result, err := c.client.RequestRound(ctx, snap.Cities, snap.Obstacles, snap.Population, RoundSize)
		if err != nil {
			c.finish(ReasonFailed, err)
			return
		}

		c.board.ApplyRound(result.Population, result.Route, result.BestDistance, RoundSize)
		c.mu.Lock()
		c.rounds++
		c.mu.Unlock()

		_, shouldStop := c.tracker.Observe(result.BestDistance)

		if c.OnRound != nil {
			c.OnRound(c.board.Snapshot())
		}

		if shouldStop {
			c.finish(ReasonConverged, nil)
			return
		}
	}
}

// finish transitions back to idle, releases the board and notifies.
func (c *Controller) finish(reason StopReason, err error) {
	c.mu.Lock()
	c.state = StateIdle
	c.stopFlag = false
	c.mu.Unlock()

	c.board.Unlock()

	if c.OnStop != nil {
		c.OnStop(reason, err)
	}
}
