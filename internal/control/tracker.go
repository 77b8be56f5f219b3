package control

import "math"

const (
	// Epsilon is the minimum distance change that counts as movement; two
	// round results closer than this are considered equal.
	Epsilon = 0.01

	// Patience is how many consecutive stagnant rounds are tolerated
	// before the run auto-stops.
	Patience = 10

	// epsilonSlack absorbs float64 representation error in decimal
	// distances: |99.4 - 99.39| lands a hair above 0.01 and must still
	// count as no movement.
	epsilonSlack = 1e-9
)

// Tracker watches the best-route distance across rounds and decides when
// the search has stalled.
type Tracker struct {
	lastBest float64
	stagnant int
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// Reset restores the tracker to its fresh-run state. Called once when a
// run starts.
func (t *Tracker) Reset() {
	t.lastBest = math.Inf(1)
	t.stagnant = 0
}

// Observe feeds one round's best distance to the tracker. If the distance
// moved by less than Epsilon from the last recorded value, the round
// counts as stagnant; otherwise the counter resets and the value is
// recorded. A distance that moves by more than Epsilon in either
// direction resets the counter, so a regression restores patience just
// like an improvement. shouldStop becomes true once Patience consecutive
// stagnant rounds have been observed.
//
// The first observation after Reset always registers as movement (the
// baseline is +Inf), so a run that never improves accrues stagnation
// only from its second round onward.
func (t *Tracker) Observe(distance float64) (improved, shouldStop bool) {
	if math.Abs(t.lastBest-distance) < Epsilon+epsilonSlack {
		t.stagnant++
	} else {
		t.stagnant = 0
		t.lastBest = distance
		improved = true
	}
	return improved, t.stagnant >= Patience
}

// StagnantRounds returns the current consecutive-stagnant-round count.
func (t *Tracker) StagnantRounds() int {
	return t.stagnant
}
