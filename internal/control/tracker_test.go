package control

import "testing"

func TestTrackerStagnationSequence(t *testing.T) {
	// Successive deltas of 0.5, 0.1, then 0.01. The last delta is a hair
	// above 0.01 in float64 and must still count as stagnant.
	tr := NewTracker()

	distances := []float64{100.0, 99.5, 99.4, 99.39}
	wantStagnant := []int{0, 0, 0, 1}

	for i, d := range distances {
		tr.Observe(d)
		if got := tr.StagnantRounds(); got != wantStagnant[i] {
			t.Errorf("after observing %v: stagnant = %d, want %d",
				distances[:i+1], got, wantStagnant[i])
		}
	}
}

func TestTrackerFirstObservationIsChange(t *testing.T) {
	tr := NewTracker()
	improved, stop := tr.Observe(100.0)
	if !improved {
		t.Error("first observation should register as a change from the initial state")
	}
	if stop {
		t.Error("first observation should never stop the run")
	}
}

func TestTrackerStopsAfterPatience(t *testing.T) {
	tr := NewTracker()
	tr.Observe(100.0) // baseline

	for i := 1; i < Patience; i++ {
		_, stop := tr.Observe(100.0)
		if stop {
			t.Fatalf("shouldStop true after only %d stagnant rounds", i)
		}
	}
	if _, stop := tr.Observe(100.0); !stop {
		t.Errorf("shouldStop false after %d stagnant rounds", Patience)
	}
}

func TestTrackerImprovementResetsCounter(t *testing.T) {
	tr := NewTracker()
	tr.Observe(100.0)
	for i := 0; i < Patience-1; i++ {
		tr.Observe(100.0)
	}
	if tr.StagnantRounds() != Patience-1 {
		t.Fatalf("expected %d stagnant rounds, got %d", Patience-1, tr.StagnantRounds())
	}

	improved, stop := tr.Observe(99.0)
	if !improved || stop {
		t.Errorf("improvement beyond Epsilon should reset: improved=%v stop=%v", improved, stop)
	}
	if tr.StagnantRounds() != 0 {
		t.Errorf("expected counter reset to 0, got %d", tr.StagnantRounds())
	}
}

func TestTrackerRegressionAlsoResetsCounter(t *testing.T) {
	// A distance that gets worse by more than Epsilon resets patience and
	// re-baselines, the same as an improvement would.
	tr := NewTracker()
	tr.Observe(100.0)
	tr.Observe(100.0)
	if tr.StagnantRounds() != 1 {
		t.Fatalf("expected 1 stagnant round, got %d", tr.StagnantRounds())
	}

	improved, _ := tr.Observe(105.0)
	if !improved {
		t.Error("regression beyond Epsilon should register as a change")
	}
	if tr.StagnantRounds() != 0 {
		t.Errorf("expected counter reset after regression, got %d", tr.StagnantRounds())
	}

	// The new baseline is the worse value.
	tr.Observe(105.0)
	if tr.StagnantRounds() != 1 {
		t.Errorf("expected stagnation against the regressed baseline, got %d", tr.StagnantRounds())
	}
}

func TestTrackerResetRestoresInitialState(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 5; i++ {
		tr.Observe(100.0)
	}
	tr.Reset()

	if tr.StagnantRounds() != 0 {
		t.Errorf("expected 0 stagnant rounds after reset, got %d", tr.StagnantRounds())
	}
	if improved, _ := tr.Observe(100.0); !improved {
		t.Error("first observation after reset should register as a change")
	}
}
