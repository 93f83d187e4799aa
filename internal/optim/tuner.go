// Package optim tunes the heading autopilot by sweeping gain-design
// candidates through full closed-loop runs.
package optim

import (
	"context"
	"fmt"
	"math"

	"marinesim/internal/experiment"
)

// Candidate is one autopilot design point: closed-loop natural frequency
// [rad/s] and relative damping.
type Candidate struct {
	Bandwidth float64
	Damping   float64
}

// Trial is the outcome of evaluating one candidate. A candidate that fails
// to build (rejected gains) or whose run diverges carries the error instead
// of a value.
type Trial struct {
	Candidate Candidate
	Value     float64
	Err       error
}

// Tuner sweeps the bandwidth/damping grid and keeps the candidate
// minimizing the named metric over a full simulation run.
type Tuner struct {
	Bandwidths []float64
	Dampings   []float64
	Metric     string
}

// Run evaluates every candidate and returns the best one, its metric value
// and the per-candidate record. Failed candidates are skipped, not fatal;
// the sweep itself fails only when cancelled or when no candidate completes.
func (t *Tuner) Run(
	ctx context.Context,
	build func(Candidate) (*experiment.Experiment, error),
) (Candidate, float64, []Trial, error) {

	best := math.Inf(1)
	var bestCand Candidate
	trials := make([]Trial, 0, len(t.Bandwidths)*len(t.Dampings))

	for _, wn := range t.Bandwidths {
		for _, zeta := range t.Dampings {
			if err := ctx.Err(); err != nil {
				return bestCand, best, trials, err
			}

			cand := Candidate{Bandwidth: wn, Damping: zeta}

			exp, err := build(cand)
			if err != nil {
				trials = append(trials, Trial{Candidate: cand, Err: err})
				continue
			}

			result, err := exp.Run(ctx)
			if err != nil {
				trials = append(trials, Trial{Candidate: cand, Err: err})
				continue
			}

			val := result.Metrics[t.Metric]
			trials = append(trials, Trial{Candidate: cand, Value: val})

			if val < best {
				best = val
				bestCand = cand
			}
		}
	}

	if math.IsInf(best, 1) {
		return Candidate{}, 0, trials, fmt.Errorf("optim: no candidate completed a run")
	}
	return bestCand, best, trials, nil
}
