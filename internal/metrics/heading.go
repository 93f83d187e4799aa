package metrics

import (
	"math"

	"marinesim/internal/gnc"
	"marinesim/internal/sim"
)

// HeadingRMS accumulates the root-mean-square wrapped heading error against
// a fixed reference yaw.
type HeadingRMS struct {
	name    string
	psiRef  float64
	sumSq   float64
	samples int
}

func NewHeadingRMS(psiRef float64) *HeadingRMS {
	return &HeadingRMS{
		name:   "heading_rms",
		psiRef: psiRef,
	}
}

func (h *HeadingRMS) Name() string {
	return h.name
}

func (h *HeadingRMS) Observe(eta, nu sim.State, u sim.Control, t float64) {
	if len(eta) < sim.DOF {
		return
	}
	e := gnc.Ssa(eta[5] - h.psiRef)
	h.sumSq += e * e
	h.samples++
}

func (h *HeadingRMS) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return math.Sqrt(h.sumSq / float64(h.samples))
}

func (h *HeadingRMS) Reset() {
	h.sumSq = 0
	h.samples = 0
}
