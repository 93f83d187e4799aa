package metrics

import (
	"math"

	"marinesim/internal/sim"
)

// RudderEffort averages the absolute commanded deflection over the run.
type RudderEffort struct {
	name    string
	sum     float64
	samples int
}

func NewRudderEffort() *RudderEffort {
	return &RudderEffort{
		name: "rudder_effort",
	}
}

func (c *RudderEffort) Name() string {
	return c.name
}

func (c *RudderEffort) Observe(eta, nu sim.State, u sim.Control, t float64) {
	for _, val := range u {
		c.sum += math.Abs(val)
	}
	c.samples++
}

func (c *RudderEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *RudderEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
