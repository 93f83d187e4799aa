package control

import (
	"math"

	"marinesim/internal/gnc"
)

// HeadingPID is a PID controller on yaw angle. The error is wrapped to
// (-pi, pi] before use so the commanded turn always takes the short way
// around, and the output is clamped to the actuator limit with the integral
// frozen while saturated.
type HeadingPID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64 // desired yaw, rad
	Limit  float64 // output clamp, rad

	integral float64
}

func NewHeadingPID(kp, ki, kd, target, limit float64) *HeadingPID {
	return &HeadingPID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		Limit:  limit,
	}
}

// Update computes the actuator command from the current yaw and yaw rate.
func (p *HeadingPID) Update(psi, r, dt float64) float64 {
	e := gnc.Ssa(psi - p.Target)

	u := -(p.Kp*e + p.Kd*r + p.Ki*p.integral)

	if math.Abs(u) >= p.Limit {
		u = gnc.Sat(u, p.Limit)
	} else {
		p.integral += e * dt
	}
	return u
}

// Error returns the wrapped heading error for the given yaw.
func (p *HeadingPID) Error(psi float64) float64 {
	return gnc.Ssa(psi - p.Target)
}

// Reset clears the integral accumulator for a fresh run.
func (p *HeadingPID) Reset() {
	p.integral = 0
}

// GetParams returns tunable parameters for live adjustment
func (p *HeadingPID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a controller parameter
func (p *HeadingPID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	}
}
