// Package vehicle implements the surface-craft maneuvering models driven by
// the simulation core.
package vehicle

import (
	"math"

	"marinesim/internal/control"
	"marinesim/internal/gnc"
	"marinesim/internal/sim"
)

// Seawater density [kg/m^3].
const rho = 1025.0

// Rudder geometry and interaction coefficients for a single spade rudder
// behind the hull.
const (
	rudderAspect   = 0.7  // rudder aspect ratio
	steeringDeduct = 0.3  // steering deduction number t_R
	forceIncrease  = 0.8  // rudder force increase factor a_H
	thrustDeduct   = 0.1  // thrust deduction number
	xRudderFrac    = -0.45 // rudder arm x_R as fraction of L
	xHullFrac      = -1.0  // hull interaction arm x_H as fraction of L
)

type Mode string

const (
	// ModeHeadingAutopilot closes the loop on yaw with the PID autopilot.
	ModeHeadingAutopilot Mode = "headingAutopilot"
	// ModeStepInput applies an open-loop rudder step, for maneuvering tests.
	ModeStepInput Mode = "stepInput"
)

// Config carries the immutable craft parameters, fixed at construction.
type Config struct {
	Mode Mode

	// Desired heading offset [deg].
	HeadingDeg float64

	// Hull: length between perpendiculars, beam, draft [m], block coefficient.
	Length float64
	Beam   float64
	Draft  float64
	Cb     float64

	// Steering gear limits [deg], [deg/s].
	RudderMaxDeg     float64
	RudderRateMaxDeg float64

	// Ambient current: speed [m/s], direction [deg], and whether the
	// relative-velocity current model is applied at all.
	CurrentSpeed   float64
	CurrentDirDeg  float64
	CurrentEnabled bool

	// Desired forward speed [m/s]; the constant surge thrust is derived from
	// it so that it is also the steady-state surge solution.
	DesiredSpeed float64

	// Autopilot closed-loop natural frequency [rad/s] and relative damping.
	Bandwidth float64
	Damping   float64
}

// DefaultConfig is the transit scenario: 70 m cargo hull holding a -80 deg
// heading offset in a 10 m/s ambient current.
func DefaultConfig() Config {
	return Config{
		Mode:             ModeHeadingAutopilot,
		HeadingDeg:       -80,
		Length:           70,
		Beam:             8,
		Draft:            6,
		Cb:               0.7,
		RudderMaxDeg:     30,
		RudderRateMaxDeg: 5,
		CurrentSpeed:     10,
		CurrentDirDeg:    0,
		CurrentEnabled:   true,
		DesiredSpeed:     28,
		Bandwidth:        0.5,
		Damping:          1.0,
	}
}

// Clarke83 is a linear maneuvering model for a surface craft, with mass and
// damping matrices dimensionalized from the Clarke (1983) regression
// derivatives and a rate- and position-limited rudder.
type Clarke83 struct {
	cfg Config

	psiRef   float64 // rad
	betaC    float64 // current direction, rad
	deltaMax float64 // rad
	rateMax  float64 // rad/s

	mass float64
	iz   float64
	tauX float64
	xu   float64

	// 3-DOF (surge, sway, yaw) mass matrix and its inverse; constant over a
	// run, checked nonsingular at construction.
	m11, m22, m23, m32, m33      float64
	mi11, mi22, mi23, mi32, mi33 float64

	// Nondimensional Clarke derivatives; the damping matrix is rebuilt from
	// these at the current relative speed every step.
	yvP, yrP, nvP, nrP float64

	// Rudder force scale: force = coeff * U^2 [N per unit sin term].
	xddCoeff, ydCoeff, ndCoeff float64

	autopilot *control.HeadingPID
}

// New validates cfg and builds the craft. Degenerate parameters (non-positive
// dimensions, singular mass matrix) fail with a ConfigError.
func New(cfg Config) (*Clarke83, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	v := &Clarke83{
		cfg:      cfg,
		psiRef:   cfg.HeadingDeg * gnc.D2R,
		betaC:    cfg.CurrentDirDeg * gnc.D2R,
		deltaMax: cfg.RudderMaxDeg * gnc.D2R,
		rateMax:  cfg.RudderRateMaxDeg * gnc.D2R,
	}

	L, B, T, Cb := cfg.Length, cfg.Beam, cfg.Draft, cfg.Cb

	v.mass = rho * Cb * L * B * T
	r66 := 0.25 * L // yaw radius of gyration
	v.iz = v.mass * r66 * r66

	// Surge: added mass and a first-order time constant proportional to L.
	xudot := -0.1 * v.mass
	tSurge := L
	v.xu = -(v.mass - xudot) / tSurge
	// Thrust that makes DesiredSpeed the steady-state relative surge speed,
	// with the thrust deduction compensated.
	v.tauX = -v.xu * cfg.DesiredSpeed / (1 - thrustDeduct)

	// Clarke et al. (1983) nondimensional sway/yaw derivatives.
	s := math.Pi * (T / L) * (T / L)
	yvdotP := -s * (1 + 0.16*Cb*B/T - 5.1*(B/L)*(B/L))
	yrdotP := -s * (0.67*B/L - 0.0033*(B/T)*(B/T))
	nvdotP := -s * (1.1*B/L - 0.041*B/T)
	nrdotP := -s * (1.0/12 + 0.017*Cb*B/T - 0.33*B/L)
	v.yvP = -s * (1 + 0.40*Cb*B/T)
	v.yrP = -s * (-1.0/2 + 2.2*B/L - 0.080*B/T)
	v.nvP = -s * (1.0/2 + 2.4*T/L)
	v.nrP = -s * (1.0/4 + 0.039*B/T - 0.56*B/L)

	// Dimensional added mass (prime system) and the mass matrix, CG at CO.
	l3 := L * L * L
	yvdot := 0.5 * rho * l3 * yvdotP
	yrdot := 0.5 * rho * l3 * L * yrdotP
	nvdot := 0.5 * rho * l3 * L * nvdotP
	nrdot := 0.5 * rho * l3 * L * L * nrdotP

	v.m11 = v.mass - xudot
	v.m22 = v.mass - yvdot
	v.m23 = -yrdot
	v.m32 = -nvdot
	v.m33 = v.iz - nrdot

	det := v.m22*v.m33 - v.m23*v.m32
	if v.m11 == 0 || math.Abs(det) < 1e-9 {
		return nil, &sim.ConfigError{Param: "mass matrix", Value: det, Reason: "singular"}
	}
	v.mi11 = 1 / v.m11
	v.mi22 = v.m33 / det
	v.mi23 = -v.m23 / det
	v.mi32 = -v.m32 / det
	v.mi33 = v.m22 / det

	// Rudder lift: area from span and aspect ratio, normal-force slope from
	// the aspect ratio, arms scaled by hull length.
	span := 0.7 * T
	area := span * span / rudderAspect
	cn := 6.13 * rudderAspect / (rudderAspect + 2.25)
	xR := xRudderFrac * L
	xH := xHullFrac * L
	v.xddCoeff = -0.5 * (1 - steeringDeduct) * rho * area * cn
	v.ydCoeff = -0.25 * (1 + forceIncrease) * rho * area * cn
	v.ndCoeff = -0.25 * (xR + forceIncrease*xH) * rho * area * cn

	// Autopilot gains by pole placement on the Nomoto yaw model at the
	// design speed. The closed-loop frequency must satisfy
	// 2*zeta*wn >= dYaw/m33, otherwise kd goes negative and the rudder's
	// sway force feeds back through Nv as an unstable loop.
	ud := cfg.DesiredSpeed
	dYaw := -0.5 * rho * ud * l3 * L * v.nrP
	nDelta := 2 * v.ndCoeff * ud * ud
	wn, zeta := cfg.Bandwidth, cfg.Damping
	if 2*zeta*wn*v.m33 < dYaw {
		return nil, &sim.ConfigError{Param: "bandwidth", Value: wn,
			Reason: "closed-loop design below the open-loop yaw damping, rate feedback destabilizes the hull"}
	}
	kp := v.m33 * wn * wn / nDelta
	kd := (2*zeta*wn*v.m33 - dYaw) / nDelta
	ki := kp * wn / 10
	v.autopilot = control.NewHeadingPID(kp, ki, kd, v.psiRef, v.deltaMax)

	return v, nil
}

func validate(cfg Config) error {
	check := func(name string, val float64, ok bool, reason string) *sim.ConfigError {
		if ok {
			return nil
		}
		return &sim.ConfigError{Param: name, Value: val, Reason: reason}
	}
	positive := "must be positive"

	for _, c := range []*sim.ConfigError{
		check("length", cfg.Length, cfg.Length > 0, positive),
		check("beam", cfg.Beam, cfg.Beam > 0, positive),
		check("draft", cfg.Draft, cfg.Draft > 0, positive),
		check("cb", cfg.Cb, cfg.Cb > 0 && cfg.Cb <= 1, "must be in (0, 1]"),
		check("rudder limit", cfg.RudderMaxDeg, cfg.RudderMaxDeg > 0, positive),
		check("rudder rate limit", cfg.RudderRateMaxDeg, cfg.RudderRateMaxDeg > 0, positive),
		check("desired speed", cfg.DesiredSpeed, cfg.DesiredSpeed > 0, positive),
		check("current speed", cfg.CurrentSpeed, cfg.CurrentSpeed >= 0, "must be non-negative"),
		check("bandwidth", cfg.Bandwidth, cfg.Bandwidth > 0, positive),
		check("damping", cfg.Damping, cfg.Damping > 0, positive),
		check("heading", cfg.HeadingDeg, !math.IsNaN(cfg.HeadingDeg) && !math.IsInf(cfg.HeadingDeg, 0), "must be finite"),
		check("current direction", cfg.CurrentDirDeg, !math.IsNaN(cfg.CurrentDirDeg) && !math.IsInf(cfg.CurrentDirDeg, 0), "must be finite"),
	} {
		if c != nil {
			return c
		}
	}
	if cfg.Mode != ModeHeadingAutopilot && cfg.Mode != ModeStepInput {
		return &sim.ConfigError{Param: "mode", Value: 0, Reason: "unknown control mode " + string(cfg.Mode)}
	}
	return nil
}

func (v *Clarke83) Name() string    { return "clarke83" }
func (v *Clarke83) DOF() int        { return sim.DOF }
func (v *Clarke83) ControlDim() int { return 1 }

func (v *Clarke83) Config() Config { return v.cfg }

// Autopilot exposes the heading controller for tuning and inspection.
func (v *Clarke83) Autopilot() *control.HeadingPID { return v.autopilot }

func (v *Clarke83) InitialVelocity() sim.State {
	return make(sim.State, sim.DOF)
}

func (v *Clarke83) InitialActuators() sim.Control {
	return make(sim.Control, 1)
}

func (v *Clarke83) ResetControl() {
	v.autopilot.Reset()
}

// Dynamics advances body velocity and the realized rudder angle one sample
// interval with a forward-Euler update on the 3-DOF (surge, sway, yaw)
// maneuvering model embedded in the 6-DOF state.
func (v *Clarke83) Dynamics(eta, nu sim.State, uActual, uControl sim.Control, dt float64) (sim.State, sim.Control, error) {
	if dt <= 0 {
		return nil, nil, &sim.DomainError{Value: dt, Reason: "sample time must be positive"}
	}

	psi := eta[5]

	// Ambient current in body coordinates; relative velocity drives both the
	// damping and the rudder flow.
	var uc, vc float64
	if v.cfg.CurrentEnabled && v.cfg.CurrentSpeed > 0 {
		uc = v.cfg.CurrentSpeed * math.Cos(v.betaC-psi)
		vc = v.cfg.CurrentSpeed * math.Sin(v.betaC-psi)
	}
	ur := nu[0] - uc
	vr := nu[1] - vc
	r := nu[5]
	U := math.Hypot(ur, vr) + 1e-3 // keep the damping scale nonzero at rest

	deltaC := uControl[0]
	delta := gnc.Sat(uActual[0], v.deltaMax)

	// Rudder forces and moment at the relative flow speed. The physical
	// rudder deflection opposes the commanded sign convention.
	deltaR := -delta
	u2 := U * U
	xdd := v.xddCoeff * u2
	yd := v.ydCoeff * u2
	nd := v.ndCoeff * u2

	sinD := math.Sin(deltaR)
	tau1 := (1-thrustDeduct)*v.tauX - xdd*sinD*sinD
	tau2 := -yd * math.Sin(2*deltaR)
	tau6 := -nd * math.Sin(2*deltaR)

	// Linear damping at speed U, prime-system dimensionalization.
	l2 := v.cfg.Length * v.cfg.Length
	yv := 0.5 * rho * U * l2 * v.yvP
	yr := 0.5 * rho * U * l2 * v.cfg.Length * v.yrP
	nv := 0.5 * rho * U * l2 * v.cfg.Length * v.nvP
	nr := 0.5 * rho * U * l2 * l2 * v.nrP

	f1 := tau1 + v.xu*ur
	f2 := tau2 + yv*vr - (v.mass*U-yr)*r
	f6 := tau6 + nv*vr + nr*r

	a1 := v.mi11 * f1
	a2 := v.mi22*f2 + v.mi23*f6
	a6 := v.mi32*f2 + v.mi33*f6

	nuNext := nu.Clone()
	nuNext[0] += dt * a1
	nuNext[1] += dt * a2
	nuNext[5] += dt * a6

	// Steering gear: rate-limited approach to the command, position clamp
	// applied after the update so both limits hold at every sample.
	deltaDot := gnc.Sat(deltaC-delta, v.rateMax)
	delta = gnc.Sat(delta+dt*deltaDot, v.deltaMax)

	return nuNext, sim.Control{delta}, nil
}

// ControlLaw dispatches on the configured control mode.
func (v *Clarke83) ControlLaw(eta, nu sim.State, t, dt float64) (sim.Control, error) {
	if dt <= 0 {
		return nil, &sim.DomainError{Time: t, Value: dt, Reason: "sample time must be positive"}
	}

	switch v.cfg.Mode {
	case ModeStepInput:
		return sim.Control{v.stepInput(t)}, nil
	default:
		delta := v.autopilot.Update(eta[5], nu[5], dt)
		return sim.Control{delta}, nil
	}
}

// stepInput is a 10 degree rudder step held for 100 s, then amidships.
func (v *Clarke83) stepInput(t float64) float64 {
	delta := 10 * gnc.D2R
	if t >= 100 {
		delta = 0
	}
	return gnc.Sat(delta, v.deltaMax)
}

// GetParams returns tunable parameters for live adjustment
func (v *Clarke83) GetParams() map[string]float64 {
	p := v.autopilot.GetParams()
	return map[string]float64{
		"kp":          p["Kp"],
		"ki":          p["Ki"],
		"kd":          p["Kd"],
		"heading_deg": p["Target"] * gnc.R2D,
	}
}

// SetParam adjusts an autopilot parameter
func (v *Clarke83) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		v.autopilot.SetParam("Kp", value)
	case "ki":
		v.autopilot.SetParam("Ki", value)
	case "kd":
		v.autopilot.SetParam("Kd", value)
	case "heading_deg":
		v.autopilot.SetParam("Target", value*gnc.D2R)
	default:
		return &sim.ConfigError{Param: name, Value: value, Reason: "unknown parameter"}
	}
	return nil
}
