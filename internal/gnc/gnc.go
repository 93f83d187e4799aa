// Package gnc holds the kinematic transformations and angle utilities shared
// by the vehicle models and the simulation driver.
package gnc

import (
	"errors"
	"math"
)

var ErrTimeStep = errors.New("gnc: sample time must be positive")

// D2R and R2D convert between degrees and radians.
const (
	D2R = math.Pi / 180
	R2D = 180 / math.Pi
)

// Ssa maps an angle to the smallest signed equivalent in (-pi, pi].
func Ssa(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle > math.Pi {
		angle -= 2 * math.Pi
	} else if angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// Sat clamps x to [-limit, limit].
func Sat(x, limit float64) float64 {
	if x > limit {
		return limit
	}
	if x < -limit {
		return -limit
	}
	return x
}

// Rzyx is the body-to-earth rotation matrix for zyx Euler angles
// (roll phi, pitch theta, yaw psi).
func Rzyx(phi, theta, psi float64) [3][3]float64 {
	cphi, sphi := math.Cos(phi), math.Sin(phi)
	cth, sth := math.Cos(theta), math.Sin(theta)
	cpsi, spsi := math.Cos(psi), math.Sin(psi)

	return [3][3]float64{
		{cpsi * cth, -spsi*cphi + cpsi*sth*sphi, spsi*sphi + cpsi*cphi*sth},
		{spsi * cth, cpsi*cphi + sphi*sth*spsi, -cpsi*sphi + sth*spsi*cphi},
		{-sth, cth * sphi, cth * cphi},
	}
}

// Tzyx relates body angular velocity to Euler-angle rates. The transform is
// singular at theta = +-90 deg; cos(theta) is floored there so a surface
// craft outside its operating envelope degrades in accuracy instead of
// dividing by zero.
func Tzyx(phi, theta float64) [3][3]float64 {
	cphi, sphi := math.Cos(phi), math.Sin(phi)
	cth, sth := math.Cos(theta), math.Sin(theta)

	if math.Abs(cth) < 1e-9 {
		cth = math.Copysign(1e-9, cth)
	}

	return [3][3]float64{
		{1, sphi * sth / cth, cphi * sth / cth},
		{0, cphi, -sphi},
		{0, sphi / cth, cphi / cth},
	}
}

func mul3(m [3][3]float64, v [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// AttitudeEuler advances position and attitude one explicit-Euler step:
// eta' = eta + dt * J(eta) * nu. The yaw component is left unwrapped;
// wrapping is the consumer's concern.
func AttitudeEuler(eta, nu []float64, dt float64) ([]float64, error) {
	if dt <= 0 {
		return nil, ErrTimeStep
	}

	R := Rzyx(eta[3], eta[4], eta[5])
	T := Tzyx(eta[3], eta[4])

	pDot := mul3(R, [3]float64{nu[0], nu[1], nu[2]})
	aDot := mul3(T, [3]float64{nu[3], nu[4], nu[5]})

	out := make([]float64, 6)
	for i := 0; i < 3; i++ {
		out[i] = eta[i] + dt*pDot[i]
		out[i+3] = eta[i+3] + dt*aDot[i]
	}
	return out, nil
}
