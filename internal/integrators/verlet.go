package integrators

import "pendlab/internal/dynamo"

// VelocityVerlet integrates systems with a clean position/velocity/
// acceleration split. None of the current pendulum models use it (they
// go through the generic derivative signature), but it is part of the
// integrator contract for models that can provide an AccelFunc.
type VelocityVerlet struct {
	a0, a1 [dynamo.MaxStateLen / 2]float64
}

func NewVelocityVerlet() *VelocityVerlet {
	return &VelocityVerlet{}
}

func (v *VelocityVerlet) Name() string { return "verlet" }

// Step advances positions and velocities in place:
// pos' = pos + vel*dt + 0.5*a*dt^2, then velocity from the average of
// the accelerations at the old and new positions.
func (v *VelocityVerlet) Step(accel dynamo.AccelFunc, pos, vel []float64, dt float64) {
	n := len(pos)
	a0 := v.a0[:n]
	a1 := v.a1[:n]

	accel(pos, vel, a0)

	dt2 := 0.5 * dt * dt
	for i := 0; i < n; i++ {
		pos[i] += vel[i]*dt + a0[i]*dt2
	}

	accel(pos, vel, a1)

	halfDt := 0.5 * dt
	for i := 0; i < n; i++ {
		vel[i] += (a0[i] + a1[i]) * halfDt
	}
}
