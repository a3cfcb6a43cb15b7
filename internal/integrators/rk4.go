package integrators

import "pendlab/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. It is the
// default for every pendulum model: at the 1/240 s to 1/480 s steps
// the models run at, it keeps the chaotic double pendulum's energy
// drift inside scientific tolerance where Euler blows up.
//
// Scratch buffers are owned per instance, sized to the maximum
// supported state length. Step performs no heap allocation, which also
// means an RK4 value must not be shared between concurrently stepping
// simulations.
type RK4 struct {
	k1, k2, k3, k4 [dynamo.MaxStateLen]float64
	tmp            [dynamo.MaxStateLen]float64
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(f dynamo.DerivFunc, x dynamo.State, t, dt float64, dst dynamo.State) {
	n := len(x)
	k1 := r.k1[:n]
	k2 := r.k2[:n]
	k3 := r.k3[:n]
	k4 := r.k4[:n]
	tmp := dynamo.State(r.tmp[:n])

	f(t, x, k1)

	half := dt * 0.5
	for i := 0; i < n; i++ {
		tmp[i] = x[i] + half*k1[i]
	}
	f(t+half, tmp, k2)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + half*k2[i]
	}
	f(t+half, tmp, k3)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*k3[i]
	}
	f(t+dt, tmp, k4)

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		dst[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
}
