package integrators

import "pendlab/internal/dynamo"

// Euler is the explicit first-order method. Cheap and only suitable
// where a model explicitly configures it; the pendulum models default
// to RK4.
type Euler struct {
	k [dynamo.MaxStateLen]float64
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(f dynamo.DerivFunc, x dynamo.State, t, dt float64, dst dynamo.State) {
	n := len(x)
	k := e.k[:n]

	f(t, x, k)
	for i := 0; i < n; i++ {
		dst[i] = x[i] + dt*k[i]
	}
}
