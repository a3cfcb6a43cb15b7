package integrators

import (
	"math"
	"testing"

	"pendlab/internal/dynamo"
)

// simple harmonic oscillator: x'' = -x, exact solution cos(t).
func shm(t float64, x dynamo.State, dst dynamo.State) {
	dst[0] = x[1]
	dst[1] = -x[0]
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dst := make(dynamo.State, 2)
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		integ.Step(shm, x, float64(i)*dt, dt, dst)
		copy(x, dst)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-6 {
		t.Errorf("position error too large: got %.8f, expected %.8f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-6 {
		t.Errorf("velocity error too large: got %.8f, expected %.8f", x[1], expectedV)
	}
}

func TestRK4NoAllocations(t *testing.T) {
	integ := NewRK4()
	x := dynamo.State{1.0, 0.0}
	dst := make(dynamo.State, 2)

	allocs := testing.AllocsPerRun(1000, func() {
		integ.Step(shm, x, 0, 1.0/240, dst)
		copy(x, dst)
	})

	if allocs != 0 {
		t.Errorf("expected zero allocations per step, got %.1f", allocs)
	}
}

func TestRK4MaxStateLength(t *testing.T) {
	integ := NewRK4()
	x := make(dynamo.State, dynamo.MaxStateLen)
	dst := make(dynamo.State, dynamo.MaxStateLen)
	for i := range x {
		x[i] = float64(i) * 0.1
	}

	decay := func(t float64, x dynamo.State, dst dynamo.State) {
		for i := range x {
			dst[i] = -x[i]
		}
	}

	integ.Step(decay, x, 0, 0.01, dst)

	for i := range dst {
		if math.IsNaN(dst[i]) {
			t.Fatalf("NaN at index %d", i)
		}
	}
}

func TestEulerFirstOrder(t *testing.T) {
	integ := NewEuler()

	x := dynamo.State{1.0, 0.0}
	dst := make(dynamo.State, 2)
	dt := 0.001
	steps := 1000

	for i := 0; i < steps; i++ {
		integ.Step(shm, x, float64(i)*dt, dt, dst)
		copy(x, dst)
	}

	// Euler at dt=1e-3 over 1 s: error on the order of dt, not dt^4.
	expectedX := math.Cos(1.0)
	if math.Abs(x[0]-expectedX) > 0.01 {
		t.Errorf("euler error unexpectedly large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[0]-expectedX) < 1e-8 {
		t.Errorf("euler suspiciously accurate; wrong method under test?")
	}
}

func TestVelocityVerletEnergyStable(t *testing.T) {
	integ := NewVelocityVerlet()

	// Unit spring-mass: a = -x.
	accel := func(pos, vel, acc []float64) {
		acc[0] = -pos[0]
	}

	pos := []float64{1.0}
	vel := []float64{0.0}
	dt := 0.01

	energy := func() float64 {
		return 0.5*vel[0]*vel[0] + 0.5*pos[0]*pos[0]
	}

	e0 := energy()
	for i := 0; i < 10000; i++ {
		integ.Step(accel, pos, vel, dt)
	}

	drift := math.Abs(energy()-e0) / e0
	if drift > 1e-3 {
		t.Errorf("verlet energy drift too large over 100s: %e", drift)
	}
}
