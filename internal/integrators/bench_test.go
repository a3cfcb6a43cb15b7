package integrators

import (
	"testing"

	"pendlab/internal/dynamo"
)

func chainDeriv(t float64, x dynamo.State, dst dynamo.State) {
	n := len(x) / 2
	for i := 0; i < n; i++ {
		dst[i] = x[n+i]
		dst[n+i] = -x[i] * 0.1
	}
}

func BenchmarkEuler(b *testing.B) {
	integ := NewEuler()
	x := dynamo.State{1.0, 0.0}
	dst := make(dynamo.State, 2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(shm, x, 0, 1.0/240, dst)
		copy(x, dst)
	}
}

func BenchmarkRK4(b *testing.B) {
	integ := NewRK4()
	x := dynamo.State{1.0, 0.0}
	dst := make(dynamo.State, 2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(shm, x, 0, 1.0/240, dst)
		copy(x, dst)
	}
}

func BenchmarkRK4_Chain10(b *testing.B) {
	integ := NewRK4()
	x := make(dynamo.State, dynamo.MaxStateLen)
	dst := make(dynamo.State, dynamo.MaxStateLen)
	for i := range x {
		x[i] = float64(i) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(chainDeriv, x, 0, 1.0/240, dst)
		copy(x, dst)
	}
}

func BenchmarkVelocityVerlet(b *testing.B) {
	integ := NewVelocityVerlet()
	accel := func(pos, vel, acc []float64) {
		acc[0] = -pos[0]
	}
	pos := []float64{1.0}
	vel := []float64{0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(accel, pos, vel, 1.0/240)
	}
}
