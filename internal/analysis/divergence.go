// Package analysis provides offline diagnostics over simulations:
// trajectory divergence, a largest-Lyapunov estimate, and frequency
// analysis of recorded series.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"pendlab/internal/dynamo"
	"pendlab/internal/integrators"
	"pendlab/internal/sim"
)

// PhaseDistance is the Euclidean distance between two state vectors of
// equal length.
func PhaseDistance(a, b dynamo.State) float64 {
	return floats.Distance(a, b, 2)
}

// Divergence steps two simulations in lockstep for the given simulated
// duration and returns the phase-space distance sampled once per step.
// Both simulations are reset first so the result is a function of
// their initial conditions only.
func Divergence(a, b *sim.Simulation, duration float64) []float64 {
	a.Reset()
	b.Reset()

	dt := a.FixedDt()
	steps := int(duration / dt)
	out := make([]float64, 0, steps)

	for i := 0; i < steps; i++ {
		a.Step(0)
		b.Step(0)
		out = append(out, PhaseDistance(a.State(), b.State()))
	}
	return out
}

// MaxGrowth returns the largest ratio of separation to the initial
// separation d0 over a divergence series.
func MaxGrowth(separations []float64, d0 float64) float64 {
	if len(separations) == 0 || d0 == 0 {
		return 0
	}
	return floats.Max(separations) / d0
}

// LargestLyapunov estimates the largest Lyapunov exponent of a model
// by the Benettin renormalization method: carry a companion trajectory
// a distance d0 away, and each step accumulate the log-growth of the
// separation and rescale the companion back to d0. Positive values
// indicate chaos.
func LargestLyapunov(model dynamo.Model, duration, d0 float64) float64 {
	dt := model.FixedDt()
	steps := int(duration / dt)
	if steps == 0 || d0 <= 0 {
		return 0
	}

	integ := integrators.NewRK4()
	integB := integrators.NewRK4()

	x := model.InitialState()
	xp := x.Clone()
	xp[0] += d0

	nx := make(dynamo.State, len(x))
	nxp := make(dynamo.State, len(x))

	t := 0.0
	sumLog := 0.0
	for i := 0; i < steps; i++ {
		integ.Step(model.Derivatives, x, t, dt, nx)
		integB.Step(model.Derivatives, xp, t, dt, nxp)
		x, nx = nx, x
		xp, nxp = nxp, xp
		t += dt

		sep := floats.Distance(x, xp, 2)
		if sep <= 0 || math.IsNaN(sep) {
			continue
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	return sumLog / (float64(steps) * dt)
}
