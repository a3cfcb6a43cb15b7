package models

import (
	"math"
	"testing"

	"pendlab/internal/dynamo"
)

func TestDoublePendulumEquilibrium(t *testing.T) {
	d, err := NewDoublePendulum(DoublePendulumConfig{})
	if err != nil {
		t.Fatal(err)
	}

	dx := make(dynamo.State, 4)
	d.Derivatives(0, dynamo.State{0, 0, 0, 0}, dx)

	for i, v := range dx {
		if math.Abs(v) > 1e-12 {
			t.Errorf("expected zero derivative at equilibrium, got dx[%d]=%f", i, v)
		}
	}
}

func TestDoublePendulumSymmetry(t *testing.T) {
	d, err := NewDoublePendulum(DoublePendulumConfig{})
	if err != nil {
		t.Fatal(err)
	}

	dx1 := make(dynamo.State, 4)
	dx2 := make(dynamo.State, 4)
	d.Derivatives(0, dynamo.State{0.1, 0.1, 0, 0}, dx1)
	d.Derivatives(0, dynamo.State{-0.1, -0.1, 0, 0}, dx2)

	if math.Abs(dx1[2]+dx2[2]) > 1e-9 {
		t.Errorf("expected mirrored alpha1: %f vs %f", dx1[2], dx2[2])
	}
	if math.Abs(dx1[3]+dx2[3]) > 1e-9 {
		t.Errorf("expected mirrored alpha2: %f vs %f", dx1[3], dx2[3])
	}
}

func TestDoublePendulumEnergyConservation(t *testing.T) {
	d, err := NewDoublePendulum(DoublePendulumConfig{
		Theta1: math.Pi / 2,
		Theta2: math.Pi / 2,
	})
	if err != nil {
		t.Fatal(err)
	}

	x := d.InitialState()
	e0 := d.Energy(x).Total

	x = stepModel(d, x, int(10/d.FixedDt()))

	if !x.IsValid() {
		t.Fatal("state diverged")
	}

	e1 := d.Energy(x).Total
	drift := math.Abs(e1-e0) / math.Abs(e0)
	if drift > 1e-3 {
		t.Errorf("energy drift %e exceeds 1e-3 over 10s", drift)
	}
}

// A microscopic perturbation of theta1 must grow by more than a factor
// of 10 within 5 simulated seconds. Exponential sensitivity is the
// expected behavior at this amplitude, not an integration bug.
func TestDoublePendulumChaoticSensitivity(t *testing.T) {
	const perturbation = 1e-6

	base := DoublePendulumConfig{Theta1: 2.0, Theta2: 2.0}
	a, err := NewDoublePendulum(base)
	if err != nil {
		t.Fatal(err)
	}
	pert := base
	pert.Theta1 += perturbation
	b, err := NewDoublePendulum(pert)
	if err != nil {
		t.Fatal(err)
	}

	xa := a.InitialState()
	xb := b.InitialState()

	steps := int(5 / a.FixedDt())
	chunk := steps / 50
	maxRatio := 0.0
	for s := 0; s < 50; s++ {
		xa = stepModel(a, xa, chunk)
		xb = stepModel(b, xb, chunk)

		dist := 0.0
		for i := range xa {
			diff := xa[i] - xb[i]
			dist += diff * diff
		}
		dist = math.Sqrt(dist)
		if ratio := dist / perturbation; ratio > maxRatio {
			maxRatio = ratio
		}
	}

	if maxRatio < 10 {
		t.Errorf("trajectories diverged only %.1fx within 5s; expected >10x", maxRatio)
	}
}

func TestDoublePendulumPhysicsChains(t *testing.T) {
	d, err := NewDoublePendulum(DoublePendulumConfig{Length1: 1, Length2: 1})
	if err != nil {
		t.Fatal(err)
	}

	var ps dynamo.PhysicsState
	// First rod horizontal, second hanging down from it.
	d.Physics(0, dynamo.State{math.Pi / 2, 0, 0, 0}, &ps)

	if len(ps.Positions) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(ps.Positions))
	}
	p1, p2 := ps.Positions[0], ps.Positions[1]
	if math.Abs(p1.X-1) > 1e-12 || math.Abs(p1.Y) > 1e-12 {
		t.Errorf("bob1 should be at (1,0), got %+v", p1)
	}
	if math.Abs(p2.X-1) > 1e-12 || math.Abs(p2.Y+1) > 1e-12 {
		t.Errorf("bob2 should be at (1,-1), got %+v", p2)
	}
}

func TestDoublePendulumDampingDecays(t *testing.T) {
	d, err := NewDoublePendulum(DoublePendulumConfig{
		Theta1:  1.0,
		Theta2:  1.0,
		Damping: 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}

	x := d.InitialState()
	e0 := d.Energy(x).Total
	x = stepModel(d, x, int(10/d.FixedDt()))
	e1 := d.Energy(x).Total

	if e1 >= e0 {
		t.Errorf("damped run should lose energy: %f -> %f", e0, e1)
	}
}
