package sim

import (
	"fmt"

	"pendlab/internal/dynamo"
	"pendlab/internal/integrators"
)

// Simulation drives one model at its fixed timestep. Not safe for
// concurrent use: the state vector, integrator scratch and history
// buffers are all exclusively owned.
type Simulation struct {
	model   dynamo.Model
	stepper dynamo.Stepper

	x  dynamo.State // current state
	x0 dynamo.State // snapshot taken at Init, the Reset target
	nx dynamo.State // step destination, swapped with x
	t  float64

	recording bool
	hist      *history

	phaseBuf []dynamo.PhasePoint
}

// New wraps model in a fresh lifecycle. A nil stepper defaults to RK4,
// the configured integrator for all three pendulum models.
func New(model dynamo.Model, stepper dynamo.Stepper) (*Simulation, error) {
	if n := 2 * model.Bodies(); n > dynamo.MaxStateLen {
		return nil, fmt.Errorf("%w: %d", dynamo.ErrStateTooLarge, n)
	}
	if stepper == nil {
		stepper = integrators.NewRK4()
	}

	s := &Simulation{
		model:   model,
		stepper: stepper,
		hist:    newHistory(),
	}
	s.Init()
	return s, nil
}

// Init derives the initial state from the model's configuration,
// snapshots it as the reset target, zeroes time and clears history.
// Callable repeatedly; combined with Swap it is the re-initialization
// path when parameters change.
func (s *Simulation) Init() {
	s.x = s.model.InitialState()
	s.x0 = s.x.Clone()
	s.nx = make(dynamo.State, len(s.x))
	s.t = 0
	s.hist.reset()
}

// Swap replaces the model (e.g. after a parameter change) and
// re-initializes. The stepper is kept.
func (s *Simulation) Swap(model dynamo.Model) error {
	if n := 2 * model.Bodies(); n > dynamo.MaxStateLen {
		return fmt.Errorf("%w: %d", dynamo.ErrStateTooLarge, n)
	}
	s.model = model
	s.Init()
	return nil
}

func (s *Simulation) Model() dynamo.Model { return s.model }
func (s *Simulation) Time() float64       { return s.t }

// State returns a copy of the current state vector.
func (s *Simulation) State() dynamo.State { return s.x.Clone() }

// FixedDt is the timestep every Step call actually advances by.
func (s *Simulation) FixedDt() float64 { return s.model.FixedDt() }

// Step advances the simulation by one integration step and returns the
// resulting PhysicsState, which the caller owns. The model's fixed
// timestep always wins over dt; dt is only used for models that do not
// configure one, so integration stability never depends on frame
// timing.
func (s *Simulation) Step(dt float64) *dynamo.PhysicsState {
	h := s.model.FixedDt()
	if h <= 0 {
		h = dt
	}

	s.stepper.Step(s.model.Derivatives, s.x, s.t, h, s.nx)
	s.x, s.nx = s.nx, s.x
	s.t += h

	out := &dynamo.PhysicsState{}
	s.model.Physics(s.t, s.x, out)

	if s.recording {
		s.record(out)
	}
	return out
}

func (s *Simulation) record(ps *dynamo.PhysicsState) {
	e := s.model.Energy(s.x)

	var phase []dynamo.PhasePoint
	if sampler, ok := s.model.(dynamo.PhaseSampler); ok {
		s.phaseBuf = sampler.PhasePoints(s.t, s.x, s.phaseBuf)
		phase = s.phaseBuf
	}

	s.hist.append(s.t, ps.Positions, ps.Velocities, e, phase)
}

// Energy is always computed fresh from the current state, never read
// from history.
func (s *Simulation) Energy() dynamo.EnergyState {
	return s.model.Energy(s.x)
}

// PhaseSpace returns one PhasePoint per oscillating body, or nil for
// models without phase-space output.
func (s *Simulation) PhaseSpace() []dynamo.PhasePoint {
	sampler, ok := s.model.(dynamo.PhaseSampler)
	if !ok {
		return nil
	}
	return sampler.PhasePoints(s.t, s.x, nil)
}

// Healthy reports whether the state vector is still finite. Drivers
// should poll this after stepping and halt playback on false rather
// than render NaN output.
func (s *Simulation) Healthy() bool { return s.x.IsValid() }

// Reset restores the state snapshot taken at the last Init, zeroes
// time and clears history.
func (s *Simulation) Reset() {
	copy(s.x, s.x0)
	s.t = 0
	s.hist.reset()
}

// Recording reports whether history is being captured.
func (s *Simulation) Recording() bool { return s.recording }

// SetRecording toggles history capture. Off by default so long
// real-time sessions stay bounded; enabling clears prior history so an
// export reflects only the freshly recorded run.
func (s *Simulation) SetRecording(enabled bool) {
	if enabled && !s.recording {
		s.hist.reset()
	}
	s.recording = enabled
}

// HistoryLen is the number of recorded samples currently retained.
func (s *Simulation) HistoryLen() int { return len(s.hist.times) }

// Export snapshots parameters, metadata and the full history buffers.
// Everything is defensively copied; mutating the simulation afterwards
// does not touch the returned value.
func (s *Simulation) Export() *ExportData {
	return s.hist.export(s.model)
}
