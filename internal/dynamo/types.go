package dynamo

import "math"

// MaxStateLen bounds the state vector so integrator scratch buffers can
// be pre-allocated once. 20 = 2 coordinates per body x 10 bodies.
const MaxStateLen = 20

// State is a generalized state vector: coordinates first, then the
// matching velocities.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Vec3 is a Cartesian position or velocity. The pendulum models are
// planar; Z stays zero but the export format carries it.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PhysicsState is the per-step snapshot handed to the driver. The
// caller owns the value after return; nothing inside aliases the
// simulation's internal buffers.
type PhysicsState struct {
	Time          float64
	Positions     []Vec3
	Velocities    []Vec3
	Accelerations []Vec3 // optional, nil unless the model fills it
}

// EnergyState is always derived fresh from the current state vector,
// never cached.
type EnergyState struct {
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
	Total     float64 `json:"total"`
}

// PhasePoint samples one oscillator in phase space.
type PhasePoint struct {
	Angle    float64 `json:"angle"`
	Velocity float64 `json:"velocity"`
	Time     float64 `json:"time"`
}

// DerivFunc writes dX/dt for state x at time t into dst. dst has the
// same length as x and is caller-owned; implementations must not keep
// a reference to either slice.
type DerivFunc func(t float64, x State, dst State)

// AccelFunc is the split-form derivative used by velocity Verlet:
// accelerations as a function of positions and velocities.
type AccelFunc func(pos, vel, acc []float64)

// Stepper advances a state vector by one fixed step. Implementations
// keep their own scratch buffers and must not allocate per call.
type Stepper interface {
	Name() string
	Step(f DerivFunc, x State, t, dt float64, dst State)
}

// Model is the capability interface each concrete system implements.
// The shared lifecycle (package sim) supplies stepping, recording,
// reset and export on top of it.
type Model interface {
	Name() string
	// Bodies is the number of coupled point masses; len(state) == 2*Bodies().
	Bodies() int
	// InitialState derives the starting state vector from the model's
	// validated configuration.
	InitialState() State
	// Derivatives writes the equations of motion into dst.
	Derivatives(t float64, x State, dst State)
	// FixedDt is the integration timestep the model is stable at.
	// A zero return lets the caller-supplied dt through.
	FixedDt() float64
	// Physics converts the opaque state vector into Cartesian form.
	Physics(t float64, x State, out *PhysicsState)
	Energy(x State) EnergyState
	// Params is a scalar snapshot of the configuration for reports.
	Params() map[string]float64
}

// PhaseSampler is implemented by models that expose phase-space
// samples, one per independently meaningful angular coordinate.
type PhaseSampler interface {
	PhasePoints(t float64, x State, dst []PhasePoint) []PhasePoint
}
