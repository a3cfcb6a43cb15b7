// Package dynamo provides the core primitives for fixed-timestep
// pendulum simulation.
//
// The package defines the shared vocabulary of the engine:
//
//   - [State]: generalized coordinates followed by generalized velocities
//   - [Model]: equations of motion plus state conversion for one system
//   - [Stepper]: numerical integrator contract
//   - [PhysicsState], [EnergyState], [PhasePoint]: the three data
//     products consumed by drivers and exporters
//
// # Thread Safety
//
// Models, steppers and the simulation lifecycle built on them are NOT
// thread-safe. Each simulation instance owns its state and scratch
// buffers exclusively and must be driven from a single goroutine.
package dynamo
