// Package sim implements the lifecycle shared by every pendulum model:
// fixed-timestep stepping, energy and phase-space readout, reset to
// the initial condition, bounded history recording and export
// snapshots.
//
// The lifecycle is composition, not inheritance: a [Simulation] wraps
// any [dynamo.Model] and supplies the stepping/recording machinery
// once; models only provide equations of motion and conversions.
package sim
