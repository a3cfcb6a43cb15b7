package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"pendlab/internal/models"
)

func newSimple(t *testing.T) *Simulation {
	t.Helper()
	m, err := models.NewSimplePendulum(models.SimplePendulumConfig{
		InitialAngle: math.Pi / 4,
	})
	require.NoError(t, err)
	s, err := New(m, nil)
	require.NoError(t, err)
	return s
}

func TestStepUsesFixedTimestep(t *testing.T) {
	s := newSimple(t)

	// The caller-supplied frame delta must not leak into integration.
	s.Step(1.0 / 60)
	require.InDelta(t, 1.0/240, s.Time(), 1e-15)

	s.Step(0.5)
	require.InDelta(t, 2.0/240, s.Time(), 1e-15)
}

func TestStepReturnsCallerOwnedState(t *testing.T) {
	s := newSimple(t)

	a := s.Step(0)
	b := s.Step(0)

	require.NotSame(t, a, b)
	require.NotSame(t, &a.Positions[0], &b.Positions[0])
	require.NotEqual(t, a.Time, b.Time)
}

func TestResetDeterminism(t *testing.T) {
	s := newSimple(t)

	const steps = 500
	first := make([]float64, 0, steps)
	for i := 0; i < steps; i++ {
		ps := s.Step(0)
		first = append(first, ps.Positions[0].X)
	}

	s.Reset()
	require.Zero(t, s.Time())

	for i := 0; i < steps; i++ {
		ps := s.Step(0)
		// Bit-for-bit: same code path, same state, same floats.
		require.Equal(t, first[i], ps.Positions[0].X, "step %d", i)
	}
}

func TestRecordingOffByDefault(t *testing.T) {
	s := newSimple(t)

	for i := 0; i < 100; i++ {
		s.Step(0)
	}
	require.Zero(t, s.HistoryLen())
}

func TestEnableRecordingClearsHistory(t *testing.T) {
	s := newSimple(t)

	s.SetRecording(true)
	for i := 0; i < 50; i++ {
		s.Step(0)
	}
	require.Equal(t, 50, s.HistoryLen())

	// Toggling off and on again starts a fresh recording.
	s.SetRecording(false)
	s.SetRecording(true)
	require.Zero(t, s.HistoryLen())
}

func TestExportRoundTrip(t *testing.T) {
	s := newSimple(t)
	s.SetRecording(true)

	const steps = 1000
	for i := 0; i < steps; i++ {
		s.Step(1.0 / 60)
	}

	data := s.Export()
	require.Equal(t, steps, data.Steps)
	require.Len(t, data.Times, steps)
	require.Len(t, data.Positions, steps)
	require.Len(t, data.Velocities, steps)
	require.Len(t, data.Total, steps)
	require.Len(t, data.Phase, steps)

	dt := s.FixedDt()
	for i := 1; i < steps; i++ {
		require.InDelta(t, data.Times[i-1]+dt, data.Times[i], 1e-12,
			"times must increase by exactly the fixed timestep")
	}
}

func TestExportIsDefensiveCopy(t *testing.T) {
	s := newSimple(t)
	s.SetRecording(true)
	for i := 0; i < 10; i++ {
		s.Step(0)
	}

	data := s.Export()
	before := data.Times[0]

	for i := 0; i < 10; i++ {
		s.Step(0)
	}
	s.Reset()

	require.Equal(t, before, data.Times[0])
	require.Equal(t, 10, data.Steps)
}

func TestHistoryTrimDropOldest(t *testing.T) {
	s := newSimple(t)
	s.SetRecording(true)

	// Run past the cap to force at least one trim.
	total := maxSamples + 200
	for i := 0; i < total; i++ {
		s.Step(0)
	}

	n := s.HistoryLen()
	require.LessOrEqual(t, n, maxSamples)
	require.GreaterOrEqual(t, n, trimTo)

	data := s.Export()
	// Oldest samples were dropped: the first retained time is late,
	// and spacing is still exactly one fixed step.
	require.Greater(t, data.Times[0], 0.0)
	dt := s.FixedDt()
	require.InDelta(t, float64(total)*dt, data.Times[n-1], 1e-9)
	for i := 1; i < n; i++ {
		require.InDelta(t, dt, data.Times[i]-data.Times[i-1], 1e-12)
	}
}

func TestResetClearsHistory(t *testing.T) {
	s := newSimple(t)
	s.SetRecording(true)
	for i := 0; i < 20; i++ {
		s.Step(0)
	}

	s.Reset()
	require.Zero(t, s.HistoryLen())
}

func TestHealthy(t *testing.T) {
	s := newSimple(t)
	for i := 0; i < 100; i++ {
		s.Step(0)
	}
	require.True(t, s.Healthy())
}

func TestSwapReinitializes(t *testing.T) {
	s := newSimple(t)
	s.SetRecording(true)
	for i := 0; i < 20; i++ {
		s.Step(0)
	}

	m, err := models.NewChainPendulum(models.ChainPendulumConfig{Segments: 4})
	require.NoError(t, err)
	require.NoError(t, s.Swap(m))

	require.Zero(t, s.Time())
	require.Zero(t, s.HistoryLen())
	require.Len(t, s.State(), 8)
}

func TestPhaseSpace(t *testing.T) {
	s := newSimple(t)
	pts := s.PhaseSpace()
	require.Len(t, pts, 1)
	require.InDelta(t, math.Pi/4, pts[0].Angle, 1e-15)
}

func TestFrameClockSteps(t *testing.T) {
	c := NewFrameClock(1.0 / 240)

	require.Equal(t, 0, c.Steps(0))
	require.Equal(t, 0, c.Steps(-1))
	require.Equal(t, 1, c.Steps(0.001))
	require.Equal(t, 4, c.Steps(1.0/60))
	require.Equal(t, 8, c.Steps(1.0/30))

	// Stall: capped, not runaway.
	require.Equal(t, DefaultMaxStepsPerFrame, c.Steps(5.0))

	c.SetMaxSteps(2)
	require.Equal(t, 2, c.Steps(1.0))
}
