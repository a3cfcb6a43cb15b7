package sim

import "math"

// DefaultMaxStepsPerFrame caps catch-up work after a stall. At 240 Hz
// it covers frame deltas up to ~66 ms (15 fps) before the clock starts
// dropping simulated time instead of freezing the render loop.
const DefaultMaxStepsPerFrame = 16

// FrameClock converts variable wall-clock frame deltas into a whole
// number of fixed-timestep calls. This is the driver-side half of the
// fixed-timestep contract: the simulation only ever advances by its
// own dt, and the clock decides how many of those steps a frame is
// worth, bounded so a long stall cannot trigger a runaway catch-up
// loop.
type FrameClock struct {
	fixedDt  float64
	maxSteps int
}

func NewFrameClock(fixedDt float64) *FrameClock {
	return &FrameClock{fixedDt: fixedDt, maxSteps: DefaultMaxStepsPerFrame}
}

// SetMaxSteps overrides the per-frame step cap. Values below 1 are
// clamped to 1.
func (c *FrameClock) SetMaxSteps(n int) {
	if n < 1 {
		n = 1
	}
	c.maxSteps = n
}

// Steps returns how many fixed steps to execute for a frame delta of
// elapsed seconds: ceil(elapsed/fixedDt), capped.
func (c *FrameClock) Steps(elapsed float64) int {
	if elapsed <= 0 || c.fixedDt <= 0 {
		return 0
	}
	n := int(math.Ceil(elapsed / c.fixedDt))
	if n > c.maxSteps {
		n = c.maxSteps
	}
	return n
}
