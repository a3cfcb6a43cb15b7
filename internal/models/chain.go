package models

import (
	"fmt"
	"math"

	"pendlab/internal/dynamo"
)

const (
	MinSegments = 2
	MaxSegments = 10

	chainDt = 1.0 / 240
)

// ChainPendulumConfig holds the parameters for an N-segment chain. All
// segments share the same mass and length.
type ChainPendulumConfig struct {
	Segments        int     `yaml:"segments"`
	Mass            float64 `yaml:"mass"`
	Length          float64 `yaml:"length"`
	Gravity         float64 `yaml:"gravity"`
	Damping         float64 `yaml:"damping"`
	Stiffness       float64 `yaml:"stiffness"`
	Coupling        float64 `yaml:"coupling"`
	InitialAngle    float64 `yaml:"initial_angle"`
	InitialVelocity float64 `yaml:"initial_velocity"`
}

func (c *ChainPendulumConfig) applyDefaults() {
	if c.Mass == 0 {
		c.Mass = DefaultMass
	}
	if c.Length == 0 {
		c.Length = DefaultLength
	}
	if c.Gravity == 0 {
		c.Gravity = DefaultGravity
	}
	if c.Stiffness == 0 {
		c.Stiffness = 30.0
	}
	if c.Coupling == 0 {
		c.Coupling = 1.0
	}
}

func (c ChainPendulumConfig) Validate() error {
	if c.Segments < MinSegments || c.Segments > MaxSegments {
		return fmt.Errorf("%w: got %d", dynamo.ErrSegmentCount, c.Segments)
	}
	if c.Mass <= 0 {
		return fmt.Errorf("%w: mass %g", dynamo.ErrInvalidParameter, c.Mass)
	}
	if c.Length <= 0 {
		return fmt.Errorf("%w: length %g", dynamo.ErrInvalidParameter, c.Length)
	}
	if c.Gravity <= 0 {
		return fmt.Errorf("%w: gravity %g", dynamo.ErrInvalidParameter, c.Gravity)
	}
	if c.Damping < 0 || c.Stiffness < 0 || c.Coupling < 0 {
		return fmt.Errorf("%w: damping/stiffness/coupling must be >= 0", dynamo.ErrInvalidParameter)
	}
	return nil
}

// ChainPendulum approximates an N-segment hanging chain with
// nearest-neighbor coupling instead of the full N-body Lagrangian.
// Segment i feels a gravity torque scaled by (n-i), standing in for
// the cumulative weight of the segments hanging below it, plus
// stiffness and velocity coupling to its immediate neighbors. The
// model is not physically exact and is not expected to conserve
// energy; it only has to stay numerically stable and bounded.
//
// State: [theta_0 .. theta_{n-1}, omega_0 .. omega_{n-1}].
type ChainPendulum struct {
	cfg ChainPendulumConfig
	n   int
}

func NewChainPendulum(cfg ChainPendulumConfig) (*ChainPendulum, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ChainPendulum{cfg: cfg, n: cfg.Segments}, nil
}

func (c *ChainPendulum) Name() string { return "chain" }
func (c *ChainPendulum) Bodies() int  { return c.n }

func (c *ChainPendulum) FixedDt() float64 { return chainDt }

// InitialState applies the configured angle and angular velocity
// uniformly to every segment.
func (c *ChainPendulum) InitialState() dynamo.State {
	x := make(dynamo.State, 2*c.n)
	for i := 0; i < c.n; i++ {
		x[i] = c.cfg.InitialAngle
		x[c.n+i] = c.cfg.InitialVelocity
	}
	return x
}

func (c *ChainPendulum) Derivatives(t float64, x dynamo.State, dst dynamo.State) {
	n := c.n
	gl := c.cfg.Gravity / c.cfg.Length
	k := c.cfg.Stiffness
	cv := c.cfg.Coupling

	for i := 0; i < n; i++ {
		theta, omega := x[i], x[n+i]

		alpha := -gl * float64(n-i) * math.Sin(theta)

		if i > 0 {
			alpha += k*(x[i-1]-theta) + cv*(x[n+i-1]-omega)
		}
		if i < n-1 {
			alpha += k*(x[i+1]-theta) + cv*(x[n+i+1]-omega)
		}

		alpha -= c.cfg.Damping * omega

		dst[i] = omega
		dst[n+i] = alpha
	}
}

// Physics accumulates positions and velocities segment by segment:
// each segment's absolute coordinates are the running sum of every
// previous segment's polar contribution.
func (c *ChainPendulum) Physics(t float64, x dynamo.State, out *dynamo.PhysicsState) {
	n := c.n
	l := c.cfg.Length

	out.Time = t
	out.Positions = out.Positions[:0]
	out.Velocities = out.Velocities[:0]

	var px, py, vx, vy float64
	for i := 0; i < n; i++ {
		theta, omega := x[i], x[n+i]
		px += l * math.Sin(theta)
		py -= l * math.Cos(theta)
		vx += l * omega * math.Cos(theta)
		vy += l * omega * math.Sin(theta)

		out.Positions = append(out.Positions, dynamo.Vec3{X: px, Y: py})
		out.Velocities = append(out.Velocities, dynamo.Vec3{X: vx, Y: vy})
	}
}

func (c *ChainPendulum) Energy(x dynamo.State) dynamo.EnergyState {
	n := c.n
	m, l, g := c.cfg.Mass, c.cfg.Length, c.cfg.Gravity

	var ke, pe, vx, vy float64
	for i := 0; i < n; i++ {
		theta, omega := x[i], x[n+i]
		vx += l * omega * math.Cos(theta)
		vy += l * omega * math.Sin(theta)
		ke += 0.5 * m * (vx*vx + vy*vy)

		// Segment i raises every mass below it; referenced to the
		// chain hanging straight down.
		pe += m * g * l * float64(n-i) * (1 - math.Cos(theta))
	}

	return dynamo.EnergyState{Kinetic: ke, Potential: pe, Total: ke + pe}
}

func (c *ChainPendulum) PhasePoints(t float64, x dynamo.State, dst []dynamo.PhasePoint) []dynamo.PhasePoint {
	dst = dst[:0]
	for i := 0; i < c.n; i++ {
		dst = append(dst, dynamo.PhasePoint{Angle: x[i], Velocity: x[c.n+i], Time: t})
	}
	return dst
}

func (c *ChainPendulum) Params() map[string]float64 {
	return map[string]float64{
		"segments":  float64(c.n),
		"mass":      c.cfg.Mass,
		"length":    c.cfg.Length,
		"gravity":   c.cfg.Gravity,
		"damping":   c.cfg.Damping,
		"stiffness": c.cfg.Stiffness,
		"coupling":  c.cfg.Coupling,
	}
}
