package models

import (
	"fmt"
	"math"

	"pendlab/internal/dynamo"
)

const (
	DefaultMass    = 1.0
	DefaultLength  = 1.0
	DefaultGravity = 9.81

	simpleDt = 1.0 / 240
)

// SimplePendulumConfig holds the parameters for a single point-mass
// pendulum. Zero-valued mass/length/gravity fall back to defaults;
// validation happens once at construction.
type SimplePendulumConfig struct {
	Mass            float64 `yaml:"mass"`
	Length          float64 `yaml:"length"`
	Gravity         float64 `yaml:"gravity"`
	Damping         float64 `yaml:"damping"`
	InitialAngle    float64 `yaml:"initial_angle"`
	InitialVelocity float64 `yaml:"initial_velocity"`
}

func (c *SimplePendulumConfig) applyDefaults() {
	if c.Mass == 0 {
		c.Mass = DefaultMass
	}
	if c.Length == 0 {
		c.Length = DefaultLength
	}
	if c.Gravity == 0 {
		c.Gravity = DefaultGravity
	}
}

func (c SimplePendulumConfig) Validate() error {
	if c.Mass <= 0 {
		return fmt.Errorf("%w: mass %g", dynamo.ErrInvalidParameter, c.Mass)
	}
	if c.Length <= 0 {
		return fmt.Errorf("%w: length %g", dynamo.ErrInvalidParameter, c.Length)
	}
	if c.Gravity <= 0 {
		return fmt.Errorf("%w: gravity %g", dynamo.ErrInvalidParameter, c.Gravity)
	}
	if c.Damping < 0 {
		return fmt.Errorf("%w: damping %g", dynamo.ErrInvalidParameter, c.Damping)
	}
	return nil
}

// SimplePendulum is a single bob on a rigid massless rod, pivot at the
// origin, hanging along -Y at theta = 0. State: [theta, omega].
type SimplePendulum struct {
	cfg SimplePendulumConfig
}

func NewSimplePendulum(cfg SimplePendulumConfig) (*SimplePendulum, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SimplePendulum{cfg: cfg}, nil
}

func (p *SimplePendulum) Name() string { return "simple" }
func (p *SimplePendulum) Bodies() int  { return 1 }

func (p *SimplePendulum) FixedDt() float64 { return simpleDt }

func (p *SimplePendulum) InitialState() dynamo.State {
	return dynamo.State{p.cfg.InitialAngle, p.cfg.InitialVelocity}
}

func (p *SimplePendulum) Derivatives(t float64, x dynamo.State, dst dynamo.State) {
	theta, omega := x[0], x[1]
	dst[0] = omega
	dst[1] = -(p.cfg.Gravity/p.cfg.Length)*math.Sin(theta) - p.cfg.Damping*omega
}

// Physics converts [theta, omega] to the bob's Cartesian position and
// velocity.
func (p *SimplePendulum) Physics(t float64, x dynamo.State, out *dynamo.PhysicsState) {
	theta, omega := x[0], x[1]
	l := p.cfg.Length

	out.Time = t
	out.Positions = append(out.Positions[:0], dynamo.Vec3{
		X: l * math.Sin(theta),
		Y: -l * math.Cos(theta),
	})
	out.Velocities = append(out.Velocities[:0], dynamo.Vec3{
		X: l * omega * math.Cos(theta),
		Y: l * omega * math.Sin(theta),
	})
}

func (p *SimplePendulum) Energy(x dynamo.State) dynamo.EnergyState {
	theta, omega := x[0], x[1]
	m, l, g := p.cfg.Mass, p.cfg.Length, p.cfg.Gravity

	v := l * omega
	ke := 0.5 * m * v * v
	pe := m * g * l * (1 - math.Cos(theta))

	return dynamo.EnergyState{Kinetic: ke, Potential: pe, Total: ke + pe}
}

func (p *SimplePendulum) PhasePoints(t float64, x dynamo.State, dst []dynamo.PhasePoint) []dynamo.PhasePoint {
	return append(dst[:0], dynamo.PhasePoint{Angle: x[0], Velocity: x[1], Time: t})
}

func (p *SimplePendulum) Params() map[string]float64 {
	return map[string]float64{
		"mass":    p.cfg.Mass,
		"length":  p.cfg.Length,
		"gravity": p.cfg.Gravity,
		"damping": p.cfg.Damping,
	}
}
