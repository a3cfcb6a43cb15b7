package models

import (
	"fmt"
	"math"

	"pendlab/internal/dynamo"
)

// The double pendulum is the chaos-sensitivity case: it must conserve
// energy within tolerance at zero damping while two runs a microradian
// apart diverge super-linearly. It therefore runs at half the simple
// pendulum's timestep.
const doubleDt = 1.0 / 480

// DoublePendulumConfig holds the parameters for two point masses on
// rigid massless rods.
type DoublePendulumConfig struct {
	Mass1   float64 `yaml:"mass1"`
	Mass2   float64 `yaml:"mass2"`
	Length1 float64 `yaml:"length1"`
	Length2 float64 `yaml:"length2"`
	Gravity float64 `yaml:"gravity"`
	Damping float64 `yaml:"damping"`
	Theta1  float64 `yaml:"theta1"`
	Theta2  float64 `yaml:"theta2"`
	Omega1  float64 `yaml:"omega1"`
	Omega2  float64 `yaml:"omega2"`
}

func (c *DoublePendulumConfig) applyDefaults() {
	if c.Mass1 == 0 {
		c.Mass1 = DefaultMass
	}
	if c.Mass2 == 0 {
		c.Mass2 = DefaultMass
	}
	if c.Length1 == 0 {
		c.Length1 = DefaultLength
	}
	if c.Length2 == 0 {
		c.Length2 = DefaultLength
	}
	if c.Gravity == 0 {
		c.Gravity = DefaultGravity
	}
}

func (c DoublePendulumConfig) Validate() error {
	for name, v := range map[string]float64{
		"mass1": c.Mass1, "mass2": c.Mass2,
		"length1": c.Length1, "length2": c.Length2,
		"gravity": c.Gravity,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: %s %g", dynamo.ErrInvalidParameter, name, v)
		}
	}
	if c.Damping < 0 {
		return fmt.Errorf("%w: damping %g", dynamo.ErrInvalidParameter, c.Damping)
	}
	return nil
}

// DoublePendulum implements the full Lagrangian two-point-mass double
// pendulum. State: [theta1, theta2, omega1, omega2]. Bob 2 hangs off
// bob 1.
type DoublePendulum struct {
	cfg DoublePendulumConfig
}

func NewDoublePendulum(cfg DoublePendulumConfig) (*DoublePendulum, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &DoublePendulum{cfg: cfg}, nil
}

func (d *DoublePendulum) Name() string { return "double" }
func (d *DoublePendulum) Bodies() int  { return 2 }

func (d *DoublePendulum) FixedDt() float64 { return doubleDt }

func (d *DoublePendulum) InitialState() dynamo.State {
	return dynamo.State{d.cfg.Theta1, d.cfg.Theta2, d.cfg.Omega1, d.cfg.Omega2}
}

func (d *DoublePendulum) Derivatives(t float64, x dynamo.State, dst dynamo.State) {
	theta1, theta2, omega1, omega2 := x[0], x[1], x[2], x[3]
	m1, m2 := d.cfg.Mass1, d.cfg.Mass2
	l1, l2 := d.cfg.Length1, d.cfg.Length2
	g := d.cfg.Gravity

	delta := theta1 - theta2
	sinD, cosD := math.Sin(delta), math.Cos(delta)

	// Shared denominator 2*m1 + m2 - m2*cos(2*delta). Never zero for
	// positive masses.
	den := 2*m1 + m2 - m2*math.Cos(2*delta)

	alpha1 := (-g*(2*m1+m2)*math.Sin(theta1) -
		m2*g*math.Sin(theta1-2*theta2) -
		2*sinD*m2*(omega2*omega2*l2+omega1*omega1*l1*cosD)) /
		(l1 * den)

	alpha2 := (2 * sinD *
		(omega1*omega1*l1*(m1+m2) +
			g*(m1+m2)*math.Cos(theta1) +
			omega2*omega2*l2*m2*cosD)) /
		(l2 * den)

	// Damping acts on each angular acceleration directly. Not the
	// physical joint-friction torque; keeps the two equations
	// decoupled in the damping term.
	alpha1 -= d.cfg.Damping * omega1
	alpha2 -= d.cfg.Damping * omega2

	dst[0] = omega1
	dst[1] = omega2
	dst[2] = alpha1
	dst[3] = alpha2
}

// Physics chains bob 2's position and velocity off bob 1's.
func (d *DoublePendulum) Physics(t float64, x dynamo.State, out *dynamo.PhysicsState) {
	theta1, theta2, omega1, omega2 := x[0], x[1], x[2], x[3]
	l1, l2 := d.cfg.Length1, d.cfg.Length2

	p1 := dynamo.Vec3{X: l1 * math.Sin(theta1), Y: -l1 * math.Cos(theta1)}
	p2 := dynamo.Vec3{X: p1.X + l2*math.Sin(theta2), Y: p1.Y - l2*math.Cos(theta2)}

	v1 := dynamo.Vec3{X: l1 * omega1 * math.Cos(theta1), Y: l1 * omega1 * math.Sin(theta1)}
	v2 := dynamo.Vec3{X: v1.X + l2*omega2*math.Cos(theta2), Y: v1.Y + l2*omega2*math.Sin(theta2)}

	out.Time = t
	out.Positions = append(out.Positions[:0], p1, p2)
	out.Velocities = append(out.Velocities[:0], v1, v2)
}

func (d *DoublePendulum) Energy(x dynamo.State) dynamo.EnergyState {
	theta1, theta2, omega1, omega2 := x[0], x[1], x[2], x[3]
	m1, m2 := d.cfg.Mass1, d.cfg.Mass2
	l1, l2 := d.cfg.Length1, d.cfg.Length2
	g := d.cfg.Gravity

	v1sq := l1 * l1 * omega1 * omega1
	v2sq := v1sq + l2*l2*omega2*omega2 +
		2*l1*l2*omega1*omega2*math.Cos(theta1-theta2)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	// Referenced to both rods hanging straight down.
	pe := (m1+m2)*g*l1*(1-math.Cos(theta1)) + m2*g*l2*(1-math.Cos(theta2))

	return dynamo.EnergyState{Kinetic: ke, Potential: pe, Total: ke + pe}
}

func (d *DoublePendulum) PhasePoints(t float64, x dynamo.State, dst []dynamo.PhasePoint) []dynamo.PhasePoint {
	return append(dst[:0],
		dynamo.PhasePoint{Angle: x[0], Velocity: x[2], Time: t},
		dynamo.PhasePoint{Angle: x[1], Velocity: x[3], Time: t},
	)
}

func (d *DoublePendulum) Params() map[string]float64 {
	return map[string]float64{
		"mass1":   d.cfg.Mass1,
		"mass2":   d.cfg.Mass2,
		"length1": d.cfg.Length1,
		"length2": d.cfg.Length2,
		"gravity": d.cfg.Gravity,
		"damping": d.cfg.Damping,
	}
}
