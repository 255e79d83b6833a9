// Package cartpole implements the Cartpole classic control environment
package cartpole

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
	env "github.com/samuelfneumann/daxqn/environment"
	ts "github.com/samuelfneumann/daxqn/timestep"
	"github.com/samuelfneumann/daxqn/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnification of force applied
	Dt             float64 = 0.02 // seconds between state updates

	// Bounds (+/-) on state variables
	PositionBounds float64 = 4.8
	AngleBounds    float64 = math.Pi

	// Failure thresholds of the balance task
	FailPosition float64 = 2.4
	FailAngle    float64 = 12 * 2 * math.Pi / 360

	// Discrete Actions
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 2

	ObservationDims int = 4
)

// Cartpole implements the classic control environment Cartpole. In
// this environment, a pole is attached to a cart, which can move
// horizontally. The agent must keep the pole balanced upright for as
// long as possible. A reward of +1 is given on each step the pole
// stays up. The episode terminates with a discount of 0 when the pole
// falls past FailAngle or the cart leaves [-FailPosition, FailPosition],
// and is truncated when the Ender says so.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity.
//
// Actions are discrete and consist of the force applied to the cart:
//
//	Action	Meaning
//	  0		Accelerate left
//	  1		Do nothing
//	  2		Accelerate right
type Cartpole struct {
	env.Starter
	env.Ender
	lastStep       ts.TimeStep
	discount       float64
	positionBounds r1.Interval
	angleBounds    r1.Interval
}

// New constructs a new Cartpole environment. Reset must be called
// before stepping.
func New(s env.Starter, e env.Ender, discount float64) *Cartpole {
	return &Cartpole{
		Starter:        s,
		Ender:          e,
		discount:       discount,
		positionBounds: r1.Interval{Min: -PositionBounds, Max: PositionBounds},
		angleBounds:    r1.Interval{Min: -AngleBounds, Max: AngleBounds},
	}
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (c *Cartpole) Reset() (ts.TimeStep, error) {
	state := c.Start()
	if state.Len() != ObservationDims {
		return ts.TimeStep{}, fmt.Errorf("reset: invalid starting state "+
			"\n\twant(%v)\n\thave(%v)", ObservationDims, state.Len())
	}
	if x := state.AtVec(0); x < c.positionBounds.Min || x > c.positionBounds.Max {
		return ts.TimeStep{}, fmt.Errorf("reset: position %v not within "+
			"bounds %v", x, c.positionBounds)
	}

	c.lastStep = ts.New(ts.First, 0, c.discount, state, 0)
	return c.lastStep, nil
}

// ActionSpec returns the action specification of the environment
func (c *Cartpole) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{float64(MinDiscreteAction)})
	upperBound := mat.NewVecDense(1, []float64{float64(MaxDiscreteAction)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (c *Cartpole) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)

	lower := []float64{c.positionBounds.Min, -math.MaxFloat64,
		c.angleBounds.Min, -math.MaxFloat64}
	upper := []float64{c.positionBounds.Max, math.MaxFloat64,
		c.angleBounds.Max, math.MaxFloat64}

	return env.NewSpec(shape, env.Observation,
		mat.NewVecDense(ObservationDims, lower),
		mat.NewVecDense(ObservationDims, upper), env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (c *Cartpole) DiscountSpec() env.Spec {
	return env.NewDiscountSpec(c.discount)
}

// RewardSpec returns the reward specification of the environment
func (c *Cartpole) RewardSpec() env.Spec {
	return env.NewRewardSpec(0, 1)
}

// Step takes one environmental step given action a and returns the next
// state as a timestep.TimeStep and a bool indicating whether or not the
// episode has ended
func (c *Cartpole) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if c.lastStep.Observation == nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: environment must " +
			"be reset before stepping")
	}
	if c.lastStep.Last() {
		return ts.TimeStep{}, false, fmt.Errorf("step: episode has ended, " +
			"call reset")
	}

	// Ensure a legal action was selected
	action := int(a.AtVec(0))
	if action < MinDiscreteAction || action > MaxDiscreteAction {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %v "+
			"∉ (0, 1, 2)", action)
	}

	// Get state variables
	state := c.lastStep.Observation
	x, xDot := state.AtVec(0), state.AtVec(1)
	th, thDot := state.AtVec(2), state.AtVec(3)

	// Magnify the action force in the appropriate direction
	force := float64(action-1) * ForceMag

	// Calculate physical variables to determine next state
	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)

	totalMass := PoleMass + CartMass
	poleMassLength := PoleMass * HalfPoleLength

	temp := (force + poleMassLength*thDot*thDot*sinTheta) / totalMass
	thAcc := (Gravity*sinTheta - cosTheta*temp) / (HalfPoleLength *
		(4.0/3.0 - PoleMass*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thAcc*cosTheta/totalMass

	// Update state variables using Euler kinematic integration
	x += Dt * xDot
	x = floatutils.ClipInterval(x, c.positionBounds)
	xDot += Dt * xAcc
	th += Dt * thDot
	th = normalizeAngle(th)
	thDot += Dt * thAcc

	newState := mat.NewVecDense(ObservationDims, []float64{x, xDot, th, thDot})
	nextStep := ts.New(ts.Mid, 1.0, c.discount, newState,
		c.lastStep.Number+1)

	if math.Abs(x) > FailPosition || math.Abs(th) > FailAngle {
		nextStep.StepType = ts.Last
		nextStep.Discount = 0
	} else if c.Ender != nil {
		c.End(&nextStep)
	}

	c.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// Render draws the cart and pole onto dc
func (c *Cartpole) Render(dc *gg.Context) {
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if c.lastStep.Observation == nil {
		return
	}
	scale := w / (2 * PositionBounds)
	x := c.lastStep.Observation.AtVec(0)*scale + w/2
	th := c.lastStep.Observation.AtVec(2)
	track := h * 0.75

	// Track
	dc.SetRGB(0, 0, 0)
	dc.DrawLine(0, track, w, track)
	dc.SetLineWidth(1)
	dc.Stroke()

	// Cart
	cartW, cartH := w/8, h/10
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawRectangle(x-cartW/2, track-cartH/2, cartW, cartH)
	dc.Fill()

	// Pole
	poleLen := 2 * HalfPoleLength * scale
	dc.SetRGB(0.8, 0.6, 0.4)
	dc.SetLineWidth(math.Max(1, w/40))
	dc.DrawLine(x, track, x+poleLen*math.Sin(th), track-poleLen*math.Cos(th))
	dc.Stroke()
}

func (c *Cartpole) String() string {
	msg := "Cartpole  |  Position: %v  | Speed: %v  |  Angle: %v" +
		"  |  Angular Velocity: %v"

	state := c.lastStep.Observation
	if state == nil {
		return "Cartpole  |  not reset"
	}
	position, speed := state.AtVec(0), state.AtVec(1)
	angle, velocity := state.AtVec(2), state.AtVec(3)

	return fmt.Sprintf(msg, position, speed, angle, velocity)
}

// normalizeAngle wraps the pole angle into [-π, π)
func normalizeAngle(th float64) float64 {
	return math.Mod(math.Mod(th+math.Pi, 2*math.Pi)+2*math.Pi,
		2*math.Pi) - math.Pi
}
